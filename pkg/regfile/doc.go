/*
Package regfile reads and writes registry export (.reg) documents.

# Quick Start

Parse a document and look up a key:

	doc, err := regfile.ParseFile("backup.reg", nil)
	if err != nil {
	    log.Fatal(err)
	}
	path, _ := types.ParseKeyPath(`HKEY_CURRENT_USER\Software\MyApp`)
	if key, ok := doc.Lookup(path); ok {
	    for _, v := range key.Values {
	        fmt.Println(v.Name, v.Type)
	    }
	}

Render a key tree:

	text, err := regfile.RenderTree(key, true)

# Error Handling

A section header whose key path can't be parsed fails the whole parse with
types.ErrMalformedHeader, because every section after it would be cut at the
wrong place. A value line that can't be parsed only loses that line; pass
ParseOptions.OnDiagnostic to hear about it:

	opts := regfile.DefaultParseOptions()
	opts.OnDiagnostic = func(d regfile.Diagnostic) {
	    log.Printf("line %d dropped: %v", d.Line, d.Err)
	}
	doc, err := regfile.ParseDocument(text, &opts)

# Stores

Restore writes a parsed document into a types.RegistryStore, and Backup
walks a store back into .reg text. The codec itself never touches a store.
*/
package regfile
