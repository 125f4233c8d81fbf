package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/regfile"
)

var (
	parseEncoding string
	parseStrict   bool
)

func init() {
	cmd := newParseCmd()
	cmd.Flags().StringVar(&parseEncoding, "encoding", "", "Input encoding when the file has no BOM (default UTF-8)")
	cmd.Flags().BoolVar(&parseStrict, "strict", false, "Fail if any value line was dropped")
	rootCmd.AddCommand(cmd)
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.reg>",
		Short: "Parse a .reg file and list its keys and values",
		Long: `The parse command reads a .reg file and prints every key with its
values. Lines that can't be decoded are reported and skipped.

Example:
  regkit parse settings.reg
  regkit parse settings.reg --json
  regkit parse legacy.reg --encoding windows-1252 --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args)
		},
	}
	return cmd
}

// ParsedValue is the JSON form of one value.
type ParsedValue struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Literal string `json:"literal,omitempty"`
}

// ParsedKeyInfo is the JSON form of one key.
type ParsedKeyInfo struct {
	Path   string        `json:"path"`
	Values []ParsedValue `json:"values"`
}

// DiagnosticInfo is the JSON form of a dropped line.
type DiagnosticInfo struct {
	Line  int    `json:"line"`
	Key   string `json:"key"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

func runParse(args []string) error {
	path := args[0]
	printVerbose("Parsing %s...\n", path)

	var diags []DiagnosticInfo
	opts := cfg.parseOptions(parseEncoding)
	opts.OnDiagnostic = func(d regfile.Diagnostic) {
		diags = append(diags, diagnosticInfo(d))
	}

	doc, err := regfile.ParseFile(path, &opts)
	if err != nil {
		return err
	}

	keys := make([]ParsedKeyInfo, 0, len(doc.Keys))
	for _, k := range doc.Keys {
		info := ParsedKeyInfo{Path: k.Path.String(), Values: make([]ParsedValue, 0, len(k.Values))}
		for _, v := range k.Values {
			lit, _ := regtext.EncodeLiteral(v.Type, v.Data)
			info.Values = append(info.Values, ParsedValue{Name: v.Name, Type: v.Type.String(), Literal: lit})
		}
		keys = append(keys, info)
	}

	if jsonOut {
		if err := printJSON(map[string]interface{}{
			"file":        path,
			"keys":        keys,
			"diagnostics": diags,
		}); err != nil {
			return err
		}
	} else {
		for _, k := range keys {
			printInfo("[%s]\n", k.Path)
			for _, v := range k.Values {
				name := v.Name
				if name == "" {
					name = "(Default)"
				}
				printInfo("  %-24s %-14s %s\n", name, v.Type, v.Literal)
			}
		}
		printInfo("\n%d keys, %d values\n", len(doc.Keys), doc.ValueCount())
		for _, d := range diags {
			printError("line %d: %s: %s\n", d.Line, d.Text, d.Error)
		}
	}

	if parseStrict && len(diags) > 0 {
		return fmt.Errorf("%d value line(s) could not be parsed", len(diags))
	}
	return nil
}

func diagnosticInfo(d regfile.Diagnostic) DiagnosticInfo {
	info := DiagnosticInfo{Line: d.Line, Key: d.Path.String(), Text: d.Text}
	if d.Err != nil {
		info.Error = d.Err.Error()
	}
	return info
}
