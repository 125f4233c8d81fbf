package regfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/types"
)

// RenderTree renders key, and its subtree when includeSubkeys is set, as a
// complete .reg document with LF line endings.
func RenderTree(key *types.KeySection, includeSubkeys bool) (string, error) {
	opts := DefaultRenderOptions()
	opts.IncludeSubkeys = includeSubkeys
	return RenderTreeWith(key, opts)
}

// RenderTreeWith renders key as a complete .reg document.
func RenderTreeWith(key *types.KeySection, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := regtext.Render(&b, key, textOptions(opts, false)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderDocument renders the keys of doc as one .reg document. Keys come
// out in tree order (parents before children, siblings by SortedChildren);
// keys only implied by deeper paths are not written.
func RenderDocument(doc *Document, opts RenderOptions) (string, error) {
	roots, err := BuildTree(doc)
	if err != nil {
		return "", err
	}

	present := make(map[string]bool, len(doc.Keys))
	for _, k := range doc.Keys {
		present[k.Path.Key()] = true
	}

	eol := opts.LineEnding
	if eol == "" {
		eol = regtext.LF
	}
	opts.IncludeSubkeys = false

	var b strings.Builder
	b.WriteString(regtext.RegFileHeader + eol)
	for _, root := range roots {
		root.Walk(func(k *types.KeySection) bool {
			if err != nil {
				return false
			}
			if !present[k.Path.Key()] {
				return true
			}
			b.WriteString(eol)
			err = regtext.Render(&b, k, textOptions(opts, true))
			return err == nil
		})
		if err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// EncodeOutput converts rendered text to bytes in the named encoding.
func EncodeOutput(text, encoding string, withBOM bool) ([]byte, error) {
	return regtext.EncodeOutput(text, encoding, withBOM)
}

// WriteFile writes rendered text to path using opts.Encoding and
// opts.WithBOM.
func WriteFile(path, text string, opts RenderOptions) error {
	data, err := EncodeOutput(text, opts.Encoding, opts.WithBOM)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write .reg file %s: %w", path, err)
	}
	return nil
}

func textOptions(opts RenderOptions, nested bool) regtext.RenderOptions {
	out := regtext.RenderOptions{
		IncludeSubkeys: opts.IncludeSubkeys,
		Nested:         nested,
		LineEnding:     opts.LineEnding,
	}
	if opts.OnSkip != nil {
		out.OnSkip = func(path types.KeyPath, v types.ValueEntry, err error) {
			opts.OnSkip(Diagnostic{Path: path, Text: valueLabel(v.Name), Err: err})
		}
	}
	return out
}

// valueLabel spells a value name the way a value line would.
func valueLabel(name string) string {
	if name == "" {
		return regtext.DefaultValueName
	}
	return `"` + name + `"`
}
