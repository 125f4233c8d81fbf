package regfile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/regkit/internal/logger"
	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/types"
)

// ParsedKey is one key of a parsed document with its values in file order.
type ParsedKey struct {
	Path   types.KeyPath
	Values []types.ValueEntry
}

// Document is the flat result of a parse: one entry per distinct key path,
// in order of first appearance. Hierarchy is not linked; see BuildTree.
type Document struct {
	Keys []ParsedKey
}

// Lookup finds a key by path (case-insensitive).
func (d *Document) Lookup(path types.KeyPath) (ParsedKey, bool) {
	for _, k := range d.Keys {
		if k.Path.Equal(path) {
			return k, true
		}
	}
	return ParsedKey{}, false
}

// ValueCount returns the number of values across all keys.
func (d *Document) ValueCount() int {
	n := 0
	for _, k := range d.Keys {
		n += len(k.Values)
	}
	return n
}

// ParseFile reads and parses a .reg file.
func ParseFile(path string, opts *ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read .reg file %s: %w", path, err)
	}
	return ParseBytes(data, opts)
}

// ParseBytes decodes the input encoding, then parses the text.
func ParseBytes(data []byte, opts *ParseOptions) (*Document, error) {
	o := resolveParseOptions(opts)
	text, err := regtext.DecodeInput(data, o.Encoding)
	if err != nil {
		return nil, err
	}
	return ParseDocument(text, &o)
}

// ParseDocument parses .reg text.
func ParseDocument(text string, opts *ParseOptions) (*Document, error) {
	return ParseDocumentContext(context.Background(), text, opts)
}

// ParseDocumentContext parses .reg text, stopping early if ctx is canceled.
//
// Sections are decoded independently, concurrently when opts.Workers > 1.
// Results are placed by section index, so key order, value order and
// last-occurrence-wins all follow the text regardless of scheduling.
func ParseDocumentContext(ctx context.Context, text string, opts *ParseOptions) (*Document, error) {
	o := resolveParseOptions(opts)

	sections, err := regtext.SplitSections(text)
	if err != nil {
		return nil, err
	}

	doc := &Document{Keys: make([]ParsedKey, len(sections))}
	diags := make([][]Diagnostic, len(sections))

	decode := func(i int) {
		s := sections[i]
		values := regtext.ParseValues(s.Body, func(e regtext.LineError) {
			diags[i] = append(diags[i], Diagnostic{
				Path: s.Path,
				Line: s.DocLine(e.Line),
				Text: e.Text,
				Err:  e.Err,
			})
		})
		doc.Keys[i] = ParsedKey{Path: s.Path, Values: values}
	}

	if o.Workers < 2 || len(sections) < 2 {
		for i := range sections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			decode(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.Workers)
		for i := range sections {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				decode(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	dropped := reportDiagnostics(diags, o.OnDiagnostic)
	logger.Debug("parsed document", "keys", len(doc.Keys), "values", doc.ValueCount(), "dropped", dropped)
	return doc, nil
}

// reportDiagnostics delivers per-section diagnostics sorted by document
// line and returns how many there were.
func reportDiagnostics(perSection [][]Diagnostic, fn func(Diagnostic)) int {
	var all []Diagnostic
	for _, ds := range perSection {
		all = append(all, ds...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Line < all[j].Line })
	for _, d := range all {
		logger.Warn("dropped value line", "key", d.Path.String(), "line", d.Line, "error", d.Err)
		if fn != nil {
			fn(d)
		}
	}
	return len(all)
}

func resolveParseOptions(opts *ParseOptions) ParseOptions {
	if opts == nil {
		return DefaultParseOptions()
	}
	return *opts
}
