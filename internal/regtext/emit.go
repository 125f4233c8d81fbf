package regtext

import (
	"io"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// RenderOptions controls Render.
type RenderOptions struct {
	// IncludeSubkeys renders every descendant after the key itself.
	IncludeSubkeys bool

	// Nested suppresses the banner; set for keys rendered inside a document.
	Nested bool

	// LineEnding terminates each line. Empty means LF.
	LineEnding string

	// OnSkip, when set, is told about each value that could not be encoded.
	// Such values are left out of the output.
	OnSkip func(path types.KeyPath, v types.ValueEntry, err error)
}

// Render writes key (and optionally its subtree) as .reg text.
//
// Values follow the key's value order. Children follow SortedChildren and
// each child block is preceded by a blank line.
func Render(w io.Writer, key *types.KeySection, opts RenderOptions) error {
	lw := &lineWriter{w: w, eol: opts.LineEnding}
	if lw.eol == "" {
		lw.eol = LF
	}
	if !opts.Nested {
		lw.line(RegFileHeader)
		lw.line("")
	}
	renderKey(lw, key, opts)
	return lw.err
}

func renderKey(lw *lineWriter, key *types.KeySection, opts RenderOptions) {
	lw.line(KeyOpenBracket + key.Path.String() + KeyCloseBracket)
	for _, v := range key.Values {
		line, err := ValueLine(v)
		if err != nil {
			if opts.OnSkip != nil {
				opts.OnSkip(key.Path, v, err)
			}
			continue
		}
		lw.line(line)
	}

	if !opts.IncludeSubkeys {
		return
	}
	for _, child := range key.SortedChildren() {
		lw.line("")
		renderKey(lw, child, opts)
	}
}

// ValueLine formats one value as `@=literal` or `"name"=literal`, wrapped
// when its type calls for it. Continuation markers use LF.
func ValueLine(v types.ValueEntry) (string, error) {
	if strings.ContainsAny(v.Name, CR+LF) {
		return "", unsupported(v.Name, "line break inside a value name")
	}
	lit, err := EncodeLiteral(v.Type, v.Data)
	if err != nil {
		return "", err
	}

	name := DefaultValueName
	if !v.IsDefault() {
		name = quoteRegString(v.Name)
	}
	line := name + ValueAssignment + lit
	if Wrappable(v.Type) {
		line = Wrap(line)
	}
	return line, nil
}

// lineWriter remembers the first write error so rendering code can ignore
// it until the end.
type lineWriter struct {
	w   io.Writer
	eol string
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	if lw.eol != LF {
		s = strings.ReplaceAll(s, LF, lw.eol)
	}
	_, lw.err = io.WriteString(lw.w, s+lw.eol)
}
