package regtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

var (
	errNotValueLine   = errors.New("expected @= or \"name\"=")
	errUnterminated   = errors.New("unterminated value name")
	errMissingAssign  = errors.New("missing '=' after value name")
	errEmptyValueName = errors.New("empty value name; use @ for the default value")
)

// LineError describes a value line that was dropped while parsing a body.
type LineError struct {
	Line int    // 1-based line number within the body
	Text string // the offending line, leading blanks removed
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// ParseValues extracts the value entries of one section body.
//
// A line that doesn't parse, or whose literal doesn't decode, is dropped
// and handed to report (when non-nil); the remaining lines are unaffected.
// Names compare case-insensitively and a repeated name replaces the earlier
// entry in place.
func ParseValues(body string, report func(LineError)) []types.ValueEntry {
	lines := splitLines(body)
	entries := make([]types.ValueEntry, 0, len(lines))
	index := make(map[string]int)

	drop := func(line int, text string, err error) {
		if report != nil {
			report(LineError{Line: line, Text: text, Err: err})
		}
	}

	for i := 0; i < len(lines); i++ {
		text := strings.TrimLeft(lines[i], " \t")
		if text == "" || strings.HasPrefix(text, CommentPrefix) {
			continue
		}
		lineNo := i + 1

		name, literal, err := splitValueLine(text)
		if err != nil {
			drop(lineNo, text, err)
			continue
		}

		if !strings.HasPrefix(strings.TrimSpace(literal), Quote) {
			parts := []string{strings.TrimRight(literal, " \t")}
			for strings.HasSuffix(parts[len(parts)-1], Backslash) && i+1 < len(lines) && isContinuation(lines[i+1]) {
				i++
				parts = append(parts, strings.TrimRight(lines[i], " \t"))
			}
			literal = Unwrap(strings.Join(parts, LF))
		}

		typ, data, err := DecodeLiteral(literal)
		if err != nil {
			drop(lineNo, text, err)
			continue
		}

		entry := types.ValueEntry{Name: name, Type: typ, Data: data}
		key := strings.ToLower(name)
		if pos, dup := index[key]; dup {
			entries[pos] = entry
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry)
	}
	return entries
}

// splitValueLine separates `@=literal` or `"name"=literal`.
func splitValueLine(s string) (name, literal string, err error) {
	if strings.HasPrefix(s, DefaultValuePrefix) {
		return "", s[len(DefaultValuePrefix):], nil
	}
	if !strings.HasPrefix(s, Quote) {
		return "", "", errNotValueLine
	}
	end := findClosingQuote(s)
	if end < 0 {
		return "", "", errUnterminated
	}
	if !strings.HasPrefix(s[end+1:], ValueAssignment) {
		return "", "", errMissingAssign
	}
	if end == 1 {
		return "", "", errEmptyValueName
	}
	return unescapeRegString(s[1:end]), s[end+1+len(ValueAssignment):], nil
}

// isContinuation reports whether a line can continue a wrapped literal.
// A line that starts a new value never does, even after a dangling `\`.
func isContinuation(line string) bool {
	t := strings.TrimLeft(line, " \t")
	return !strings.HasPrefix(t, Quote) && !strings.HasPrefix(t, DefaultValuePrefix)
}
