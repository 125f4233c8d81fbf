package regtext

import (
	"strings"
	"unicode/utf8"

	"github.com/joshuapare/regkit/pkg/types"
)

// Wrappable reports whether lines of this type are wrapped when long.
// Quoted strings and DWORDs always stay on one line.
func Wrappable(t types.RegType) bool {
	switch t {
	case types.REG_BINARY, types.REG_MULTI_SZ, types.REG_EXPAND_SZ, types.REG_QWORD, types.REG_UNKNOWN:
		return true
	default:
		return false
	}
}

// Wrap splits a value line longer than WrapThreshold characters.
//
// The first break goes after the last comma at or before index
// WrapThreshold; the remainder follows in WrapChunkSize runs. Every break is
// a Continuation marker and nothing trails the final run. The search never
// enters the `name=` part of the line, so a literal without a usable comma
// is returned unchanged.
func Wrap(line string) string {
	runes := []rune(line)
	if len(runes) <= WrapThreshold {
		return line
	}

	floor := utf8.RuneCountInString(line[:literalStart(line)])
	cut := -1
	for i := WrapThreshold; i >= floor; i-- {
		if runes[i] == ',' {
			cut = i
			break
		}
	}
	if cut < 0 || cut == len(runes)-1 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + (len(runes)/WrapChunkSize+1)*len(Continuation))
	b.WriteString(string(runes[:cut+1]))
	for rest := runes[cut+1:]; len(rest) > 0; {
		n := min(WrapChunkSize, len(rest))
		b.WriteString(Continuation)
		b.WriteString(string(rest[:n]))
		rest = rest[n:]
	}
	return b.String()
}

// literalStart returns the byte offset just past `@=` or `"name"=`, or 0
// when line doesn't start with a value name.
func literalStart(line string) int {
	switch {
	case strings.HasPrefix(line, DefaultValuePrefix):
		return len(DefaultValuePrefix)
	case strings.HasPrefix(line, Quote):
		end := findClosingQuote(line)
		if end > 0 && strings.HasPrefix(line[end+1:], ValueAssignment) {
			return end + 1 + len(ValueAssignment)
		}
	}
	return 0
}

// Unwrap removes continuation markers: a backslash, an optional CR, a LF
// and the indentation that follows. Two-space indentation is removed
// exactly, so Unwrap(Wrap(x)) == x; any other run of spaces and tabs is
// removed whole. Text without markers is returned as is.
func Unwrap(text string) string {
	if !strings.Contains(text, LF) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '\\' {
			if j, ok := continuationEnd(text, i+1); ok {
				i = j
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// continuationEnd reports where a marker starting right after a backslash
// at pos-1 ends.
func continuationEnd(text string, pos int) (int, bool) {
	if pos < len(text) && text[pos] == '\r' {
		pos++
	}
	if pos >= len(text) || text[pos] != '\n' {
		return 0, false
	}
	pos++
	if strings.HasPrefix(text[pos:], ContinuationIndent) {
		return pos + len(ContinuationIndent), true
	}
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	return pos, true
}
