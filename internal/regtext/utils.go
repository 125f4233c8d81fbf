package regtext

import (
	"strings"
)

// unescapeRegString unescapes a string from .reg format.
// .reg files escape backslashes as \\ and quotes as \"; any other backslash
// is kept literally.
func unescapeRegString(s string) string {
	// Fast path: no backslashes = no escapes (zero allocation)
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// escapeRegString escapes backslashes and quotes for .reg output.
func escapeRegString(s string) string {
	s = strings.ReplaceAll(s, Backslash, EscapedBackslash)
	s = strings.ReplaceAll(s, Quote, EscapedQuote)
	return s
}

// quoteRegString returns s escaped and wrapped in double quotes.
func quoteRegString(s string) string {
	return Quote + escapeRegString(s) + Quote
}

// findClosingQuote finds the position of the closing quote in a line,
// accounting for escaped quotes (preceded by an odd number of backslashes).
// Returns -1 if no valid closing quote is found.
// The search starts at position 1 (assuming the opening quote is at position 0).
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		// Count consecutive backslashes before this quote
		numBackslashes := 0
		for j := i - 1; j >= 1 && line[j] == '\\'; j-- {
			numBackslashes++
		}
		if numBackslashes%2 == 1 {
			continue // Escaped quote, keep looking
		}
		return i
	}
	return -1
}

// StripNoise deletes every character that is not an ASCII letter, digit or
// (when keepCommas is set) a comma. This collapses continuation backslashes,
// line breaks and indentation before a hex literal is decoded.
func StripNoise(s string, keepCommas bool) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if isNoise(s[i], keepCommas) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isNoise(s[i], keepCommas) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isNoise(c byte, keepCommas bool) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return false
	case c == ',':
		return !keepCommas
	default:
		return true
	}
}

// splitLines splits text on LF, dropping a trailing CR from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, LF)
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, CR)
	}
	return lines
}
