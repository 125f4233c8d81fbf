package regtext

import (
	"fmt"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// Section is one key's slice of a document: its header and the raw lines
// below it, up to the next header.
type Section struct {
	Path   types.KeyPath
	Header string // header line as first written, brackets included
	Body   string // LF-joined body lines, CRs removed
	Line   int    // 1-based line number of the first header

	lines []int // document line of each body line
}

// DocLine maps a 1-based body line number back to its document line.
func (s Section) DocLine(bodyLine int) int {
	if bodyLine < 1 || bodyLine > len(s.lines) {
		return 0
	}
	return s.lines[bodyLine-1]
}

// SplitSections cuts a document into sections at each `[path]` line.
//
// Lines before the first header (banner, comments, blanks) are ignored.
// Repeated headers for the same key are merged into the first section in
// document order. A header whose path doesn't parse aborts the split with
// ErrMalformedHeader naming the header text.
func SplitSections(text string) ([]Section, error) {
	var (
		sections []Section
		index    = make(map[string]int)
		cur      = -1
		body     []string
		bodyNos  []int
	)

	flush := func() {
		if cur >= 0 && len(body) > 0 {
			s := &sections[cur]
			joined := strings.Join(body, LF)
			if len(s.lines) == 0 {
				s.Body = joined
			} else {
				s.Body += LF + joined
			}
			s.lines = append(s.lines, bodyNos...)
		}
		body, bodyNos = body[:0], bodyNos[:0]
	}

	for i, line := range splitLines(text) {
		inner, ok := headerText(line)
		if !ok {
			if cur >= 0 {
				body = append(body, line)
				bodyNos = append(bodyNos, i+1)
			}
			continue
		}
		flush()

		path, err := types.ParseKeyPath(inner)
		if err != nil {
			return nil, &types.Error{
				Kind: types.ErrKindMalformedHeader,
				Msg:  fmt.Sprintf("%s at line %d", types.ErrMalformedHeader.Msg, i+1),
				Text: strings.TrimSpace(line),
				Err:  err,
			}
		}

		if idx, seen := index[path.Key()]; seen {
			cur = idx
			continue
		}
		sections = append(sections, Section{Path: path, Header: strings.TrimSpace(line), Line: i + 1})
		cur = len(sections) - 1
		index[path.Key()] = cur
	}
	flush()

	return sections, nil
}

// headerText returns the bracket content of a `[...]` line. The content
// must be non-empty and free of `]`; trailing blanks are tolerated.
func headerText(line string) (string, bool) {
	t := strings.TrimRight(line, " \t")
	if len(t) < 3 || !strings.HasPrefix(t, KeyOpenBracket) || !strings.HasSuffix(t, KeyCloseBracket) {
		return "", false
	}
	inner := t[1 : len(t)-1]
	if strings.Contains(inner, KeyCloseBracket) {
		return "", false
	}
	return inner, true
}
