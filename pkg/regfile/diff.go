package regfile

import (
	"reflect"
	"sort"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/types"
)

// DiffStatus represents the diff state of an item.
type DiffStatus int

const (
	DiffUnchanged DiffStatus = iota // Item is identical on both sides
	DiffAdded                       // Item only in new
	DiffRemoved                     // Item only in old
	DiffModified                    // Item on both sides but changed
)

func (s DiffStatus) String() string {
	switch s {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// KeyDiff represents the differences for a single key.
type KeyDiff struct {
	Path       types.KeyPath
	Status     DiffStatus
	ValueDiffs []ValueDiff
}

// ValueDiff represents the difference for a single value. Old is nil for
// added values and New is nil for removed ones.
type ValueDiff struct {
	Name   string
	Status DiffStatus
	Old    *types.ValueEntry
	New    *types.ValueEntry
}

// DocumentDiff contains every changed key, ordered by path.
type DocumentDiff struct {
	KeyDiffs []KeyDiff
}

// Empty reports whether the documents were equivalent.
func (d *DocumentDiff) Empty() bool { return len(d.KeyDiffs) == 0 }

// Counts tallies value-level changes by status.
func (d *DocumentDiff) Counts() map[DiffStatus]int {
	counts := make(map[DiffStatus]int)
	for _, k := range d.KeyDiffs {
		for _, v := range k.ValueDiffs {
			counts[v.Status]++
		}
	}
	return counts
}

// Diff compares two documents key by key and value by value. Paths and
// names compare case-insensitively; values compare by type and payload.
func Diff(oldDoc, newDoc *Document) *DocumentDiff {
	oldKeys := indexKeys(oldDoc)
	newKeys := indexKeys(newDoc)

	all := make(map[string]types.KeyPath)
	for k, pk := range oldKeys {
		all[k] = pk.Path
	}
	for k, pk := range newKeys {
		all[k] = pk.Path
	}
	order := make([]string, 0, len(all))
	for k := range all {
		order = append(order, k)
	}
	sort.Strings(order)

	result := &DocumentDiff{}
	for _, k := range order {
		o, inOld := oldKeys[k]
		n, inNew := newKeys[k]
		switch {
		case !inOld:
			result.KeyDiffs = append(result.KeyDiffs, KeyDiff{Path: n.Path, Status: DiffAdded, ValueDiffs: diffValues(nil, n.Values)})
		case !inNew:
			result.KeyDiffs = append(result.KeyDiffs, KeyDiff{Path: o.Path, Status: DiffRemoved, ValueDiffs: diffValues(o.Values, nil)})
		default:
			if vd := diffValues(o.Values, n.Values); len(vd) > 0 {
				result.KeyDiffs = append(result.KeyDiffs, KeyDiff{Path: n.Path, Status: DiffModified, ValueDiffs: vd})
			}
		}
	}
	return result
}

func indexKeys(doc *Document) map[string]ParsedKey {
	m := make(map[string]ParsedKey)
	if doc == nil {
		return m
	}
	for _, k := range doc.Keys {
		m[k.Path.Key()] = k
	}
	return m
}

func diffValues(oldVals, newVals []types.ValueEntry) []ValueDiff {
	index := func(vals []types.ValueEntry) map[string]*types.ValueEntry {
		m := make(map[string]*types.ValueEntry, len(vals))
		for i := range vals {
			m[strings.ToLower(vals[i].Name)] = &vals[i]
		}
		return m
	}
	oldIdx, newIdx := index(oldVals), index(newVals)

	names := make(map[string]struct{})
	for k := range oldIdx {
		names[k] = struct{}{}
	}
	for k := range newIdx {
		names[k] = struct{}{}
	}
	order := make([]string, 0, len(names))
	for k := range names {
		order = append(order, k)
	}
	sort.Strings(order)

	var out []ValueDiff
	for _, k := range order {
		o, n := oldIdx[k], newIdx[k]
		switch {
		case o == nil:
			out = append(out, ValueDiff{Name: n.Name, Status: DiffAdded, New: n})
		case n == nil:
			out = append(out, ValueDiff{Name: o.Name, Status: DiffRemoved, Old: o})
		case !sameValue(*o, *n):
			out = append(out, ValueDiff{Name: n.Name, Status: DiffModified, Old: o, New: n})
		}
	}
	return out
}

// sameValue compares by encoded literal, so nil and empty payloads of the
// same type are equal.
func sameValue(a, b types.ValueEntry) bool {
	if a.Type != b.Type {
		return false
	}
	la, errA := regtext.EncodeLiteral(a.Type, a.Data)
	lb, errB := regtext.EncodeLiteral(b.Type, b.Data)
	if errA == nil && errB == nil {
		return la == lb
	}
	return reflect.DeepEqual(a.Data, b.Data)
}

// LineOp marks a line of a TextDiff.
type LineOp int

const (
	LineEqual LineOp = iota
	LineInsert
	LineDelete
)

// LineDiff is one line of a TextDiff.
type LineDiff struct {
	Op   LineOp
	Text string
}

// TextDiff compares two texts line by line.
func TextDiff(oldText, newText string) []LineDiff {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []LineDiff
	for _, d := range diffs {
		op := LineEqual
		switch d.Type {
		case diffpatch.DiffInsert:
			op = LineInsert
		case diffpatch.DiffDelete:
			op = LineDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, LineDiff{Op: op, Text: strings.TrimRight(line, "\r\n")})
		}
	}
	return out
}
