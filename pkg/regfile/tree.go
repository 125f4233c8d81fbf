package regfile

import (
	"slices"

	"github.com/joshuapare/regkit/pkg/types"
)

// BuildTree links the flat keys of doc into trees by path prefix.
//
// Keys implied by a deeper path but absent from the document are created
// empty. Roots are top-level keys (one subpath segment) in order of first
// appearance. Values are copied, so the trees don't alias doc.
func BuildTree(doc *Document) ([]*types.KeySection, error) {
	nodes := make(map[string]*types.KeySection)
	var roots []*types.KeySection

	var ensure func(p types.KeyPath) *types.KeySection
	ensure = func(p types.KeyPath) *types.KeySection {
		if n, ok := nodes[p.Key()]; ok {
			return n
		}
		n := &types.KeySection{Path: p}
		nodes[p.Key()] = n
		if parent, ok := p.Parent(); ok {
			pn := ensure(parent)
			pn.Children = append(pn.Children, n)
		} else {
			roots = append(roots, n)
		}
		return n
	}

	for _, k := range doc.Keys {
		if !k.Path.Valid() {
			return nil, &types.Error{Kind: types.ErrKindInvalidKeyPath, Msg: types.ErrInvalidKeyPath.Msg, Text: k.Path.String()}
		}
		n := ensure(k.Path)
		n.Values = append(n.Values, slices.Clone(k.Values)...)
	}
	return roots, nil
}

// Flatten lists every key of the given trees as a Document, depth-first in
// SortedChildren order. It is the inverse of BuildTree up to ordering.
func Flatten(roots ...*types.KeySection) *Document {
	doc := &Document{}
	for _, r := range roots {
		r.Walk(func(k *types.KeySection) bool {
			doc.Keys = append(doc.Keys, ParsedKey{Path: k.Path, Values: slices.Clone(k.Values)})
			return true
		})
	}
	return doc
}
