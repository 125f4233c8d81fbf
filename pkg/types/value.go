package types

import (
	"sort"
	"strings"
)

// ValueEntry is one named, typed datum under a key. An empty Name is the
// key's default value, spelled `@` in .reg text.
type ValueEntry struct {
	Name string
	Type RegType
	Data Payload
}

// Validate reports ErrTypeMismatch when Data doesn't have the shape Type
// requires.
func (v ValueEntry) Validate() error {
	if !v.Type.Accepts(v.Data) {
		return &Error{Kind: ErrKindType, Msg: ErrTypeMismatch.Msg, Text: v.Name + " (" + v.Type.String() + ")"}
	}
	return nil
}

// IsDefault reports whether v is the key's unnamed value.
func (v ValueEntry) IsDefault() bool { return v.Name == "" }

func NewString(name, s string) ValueEntry {
	return ValueEntry{Name: name, Type: REG_SZ, Data: StringData(s)}
}

func NewExpandString(name, s string) ValueEntry {
	return ValueEntry{Name: name, Type: REG_EXPAND_SZ, Data: StringData(s)}
}

func NewMultiString(name string, ss ...string) ValueEntry {
	return ValueEntry{Name: name, Type: REG_MULTI_SZ, Data: MultiStringData(ss)}
}

func NewDWord(name string, n uint32) ValueEntry {
	return ValueEntry{Name: name, Type: REG_DWORD, Data: DWordData(n)}
}

func NewQWord(name string, n uint64) ValueEntry {
	return ValueEntry{Name: name, Type: REG_QWORD, Data: QWordData(n)}
}

func NewBinary(name string, b []byte) ValueEntry {
	return ValueEntry{Name: name, Type: REG_BINARY, Data: BinaryData(b)}
}

func NewNone(name string, b []byte) ValueEntry {
	return ValueEntry{Name: name, Type: REG_NONE, Data: BinaryData(b)}
}

// NewUnknown wraps a literal whose type prefix the codec doesn't recognize.
func NewUnknown(name, raw string) ValueEntry {
	return ValueEntry{Name: name, Type: REG_UNKNOWN, Data: StringData(raw)}
}

// KeySection is one key with its values and the child keys it owns.
// Values keep their order; names are unique case-insensitively.
type KeySection struct {
	Path     KeyPath
	Values   []ValueEntry
	Children []*KeySection
}

// Value looks up a value by name (case-insensitive).
func (k *KeySection) Value(name string) (ValueEntry, bool) {
	for _, v := range k.Values {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return ValueEntry{}, false
}

// Child looks up a direct child by key name (case-insensitive).
func (k *KeySection) Child(name string) *KeySection {
	for _, c := range k.Children {
		if strings.EqualFold(c.Path.Name(), name) {
			return c
		}
	}
	return nil
}

// SortedChildren returns the children ordered case-insensitively by name,
// ties broken by byte order, so rendering is reproducible.
func (k *KeySection) SortedChildren() []*KeySection {
	out := make([]*KeySection, len(k.Children))
	copy(out, k.Children)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := out[i].Path.Name(), out[j].Path.Name()
		li, lj := strings.ToLower(ni), strings.ToLower(nj)
		if li != lj {
			return li < lj
		}
		return ni < nj
	})
	return out
}

// Walk visits k and every descendant depth-first in SortedChildren order.
// Returning false from fn skips that key's children.
func (k *KeySection) Walk(fn func(*KeySection) bool) {
	if !fn(k) {
		return
	}
	for _, c := range k.SortedChildren() {
		c.Walk(fn)
	}
}
