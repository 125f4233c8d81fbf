// Package memstore is an in-memory types.RegistryStore.
//
// Key paths and value names compare case-insensitively, values keep their
// insertion order and subkeys keep their creation order. It backs tests and
// the validate command, where no live registry is available.
package memstore

import (
	"slices"
	"strings"
	"sync"

	"github.com/joshuapare/regkit/pkg/types"
)

type node struct {
	path     types.KeyPath
	values   []types.ValueEntry
	children []string
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	keys    map[string]*node
	handles map[types.Handle]*node
	next    types.Handle
}

var _ types.RegistryStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		keys:    make(map[string]*node),
		handles: make(map[types.Handle]*node),
	}
}

func (s *Store) Open(path types.KeyPath) (types.Handle, error) {
	if !path.Valid() {
		return 0, invalidPath(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.keys[path.Key()]
	if !ok {
		return 0, notFound(path.String())
	}
	return s.handleFor(n), nil
}

func (s *Store) OpenOrCreate(path types.KeyPath) (types.Handle, error) {
	if !path.Valid() {
		return 0, invalidPath(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.handleFor(s.ensure(path)), nil
}

// ensure returns the node for path, creating it and any missing parents.
func (s *Store) ensure(path types.KeyPath) *node {
	if n, ok := s.keys[path.Key()]; ok {
		return n
	}
	n := &node{path: path}
	s.keys[path.Key()] = n
	if parent, ok := path.Parent(); ok {
		p := s.ensure(parent)
		p.children = append(p.children, path.Name())
	}
	return n
}

func (s *Store) handleFor(n *node) types.Handle {
	s.next++
	s.handles[s.next] = n
	return s.next
}

func (s *Store) lookup(h types.Handle) (*node, error) {
	n, ok := s.handles[h]
	if !ok {
		return nil, &types.Error{Kind: types.ErrKindNotFound, Msg: "unknown or closed handle"}
	}
	return n, nil
}

func (s *Store) SetValue(h types.Handle, v types.ValueEntry) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.lookup(h)
	if err != nil {
		return err
	}
	v = clone(v)
	for i := range n.values {
		if strings.EqualFold(n.values[i].Name, v.Name) {
			n.values[i] = v
			return nil
		}
	}
	n.values = append(n.values, v)
	return nil
}

func (s *Store) ValueNames(h types.Handle) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(n.values))
	for i, v := range n.values {
		names[i] = v.Name
	}
	return names, nil
}

func (s *Store) Subkeys(h types.Handle) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.children), nil
}

func (s *Store) GetValue(h types.Handle, name string) (types.ValueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.lookup(h)
	if err != nil {
		return types.ValueEntry{}, err
	}
	for _, v := range n.values {
		if strings.EqualFold(v.Name, name) {
			return clone(v), nil
		}
	}
	return types.ValueEntry{}, notFound(n.path.String() + `\` + name)
}

func (s *Store) Close(h types.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(h); err != nil {
		return err
	}
	delete(s.handles, h)
	return nil
}

// OpenHandles reports how many handles are outstanding.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// clone copies slice payloads so callers can't alias stored data.
func clone(v types.ValueEntry) types.ValueEntry {
	switch d := v.Data.(type) {
	case types.MultiStringData:
		v.Data = types.MultiStringData(slices.Clone([]string(d)))
	case types.BinaryData:
		v.Data = types.BinaryData(slices.Clone([]byte(d)))
	}
	return v
}

func notFound(text string) error {
	return &types.Error{Kind: types.ErrKindNotFound, Msg: types.ErrNotFound.Msg, Text: text}
}

func invalidPath(p types.KeyPath) error {
	return &types.Error{Kind: types.ErrKindInvalidKeyPath, Msg: types.ErrInvalidKeyPath.Msg, Text: p.String()}
}
