//go:build windows

package winstore

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/types"
)

var roots = map[types.Hive]registry.Key{
	types.HiveLocalMachine:  registry.LOCAL_MACHINE,
	types.HiveCurrentUser:   registry.CURRENT_USER,
	types.HiveUsers:         registry.USERS,
	types.HiveClassesRoot:   registry.CLASSES_ROOT,
	types.HiveCurrentConfig: registry.CURRENT_CONFIG,
}

type openKey struct {
	key  registry.Key
	path types.KeyPath
}

// Store is a types.RegistryStore over the live registry. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	handles map[types.Handle]openKey
	next    types.Handle
}

var _ types.RegistryStore = (*Store)(nil)

// New returns a store over the registry of the current machine.
func New() (types.RegistryStore, error) {
	return &Store{handles: make(map[types.Handle]openKey)}, nil
}

func (s *Store) Open(path types.KeyPath) (types.Handle, error) {
	root, err := rootOf(path)
	if err != nil {
		return 0, err
	}
	k, err := registry.OpenKey(root, path.Subpath, registry.READ)
	if err != nil {
		return 0, keyError(path, err)
	}
	return s.track(k, path), nil
}

func (s *Store) OpenOrCreate(path types.KeyPath) (types.Handle, error) {
	root, err := rootOf(path)
	if err != nil {
		return 0, err
	}
	k, _, err := registry.CreateKey(root, path.Subpath, registry.READ|registry.SET_VALUE)
	if err != nil {
		return 0, keyError(path, err)
	}
	return s.track(k, path), nil
}

func (s *Store) SetValue(h types.Handle, v types.ValueEntry) error {
	if err := v.Validate(); err != nil {
		return err
	}
	ref, err := s.lookup(h)
	if err != nil {
		return err
	}
	k := ref.key

	switch v.Type {
	case types.REG_SZ, types.REG_UNKNOWN:
		err = k.SetStringValue(v.Name, string(v.Data.(types.StringData)))
	case types.REG_EXPAND_SZ:
		err = k.SetExpandStringValue(v.Name, string(v.Data.(types.StringData)))
	case types.REG_MULTI_SZ:
		err = k.SetStringsValue(v.Name, []string(v.Data.(types.MultiStringData)))
	case types.REG_DWORD:
		err = k.SetDWordValue(v.Name, uint32(v.Data.(types.DWordData)))
	case types.REG_QWORD:
		err = k.SetQWordValue(v.Name, uint64(v.Data.(types.QWordData)))
	case types.REG_BINARY:
		err = k.SetBinaryValue(v.Name, []byte(v.Data.(types.BinaryData)))
	default:
		return &types.Error{Kind: types.ErrKindUnsupported, Msg: types.ErrUnsupported.Msg + ": cannot write " + v.Type.String(), Text: v.Name}
	}
	if err != nil {
		return fmt.Errorf("set %s\\%s: %w", ref.path, v.Name, err)
	}
	return nil
}

func (s *Store) ValueNames(h types.Handle) ([]string, error) {
	ref, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	names, err := ref.key.ReadValueNames(-1)
	if err != nil {
		return nil, fmt.Errorf("list values of %s: %w", ref.path, err)
	}
	return names, nil
}

func (s *Store) Subkeys(h types.Handle) ([]string, error) {
	ref, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	names, err := ref.key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("list subkeys of %s: %w", ref.path, err)
	}
	return names, nil
}

func (s *Store) GetValue(h types.Handle, name string) (types.ValueEntry, error) {
	ref, err := s.lookup(h)
	if err != nil {
		return types.ValueEntry{}, err
	}
	v, err := readValue(ref.key, name)
	if err != nil {
		return types.ValueEntry{}, valueError(ref.path, name, err)
	}
	return v, nil
}

func (s *Store) Close(h types.Handle) error {
	s.mu.Lock()
	ref, found := s.handles[h]
	delete(s.handles, h)
	s.mu.Unlock()

	if !found {
		return &types.Error{Kind: types.ErrKindNotFound, Msg: "unknown or closed handle"}
	}
	return ref.key.Close()
}

func (s *Store) track(k registry.Key, path types.KeyPath) types.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.handles[s.next] = openKey{key: k, path: path}
	return s.next
}

func (s *Store) lookup(h types.Handle) (openKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, found := s.handles[h]
	if !found {
		return openKey{}, &types.Error{Kind: types.ErrKindNotFound, Msg: "unknown or closed handle"}
	}
	return ref, nil
}

// readValue reads one value using the typed getter for its kind.
func readValue(k registry.Key, name string) (types.ValueEntry, error) {
	_, kind, err := k.GetValue(name, nil)
	if err != nil {
		return types.ValueEntry{}, err
	}

	switch kind {
	case registry.SZ:
		s, _, err := k.GetStringValue(name)
		return types.NewString(name, s), err
	case registry.EXPAND_SZ:
		s, _, err := k.GetStringValue(name)
		return types.NewExpandString(name, s), err
	case registry.MULTI_SZ:
		ss, _, err := k.GetStringsValue(name)
		return types.NewMultiString(name, ss...), err
	case registry.DWORD:
		n, _, err := k.GetIntegerValue(name)
		return types.NewDWord(name, uint32(n)), err
	case registry.QWORD:
		n, _, err := k.GetIntegerValue(name)
		return types.NewQWord(name, n), err
	case registry.BINARY:
		b, _, err := k.GetBinaryValue(name)
		return types.NewBinary(name, b), err
	}

	data, err := rawValue(k, name)
	if err != nil {
		return types.ValueEntry{}, err
	}
	if kind == registry.NONE {
		return types.NewNone(name, data), nil
	}
	return types.NewUnknown(name, regtext.RawLiteral(kind, data)), nil
}

// rawValue reads the bytes of a value regardless of its kind.
func rawValue(k registry.Key, name string) ([]byte, error) {
	size := 64
	for {
		buf := make([]byte, size)
		n, _, err := k.GetValue(name, buf)
		if errors.Is(err, registry.ErrShortBuffer) {
			size = n
			continue
		}
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
}

func rootOf(path types.KeyPath) (registry.Key, error) {
	root, ok := roots[path.Hive]
	if !ok || !path.Valid() {
		return 0, &types.Error{Kind: types.ErrKindInvalidKeyPath, Msg: types.ErrInvalidKeyPath.Msg, Text: path.String()}
	}
	return root, nil
}

func keyError(path types.KeyPath, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return &types.Error{Kind: types.ErrKindNotFound, Msg: types.ErrNotFound.Msg, Text: path.String(), Err: err}
	}
	return fmt.Errorf("open %s: %w", path, err)
}

func valueError(path types.KeyPath, name string, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return &types.Error{Kind: types.ErrKindNotFound, Msg: types.ErrNotFound.Msg, Text: path.String() + `\` + name, Err: err}
	}
	return fmt.Errorf("read %s\\%s: %w", path, name, err)
}
