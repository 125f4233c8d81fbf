package regfile

import (
	"errors"
	"fmt"

	"github.com/joshuapare/regkit/internal/logger"
	"github.com/joshuapare/regkit/pkg/types"
)

// RestoreStats counts what Restore did.
type RestoreStats struct {
	Keys   int // keys opened or created
	Values int // values written
	Failed int // key or value writes that failed
}

// Restore writes every key and value of doc into store, in document order.
// Each key is opened (created if needed), its values set, then closed.
//
// Keys can't be created directly below HKEY_LOCAL_MACHINE or HKEY_USERS;
// a path there must start with an existing top-level key.
func Restore(store types.RegistryStore, doc *Document, opts *RestoreOptions) (RestoreStats, error) {
	var stats RestoreStats

	fail := func(d Diagnostic) error {
		stats.Failed++
		logger.Warn("restore failed", "key", d.Path.String(), "item", d.Text, "error", d.Err)
		if opts != nil && opts.OnError != nil && opts.OnError(d) {
			return nil
		}
		return fmt.Errorf("restore %s: %w", d.Text, d.Err)
	}

	for _, k := range doc.Keys {
		h, err := openForRestore(store, k.Path)
		if err != nil {
			if ferr := fail(Diagnostic{Path: k.Path, Text: headerLabel(k.Path), Err: err}); ferr != nil {
				return stats, ferr
			}
			continue
		}
		stats.Keys++

		for _, v := range k.Values {
			if err := store.SetValue(h, v); err != nil {
				if ferr := fail(Diagnostic{Path: k.Path, Text: valueLabel(v.Name), Err: err}); ferr != nil {
					_ = store.Close(h)
					return stats, ferr
				}
				continue
			}
			stats.Values++
		}

		if err := store.Close(h); err != nil {
			if ferr := fail(Diagnostic{Path: k.Path, Text: headerLabel(k.Path), Err: err}); ferr != nil {
				return stats, ferr
			}
		}
	}

	logger.Info("restored document", "keys", stats.Keys, "values", stats.Values, "failed", stats.Failed)
	return stats, nil
}

// openForRestore opens or creates path, refusing to invent a top-level
// key under the virtual roots.
func openForRestore(store types.RegistryStore, path types.KeyPath) (types.Handle, error) {
	if path.Hive == types.HiveLocalMachine || path.Hive == types.HiveUsers {
		top := types.KeyPath{Hive: path.Hive, Subpath: path.Segments()[0]}
		h, err := store.Open(top)
		if errors.Is(err, types.ErrNotFound) {
			return 0, &types.Error{
				Kind: types.ErrKindUnsupported,
				Msg:  "cannot create a key directly under " + path.Hive.String(),
				Text: top.String(),
			}
		}
		if err != nil {
			return 0, err
		}
		_ = store.Close(h)
	}
	return store.OpenOrCreate(path)
}

// ReadTree walks store from path into a KeySection tree.
//
// The starting key must exist. Values and subkeys that can't be read are
// reported through opts.OnSkip and left out.
func ReadTree(store types.RegistryStore, path types.KeyPath, opts *BackupOptions) (*types.KeySection, error) {
	o := resolveBackupOptions(opts)
	h, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return readKey(store, h, path, &o)
}

// readKey reads one key and (optionally) its subtree, closing h.
func readKey(store types.RegistryStore, h types.Handle, path types.KeyPath, o *BackupOptions) (*types.KeySection, error) {
	defer store.Close(h)

	key := &types.KeySection{Path: path}
	names, err := store.ValueNames(h)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		v, err := store.GetValue(h, name)
		if err != nil {
			o.skip(Diagnostic{Path: path, Text: valueLabel(name), Err: err})
			continue
		}
		key.Values = append(key.Values, v)
	}

	if !o.IncludeSubkeys {
		return key, nil
	}
	subkeys, err := store.Subkeys(h)
	if err != nil {
		return nil, err
	}
	for _, name := range subkeys {
		childPath := path.Child(name)
		ch, err := store.Open(childPath)
		if err != nil {
			o.skip(Diagnostic{Path: childPath, Text: headerLabel(childPath), Err: err})
			continue
		}
		child, err := readKey(store, ch, childPath, o)
		if err != nil {
			o.skip(Diagnostic{Path: childPath, Text: headerLabel(childPath), Err: err})
			continue
		}
		key.Children = append(key.Children, child)
	}
	return key, nil
}

// Backup reads the key named by pathText (and its subtree when
// opts.IncludeSubkeys is set) from store and renders it as .reg text.
// An unparseable path fails with ErrInvalidKeyPath.
func Backup(store types.RegistryStore, pathText string, opts *BackupOptions) (string, error) {
	o := resolveBackupOptions(opts)
	path, err := types.ParseKeyPath(pathText)
	if err != nil {
		return "", err
	}

	tree, err := ReadTree(store, path, &o)
	if err != nil {
		return "", err
	}

	ro := o.Render
	ro.IncludeSubkeys = o.IncludeSubkeys
	if ro.OnSkip == nil {
		ro.OnSkip = o.OnSkip
	}
	return RenderTreeWith(tree, ro)
}

// BackupFile runs Backup and writes the result to filePath.
func BackupFile(store types.RegistryStore, pathText, filePath string, opts *BackupOptions) error {
	o := resolveBackupOptions(opts)
	text, err := Backup(store, pathText, &o)
	if err != nil {
		return err
	}
	return WriteFile(filePath, text, o.Render)
}

func (o *BackupOptions) skip(d Diagnostic) {
	logger.Warn("backup skipped", "key", d.Path.String(), "item", d.Text, "error", d.Err)
	if o.OnSkip != nil {
		o.OnSkip(d)
	}
}

func resolveBackupOptions(opts *BackupOptions) BackupOptions {
	if opts == nil {
		return DefaultBackupOptions()
	}
	return *opts
}

func headerLabel(p types.KeyPath) string {
	return "[" + p.String() + "]"
}
