package types

import "strings"

// Hive identifies a registry root.
type Hive uint8

const (
	HiveInvalid Hive = iota
	HiveLocalMachine
	HiveCurrentUser
	HiveUsers
	HiveClassesRoot
	HiveCurrentConfig
)

// computerPrefix is the pseudo-root regedit shows in its address bar.
const computerPrefix = "COMPUTER"

var hiveNames = map[Hive][2]string{
	HiveLocalMachine:  {"HKEY_LOCAL_MACHINE", "HKLM"},
	HiveCurrentUser:   {"HKEY_CURRENT_USER", "HKCU"},
	HiveUsers:         {"HKEY_USERS", "HKU"},
	HiveClassesRoot:   {"HKEY_CLASSES_ROOT", "HKCR"},
	HiveCurrentConfig: {"HKEY_CURRENT_CONFIG", "HKCC"},
}

// String returns the long root name, e.g. HKEY_LOCAL_MACHINE.
func (h Hive) String() string {
	if n, ok := hiveNames[h]; ok {
		return n[0]
	}
	return "INVALID_HIVE"
}

// ShortName returns the abbreviated root name, e.g. HKLM.
func (h Hive) ShortName() string {
	if n, ok := hiveNames[h]; ok {
		return n[1]
	}
	return ""
}

// Valid reports whether h names a known root.
func (h Hive) Valid() bool {
	_, ok := hiveNames[h]
	return ok
}

// ParseHive resolves a long or short root token (case-insensitive).
func ParseHive(token string) (Hive, bool) {
	upper := strings.ToUpper(strings.TrimSpace(token))
	for h, n := range hiveNames {
		if upper == n[0] || upper == n[1] {
			return h, true
		}
	}
	return HiveInvalid, false
}

// KeyPath identifies one key: a hive plus a non-empty backslash-separated
// subpath.
type KeyPath struct {
	Hive    Hive
	Subpath string
}

// ParseKeyPath parses text like `HKEY_CURRENT_USER\Software\Test`.
//
// A `COMPUTER\` wrapper is stripped and the remainder resolved again. A path
// with an unknown hive, no subpath or a blank subpath yields ErrInvalidKeyPath
// carrying the original text.
func ParseKeyPath(text string) (KeyPath, error) {
	p, ok := parseKeyPath(strings.TrimSpace(text))
	if !ok {
		return KeyPath{}, &Error{Kind: ErrKindInvalidKeyPath, Msg: ErrInvalidKeyPath.Msg, Text: text}
	}
	return p, nil
}

func parseKeyPath(s string) (KeyPath, bool) {
	root, rest, found := strings.Cut(s, `\`)
	if !found {
		return KeyPath{}, false
	}
	if strings.EqualFold(strings.TrimSpace(root), computerPrefix) {
		return parseKeyPath(rest)
	}
	hive, ok := ParseHive(root)
	if !ok {
		return KeyPath{}, false
	}
	sub := strings.Trim(rest, `\`)
	if strings.TrimSpace(sub) == "" {
		return KeyPath{}, false
	}
	return KeyPath{Hive: hive, Subpath: sub}, true
}

// String renders the full path with the long hive name.
func (p KeyPath) String() string {
	return p.Hive.String() + `\` + p.Subpath
}

// Valid reports whether p satisfies the KeyPath invariants.
func (p KeyPath) Valid() bool {
	return p.Hive.Valid() && strings.TrimSpace(p.Subpath) != ""
}

// Key returns a normalized form suitable for map keys; registry paths are
// case-insensitive.
func (p KeyPath) Key() string {
	return strings.ToLower(p.String())
}

// Equal compares two paths case-insensitively.
func (p KeyPath) Equal(o KeyPath) bool {
	return p.Hive == o.Hive && strings.EqualFold(p.Subpath, o.Subpath)
}

// Name returns the last path segment.
func (p KeyPath) Name() string {
	if i := strings.LastIndex(p.Subpath, `\`); i >= 0 {
		return p.Subpath[i+1:]
	}
	return p.Subpath
}

// Parent returns the enclosing key. ok is false for a top-level subpath,
// whose parent would be the bare hive.
func (p KeyPath) Parent() (parent KeyPath, ok bool) {
	i := strings.LastIndex(p.Subpath, `\`)
	if i < 0 {
		return KeyPath{}, false
	}
	return KeyPath{Hive: p.Hive, Subpath: p.Subpath[:i]}, true
}

// Child returns the path of the named direct subkey.
func (p KeyPath) Child(name string) KeyPath {
	return KeyPath{Hive: p.Hive, Subpath: p.Subpath + `\` + name}
}

// Segments splits the subpath into key names.
func (p KeyPath) Segments() []string {
	return strings.Split(p.Subpath, `\`)
}
