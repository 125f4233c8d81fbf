package types

import (
	"fmt"
	"strconv"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMalformedHeader ErrKind = iota // bad bracketed section header (fatal for a parse)
	ErrKindMalformedValue                 // bad value line or literal (recovered per line)
	ErrKindInvalidKeyPath                 // missing/unknown hive or blank subpath
	ErrKindType                           // payload shape doesn't match the value RegType
	ErrKindNotFound                       // missing key/value in a store
	ErrKindUnsupported                    // valid input the codec can't represent
	ErrKindEncoding                       // unknown or undecodable text encoding
)

// Error is a typed error with an optional underlying cause.
//
// Text carries the offending raw input (header, path or literal) so fatal
// errors identify what failed to parse.
type Error struct {
	Kind ErrKind
	Msg  string
	Text string // optional raw text that triggered the error
	Err  error  // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Text != "" {
		msg += " " + strconv.Quote(e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrInvalidKeyPath) matches any invalid path error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrMalformedHeader indicates a section header whose path can't be parsed.
	ErrMalformedHeader = &Error{Kind: ErrKindMalformedHeader, Msg: "malformed section header"}
	// ErrMalformedValueLine indicates a value line or literal that can't be decoded.
	ErrMalformedValueLine = &Error{Kind: ErrKindMalformedValue, Msg: "malformed value line"}
	// ErrInvalidKeyPath indicates a key path with a missing hive or subpath.
	ErrInvalidKeyPath = &Error{Kind: ErrKindInvalidKeyPath, Msg: "invalid registry key path"}
	// ErrTypeMismatch indicates the payload doesn't match the value type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "registry value has different type"}
	// ErrNotFound indicates a missing key/value.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported"}
	// ErrEncoding indicates an unknown or undecodable text encoding.
	ErrEncoding = &Error{Kind: ErrKindEncoding, Msg: "unsupported text encoding"}
)

// -----------------------------------------------------------------------------
// Value Types
// -----------------------------------------------------------------------------

// RegType enumerates the registry value types the codec understands.
// (The numbers align with Windows definitions.) Anything outside this closed
// set is carried as REG_UNKNOWN.
type RegType uint32

const (
	REG_NONE      RegType = 0
	REG_SZ        RegType = 1
	REG_EXPAND_SZ RegType = 2
	REG_BINARY    RegType = 3
	REG_DWORD     RegType = 4
	REG_MULTI_SZ  RegType = 7
	REG_QWORD     RegType = 11

	// REG_UNKNOWN marks kinds kept as raw text with no type-specific transform.
	REG_UNKNOWN RegType = 0xFFFFFFFF
)

// String implements the Stringer interface for RegType
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_QWORD:
		return "REG_QWORD"
	case REG_UNKNOWN:
		return "REG_UNKNOWN"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// Normalize folds any type outside the closed set into REG_UNKNOWN.
func (t RegType) Normalize() RegType {
	switch t {
	case REG_NONE, REG_SZ, REG_EXPAND_SZ, REG_BINARY, REG_DWORD, REG_MULTI_SZ, REG_QWORD:
		return t
	default:
		return REG_UNKNOWN
	}
}

// Accepts reports whether p has the runtime shape required by t.
func (t RegType) Accepts(p Payload) bool {
	switch p.(type) {
	case StringData:
		return t == REG_SZ || t == REG_EXPAND_SZ || t == REG_UNKNOWN
	case MultiStringData:
		return t == REG_MULTI_SZ
	case DWordData:
		return t == REG_DWORD
	case QWordData:
		return t == REG_QWORD
	case BinaryData:
		return t == REG_BINARY || t == REG_NONE
	default:
		return false
	}
}

// Payload is the typed data carried by a ValueEntry. The concrete type is
// one of StringData, MultiStringData, DWordData, QWordData or BinaryData.
type Payload interface{ isPayload() }

type (
	StringData      string
	MultiStringData []string
	DWordData       uint32
	QWordData       uint64
	BinaryData      []byte
)

func (StringData) isPayload()      {}
func (MultiStringData) isPayload() {}
func (DWordData) isPayload()       {}
func (QWordData) isPayload()       {}
func (BinaryData) isPayload()      {}

// -----------------------------------------------------------------------------
// Registry store capability
// -----------------------------------------------------------------------------

// Handle is a small, copyable reference to an open key inside a RegistryStore.
type Handle uint32

// RegistryStore is the capability a live (or fake) registry exposes to the
// backup/restore walkers. The codec itself never depends on it.
type RegistryStore interface {
	// Open opens an existing key. Returns ErrNotFound if it doesn't exist.
	Open(path KeyPath) (Handle, error)

	// OpenOrCreate opens a key, creating it and any missing parents.
	OpenOrCreate(path KeyPath) (Handle, error)

	// SetValue writes (or overwrites) a value under the key.
	SetValue(h Handle, v ValueEntry) error

	// ValueNames lists the value names of the key ("" is the default value).
	ValueNames(h Handle) ([]string, error)

	// Subkeys lists the names of the direct child keys.
	Subkeys(h Handle) ([]string, error)

	// GetValue returns the kind and data of a named value.
	GetValue(h Handle, name string) (ValueEntry, error)

	// Close releases the handle.
	Close(h Handle) error
}
