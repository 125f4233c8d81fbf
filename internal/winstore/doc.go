// Package winstore exposes the live Windows registry as a
// types.RegistryStore for the import and export commands.
//
// Values are written with their own kind where the registry API allows it.
// REG_UNKNOWN values are written as REG_SZ holding the raw literal, and
// REG_NONE writes are refused. When reading, kinds outside the closed set
// come back as REG_UNKNOWN carrying a hex(N): literal.
//
// On every other platform New returns ErrUnsupported.
package winstore
