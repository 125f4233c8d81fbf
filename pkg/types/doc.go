// Package types defines the data model shared by the regkit codec, its
// public API and the registry store adapters.
//
// It covers:
//   - KeyPath and Hive: a parsed `HKEY_...\sub\path` reference.
//   - RegType, Payload and ValueEntry: one typed value; the Payload's
//     concrete type must match the RegType (see RegType.Accepts).
//   - KeySection: a key, its ordered values and the child keys it owns.
//   - RegistryStore: the capability a live or in-memory registry exposes.
//   - Typed errors with stable categories (header/value/path/type/...).
//
// All values are immutable once built; a new document version is a new tree.
//
// This package has no dependencies beyond the standard library.
package types
