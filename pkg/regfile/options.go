package regfile

import (
	"runtime"

	"github.com/joshuapare/regkit/pkg/types"
)

// Diagnostic describes something left out of a parse, render or backup.
type Diagnostic struct {
	Path types.KeyPath // key the item belongs to
	Line int           // 1-based document line, 0 when not parsing
	Text string        // offending line, or the value/key as it would be written
	Err  error
}

// ParseOptions controls parsing.
type ParseOptions struct {
	// Workers bounds how many sections are decoded at once.
	// Values below 2 decode sequentially.
	Workers int

	// Encoding names the input encoding for ParseBytes and ParseFile, e.g.
	// "UTF-16LE" or "windows-1252". A byte order mark overrides it.
	// Default: "" (UTF-8)
	Encoding string

	// OnDiagnostic receives each dropped value line, in document order,
	// after decoding has finished.
	OnDiagnostic func(Diagnostic)
}

// DefaultParseOptions decodes sections on every available CPU.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Workers: runtime.GOMAXPROCS(0)}
}

// RenderOptions controls rendering.
type RenderOptions struct {
	// IncludeSubkeys renders every descendant of the key.
	IncludeSubkeys bool

	// LineEnding terminates each line.
	// Default: "\n"
	LineEnding string

	// Encoding for WriteFile and EncodeOutput.
	// Default: "UTF-8"
	Encoding string

	// WithBOM prefixes WriteFile output with a byte order mark
	// (UTF-8 and UTF-16LE only).
	WithBOM bool

	// OnSkip receives each value that could not be encoded and was left out.
	OnSkip func(Diagnostic)
}

// DefaultRenderOptions renders whole subtrees as LF-terminated UTF-8.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		IncludeSubkeys: true,
		LineEnding:     "\n",
		Encoding:       "UTF-8",
	}
}

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// OnError decides whether Restore continues after a failed key or value
	// write. Nil stops at the first failure.
	OnError func(Diagnostic) bool
}

// BackupOptions controls ReadTree and Backup.
type BackupOptions struct {
	// IncludeSubkeys walks the whole subtree below the starting key.
	IncludeSubkeys bool

	// OnSkip receives each value or subkey that could not be read.
	// The walk continues without it.
	OnSkip func(Diagnostic)

	// Render controls the text Backup produces. IncludeSubkeys is taken
	// from the field above.
	Render RenderOptions
}

// DefaultBackupOptions walks whole subtrees.
func DefaultBackupOptions() BackupOptions {
	return BackupOptions{IncludeSubkeys: true, Render: DefaultRenderOptions()}
}
