package regtext

const (
	// ============================================================================
	// .reg File Format Tokens
	// ============================================================================

	// RegFileHeader is the banner line written at the top of exported documents
	RegFileHeader = "Windows Registry Editor Version 5.00"

	// ============================================================================
	// Delimiters and Structural Tokens
	// ============================================================================

	// KeyOpenBracket marks the start of a registry key path
	KeyOpenBracket = "["

	// KeyCloseBracket marks the end of a registry key path
	KeyCloseBracket = "]"

	// ValueAssignment separates value names from their data
	ValueAssignment = "="

	// DefaultValueName is the spelling of the unnamed (default) value
	DefaultValueName = "@"

	// DefaultValuePrefix marks the default (unnamed) value
	DefaultValuePrefix = DefaultValueName + ValueAssignment

	// CommentPrefix marks a comment line
	CommentPrefix = ";"

	// TypeSeparator separates a literal's type prefix from its data
	TypeSeparator = ":"

	// ============================================================================
	// Quote and Escape Characters
	// ============================================================================

	// Quote is the double-quote character for value names and string data
	Quote = "\""

	// Backslash is used for escaping, path separators and line continuation
	Backslash = "\\"

	// EscapedQuote is the escaped double-quote sequence
	EscapedQuote = "\\\""

	// EscapedBackslash is the escaped backslash sequence
	EscapedBackslash = "\\\\"

	// ============================================================================
	// Line Endings
	// ============================================================================

	// CRLF is the Windows line ending (carriage return + line feed)
	CRLF = "\r\n"

	// CR is the carriage return character
	CR = "\r"

	// LF is the line feed character
	LF = "\n"

	// ============================================================================
	// Value Type Prefixes (lowercase; matched case-insensitively)
	// ============================================================================

	PrefixDWORD    = "dword"
	PrefixQWORD    = "hex(b)"
	PrefixBinary   = "hex"
	PrefixNone     = "hex(0)"
	PrefixExpandSZ = "hex(2)"
	PrefixMultiSZ  = "hex(7)"

	// ============================================================================
	// Hex Data Formatting
	// ============================================================================

	// HexByteSeparator separates bytes in hex data
	HexByteSeparator = ","

	// HexByteFormat is the format string for a single hex byte
	HexByteFormat = "%02x"

	// DWORDHexFormat is the format string for DWORD values (8 hex digits)
	DWORDHexFormat = "%08x"

	// QWORDSize is the number of bytes printed for a hex(b) value
	QWORDSize = 8

	// CharSeparator follows each character of a hex(2) string
	CharSeparator = ",00,"

	// ExpandSZTerminator closes a hex(2) string
	ExpandSZTerminator = ",00,00,00"

	// MultiSZSeparator separates the strings of a hex(7) list
	MultiSZSeparator = ",00,00,00,"

	// MultiSZTerminator closes a hex(7) list
	MultiSZTerminator = ",00,00,00,00,00"

	// MaxCharCode is the largest code point a hex(2)/hex(7) group can carry
	MaxCharCode = 0xFF

	// ============================================================================
	// Line Wrapping
	// ============================================================================

	// WrapThreshold is the longest value line (including the name= prefix)
	// written without continuation
	WrapThreshold = 79

	// WrapChunkSize is the length of each continuation run after the first line
	WrapChunkSize = 75

	// ContinuationIndent follows the line break in a continuation marker
	ContinuationIndent = "  "

	// Continuation is the marker placed at each wrap point
	Continuation = Backslash + LF + ContinuationIndent

	// ============================================================================
	// Encoding Names
	// ============================================================================

	// EncodingUTF8 is the identifier for UTF-8 encoding
	EncodingUTF8 = "UTF-8"

	// EncodingUTF16LE is the identifier for UTF-16 little-endian encoding
	EncodingUTF16LE = "UTF-16LE"

	// EncodingWindows1252 is the identifier for the Windows-1252 code page
	EncodingWindows1252 = "WINDOWS-1252"
)

var (
	// UTF16LEBOM is the byte order mark for UTF-16 little-endian
	UTF16LEBOM = []byte{0xFF, 0xFE}

	// UTF8BOM is the byte order mark for UTF-8
	UTF8BOM = []byte{0xEF, 0xBB, 0xBF}
)
