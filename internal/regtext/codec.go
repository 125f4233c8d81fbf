package regtext

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

var (
	errUnterminatedString = errors.New("unterminated string literal")
	errMissingPrefix      = errors.New("literal is neither quoted nor prefix:data")
	errEmptyNumber        = errors.New("missing hex digits")
)

// DecodeLiteral parses the text to the right of `name=` into a typed payload.
//
// A quoted literal is a REG_SZ. Otherwise the text before the first colon
// selects the type (case-insensitive); unrecognized prefixes are kept
// verbatim as REG_UNKNOWN. Continuation backslashes and whitespace inside
// hex data are ignored.
func DecodeLiteral(literal string) (types.RegType, types.Payload, error) {
	lit := strings.TrimSpace(literal)
	if strings.HasPrefix(lit, Quote) {
		end := findClosingQuote(lit)
		if end != len(lit)-1 {
			return 0, nil, malformed(literal, errUnterminatedString)
		}
		return types.REG_SZ, types.StringData(unescapeRegString(lit[1:end])), nil
	}

	prefix, data, found := strings.Cut(lit, TypeSeparator)
	if !found {
		return 0, nil, malformed(literal, errMissingPrefix)
	}

	switch strings.ToLower(prefix) {
	case PrefixDWORD:
		n, err := parseHexUint(StripNoise(data, false), 32)
		if err != nil {
			return 0, nil, malformed(literal, err)
		}
		return types.REG_DWORD, types.DWordData(n), nil

	case PrefixQWORD:
		n, err := parseHexUint(StripNoise(data, false), 64)
		if err != nil {
			return 0, nil, malformed(literal, err)
		}
		return types.REG_QWORD, types.QWordData(n), nil

	case PrefixBinary, PrefixNone:
		b, err := parseHexBytes(StripNoise(data, false))
		if err != nil {
			return 0, nil, malformed(literal, err)
		}
		if strings.ToLower(prefix) == PrefixNone {
			return types.REG_NONE, types.BinaryData(b), nil
		}
		return types.REG_BINARY, types.BinaryData(b), nil

	case PrefixExpandSZ:
		s, err := decodeCharGroups(StripNoise(data, true))
		if err != nil {
			return 0, nil, malformed(literal, err)
		}
		return types.REG_EXPAND_SZ, types.StringData(s), nil

	case PrefixMultiSZ:
		ss, err := decodeMultiSZ(StripNoise(data, true))
		if err != nil {
			return 0, nil, malformed(literal, err)
		}
		return types.REG_MULTI_SZ, types.MultiStringData(ss), nil

	default:
		return types.REG_UNKNOWN, types.StringData(lit), nil
	}
}

// EncodeLiteral renders a typed payload as the text to the right of `name=`.
//
// Returns ErrTypeMismatch when p doesn't have the shape t requires, and
// ErrUnsupported for payloads the format can't carry losslessly.
func EncodeLiteral(t types.RegType, p types.Payload) (string, error) {
	if !t.Accepts(p) {
		return "", &types.Error{Kind: types.ErrKindType, Msg: types.ErrTypeMismatch.Msg, Text: fmt.Sprintf("%s with %T", t, p)}
	}

	switch t {
	case types.REG_SZ:
		s := string(p.(types.StringData))
		if strings.ContainsAny(s, CR+LF) {
			return "", unsupported(s, "line break inside a quoted string")
		}
		return quoteRegString(s), nil

	case types.REG_EXPAND_SZ:
		body, err := encodeCharGroups(string(p.(types.StringData)))
		if err != nil {
			return "", err
		}
		return PrefixExpandSZ + TypeSeparator + body + ExpandSZTerminator, nil

	case types.REG_MULTI_SZ:
		items := p.(types.MultiStringData)
		parts := make([]string, len(items))
		for i, s := range items {
			body, err := encodeCharGroups(s)
			if err != nil {
				return "", err
			}
			parts[i] = body
		}
		return PrefixMultiSZ + TypeSeparator + strings.Join(parts, MultiSZSeparator) + MultiSZTerminator, nil

	case types.REG_DWORD:
		return PrefixDWORD + TypeSeparator + fmt.Sprintf(DWORDHexFormat, uint32(p.(types.DWordData))), nil

	case types.REG_QWORD:
		// Most-significant byte first; see DESIGN.md on interoperability.
		buf := make([]byte, QWORDSize)
		binary.BigEndian.PutUint64(buf, uint64(p.(types.QWordData)))
		return PrefixQWORD + TypeSeparator + formatHex(buf), nil

	case types.REG_BINARY:
		return PrefixBinary + TypeSeparator + formatHex(p.(types.BinaryData)), nil

	case types.REG_NONE:
		return PrefixNone + TypeSeparator + formatHex(p.(types.BinaryData)), nil

	default: // REG_UNKNOWN
		raw := string(p.(types.StringData))
		if err := checkRawLiteral(raw); err != nil {
			return "", err
		}
		return raw, nil
	}
}

func malformed(text string, err error) error {
	return &types.Error{Kind: types.ErrKindMalformedValue, Msg: types.ErrMalformedValueLine.Msg, Text: text, Err: err}
}

func unsupported(text, why string) error {
	return &types.Error{Kind: types.ErrKindUnsupported, Msg: types.ErrUnsupported.Msg + ": " + why, Text: text}
}

// parseHexUint parses a run of hex digits as an unsigned integer of the
// given bit size.
func parseHexUint(digits string, bits int) (uint64, error) {
	if digits == "" {
		return 0, errEmptyNumber
	}
	return strconv.ParseUint(digits, 16, bits)
}

// parseHexBytes splits a comma-free hex digit stream into bytes.
func parseHexBytes(digits string) ([]byte, error) {
	if digits == "" {
		return []byte{}, nil
	}
	return hex.DecodeString(digits)
}

const (
	hexDigits = "0123456789abcdef"
	padGroup  = HexByteSeparator + "00"
)

// formatHex formats bytes as comma-separated lowercase hex pairs.
func formatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			buf = append(buf, HexByteSeparator[0])
		}
		buf = append(buf, hexDigits[b>>4], hexDigits[b&0x0f])
	}
	return string(buf)
}

// RawLiteral spells data of a value kind outside the closed set the way
// regedit does, e.g. hex(6):01,02. The result decodes to REG_UNKNOWN.
func RawLiteral(kind uint32, data []byte) string {
	return fmt.Sprintf("%s(%x)%s", PrefixBinary, kind, TypeSeparator) + formatHex(data)
}

// encodeCharGroups writes each character as a hex group, groups joined by
// the ",00," padding. Only single-byte code points survive the round trip,
// so anything else is rejected rather than corrupted.
func encodeCharGroups(s string) (string, error) {
	groups := make([]string, 0, len(s))
	for _, r := range s {
		if r == 0 || r > MaxCharCode {
			return "", unsupported(s, fmt.Sprintf("character %U does not fit a hex(2) group", r))
		}
		groups = append(groups, fmt.Sprintf(HexByteFormat, r))
	}
	return strings.Join(groups, CharSeparator), nil
}

// decodeCharGroups reverses encodeCharGroups. Trailing padding is
// dropped first, so a full, partial or missing terminator all decode alike.
func decodeCharGroups(s string) (string, error) {
	s = trimPadding(s)
	if isZeroFill(s) {
		return "", nil
	}
	var b strings.Builder
	for _, g := range strings.Split(s, CharSeparator) {
		n, err := strconv.ParseUint(g, 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid character group %q: %w", g, err)
		}
		if n == 0 || n > MaxCharCode {
			return "", fmt.Errorf("character group %q is not a single non-NUL byte", g)
		}
		b.WriteRune(rune(n))
	}
	return b.String(), nil
}

func decodeMultiSZ(s string) ([]string, error) {
	s = trimPadding(s)
	if !strings.Contains(s, MultiSZSeparator) && isZeroFill(s) {
		return []string{}, nil
	}
	parts := strings.Split(s, MultiSZSeparator)
	out := make([]string, len(parts))
	for i, part := range parts {
		str, err := decodeCharGroups(part)
		if err != nil {
			return nil, err
		}
		out[i] = str
	}
	return out, nil
}

// trimPadding removes every trailing ",00". A character group is never
// 00, so whatever is removed is padding or terminator.
func trimPadding(s string) string {
	for strings.HasSuffix(s, padGroup) {
		s = s[:len(s)-len(padGroup)]
	}
	return s
}

// isZeroFill reports whether s holds nothing but zero digits and commas,
// e.g. the "00,00" regedit writes for an empty string.
func isZeroFill(s string) bool {
	return strings.Trim(s, "0,") == ""
}

// checkRawLiteral verifies that REG_UNKNOWN text would decode back to
// REG_UNKNOWN unchanged.
func checkRawLiteral(raw string) error {
	if raw == "" || raw != strings.TrimSpace(raw) || strings.ContainsAny(raw, CR+LF) {
		return unsupported(raw, "raw literal must be a single trimmed line")
	}
	if strings.HasSuffix(raw, Backslash) {
		return unsupported(raw, "raw literal would be read as a continuation")
	}
	// Wrapping may put any character first on a line, and a line opening
	// with a quote or @= starts a new value.
	if strings.ContainsAny(raw, Quote+DefaultValueName) {
		return unsupported(raw, "raw literal contains a quote or @")
	}
	prefix, _, found := strings.Cut(raw, TypeSeparator)
	if !found {
		return unsupported(raw, "raw literal has no type prefix")
	}
	switch strings.ToLower(prefix) {
	case PrefixDWORD, PrefixQWORD, PrefixBinary, PrefixNone, PrefixExpandSZ, PrefixMultiSZ:
		return unsupported(raw, "raw literal uses a typed prefix")
	}
	return nil
}
