package regtext

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/types"
)

func TestDecodeLiteral_Scenarios(t *testing.T) {
	typ, data, err := DecodeLiteral("dword:0000002a")
	require.NoError(t, err)
	assert.Equal(t, types.REG_DWORD, typ)
	assert.Equal(t, types.DWordData(42), data)

	lit, err := EncodeLiteral(types.REG_DWORD, types.DWordData(42))
	require.NoError(t, err)
	assert.Equal(t, "dword:0000002a", lit)

	typ, data, err = DecodeLiteral("hex:41,42")
	require.NoError(t, err)
	assert.Equal(t, types.REG_BINARY, typ)
	assert.Equal(t, types.BinaryData{0x41, 0x42}, data)

	lit, err = EncodeLiteral(types.REG_BINARY, types.BinaryData{0x41, 0x42})
	require.NoError(t, err)
	assert.Equal(t, "hex:41,42", lit)
}

func TestLiteral_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  types.RegType
		data types.Payload
		want string // expected literal, checked when set
	}{
		{"string", types.REG_SZ, types.StringData("Hello"), `"Hello"`},
		{"string with escapes", types.REG_SZ, types.StringData(`C:\Temp\"x"`), `"C:\\Temp\\\"x\""`},
		{"empty string", types.REG_SZ, types.StringData(""), `""`},
		{"string with colon", types.REG_SZ, types.StringData("dword:1"), `"dword:1"`},
		{"expand string", types.REG_EXPAND_SZ, types.StringData("%PATH%"), "hex(2):25,00,50,00,41,00,54,00,48,00,25,00,00,00"},
		{"expand string latin1", types.REG_EXPAND_SZ, types.StringData("café"), ""},
		{"empty expand string", types.REG_EXPAND_SZ, types.StringData(""), "hex(2):,00,00,00"},
		{"multi string", types.REG_MULTI_SZ, types.MultiStringData{"a", "bc"}, "hex(7):61,00,00,00,62,00,63,00,00,00,00,00"},
		{"multi string single", types.REG_MULTI_SZ, types.MultiStringData{"a"}, "hex(7):61,00,00,00,00,00"},
		{"multi string empty list", types.REG_MULTI_SZ, types.MultiStringData{}, "hex(7):,00,00,00,00,00"},
		{"multi string inner empty", types.REG_MULTI_SZ, types.MultiStringData{"a", "", "b"}, ""},
		{"multi string leading empty", types.REG_MULTI_SZ, types.MultiStringData{"", "x"}, ""},
		{"multi string trailing empty", types.REG_MULTI_SZ, types.MultiStringData{"a", ""}, ""},
		{"dword zero", types.REG_DWORD, types.DWordData(0), "dword:00000000"},
		{"dword max", types.REG_DWORD, types.DWordData(math.MaxUint32), "dword:ffffffff"},
		{"qword", types.REG_QWORD, types.QWordData(0x0102030405060708), "hex(b):01,02,03,04,05,06,07,08"},
		{"qword zero", types.REG_QWORD, types.QWordData(0), "hex(b):00,00,00,00,00,00,00,00"},
		{"qword max", types.REG_QWORD, types.QWordData(math.MaxUint64), "hex(b):ff,ff,ff,ff,ff,ff,ff,ff"},
		{"binary", types.REG_BINARY, types.BinaryData{0x00, 0x7f, 0xff}, "hex:00,7f,ff"},
		{"empty binary", types.REG_BINARY, types.BinaryData{}, "hex:"},
		{"none", types.REG_NONE, types.BinaryData{0xde, 0xad}, "hex(0):de,ad"},
		{"empty none", types.REG_NONE, types.BinaryData{}, "hex(0):"},
		{"unknown", types.REG_UNKNOWN, types.StringData("hex(6):5c,00,3f,00"), "hex(6):5c,00,3f,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := EncodeLiteral(tt.typ, tt.data)
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, lit)
			}

			typ, data, err := DecodeLiteral(lit)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestDecodeLiteral_Variants(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		typ     types.RegType
		data    types.Payload
	}{
		{"prefix is case-insensitive", "DWORD:0000002A", types.REG_DWORD, types.DWordData(42)},
		{"short dword", "dword:2a", types.REG_DWORD, types.DWordData(42)},
		{"hex(b) uppercase", "HEX(B):00,00,00,00,00,00,01,00", types.REG_QWORD, types.QWordData(256)},
		{"binary with continuation noise", "hex:41,42,\\\n  43,44", types.REG_BINARY, types.BinaryData{0x41, 0x42, 0x43, 0x44}},
		{"binary with CRLF continuation", "hex:41,\\\r\n    42", types.REG_BINARY, types.BinaryData{0x41, 0x42}},
		{"expand without terminator", "hex(2):41,00,42", types.REG_EXPAND_SZ, types.StringData("AB")},
		{"expand with short terminator", "hex(2):41,00,42,00", types.REG_EXPAND_SZ, types.StringData("AB")},
		{"expand regedit empty", "hex(2):00,00", types.REG_EXPAND_SZ, types.StringData("")},
		{"multi regedit layout", "hex(7):61,00,00,00,62,00,00,00,00,00", types.REG_MULTI_SZ, types.MultiStringData{"a", "b"}},
		{"multi without terminator", "hex(7):61,00,00,00,62", types.REG_MULTI_SZ, types.MultiStringData{"a", "b"}},
		{"multi regedit empty", "hex(7):00,00", types.REG_MULTI_SZ, types.MultiStringData{}},
		{"multi single empty element collapses", "hex(7):,00,00,00,00,00", types.REG_MULTI_SZ, types.MultiStringData{}},
		{"surrounding blanks", "  \"x\"  ", types.REG_SZ, types.StringData("x")},
		{"other backslashes kept", `"a\b"`, types.REG_SZ, types.StringData(`a\b`)},
		{"unknown prefix passes through", "hex(a):00,01", types.REG_UNKNOWN, types.StringData("hex(a):00,01")},
		{"unknown word prefix", "link:target", types.REG_UNKNOWN, types.StringData("link:target")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, data, err := DecodeLiteral(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestDecodeLiteral_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		literal string
	}{
		{"no prefix", "0000002a"},
		{"empty", ""},
		{"unterminated string", `"abc`},
		{"text after string", `"abc" x`},
		{"dword non-hex", "dword:0000002g"},
		{"dword overflow", "dword:100000000"},
		{"dword empty", "dword:"},
		{"qword overflow", "hex(b):01,00,00,00,00,00,00,00,00"},
		{"binary odd digits", "hex:4"},
		{"binary non-hex", "hex:zz"},
		{"expand bad group", "hex(2):4g,00"},
		{"expand wide group", "hex(2):41,20,00,00"},
		{"multi bad group", "hex(7):xx,00,00,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeLiteral(tt.literal)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedValueLine))

			var e *types.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.literal, e.Text)
		})
	}
}

func TestEncodeLiteral_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		typ    types.RegType
		data   types.Payload
		target error
	}{
		{"dword with string payload", types.REG_DWORD, types.StringData("1"), types.ErrTypeMismatch},
		{"binary with qword payload", types.REG_BINARY, types.QWordData(1), types.ErrTypeMismatch},
		{"nil payload", types.REG_SZ, nil, types.ErrTypeMismatch},
		{"wide char in expand", types.REG_EXPAND_SZ, types.StringData("€"), types.ErrUnsupported},
		{"nul in multi", types.REG_MULTI_SZ, types.MultiStringData{"a\x00b"}, types.ErrUnsupported},
		{"line break in string", types.REG_SZ, types.StringData("a\nb"), types.ErrUnsupported},
		{"unknown without prefix", types.REG_UNKNOWN, types.StringData("garbage"), types.ErrUnsupported},
		{"unknown with typed prefix", types.REG_UNKNOWN, types.StringData("dword:1"), types.ErrUnsupported},
		{"unknown quoted", types.REG_UNKNOWN, types.StringData(`"a:b"`), types.ErrUnsupported},
		{"unknown dangling backslash", types.REG_UNKNOWN, types.StringData(`x:y\`), types.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeLiteral(tt.typ, tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestStripNoise(t *testing.T) {
	assert.Equal(t, "41,42,43", StripNoise("41,42,\\\r\n  43", true))
	assert.Equal(t, "414243", StripNoise("41,42,\\\n  43", false))
	assert.Equal(t, "clean,text", StripNoise("clean,text", true))
}

func TestRawLiteral(t *testing.T) {
	raw := RawLiteral(6, []byte{0x5c, 0x00})
	assert.Equal(t, "hex(6):5c,00", raw)

	typ, data, err := DecodeLiteral(raw)
	require.NoError(t, err)
	assert.Equal(t, types.REG_UNKNOWN, typ)
	assert.Equal(t, types.StringData(raw), data)

	line, err := EncodeLiteral(types.REG_UNKNOWN, types.StringData(RawLiteral(0x10, nil)))
	require.NoError(t, err)
	assert.Equal(t, "hex(10):", line)
}
