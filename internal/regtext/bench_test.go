package regtext

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/types"
)

// parseTree reads rendered text back into a flat path -> values map.
func parseTree(t testing.TB, text string) map[string][]types.ValueEntry {
	t.Helper()
	sections, err := SplitSections(text)
	require.NoError(t, err)

	out := make(map[string][]types.ValueEntry, len(sections))
	for _, s := range sections {
		out[s.Path.Key()] = ParseValues(s.Body, func(e LineError) {
			t.Errorf("[%s] unexpected drop: %v (%s)", s.Path, e, e.Text)
		})
	}
	return out
}

func flattenTree(k *types.KeySection) map[string][]types.ValueEntry {
	out := make(map[string][]types.ValueEntry)
	k.Walk(func(k *types.KeySection) bool {
		out[k.Path.Key()] = k.Values
		return true
	})
	return out
}

func TestRender_GeneratedTreesRoundTrip(t *testing.T) {
	profiles := []struct {
		name    string
		profile Profile
	}{
		{"small", Profile{Keys: 5, Seed: 1}},
		{"deep", Profile{Keys: 40, MaxDepth: 8, Seed: 2}},
		{"wide values", Profile{Keys: 10, MaxDataSize: 400, Seed: 3}},
		{"escape heavy", Profile{Keys: 15, EscapeFrequency: 0.5, Seed: 4}},
		{"empty keys", Profile{Keys: 12, MaxValuesPerKey: -1, Seed: 5}},
	}

	// Empty payloads and value lists come back as empty, not nil.
	opts := cmpopts.EquateEmpty()

	for _, tt := range profiles {
		t.Run(tt.name, func(t *testing.T) {
			tree := generateTree(tt.profile)

			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tree, RenderOptions{
				IncludeSubkeys: true,
				LineEnding:     CRLF,
				OnSkip: func(_ types.KeyPath, v types.ValueEntry, err error) {
					t.Errorf("unexpected skip of %q: %v", v.Name, err)
				},
			}))

			got := parseTree(t, buf.String())
			if diff := cmp.Diff(flattenTree(tree), got, opts); diff != "" {
				t.Fatalf("round trip mismatch (-rendered +parsed):\n%s", diff)
			}
		})
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func benchDocument(b *testing.B, p Profile) string {
	b.Helper()
	var buf bytes.Buffer
	require.NoError(b, Render(&buf, generateTree(p), RenderOptions{IncludeSubkeys: true}))
	return buf.String()
}

func BenchmarkSplitSections(b *testing.B) {
	text := benchDocument(b, Profile{Keys: 500, MaxDataSize: 128, Seed: 7})
	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for range b.N {
		if _, err := SplitSections(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseValues(b *testing.B) {
	text := benchDocument(b, Profile{Keys: 500, MaxDataSize: 128, Seed: 7})
	sections, err := SplitSections(text)
	require.NoError(b, err)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for range b.N {
		for _, s := range sections {
			ParseValues(s.Body, nil)
		}
	}
}

func BenchmarkDecodeLiteral(b *testing.B) {
	literals := map[string]string{
		"string":    `"C:\\Program Files\\Vendor\\app.exe"`,
		"dword":     "dword:0000002a",
		"qword":     "hex(b):00,00,01,00,00,00,00,00",
		"binary":    "hex:" + formatHex(bytes.Repeat([]byte{0xab, 0xcd}, 256)),
		"expand_sz": "hex(2):25,00,53,00,79,00,73,00,74,00,65,00,6d,00,52,00,6f,00,6f,00,74,00,25,00,00,00",
		"multi_sz":  "hex(7):61,00,62,00,00,00,63,00,64,00,00,00,00,00",
	}

	for name, lit := range literals {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(lit)))
			for range b.N {
				if _, _, err := DecodeLiteral(lit); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	tree := generateTree(Profile{Keys: 500, MaxDataSize: 128, Seed: 7})
	opts := RenderOptions{IncludeSubkeys: true}
	b.ResetTimer()

	for range b.N {
		if err := Render(io.Discard, tree, opts); err != nil {
			b.Fatal(err)
		}
	}
}
