package regfile_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/regfile"
	"github.com/joshuapare/regkit/pkg/types"
)

func TestRenderTree_SingleKey(t *testing.T) {
	key := &types.KeySection{
		Path:   mustPath(t, `HKEY_CURRENT_USER\Software\Test`),
		Values: []types.ValueEntry{types.NewString("Name", "Hello")},
	}
	got, err := regfile.RenderTree(key, false)
	require.NoError(t, err)
	assert.Equal(t, "Windows Registry Editor Version 5.00\n\n[HKEY_CURRENT_USER\\Software\\Test]\n\"Name\"=\"Hello\"\n", got)
}

func TestRenderDocument(t *testing.T) {
	want := "Windows Registry Editor Version 5.00\n" +
		"\n" +
		"[HKEY_CURRENT_USER\\Software\\A\\Deep]\n" +
		"\"d\"=\"deep\"\n" +
		"\n" +
		"[HKEY_CURRENT_USER\\Software\\B]\n" +
		"\"b\"=dword:00000002\n" +
		"\n" +
		"[HKEY_LOCAL_MACHINE\\SOFTWARE\\X]\n" +
		"@=\"x\"\n"

	got, err := regfile.RenderDocument(scatteredDoc(t), regfile.DefaultRenderOptions())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	crlf := regfile.DefaultRenderOptions()
	crlf.LineEnding = "\r\n"
	got, err = regfile.RenderDocument(scatteredDoc(t), crlf)
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(want, "\n", "\r\n"), got)
}

func TestRenderDocument_Empty(t *testing.T) {
	got, err := regfile.RenderDocument(&regfile.Document{}, regfile.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Windows Registry Editor Version 5.00\n", got)
}

func TestRenderDocument_ReportsSkippedValues(t *testing.T) {
	doc := &regfile.Document{Keys: []regfile.ParsedKey{{
		Path: mustPath(t, `HKCU\Software\Skip`),
		Values: []types.ValueEntry{
			types.NewString("", "multi\nline"),
			types.NewString("ok", "yes"),
		},
	}}}

	var skipped []regfile.Diagnostic
	opts := regfile.DefaultRenderOptions()
	opts.OnSkip = func(d regfile.Diagnostic) { skipped = append(skipped, d) }

	got, err := regfile.RenderDocument(doc, opts)
	require.NoError(t, err)
	assert.Contains(t, got, `"ok"="yes"`)
	assert.NotContains(t, got, "multi")

	require.Len(t, skipped, 1)
	assert.Equal(t, "@", skipped[0].Text)
	assert.Equal(t, 0, skipped[0].Line)
	assert.True(t, errors.Is(skipped[0].Err, types.ErrUnsupported))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	doc, err := regfile.ParseDocument(sampleReg, nil)
	require.NoError(t, err)

	opts := regfile.DefaultRenderOptions()
	opts.Encoding = "UTF-16LE"
	opts.WithBOM = true
	opts.LineEnding = "\r\n"
	text, err := regfile.RenderDocument(doc, opts)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.reg")
	require.NoError(t, regfile.WriteFile(path, text, opts))

	back, err := regfile.ParseFile(path, nil)
	require.NoError(t, err)
	assert.True(t, regfile.Diff(doc, back).Empty())
}

func TestWriteFile_Errors(t *testing.T) {
	opts := regfile.DefaultRenderOptions()
	err := regfile.WriteFile(filepath.Join(t.TempDir(), "missing", "out.reg"), "x", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write .reg file")

	opts.Encoding = "windows-1252"
	err = regfile.WriteFile(filepath.Join(t.TempDir(), "out.reg"), "☃", opts)
	assert.ErrorIs(t, err, types.ErrEncoding)
}
