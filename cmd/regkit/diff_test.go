package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newerReg = "Windows Registry Editor Version 5.00\n" +
	"\n" +
	"[HKEY_CURRENT_USER\\Software\\Vendor]\n" +
	"@=\"root\"\n" +
	"\"Count\"=dword:0000002b\n" +
	"\"Added\"=\"yes\"\n" +
	"\n" +
	"[HKEY_CURRENT_USER\\Software\\Other]\n"

func resetDiffFlags() {
	diffEncoding = ""
	diffText, diffExitCode = false, false
}

func TestDiffCommand(t *testing.T) {
	oldPath := writeReg(t, "old.reg", sampleReg)
	newPath := writeReg(t, "new.reg", newerReg)

	tests := []struct {
		name          string
		text          bool
		wantContain   []string
		wantNotContain []string
	}{
		{
			name: "structured",
			wantContain: []string{
				"+ [HKEY_CURRENT_USER\\Software\\Other]",
				"- [HKEY_CURRENT_USER\\Software\\Vendor\\Sub]",
				"    - \"Blob\"=hex:de,ad",
				"~ [HKEY_CURRENT_USER\\Software\\Vendor]",
				"    + \"Added\"=\"yes\"",
				"    ~ \"Count\": dword:0000002a → dword:0000002b",
				"Keys:   +1 -1 ~1",
				"Values: +1 -1 ~1",
			},
			wantNotContain: []string{"\x1b["},
		},
		{
			name: "text",
			text: true,
			wantContain: []string{
				"--- " + oldPath,
				" [HKEY_CURRENT_USER\\Software\\Vendor]",
				"-\"Count\"=dword:0000002a",
				"+\"Count\"=dword:0000002b",
				"+[HKEY_CURRENT_USER\\Software\\Other]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			resetDiffFlags()
			diffText = tt.text

			output, err := captureOutput(t, func() error {
				return runDiff([]string{oldPath, newPath})
			})
			require.NoError(t, err)
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestDiffCommand_JSON(t *testing.T) {
	resetGlobals(t)
	resetDiffFlags()
	jsonOut = true

	oldPath := writeReg(t, "old.reg", sampleReg)
	newPath := writeReg(t, "new.reg", newerReg)
	output, err := captureOutput(t, func() error {
		return runDiff([]string{oldPath, newPath})
	})
	require.NoError(t, err)
	assertJSON(t, output)

	var res DiffResult
	require.NoError(t, json.Unmarshal([]byte(output), &res))
	require.Len(t, res.Keys, 3)
	assert.Equal(t, "added", res.Keys[0].Action)
	assert.Equal(t, 1, res.Summary["keys_modified"])
	assert.Equal(t, 1, res.Summary["values_removed"])
}

func TestDiffCommand_ExitCode(t *testing.T) {
	resetGlobals(t)
	resetDiffFlags()
	diffExitCode = true
	quiet = true

	a := writeReg(t, "a.reg", sampleReg)
	b := writeReg(t, "b.reg", newerReg)
	reformatted := writeReg(t, "c.reg", "[HKCU\\software\\vendor]\n\"count\"=DWORD:2A\n@=\"root\"\n[HKCU\\Software\\Vendor\\Sub]\n\"Blob\"=hex:DE,AD\n")

	_, err := captureOutput(t, func() error { return runDiff([]string{a, b}) })
	assert.ErrorIs(t, err, errDocumentsDiffer)

	output, err := captureOutput(t, func() error { return runDiff([]string{a, reformatted}) })
	assert.NoError(t, err)
	assert.Empty(t, output)
}

func TestPalette(t *testing.T) {
	plain := newPalette(false)
	assert.Equal(t, "+ x", plain.Added("+ %s", "x"))

	colored := newPalette(true)
	assert.Contains(t, colored.Removed("- %s", "x"), "\x1b[31m")
}
