package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/internal/memstore"
	"github.com/joshuapare/regkit/pkg/regfile"
	"github.com/joshuapare/regkit/pkg/types"
)

// useStore points import and export at store for the rest of the test.
func useStore(t *testing.T, store types.RegistryStore, err error) {
	t.Helper()
	orig := openStore
	openStore = func() (types.RegistryStore, error) { return store, err }
	t.Cleanup(func() { openStore = orig })
}

func resetImportExportFlags() {
	importEncoding, importContinueOnError = "", false
	exportEncoding, exportLineEnding = "", ""
	exportBOM, exportStdout, exportNoSubkeys = false, false, false
}

func TestImportExport_RoundTrip(t *testing.T) {
	resetGlobals(t)
	resetImportExportFlags()
	mem := memstore.New()
	useStore(t, mem, nil)

	in := writeReg(t, "in.reg", sampleReg)
	output, err := captureOutput(t, func() error {
		return runImport([]string{in})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Imported 2 keys, 3 values"})

	exportStdout = true
	output, err = captureOutput(t, func() error {
		return runExport([]string{`HKCU\Software\Vendor`})
	})
	require.NoError(t, err)
	assert.Equal(t, sampleReg, output)

	exportStdout = false
	exportNoSubkeys = true
	exportEncoding = "UTF-16LE"
	out := filepath.Join(t.TempDir(), "out.reg")
	output, err = captureOutput(t, func() error {
		return runExport([]string{`HKEY_CURRENT_USER\Software\Vendor`, out})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Exported HKEY_CURRENT_USER\\Software\\Vendor to " + out})

	doc, err := regfile.ParseFile(out, &regfile.ParseOptions{Encoding: "UTF-16LE"})
	require.NoError(t, err)
	require.Len(t, doc.Keys, 1)
	assert.Len(t, doc.Keys[0].Values, 2)
	assert.Zero(t, mem.OpenHandles())
}

func TestImport_Failures(t *testing.T) {
	content := "[HKEY_LOCAL_MACHINE\\Invented\\Key]\n\"a\"=\"1\"\n" + sampleReg

	t.Run("stops at first failure", func(t *testing.T) {
		resetGlobals(t)
		resetImportExportFlags()
		useStore(t, memstore.New(), nil)

		_, err := captureOutput(t, func() error {
			return runImport([]string{writeReg(t, "in.reg", content)})
		})
		assert.ErrorIs(t, err, types.ErrUnsupported)
	})

	t.Run("continue on error", func(t *testing.T) {
		resetGlobals(t)
		resetImportExportFlags()
		importContinueOnError = true
		jsonOut = true
		useStore(t, memstore.New(), nil)

		output, err := captureOutput(t, func() error {
			return runImport([]string{writeReg(t, "in.reg", content)})
		})
		require.NoError(t, err)

		var stats regfile.RestoreStats
		require.NoError(t, json.Unmarshal([]byte(output), &stats))
		assert.Equal(t, regfile.RestoreStats{Keys: 2, Values: 3, Failed: 1}, stats)
	})

	t.Run("no registry", func(t *testing.T) {
		resetGlobals(t)
		resetImportExportFlags()
		errNoRegistry := errors.New("no registry here")
		useStore(t, nil, errNoRegistry)

		err := runImport([]string{writeReg(t, "in.reg", sampleReg)})
		assert.ErrorIs(t, err, errNoRegistry)

		exportStdout = true
		err = runExport([]string{`HKCU\Software\Vendor`})
		assert.ErrorIs(t, err, errNoRegistry)
	})
}

func TestExport_Arguments(t *testing.T) {
	resetGlobals(t)
	resetImportExportFlags()
	useStore(t, memstore.New(), nil)

	err := runExport([]string{`HKCU\Software\Vendor`})
	assert.ErrorContains(t, err, "specify an output file or --stdout")

	exportStdout = true
	err = runExport([]string{`HKCU\Software\Vendor`, "out.reg"})
	assert.ErrorContains(t, err, "cannot specify both")

	err = runExport([]string{`HKEY_NOPE\X`})
	assert.ErrorIs(t, err, types.ErrInvalidKeyPath)

	_, err = os.Stat("out.reg")
	assert.True(t, os.IsNotExist(err))
}
