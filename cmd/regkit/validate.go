package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/memstore"
	"github.com/joshuapare/regkit/pkg/regfile"
	"github.com/joshuapare/regkit/pkg/types"
)

var validateEncoding string

// standardRoots are the top-level keys every Windows machine has under the
// roots that refuse new top-level keys.
var standardRoots = []string{
	`HKEY_LOCAL_MACHINE\BCD00000000`,
	`HKEY_LOCAL_MACHINE\HARDWARE`,
	`HKEY_LOCAL_MACHINE\SAM`,
	`HKEY_LOCAL_MACHINE\SECURITY`,
	`HKEY_LOCAL_MACHINE\SOFTWARE`,
	`HKEY_LOCAL_MACHINE\SYSTEM`,
	`HKEY_USERS\.DEFAULT`,
	`HKEY_USERS\S-1-5-18`,
	`HKEY_USERS\S-1-5-19`,
	`HKEY_USERS\S-1-5-20`,
}

func init() {
	cmd := newValidateCmd()
	cmd.Flags().StringVar(&validateEncoding, "encoding", "", "Input encoding when the file has no BOM (default UTF-8)")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.reg>",
		Short: "Check that a .reg file parses cleanly and survives a round trip",
		Long: `The validate command parses a .reg file, restores it into an
in-memory registry, backs every restored tree up again and compares the
result with the original document.

The in-memory registry starts with the standard top-level keys of
HKEY_LOCAL_MACHINE and HKEY_USERS, so keys that regedit could not create
there are reported.

Example:
  regkit validate settings.reg
  regkit validate settings.reg --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

// ValidateResult is the outcome of validate.
type ValidateResult struct {
	File          string           `json:"file"`
	Keys          int              `json:"keys"`
	Values        int              `json:"values"`
	Dropped       []DiagnosticInfo `json:"dropped,omitempty"`
	RestoreErrors []DiagnosticInfo `json:"restore_errors,omitempty"`
	Mismatches    []string         `json:"mismatches,omitempty"`
	Valid         bool             `json:"valid"`
}

func runValidate(args []string) error {
	path := args[0]
	printVerbose("Validating %s...\n", path)

	res := ValidateResult{File: path}

	opts := cfg.parseOptions(validateEncoding)
	opts.OnDiagnostic = func(d regfile.Diagnostic) {
		res.Dropped = append(res.Dropped, diagnosticInfo(d))
	}
	doc, err := regfile.ParseFile(path, &opts)
	if err != nil {
		return err
	}
	res.Keys, res.Values = len(doc.Keys), doc.ValueCount()

	store, err := seededStore()
	if err != nil {
		return err
	}
	if _, err := regfile.Restore(store, doc, &regfile.RestoreOptions{
		OnError: func(d regfile.Diagnostic) bool {
			res.RestoreErrors = append(res.RestoreErrors, diagnosticInfo(d))
			return true
		},
	}); err != nil {
		return err
	}

	back, err := backupAll(store, doc)
	if err != nil {
		return err
	}
	res.Mismatches = mismatches(regfile.Diff(doc, back))
	res.Valid = len(res.Dropped) == 0 && len(res.RestoreErrors) == 0 && len(res.Mismatches) == 0

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printValidateResult(res)
	}

	if !res.Valid {
		return fmt.Errorf("%s is not valid", path)
	}
	return nil
}

func seededStore() (*memstore.Store, error) {
	store := memstore.New()
	for _, p := range standardRoots {
		kp, err := types.ParseKeyPath(p)
		if err != nil {
			return nil, err
		}
		h, err := store.OpenOrCreate(kp)
		if err != nil {
			return nil, err
		}
		if err := store.Close(h); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// backupAll backs up every tree of doc from store as .reg text and parses
// the text again.
func backupAll(store types.RegistryStore, doc *regfile.Document) (*regfile.Document, error) {
	roots, err := regfile.BuildTree(doc)
	if err != nil {
		return nil, err
	}

	back := &regfile.Document{}
	for _, root := range roots {
		text, err := regfile.Backup(store, root.Path.String(), nil)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		part, err := regfile.ParseDocument(text, nil)
		if err != nil {
			return nil, err
		}
		back.Keys = append(back.Keys, part.Keys...)
	}
	return back, nil
}

// mismatches lists differences other than keys that only exist as parents
// of restored keys.
func mismatches(d *regfile.DocumentDiff) []string {
	var out []string
	for _, k := range d.KeyDiffs {
		if k.Status == regfile.DiffAdded && len(k.ValueDiffs) == 0 {
			continue
		}
		if len(k.ValueDiffs) == 0 {
			out = append(out, fmt.Sprintf("[%s] %s", k.Path, k.Status))
			continue
		}
		for _, v := range k.ValueDiffs {
			out = append(out, fmt.Sprintf("[%s] %s %s", k.Path, valueLabel(v.Name), v.Status))
		}
	}
	return out
}

func printValidateResult(res ValidateResult) {
	printInfo("\nValidating %s...\n\n", res.File)
	printInfo("Parse:\n")
	printInfo("  %d keys, %d values\n", res.Keys, res.Values)
	if len(res.Dropped) == 0 {
		printInfo("  ✓ No dropped lines\n")
	}
	for _, d := range res.Dropped {
		printInfo("  ✗ line %d: %s (%s)\n", d.Line, d.Text, d.Error)
	}

	printInfo("\nRestore:\n")
	if len(res.RestoreErrors) == 0 {
		printInfo("  ✓ All keys and values written\n")
	}
	for _, d := range res.RestoreErrors {
		printInfo("  ✗ %s: %s\n", d.Text, d.Error)
	}

	printInfo("\nRound trip:\n")
	if len(res.Mismatches) == 0 {
		printInfo("  ✓ Backup matches the document\n")
	}
	for _, m := range res.Mismatches {
		printInfo("  ✗ %s\n", m)
	}

	if res.Valid {
		printInfo("\nResult: ✓ VALID\n")
	} else {
		printInfo("\nResult: ✗ INVALID\n")
	}
}
