package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/regfile"
	"github.com/joshuapare/regkit/pkg/types"
)

var (
	diffEncoding string
	diffText     bool
	diffExitCode bool
)

var errDocumentsDiffer = errors.New("documents differ")

func init() {
	cmd := newDiffCmd()
	cmd.Flags().StringVar(&diffEncoding, "encoding", "", "Input encoding when a file has no BOM (default UTF-8)")
	cmd.Flags().BoolVar(&diffText, "text", false, "Show a line diff of the canonical renderings")
	cmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Fail when the documents differ")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old.reg> <new.reg>",
		Short: "Compare two .reg files and show differences",
		Long: `The diff command compares two .reg files key by key and value by
value. Paths and value names compare case-insensitively, and values compare
by type and data, so formatting differences don't show up.

Example:
  regkit diff before.reg after.reg
  regkit diff before.reg after.reg --text
  regkit diff before.reg after.reg --json --exit-code`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args)
		},
	}
	return cmd
}

// DiffResult is the JSON form of a document diff.
type DiffResult struct {
	Old     string         `json:"old"`
	New     string         `json:"new"`
	Keys    []KeyChange    `json:"keys"`
	Summary map[string]int `json:"summary"`
}

// KeyChange is one changed key.
type KeyChange struct {
	Path   string        `json:"path"`
	Action string        `json:"action"`
	Values []ValueChange `json:"values,omitempty"`
}

// ValueChange is one changed value, with literals as they'd be written.
type ValueChange struct {
	Name     string `json:"name"`
	Action   string `json:"action"`
	OldValue string `json:"old,omitempty"`
	NewValue string `json:"new,omitempty"`
}

func runDiff(args []string) error {
	oldPath, newPath := args[0], args[1]
	printVerbose("Comparing %s and %s...\n", oldPath, newPath)

	opts := cfg.parseOptions(diffEncoding)
	oldDoc, err := regfile.ParseFile(oldPath, &opts)
	if err != nil {
		return err
	}
	newDoc, err := regfile.ParseFile(newPath, &opts)
	if err != nil {
		return err
	}

	d := regfile.Diff(oldDoc, newDoc)
	pal := newPalette(cfg.colorEnabled(os.Stdout))

	switch {
	case jsonOut:
		if err := printJSON(diffResult(oldPath, newPath, d)); err != nil {
			return err
		}
	case diffText:
		if err := printTextDiff(oldPath, newPath, oldDoc, newDoc, pal); err != nil {
			return err
		}
	default:
		printStructuredDiff(oldPath, newPath, d, pal)
	}

	if diffExitCode && !d.Empty() {
		return errDocumentsDiffer
	}
	return nil
}

func diffResult(oldPath, newPath string, d *regfile.DocumentDiff) DiffResult {
	res := DiffResult{Old: oldPath, New: newPath, Keys: make([]KeyChange, 0, len(d.KeyDiffs)), Summary: map[string]int{}}
	for _, k := range d.KeyDiffs {
		kc := KeyChange{Path: k.Path.String(), Action: k.Status.String()}
		for _, v := range k.ValueDiffs {
			kc.Values = append(kc.Values, ValueChange{
				Name:     v.Name,
				Action:   v.Status.String(),
				OldValue: literalOf(v.Old),
				NewValue: literalOf(v.New),
			})
		}
		res.Keys = append(res.Keys, kc)
		res.Summary["keys_"+k.Status.String()]++
	}
	for status, n := range d.Counts() {
		res.Summary["values_"+status.String()] = n
	}
	return res
}

func printStructuredDiff(oldPath, newPath string, d *regfile.DocumentDiff, pal palette) {
	printInfo("%s", pal.Header("--- %s\n+++ %s\n", oldPath, newPath))
	if d.Empty() {
		printInfo("\nNo differences.\n")
		return
	}

	for _, k := range d.KeyDiffs {
		printInfo("\n")
		switch k.Status {
		case regfile.DiffAdded:
			printInfo("%s", pal.Added("+ [%s]\n", k.Path))
		case regfile.DiffRemoved:
			printInfo("%s", pal.Removed("- [%s]\n", k.Path))
		default:
			printInfo("%s", pal.Modified("~ [%s]\n", k.Path))
		}
		for _, v := range k.ValueDiffs {
			label := valueLabel(v.Name)
			switch v.Status {
			case regfile.DiffAdded:
				printInfo("%s", pal.Added("    + %s=%s\n", label, literalOf(v.New)))
			case regfile.DiffRemoved:
				printInfo("%s", pal.Removed("    - %s=%s\n", label, literalOf(v.Old)))
			case regfile.DiffModified:
				printInfo("%s", pal.Modified("    ~ %s: %s → %s\n", label, literalOf(v.Old), literalOf(v.New)))
			}
		}
	}

	counts := d.Counts()
	added, removed, modified := 0, 0, 0
	for _, k := range d.KeyDiffs {
		switch k.Status {
		case regfile.DiffAdded:
			added++
		case regfile.DiffRemoved:
			removed++
		case regfile.DiffModified:
			modified++
		}
	}
	printInfo("\nSummary:\n")
	printInfo("  Keys:   +%d -%d ~%d\n", added, removed, modified)
	printInfo("  Values: +%d -%d ~%d\n", counts[regfile.DiffAdded], counts[regfile.DiffRemoved], counts[regfile.DiffModified])
}

// printTextDiff renders both documents canonically and diffs the lines, so
// the output reads like .reg text.
func printTextDiff(oldPath, newPath string, oldDoc, newDoc *regfile.Document, pal palette) error {
	ropts := regfile.DefaultRenderOptions()
	oldText, err := regfile.RenderDocument(oldDoc, ropts)
	if err != nil {
		return err
	}
	newText, err := regfile.RenderDocument(newDoc, ropts)
	if err != nil {
		return err
	}

	printInfo("%s", pal.Header("--- %s\n+++ %s\n", oldPath, newPath))
	for _, l := range regfile.TextDiff(oldText, newText) {
		switch l.Op {
		case regfile.LineInsert:
			printInfo("%s", pal.Added("+%s\n", l.Text))
		case regfile.LineDelete:
			printInfo("%s", pal.Removed("-%s\n", l.Text))
		default:
			printInfo(" %s\n", l.Text)
		}
	}
	return nil
}

func literalOf(v *types.ValueEntry) string {
	if v == nil {
		return ""
	}
	lit, err := regtext.EncodeLiteral(v.Type, v.Data)
	if err != nil {
		return "(" + v.Type.String() + ", not representable)"
	}
	return lit
}

func valueLabel(name string) string {
	if name == "" {
		return regtext.DefaultValueName
	}
	return `"` + name + `"`
}
