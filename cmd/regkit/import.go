package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/winstore"
	"github.com/joshuapare/regkit/pkg/regfile"
)

// openStore opens the registry import and export work against.
var openStore = winstore.New

var (
	importEncoding        string
	importContinueOnError bool
)

func init() {
	cmd := newImportCmd()
	cmd.Flags().StringVar(&importEncoding, "encoding", "", "Input encoding when the file has no BOM (default UTF-8)")
	cmd.Flags().BoolVar(&importContinueOnError, "continue-on-error", false, "Keep going after a key or value can't be written")
	rootCmd.AddCommand(cmd)
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.reg>",
		Short: "Write the keys and values of a .reg file into the registry",
		Long: `The import command parses a .reg file and writes every key and
value into the live registry, creating keys as needed. Only available on
Windows.

Example:
  regkit import settings.reg
  regkit import settings.reg --continue-on-error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args)
		},
	}
	return cmd
}

func runImport(args []string) error {
	path := args[0]

	opts := cfg.parseOptions(importEncoding)
	opts.OnDiagnostic = func(d regfile.Diagnostic) {
		printError("%s line %d: dropped %s: %v\n", path, d.Line, d.Text, d.Err)
	}
	doc, err := regfile.ParseFile(path, &opts)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	stats, err := regfile.Restore(store, doc, &regfile.RestoreOptions{
		OnError: func(d regfile.Diagnostic) bool {
			printError("%s: %v\n", d.Text, d.Err)
			return importContinueOnError
		},
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(stats)
	}
	printInfo("Imported %d keys, %d values from %s", stats.Keys, stats.Values, path)
	if stats.Failed > 0 {
		printInfo(" (%d failed)", stats.Failed)
	}
	printInfo("\n")
	return nil
}
