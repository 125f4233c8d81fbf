package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string

	// cfg holds the loaded config file; flags win over it.
	cfg Config
)

var rootCmd = &cobra.Command{
	Use:   "regkit",
	Short: "Parse, format, compare and apply Windows .reg files",
	Long: `regkit reads and writes the text format produced by regedit's
export ("Windows Registry Editor Version 5.00"). It can normalize .reg files,
compare them, check that they survive a restore and backup round trip, and
on Windows import them into or export them from the live registry.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file with default settings")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config file and starts logging before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	console := verbose && !quiet
	opts := logger.Options{
		Enabled: console || cfg.LogDir != "",
		Level:   level,
		LogDir:  cfg.LogDir,
	}
	if console {
		opts.Console = os.Stderr
	}
	return logger.Init(opts)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
