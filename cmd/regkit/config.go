package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/regfile"
)

// Config is the optional YAML settings file. Every field has a matching
// flag that overrides it.
//
//	workers: 4
//	line_ending: crlf
//	encoding: UTF-16LE
//	with_bom: true
//	color: false
//	log_dir: /var/log/regkit
type Config struct {
	Workers    int    `yaml:"workers,omitempty"`
	LineEnding string `yaml:"line_ending,omitempty"`
	Encoding   string `yaml:"encoding,omitempty"`
	WithBOM    bool   `yaml:"with_bom,omitempty"`
	Color      *bool  `yaml:"color,omitempty"`
	LogDir     string `yaml:"log_dir,omitempty"`
}

// loadConfig reads path. An empty path yields the zero Config.
func loadConfig(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := c.lineEnding(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// lineEnding maps the line_ending setting to the terminator itself.
func (c Config) lineEnding() (string, error) {
	return parseLineEnding(c.LineEnding)
}

func parseLineEnding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "lf":
		return regtext.LF, nil
	case "crlf":
		return regtext.CRLF, nil
	default:
		return "", fmt.Errorf("unknown line ending %q (must be lf or crlf)", name)
	}
}

// parseOptions builds parse settings from the config and the given input
// encoding flag.
func (c Config) parseOptions(encoding string) regfile.ParseOptions {
	opts := regfile.DefaultParseOptions()
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	opts.Encoding = encoding
	return opts
}

// renderOptions builds render settings; non-empty flag values win.
func (c Config) renderOptions(lineEnding, encoding string, withBOM bool) (regfile.RenderOptions, error) {
	opts := regfile.DefaultRenderOptions()

	if lineEnding == "" {
		lineEnding = c.LineEnding
	}
	eol, err := parseLineEnding(lineEnding)
	if err != nil {
		return opts, err
	}
	opts.LineEnding = eol

	switch {
	case encoding != "":
		opts.Encoding = encoding
	case c.Encoding != "":
		opts.Encoding = c.Encoding
	}
	opts.WithBOM = withBOM || c.WithBOM
	return opts, nil
}

// colorEnabled reports whether output to f should be colored: --no-color
// wins, then the config file, then whether f is a terminal.
func (c Config) colorEnabled(f *os.File) bool {
	if noColor {
		return false
	}
	if c.Color != nil {
		return *c.Color
	}
	return isTerminal(f)
}
