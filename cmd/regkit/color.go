package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette colors diff output. With color disabled every func formats plainly.
type palette struct {
	Added    func(string, ...any) string
	Removed  func(string, ...any) string
	Modified func(string, ...any) string
	Header   func(string, ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintfFunc()
	}
	return palette{
		Added:    mk(color.FgGreen),
		Removed:  mk(color.FgRed),
		Modified: mk(color.FgYellow),
		Header:   mk(color.Bold),
	}
}
