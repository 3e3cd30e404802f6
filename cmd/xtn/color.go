package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette holds the colors used for terminal output. Colors are disabled
// unless the writer is a terminal.
type palette struct {
	name    *color.Color
	err     *color.Color
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
}

func newPalette(w io.Writer) *palette {
	p := &palette{
		name:    color.New(color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, c := range []*color.Color{p.name, p.err, p.added, p.removed, p.hunk} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
