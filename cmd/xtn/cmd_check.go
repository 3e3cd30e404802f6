package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/KimNorgaard/go-xtn"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax errors in XTN documents",
		Long: `Parse each document and report the first error found in it.

If no file is provided, reads a document from stdin.
Exits with status 1 if any document has an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			failed := checkSources(out, newPalette(out), sources)
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
}

// checkSources prints the parse error of each source and returns the number
// of sources with errors.
func checkSources(w io.Writer, p *palette, sources []source) int {
	log := commonlog.GetLogger("xtn.check")
	failed := 0
	for _, src := range sources {
		_, err := xtn.ParseBytes(src.data, src.name)
		if err == nil {
			log.Debugf("%s: ok", src.name)
			continue
		}
		failed++
		var perr *xtn.ParseError
		if !errors.As(err, &perr) {
			fmt.Fprintf(w, "%s: %s\n", p.name.Sprint(src.name), err)
			continue
		}
		fmt.Fprintf(w, "%s:%d: %s %s\n",
			p.name.Sprint(perr.Name), perr.Line, p.err.Sprint("error:"), perr.Message)
	}
	return failed
}
