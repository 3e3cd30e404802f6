package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/KimNorgaard/go-xtn"
)

type fmtOptions struct {
	write bool
	diff  bool
	list  bool
}

func newFmtCmd() *cobra.Command {
	var opts fmtOptions

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Rewrite XTN documents in canonical form, preserving comments",
		Long: `Rewrite XTN documents in canonical form to stdout.

If no file is provided, reads a document from stdin.

Use -w to overwrite the files in place, -l to list the files whose
formatting differs and -d to print the changes as a line diff.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.write && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newPalette(out)
			for _, src := range sources {
				if err := formatSource(out, p, src, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "overwrite the files in place")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a diff instead of the formatted document")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")

	return cmd
}

func formatSource(w io.Writer, p *palette, src source, opts fmtOptions) error {
	log := commonlog.GetLogger("xtn.fmt")

	output, err := xtn.Reformat(src.data, src.name)
	if err != nil {
		return err
	}
	changed := !bytes.Equal(src.data, output)
	log.Debugf("%s: changed=%t", src.name, changed)

	if opts.list && changed {
		fmt.Fprintln(w, src.name)
	}
	if opts.diff && changed {
		writeDiff(w, p, src.name, string(src.data), string(output))
	}
	if opts.write {
		if !changed {
			return nil
		}
		info, err := os.Stat(src.path)
		if err != nil {
			return err
		}
		return os.WriteFile(src.path, output, info.Mode().Perm())
	}
	if opts.list || opts.diff {
		return nil
	}
	_, err = w.Write(output)
	return err
}

// writeDiff prints the lines that differ between from and to, each run of
// changes introduced by the line number where it starts in from.
func writeDiff(w io.Writer, p *palette, name, from, to string) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintf(w, "--- %s\n+++ %s (formatted)\n", name, name)
	line := 1
	inHunk := false
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			n++
		}
		switch d.Type {
		case diffpatch.DiffEqual:
			line += n
			inHunk = false
			continue
		case diffpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintln(w, p.hunk.Sprintf("@@ -%d @@", line))
			}
			for _, l := range strings.Split(text, "\n") {
				fmt.Fprintln(w, p.removed.Sprint("-"+l))
			}
			line += n
		case diffpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintln(w, p.hunk.Sprintf("@@ -%d @@", line))
			}
			for _, l := range strings.Split(text, "\n") {
				fmt.Fprintln(w, p.added.Sprint("+"+l))
			}
		}
		inHunk = true
	}
}
