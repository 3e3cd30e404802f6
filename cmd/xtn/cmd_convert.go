package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-xtn"
	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/mapper"
)

const (
	formatXTN  = "xtn"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newConvertCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between XTN, JSON and YAML",
		Long: `Convert a document between XTN, JSON and YAML, keeping key order.

The input format defaults to the file extension, or XTN for stdin.
Comments are dropped. JSON and YAML scalars other than strings are
written to XTN as their text form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}
			src := sources[0]
			if from == "" {
				from = formatOf(src.path)
			}
			return convert(cmd.OutOrStdout(), src, from, to)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: xtn, json or yaml")
	cmd.Flags().StringVar(&to, "to", formatJSON, "output format: xtn, json or yaml")

	return cmd
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatXTN
}

func convert(w io.Writer, src source, from, to string) error {
	root, err := decodeSource(src, from)
	if err != nil {
		return err
	}

	switch to {
	case formatXTN:
		return xtn.Format(w, root)
	case formatJSON:
		v, err := mapper.ToOrdered(root)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case formatYAML:
		v, err := mapper.ToOrdered(root)
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q", to)
}

func decodeSource(src source, from string) (*ast.Object, error) {
	switch from {
	case formatXTN:
		return xtn.ParseBytes(src.data, src.name)
	case formatJSON, formatYAML:
		// JSON is read as YAML, which it is a subset of.
		var v any
		if err := yaml.UnmarshalWithOptions(src.data, &v, yaml.UseOrderedMap()); err != nil {
			return nil, fmt.Errorf("%s: %w", src.name, err)
		}
		n, err := mapper.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.name, err)
		}
		root, ok := n.(*ast.Object)
		if !ok {
			return nil, fmt.Errorf("%s: top-level value must be a mapping", src.name)
		}
		return root, nil
	}
	return nil, fmt.Errorf("unknown input format %q", from)
}
