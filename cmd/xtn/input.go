package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

// source is a document read from a file or standard input.
type source struct {
	name string
	path string
	data []byte
}

// readSources reads the named files, or standard input when there are none.
func readSources(cmd *cobra.Command, args []string) ([]source, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []source{{name: stdinName, data: data}}, nil
	}
	sources := make([]source, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		sources = append(sources, source{name: path, path: path, data: data})
	}
	return sources, nil
}
