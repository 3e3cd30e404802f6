package xtn

import (
	"bytes"
	"io"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/formatter"
)

// Format writes root to w as a document. Canonical input that was parsed
// with Parse is reproduced byte for byte.
func Format(w io.Writer, root *ast.Object) error {
	return formatter.New(w).Format(root)
}

// FormatBytes returns the document form of root.
func FormatBytes(root *ast.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := Format(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Reformat parses src and writes it back in canonical form. Comments and
// key order are kept.
func Reformat(src []byte, name string) ([]byte, error) {
	root, err := ParseBytes(src, name)
	if err != nil {
		return nil, err
	}
	return FormatBytes(root)
}
