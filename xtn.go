package xtn

import (
	"bytes"
	"io"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/parser"
)

// Marshaler is the interface implemented by types that can build their own
// XTN node.
type Marshaler interface {
	MarshalXTN() (ast.Node, error)
}

// Unmarshaler is the interface implemented by types that can populate
// themselves from an XTN node. The node must not be retained.
type Unmarshaler interface {
	UnmarshalXTN(ast.Node) error
}

// Parse reads a whole document from r and returns its root object with all
// comments attached. name is used in error messages. A malformed document
// yields a *errors.ParseError describing the first problem.
func Parse(r io.Reader, name string) (*ast.Object, error) {
	return parser.New(lexer.New(r), name).Parse()
}

// ParseBytes is like Parse for an in-memory document.
func ParseBytes(data []byte, name string) (*ast.Object, error) {
	return Parse(bytes.NewReader(data), name)
}

// Marshal returns the XTN encoding of v.
//
// v must encode to an object: a struct, a map with string keys, an
// *ast.Object, or a Marshaler returning an object.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the XTN-encoded data and stores the result in the value
// pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	root, err := ParseBytes(data, o.name)
	if err != nil {
		return err
	}
	return decodeTree(root, v, o)
}
