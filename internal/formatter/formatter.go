package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/whitespace"
)

const indentUnit = "    "

// Formatter writes an XTN tree to an output stream, one line at a time.
type Formatter struct {
	w       io.Writer
	buf     []byte
	indents []string
}

// New returns a new formatter that writes to w.
func New(w io.Writer) *Formatter {
	return &Formatter{w: w, indents: []string{""}}
}

// item is a unit of pending work. A container is visited twice: once to
// write its header and once, with closing set, to write its close marker.
type item struct {
	name    string
	node    ast.Node
	depth   int
	closing bool
}

// Format writes root as a document. Nesting is handled with an explicit
// work stack.
func (f *Formatter) Format(root *ast.Object) error {
	if err := f.writeComments(root.CommentsAbove, 0); err != nil {
		return err
	}
	if err := f.writeComments(root.CommentsInnerTop, 0); err != nil {
		return err
	}

	stack := pushChildren(nil, root, 0)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.closing {
			if err := f.writeClose(it); err != nil {
				return err
			}
			continue
		}
		if err := f.writeComments(it.node.Comments(ast.Above), it.depth); err != nil {
			return err
		}

		switch n := it.node.(type) {
		case *ast.Text:
			if err := f.writeText(it.name, n, it.depth); err != nil {
				return err
			}
			if err := f.writeComments(n.CommentsBelow, it.depth); err != nil {
				return err
			}
		case *ast.Object:
			if err := f.writeHeader(it.name, "{}", n.CommentsInnerTop, it.depth); err != nil {
				return err
			}
			stack = append(stack, item{node: n, depth: it.depth, closing: true})
			stack = pushChildren(stack, n, it.depth+1)
		case *ast.Array:
			if err := f.writeHeader(it.name, "[]", n.CommentsInnerTop, it.depth); err != nil {
				return err
			}
			stack = append(stack, item{node: n, depth: it.depth, closing: true})
			stack = pushChildren(stack, n, it.depth+1)
		default:
			return fmt.Errorf("xtn: unsupported node type for formatting: %T", n)
		}
	}

	if err := f.writeComments(root.CommentsInnerBottom, 0); err != nil {
		return err
	}
	return f.writeComments(root.CommentsBelow, 0)
}

// pushChildren appends the children of c in reverse order so that they are
// popped in document order.
func pushChildren(stack []item, c ast.Container, depth int) []item {
	switch n := c.(type) {
	case *ast.Object:
		keys := n.Keys()
		for _, k := range slices.Backward(keys) {
			child, _ := n.Get(k)
			stack = append(stack, item{name: k, node: child, depth: depth})
		}
	case *ast.Array:
		for _, child := range slices.Backward(n.Elements) {
			stack = append(stack, item{name: "+", node: child, depth: depth})
		}
	}
	return stack
}

func (f *Formatter) writeHeader(name, suffix string, innerTop []ast.Comment, depth int) error {
	if err := f.writeLine(depth, name, suffix, ":"); err != nil {
		return err
	}
	return f.writeComments(innerTop, depth+1)
}

func (f *Formatter) writeClose(it item) error {
	if err := f.writeComments(it.node.Comments(ast.InnerBottom), it.depth+1); err != nil {
		return err
	}
	if err := f.writeLine(it.depth, lexer.CloseMarker); err != nil {
		return err
	}
	return f.writeComments(it.node.Comments(ast.Below), it.depth)
}

func (f *Formatter) writeText(name string, t *ast.Text, depth int) error {
	if !NeedsBlock(t) {
		if t.Value == "" {
			return f.writeLine(depth, name, ":")
		}
		return f.writeLine(depth, name, ": ", t.Value)
	}
	if err := f.writeLine(depth, name, "'':"); err != nil {
		return err
	}
	if t.Value != "" {
		for _, line := range splitLines(t.Value) {
			if line == "" {
				if err := f.writeLine(0); err != nil {
					return err
				}
				continue
			}
			if err := f.writeLine(depth+1, line); err != nil {
				return err
			}
		}
	}
	return f.writeLine(depth, lexer.CloseMarker)
}

// NeedsBlock reports whether t must be written in the multi-line block form
// to survive a round trip.
func NeedsBlock(t *ast.Text) bool {
	v := t.Value
	if t.ForceMultiline {
		return true
	}
	if v == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(v)
	last, _ := utf8.DecodeLastRuneInString(v)
	return unicode.IsSpace(first) || unicode.IsSpace(last) || whitespace.HasOther(v)
}

func (f *Formatter) writeComments(comments []ast.Comment, depth int) error {
	for _, c := range comments {
		if err := f.writeComment(c, depth); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeComment(c ast.Comment, depth int) error {
	for i, line := range splitLines(c.Value) {
		line = whitespace.TrimRight(line)
		var err error
		switch {
		case i == 0 && c.Prefix != "":
			marker := ast.SpecialMarker
			if c.Prefix != ast.SpecialMarker && strings.HasPrefix(c.Prefix, "#") {
				// ####foo would read back as the escape form.
				marker += " "
			}
			if line == "" {
				err = f.writeLine(depth, marker, c.Prefix)
			} else {
				err = f.writeLine(depth, marker, c.Prefix, " ", line)
			}
		case line == "":
			err = f.writeLine(0)
		default:
			err = f.writeLine(depth, "# ", line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// splitLines splits s at the line terminators the lexer recognizes: \r\n, a
// lone \r and \n.
func splitLines(s string) []string {
	var lines []string
	for {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			return append(lines, s)
		}
		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
}

func (f *Formatter) indent(depth int) string {
	for len(f.indents) <= depth {
		f.indents = append(f.indents, f.indents[len(f.indents)-1]+indentUnit)
	}
	return f.indents[depth]
}

// writeLine writes the indentation for depth, the parts and a newline with a
// single call to the underlying writer.
func (f *Formatter) writeLine(depth int, parts ...string) error {
	f.buf = append(f.buf[:0], f.indent(depth)...)
	for _, p := range parts {
		f.buf = append(f.buf, p...)
	}
	f.buf = append(f.buf, '\n')
	_, err := f.w.Write(f.buf)
	return err
}
