// Package comments decides which node each comment line belongs to.
//
// Comments are buffered in two lists. Plain comments flow downward and are
// attached above the next node, or at the inner bottom of the container
// being closed. A comment in the escape form (#### text) binds upward: it
// moves everything buffered downward, plus itself, to the node that precedes
// it. That node receives the comments below itself, or at its inner top when
// it is a container that has no children yet.
package comments

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/whitespace"
)

// Parse turns a trimmed comment or blank line into a Comment.
func Parse(line string) ast.Comment {
	if line == "" {
		return ast.Comment{}
	}
	var prefix string
	switch {
	case strings.HasPrefix(line, "####"):
		prefix = ast.SpecialMarker
		line = whitespace.TrimLeft(line[4:])
	case strings.HasPrefix(line, ast.SpecialMarker):
		line = whitespace.TrimLeft(line[2:])
		if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
			prefix, line = line[:i], whitespace.TrimLeft(line[i:])
		} else {
			prefix, line = line, ""
		}
	default:
		line = line[1:]
		if r, size := utf8.DecodeRuneInString(line); size > 0 && unicode.IsSpace(r) {
			line = line[size:]
		}
	}
	if prefix != ast.SpecialMarker && whitespace.IsBlank(line) {
		return ast.Comment{Prefix: prefix}
	}
	return ast.Comment{Value: line, Prefix: prefix}
}

// Engine attaches buffered comments to nodes as the parser reports node
// boundaries. The zero value is not usable; create one with New.
type Engine struct {
	down []ast.Comment
	up   []ast.Comment

	// target is the last node boundary seen. Upward comments go to its inner
	// top while inner is set, below it otherwise.
	target ast.Node
	inner  bool
}

// New returns an engine whose first upward comments land at the inner top
// of root.
func New(root ast.Container) *Engine {
	return &Engine{target: root, inner: true}
}

// OnComment buffers c.
func (e *Engine) OnComment(c ast.Comment) {
	e.down = append(e.down, c)
	if c.Prefix == ast.SpecialMarker {
		e.up = append(e.up, e.down...)
		e.down = nil
	}
}

// OnNode is called when n has been created and inserted into its parent.
func (e *Engine) OnNode(n ast.Node) {
	e.flushUp()
	if len(e.down) > 0 {
		n.SetComments(ast.Above, e.down)
		e.down = nil
	}
	e.target = n
	_, isContainer := n.(ast.Container)
	e.inner = isContainer
}

// OnClose is called when c is closed, and for the root at end of input.
func (e *Engine) OnClose(c ast.Container) {
	e.flushUp()
	if len(e.down) > 0 {
		c.SetComments(ast.InnerBottom, e.down)
		e.down = nil
	}
	e.target = c
	e.inner = false
}

func (e *Engine) flushUp() {
	if len(e.up) == 0 {
		return
	}
	pos := ast.Below
	if e.inner {
		pos = ast.InnerTop
	}
	e.target.SetComments(pos, e.up)
	e.up = nil
}
