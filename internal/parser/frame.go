package parser

import (
	"strings"

	"github.com/KimNorgaard/go-xtn/ast"
	xerrors "github.com/KimNorgaard/go-xtn/errors"
	"github.com/KimNorgaard/go-xtn/internal/token"
)

// frame is one entry of the parse stack: *objectFrame, *arrayFrame or
// *multilineFrame.
type frame interface {
	span() Span
}

// containerFrame is a frame that accepts keyed children.
type containerFrame interface {
	frame
	node() ast.Container
	set(key string, n ast.Node) (slot, *xerrors.ParseError)
}

type objectFrame struct {
	obj   *ast.Object
	key   string
	start int
}

func (f *objectFrame) node() ast.Container { return f.obj }

func (f *objectFrame) span() Span {
	return Span{Kind: token.OBJECT, Key: f.key, StartLine: f.start}
}

func (f *objectFrame) set(key string, n ast.Node) (slot, *xerrors.ParseError) {
	if f.obj.Has(key) {
		code := xerrors.ObjectKeysCannotBeRepeated
		return slot{}, &xerrors.ParseError{Code: code, Message: code.Message(key)}
	}
	f.obj.Set(key, n)
	return slot{obj: f.obj, key: key}, nil
}

type arrayFrame struct {
	arr   *ast.Array
	key   string
	start int
}

func (f *arrayFrame) node() ast.Container { return f.arr }

func (f *arrayFrame) span() Span {
	return Span{Kind: token.ARRAY, Key: f.key, StartLine: f.start}
}

func (f *arrayFrame) set(key string, n ast.Node) (slot, *xerrors.ParseError) {
	if key != "+" {
		code := xerrors.ArrayElementMustStartWithPlus
		if strings.HasPrefix(key, "+") {
			code = xerrors.ArrayElementMustNotHaveAKey
		}
		return slot{}, &xerrors.ParseError{Code: code, Message: code.Message()}
	}
	f.arr.Append(n)
	return slot{arr: f.arr, index: len(f.arr.Elements) - 1}, nil
}

// slot locates a child inside its parent container.
type slot struct {
	obj   *ast.Object
	key   string
	arr   *ast.Array
	index int
}

func (s slot) text() *ast.Text {
	var n ast.Node
	if s.obj != nil {
		n, _ = s.obj.Get(s.key)
	} else {
		n = s.arr.Elements[s.index]
	}
	t, _ := n.(*ast.Text)
	return t
}

// multilineFrame accumulates the body of a key'': block until its close
// marker. The text is stored into the placeholder node at slot.
type multilineFrame struct {
	slot   slot
	key    string
	start  int
	indent string
	// expected is the indentation every body line must carry. It is derived
	// from the first body line when the opener is not indented.
	expected string
	text     strings.Builder
}

func newMultilineFrame(s slot, tok token.Token, line int) *multilineFrame {
	f := &multilineFrame{slot: s, key: tok.Key, start: line, indent: tok.Indent}
	switch {
	case tok.Indent == "":
	case tok.Indent[0] == '\t':
		f.expected = tok.Indent + "\t"
	default:
		f.expected = tok.Indent + "    "
	}
	return f
}

func (f *multilineFrame) span() Span {
	return Span{Kind: token.MULTILINE, Key: f.key, StartLine: f.start}
}

// commit stores the accumulated text without its final newline.
func (f *multilineFrame) commit() {
	v := f.text.String()
	if v != "" {
		v = v[:len(v)-1]
	}
	if t := f.slot.text(); t != nil {
		t.Value = v
	}
}
