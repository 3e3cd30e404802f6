package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KimNorgaard/go-xtn/ast"
	xerrors "github.com/KimNorgaard/go-xtn/errors"
	"github.com/KimNorgaard/go-xtn/internal/comments"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/token"
)

// Span records the lines covered by a closed object, array or multi-line
// block. StartLine is the opener, EndLine the close marker.
type Span struct {
	Kind      token.Type
	Key       string
	StartLine int
	EndLine   int
}

// Parser builds a tree from the lines produced by a lexer. Open containers
// are kept on an explicit stack, so nesting depth is not limited by the call
// stack.
type Parser struct {
	l        *lexer.Lexer
	name     string
	root     *ast.Object
	stack    []frame
	comments *comments.Engine
	spans    []Span
}

// New returns a parser reading from l. name is used in error messages.
func New(l *lexer.Lexer, name string) *Parser {
	root := ast.NewObject()
	return &Parser{
		l:        l,
		name:     name,
		root:     root,
		stack:    []frame{&objectFrame{obj: root}},
		comments: comments.New(root),
	}
}

// Parse consumes the whole input. On failure it returns the first error,
// which is a *errors.ParseError for malformed input, and no tree.
func (p *Parser) Parse() (*ast.Object, error) {
	for {
		line, err := p.l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xtn: reading %s: %w", p.name, err)
		}
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if len(p.stack) > 1 {
		return nil, p.fail(xerrors.MissingCloseMarker, p.l.Line()+1, 1, 1)
	}
	p.comments.OnClose(p.root)
	return p.root, nil
}

// Spans returns the spans of all containers closed so far, in closing order.
func (p *Parser) Spans() []Span { return p.spans }

func (p *Parser) top() frame { return p.stack[len(p.stack)-1] }

func (p *Parser) parseLine(line token.Line) error {
	var inArray bool
	switch f := p.top().(type) {
	case *multilineFrame:
		return p.parseMultiline(f, line)
	case *arrayFrame:
		inArray = true
	}

	tok := lexer.Classify(line.Text, inArray)
	switch tok.Type {
	case token.BLANK, token.COMMENT:
		p.comments.OnComment(comments.Parse(tok.Literal))
	case token.ILLEGAL:
		return p.fail(tok.Code, line.Number, tok.Column, tok.EndColumn)
	case token.CLOSE:
		if len(p.stack) == 1 {
			return p.fail(xerrors.UnmatchedCloseMarker, line.Number, tok.Column, tok.EndColumn)
		}
		f := p.pop(line.Number)
		p.comments.OnClose(f.(containerFrame).node())
	case token.OBJECT:
		obj := ast.NewObject()
		if _, err := p.insert(tok, obj, line.Number); err != nil {
			return err
		}
		p.stack = append(p.stack, &objectFrame{obj: obj, key: tok.Key, start: line.Number})
	case token.ARRAY:
		arr := &ast.Array{}
		if _, err := p.insert(tok, arr, line.Number); err != nil {
			return err
		}
		p.stack = append(p.stack, &arrayFrame{arr: arr, key: tok.Key, start: line.Number})
	case token.MULTILINE:
		s, err := p.insert(tok, &ast.Text{ForceMultiline: true}, line.Number)
		if err != nil {
			return err
		}
		p.stack = append(p.stack, newMultilineFrame(s, tok, line.Number))
	case token.ASSIGN:
		if _, err := p.insert(tok, ast.NewText(tok.Value), line.Number); err != nil {
			return err
		}
	default:
		return fmt.Errorf("xtn: unexpected token %s at %s:%d", tok.Type, p.name, line.Number)
	}
	return nil
}

// insert validates the key against the innermost container and stores n.
func (p *Parser) insert(tok token.Token, n ast.Node, line int) (slot, error) {
	cf, ok := p.top().(containerFrame)
	if !ok {
		return slot{}, fmt.Errorf("xtn: no open container at %s:%d", p.name, line)
	}
	s, perr := cf.set(tok.Key, n)
	if perr != nil {
		perr.Name, perr.Line = p.name, line
		perr.Column, perr.EndColumn = tok.Column, tok.EndColumn
		return slot{}, perr
	}
	p.comments.OnNode(n)
	return s, nil
}

func (p *Parser) parseMultiline(f *multilineFrame, line token.Line) error {
	s := line.Text
	if f.expected == "" {
		if strings.HasPrefix(s, "\t") {
			f.expected = "\t"
		} else {
			f.expected = "    "
		}
	}

	ch := f.expected[0]
	n := 0
	for n < len(f.expected) && n < len(s) && s[n] == ch {
		n++
	}
	if n == len(f.expected) {
		f.text.WriteString(s[n:])
		f.text.WriteByte('\n')
		return nil
	}

	if n < len(s) {
		if r, size := utf8.DecodeRuneInString(s[n:]); unicode.IsSpace(r) {
			return p.fail(xerrors.IndentationMustNotBeMixed, line.Number, n+1, n+size+1)
		}
	}
	rest := s[n:]
	switch {
	case lexer.IsCloseMarker(rest):
		if n != len(f.indent) {
			return p.fail(xerrors.IncorrectIndentation, line.Number, n+1, n+len(lexer.CloseMarker)+1)
		}
		f.commit()
		p.pop(line.Number)
	case rest != "":
		return p.fail(xerrors.InsufficientIndentation, line.Number, n+1, len(s)+1)
	default:
		f.text.WriteByte('\n')
	}
	return nil
}

func (p *Parser) pop(line int) frame {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	span := f.span()
	span.EndLine = line
	p.spans = append(p.spans, span)
	return f
}

func (p *Parser) fail(code xerrors.Code, line, col, end int) *xerrors.ParseError {
	return &xerrors.ParseError{
		Code:      code,
		Name:      p.name,
		Line:      line,
		Column:    col,
		EndColumn: end,
		Message:   code.Message(),
	}
}
