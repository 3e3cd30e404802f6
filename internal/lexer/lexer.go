package lexer

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	xerrors "github.com/KimNorgaard/go-xtn/errors"
	"github.com/KimNorgaard/go-xtn/internal/token"
	"github.com/KimNorgaard/go-xtn/internal/whitespace"
)

// CloseMarker terminates objects, arrays and multi-line blocks.
const CloseMarker = "----"

// Lexer splits XTN source into lines. A line ends at "\n", "\r\n" or a lone
// "\r"; the terminator is not part of the line.
type Lexer struct {
	r    *bufio.Reader
	buf  bytes.Buffer
	line int
	done bool
}

// New creates and returns a new Lexer.
func New(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r)}
}

// Next returns the next line. It returns io.EOF when the input is exhausted.
// A final line without a terminator is still returned.
func (l *Lexer) Next() (token.Line, error) {
	if l.done {
		return token.Line{}, io.EOF
	}
	l.buf.Reset()
	for {
		b, err := l.r.ReadByte()
		if err == io.EOF {
			l.done = true
			if l.buf.Len() == 0 {
				return token.Line{}, io.EOF
			}
			return l.emit(), nil
		}
		if err != nil {
			return token.Line{}, err
		}
		switch b {
		case '\n':
			return l.emit(), nil
		case '\r':
			if next, err := l.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = l.r.ReadByte()
			}
			return l.emit(), nil
		default:
			l.buf.WriteByte(b)
		}
	}
}

// Line returns the number of lines read so far.
func (l *Lexer) Line() int { return l.line }

func (l *Lexer) emit() token.Line {
	l.line++
	return token.Line{Number: l.line, Text: l.buf.String()}
}

// Classify determines what a single non-multiline line means. inArray tells
// whether the innermost open frame is an array.
func Classify(raw string, inArray bool) token.Token { //nolint:gocyclo
	line := strings.TrimSpace(raw)
	if line == "" {
		return token.Token{Type: token.BLANK}
	}
	if line[0] == '#' {
		return token.Token{Type: token.COMMENT, Literal: line}
	}

	lead := len(raw) - len(whitespace.TrimLeft(raw))
	left, right, found := strings.Cut(line, ":")
	if !found {
		return classifyBare(line, lead, inArray)
	}

	colon := lead + len(left)
	left = whitespace.TrimRight(left)
	right = whitespace.TrimLeft(right)
	keyCol, keyEnd := lead+1, lead+len(left)+1
	valCol, valEnd := lead+len(line)-len(right)+1, lead+len(line)+1

	if left == "" {
		return illegal(xerrors.LineMustNotStartWithColon, colon+1, colon+2)
	}
	if left[0] == '+' && !inArray {
		return illegal(xerrors.PlusEncounteredOutsideArray, keyCol, keyEnd)
	}

	switch {
	case strings.HasSuffix(left, "{}"):
		if right != "" {
			return illegal(xerrors.ObjectMustBeOnNewLine, valCol, valEnd)
		}
		return token.Token{Type: token.OBJECT, Key: openerKey(left), Column: keyCol, EndColumn: keyEnd}
	case strings.HasSuffix(left, "[]"):
		if right != "" {
			return illegal(xerrors.ArrayMustBeOnNewLine, valCol, valEnd)
		}
		return token.Token{Type: token.ARRAY, Key: openerKey(left), Column: keyCol, EndColumn: keyEnd}
	case strings.HasSuffix(left, "''"):
		indent := raw[:lead]
		if tok, ok := checkIndent(indent); !ok {
			return tok
		}
		if right != "" {
			return illegal(xerrors.MultilineMustBeOnNewLine, valCol, valEnd)
		}
		return token.Token{
			Type:      token.MULTILINE,
			Key:       openerKey(left),
			Indent:    indent,
			Column:    keyCol,
			EndColumn: keyEnd,
		}
	}

	return token.Token{
		Type:      token.ASSIGN,
		Key:       whitespace.Collapse(left),
		Value:     whitespace.MapSpaces(right),
		Column:    keyCol,
		EndColumn: keyEnd,
	}
}

func classifyBare(line string, lead int, inArray bool) token.Token {
	if IsCloseMarker(line) {
		return token.Token{Type: token.CLOSE, Column: lead + 1, EndColumn: lead + len(CloseMarker) + 1}
	}
	if inArray {
		if line[0] == '+' {
			return illegal(xerrors.MissingColon, lead+2, lead+3)
		}
		return illegal(xerrors.ArrayElementMustStartWithPlus, lead+1, lead+len(line)+1)
	}
	return illegal(xerrors.MissingColon, lead+1, lead+len(line)+1)
}

// IsCloseMarker reports whether s is the close marker followed by optional
// whitespace.
func IsCloseMarker(s string) bool {
	rest, ok := strings.CutPrefix(s, CloseMarker)
	return ok && whitespace.IsBlank(rest)
}

// checkIndent validates the indentation of a multi-line opener: it must be
// made of spaces only or of tabs only.
func checkIndent(indent string) (token.Token, bool) {
	if indent == "" {
		return token.Token{}, true
	}
	first, size := utf8.DecodeRuneInString(indent)
	if first != ' ' && first != '\t' {
		return illegal(xerrors.IndentationMustBeSpaceOrTab, 1, size+1), false
	}
	for i, r := range indent {
		if r != first {
			return illegal(xerrors.IndentationMustNotBeMixed, i+1, len(indent)+1), false
		}
	}
	return token.Token{}, true
}

func openerKey(left string) string {
	return whitespace.Collapse(whitespace.TrimRight(left[:len(left)-2]))
}

func illegal(code xerrors.Code, col, end int) token.Token {
	return token.Token{
		Type:      token.ILLEGAL,
		Code:      code,
		Literal:   code.Message(),
		Column:    col,
		EndColumn: end,
	}
}
