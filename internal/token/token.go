package token

import xerrors "github.com/KimNorgaard/go-xtn/errors"

// Type is the type of a classified line.
type Type string

// Line is one physical line of input without its terminator.
type Line struct {
	Number int
	Text   string
}

// Token is the classification of a single line.
type Token struct {
	Type Type
	// Key is the normalized key of an assignment or opener.
	Key string
	// Value is the normalized inline value of an ASSIGN line.
	Value string
	// Indent is the leading whitespace of a MULTILINE opener.
	Indent string
	// Literal is the trimmed line for COMMENT and BLANK tokens and the
	// message for ILLEGAL tokens.
	Literal string
	// Code is set for ILLEGAL tokens.
	Code xerrors.Code
	// Column and EndColumn are 1-based byte offsets of the relevant part of
	// the line; EndColumn is exclusive.
	Column    int
	EndColumn int
}

const (
	ILLEGAL Type = "ILLEGAL" // A line that cannot be classified

	BLANK   Type = "BLANK" // A whitespace-only line
	COMMENT Type = "#"     // # a comment

	OBJECT    Type = "{}" // key{}:
	ARRAY     Type = "[]" // key[]:
	MULTILINE Type = "''" // key'':
	ASSIGN    Type = ":"  // key: value
	CLOSE     Type = "----"
)

// Opens reports whether the token starts a new frame.
func (t Type) Opens() bool {
	return t == OBJECT || t == ARRAY || t == MULTILINE
}

// IsComment reports whether the token is buffered as a comment.
func (t Type) IsComment() bool {
	return t == COMMENT || t == BLANK
}
