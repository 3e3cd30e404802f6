package errors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a parse error.
type Code int

const (
	ObjectMustBeOnNewLine Code = iota + 1
	ArrayMustBeOnNewLine
	MultilineMustBeOnNewLine
	LineMustNotStartWithColon
	PlusEncounteredOutsideArray
	ArrayElementMustStartWithPlus
	MissingColon
	UnmatchedCloseMarker
	MissingCloseMarker
	IndentationMustBeSpaceOrTab
	IndentationMustNotBeMixed
	InsufficientIndentation
	ArrayElementMustNotHaveAKey
	ObjectKeysCannotBeRepeated
	IncorrectIndentation
)

var codeNames = map[Code]string{
	ObjectMustBeOnNewLine:         "OBJECT_MUST_BE_ON_NEW_LINE",
	ArrayMustBeOnNewLine:          "ARRAY_MUST_BE_ON_NEW_LINE",
	MultilineMustBeOnNewLine:      "MULTILINE_MUST_BE_ON_NEW_LINE",
	LineMustNotStartWithColon:     "LINE_MUST_NOT_START_WITH_COLON",
	PlusEncounteredOutsideArray:   "PLUS_ENCOUNTERED_OUTSIDE_ARRAY",
	ArrayElementMustStartWithPlus: "ARRAY_ELEMENT_MUST_START_WITH_PLUS",
	MissingColon:                  "MISSING_COLON",
	UnmatchedCloseMarker:          "UNMATCHED_CLOSE_MARKER",
	MissingCloseMarker:            "MISSING_CLOSE_MARKER",
	IndentationMustBeSpaceOrTab:   "INDENTATION_MUST_BE_SPACE_OR_TAB",
	IndentationMustNotBeMixed:     "INDENTATION_MUST_NOT_BE_MIXED",
	InsufficientIndentation:       "INSUFFICIENT_INDENTATION",
	ArrayElementMustNotHaveAKey:   "ARRAY_ELEMENT_MUST_NOT_HAVE_A_KEY",
	ObjectKeysCannotBeRepeated:    "OBJECT_KEYS_CANNOT_BE_REPEATED",
	IncorrectIndentation:          "INCORRECT_INDENTATION",
}

var descriptions = map[Code]string{
	ObjectMustBeOnNewLine:         "An object must start on a new line",
	ArrayMustBeOnNewLine:          "An array must start on a new line",
	MultilineMustBeOnNewLine:      "A multi-line value must start on a new line",
	LineMustNotStartWithColon:     "A line cannot start with a colon",
	PlusEncounteredOutsideArray:   "A line cannot start with a plus outside the context of an array",
	ArrayElementMustStartWithPlus: "An array element must start with a plus",
	MissingColon:                  "A colon was expected",
	UnmatchedCloseMarker:          "The close marker ---- does not match any open object or array",
	MissingCloseMarker:            "A close marker ---- was expected",
	IndentationMustBeSpaceOrTab:   "Indentation for a complex text value must be a space (32) or tab (9) character",
	IndentationMustNotBeMixed:     "Indentation for a complex text value can use either spaces or tabs but not both",
	InsufficientIndentation:       "Lines of complex text must be indented by 4 spaces or a tab compared to the key line",
	ArrayElementMustNotHaveAKey:   "An array element cannot be named",
	ObjectKeysCannotBeRepeated:    "Object keys cannot be repeated. %s already exists.",
	IncorrectIndentation:          "The indentation on the closing line for a complex text value must exactly match the key line",
}

// String returns the upper snake case name of the code.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Message returns the human readable description of the code. Arguments are
// only used by codes whose description names the offending value.
func (c Code) Message(args ...any) string {
	d, ok := descriptions[c]
	if !ok {
		return c.String()
	}
	if len(args) > 0 {
		return fmt.Sprintf(d, args...)
	}
	return d
}

// ParseError is the first error encountered while parsing a document.
// Columns are 1-based byte offsets into the line; EndColumn is exclusive.
type ParseError struct {
	Code      Code
	Name      string
	Line      int
	Column    int
	EndColumn int
	Message   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: error: %s", e.Name, e.Line, e.Message)
}

// Is reports whether target is a *ParseError with the same code, so that
// errors.Is(err, &ParseError{Code: MissingColon}) matches any position.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the ParseError wrapped in err.
func CodeOf(err error) (Code, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
