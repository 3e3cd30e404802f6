package lsp

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	xerrors "github.com/KimNorgaard/go-xtn/errors"
	"github.com/KimNorgaard/go-xtn/internal/formatter"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/parser"
)

const diagnosticSource = "xtn"

// analysis is the result of parsing one version of a document.
type analysis struct {
	parser *parser.Parser
	err    error
}

func analyze(name, text string) *analysis {
	p := parser.New(lexer.New(strings.NewReader(text)), name)
	_, err := p.Parse()
	return &analysis{parser: p, err: err}
}

// diagnostics converts the parse error of text, if any, to LSP diagnostics.
func diagnostics(name, text string) []protocol.Diagnostic {
	a := analyze(name, text)
	var perr *xerrors.ParseError
	if !errors.As(a.err, &perr) {
		return []protocol.Diagnostic{}
	}
	return []protocol.Diagnostic{toDiagnostic(perr, text)}
}

func toDiagnostic(perr *xerrors.ParseError, text string) protocol.Diagnostic {
	line := lineAt(text, perr.Line)
	start := max(perr.Column, 1)
	end := perr.EndColumn
	if end <= start {
		end = len(line) + 1
	}
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: lineIndex(perr.Line), Character: utf16Column(line, start)},
			End:   protocol.Position{Line: lineIndex(perr.Line), Character: utf16Column(line, end)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: perr.Code.String()},
		Source:   &source,
		Message:  perr.Message,
	}
}

// foldingRanges returns a range for every object, array and multi-line value
// that was closed before the first error.
func foldingRanges(text string) []protocol.FoldingRange {
	a := analyze("", text)
	spans := a.parser.Spans()
	ranges := make([]protocol.FoldingRange, 0, len(spans))
	for _, s := range spans {
		if s.EndLine <= s.StartLine {
			continue
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: lineIndex(s.StartLine),
			EndLine:   lineIndex(s.EndLine),
		})
	}
	return ranges
}

// formatEdits returns a single edit replacing the whole document with its
// canonical form. It returns no edits if the document is already canonical
// or cannot be parsed.
func formatEdits(text string) ([]protocol.TextEdit, error) {
	root, err := parser.New(lexer.New(strings.NewReader(text)), "").Parse()
	if err != nil {
		return nil, nil
	}
	var b strings.Builder
	if err := formatter.New(&b).Format(root); err != nil {
		return nil, err
	}
	if b.String() == text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{}, End: endPosition(text)},
		NewText: b.String(),
	}}, nil
}

// lineAt returns the 1-based line n of text without its terminator, or ""
// past the end.
func lineAt(text string, n int) string {
	for i := 1; i < n; i++ {
		j, size := lineEnd(text)
		if j < 0 {
			return ""
		}
		text = text[j+size:]
	}
	if j, _ := lineEnd(text); j >= 0 {
		text = text[:j]
	}
	return text
}

// lineEnd returns the index and length of the first line terminator in s,
// or -1 when there is none. A lone \r ends a line as it does in the lexer.
func lineEnd(s string) (int, int) {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 {
		return -1, 0
	}
	if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
		return i, 2
	}
	return i, 1
}

func lineIndex(n int) protocol.UInteger {
	if n < 1 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

// utf16Column converts a 1-based byte column of line to a 0-based UTF-16
// offset, as used by LSP positions. Columns past the end are clamped.
func utf16Column(line string, col int) protocol.UInteger {
	limit := min(col-1, len(line))
	var n protocol.UInteger
	for i := 0; i < limit; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > limit {
			break
		}
		n += protocol.UInteger(utf16.RuneLen(r))
		i += size
	}
	return n
}

func endPosition(text string) protocol.Position {
	var line protocol.UInteger
	for {
		j, size := lineEnd(text)
		if j < 0 {
			break
		}
		text = text[j+size:]
		line++
	}
	return protocol.Position{
		Line:      line,
		Character: utf16Column(text, len(text)+1),
	}
}
