package lsp

import (
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// documents holds the text of the open documents by URI.
type documents struct {
	mu   sync.Mutex
	text map[protocol.DocumentUri]string
}

func newDocuments() *documents {
	return &documents{text: make(map[protocol.DocumentUri]string)}
}

func (d *documents) set(uri protocol.DocumentUri, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text[uri] = text
}

func (d *documents) get(uri protocol.DocumentUri) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.text[uri]
	return text, ok
}

func (d *documents) remove(uri protocol.DocumentUri) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.text, uri)
}

// apply applies content changes in order and returns the new text.
func (d *documents) apply(uri protocol.DocumentUri, changes []any) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	text := d.text[uri]
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			start := byteOffset(text, c.Range.Start)
			end := max(byteOffset(text, c.Range.End), start)
			text = text[:start] + c.Text + text[end:]
		}
	}
	d.text[uri] = text
	return text
}

// byteOffset converts an LSP position to a byte offset in text. Positions
// past the end of a line or the document are clamped.
func byteOffset(text string, pos protocol.Position) int {
	off := 0
	for range pos.Line {
		j, size := lineEnd(text[off:])
		if j < 0 {
			return len(text)
		}
		off += j + size
	}
	var units protocol.UInteger
	for off < len(text) && text[off] != '\n' && text[off] != '\r' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[off:])
		units += protocol.UInteger(utf16.RuneLen(r))
		off += size
	}
	return off
}
