package ast

import (
	"bytes"
	"errors"
	"iter"
	"slices"
	"strconv"
)

// SpecialMarker introduces a prefixed comment (##prefix text). A comment whose
// prefix is the marker itself was written in the escape form (#### text) and
// binds to the element preceding it.
const SpecialMarker = "##"

// ErrDuplicateKey is returned by Object.Add when the key is already present.
var ErrDuplicateKey = errors.New("ast: duplicate object key")

// Comment is a single comment line.
type Comment struct {
	Value  string
	Prefix string
}

// IsBlank reports whether c represents an empty line.
func (c Comment) IsBlank() bool { return c.Value == "" && c.Prefix == "" }

// Position identifies one of the comment slots of a node.
type Position int

const (
	Above Position = iota
	Below
	InnerTop
	InnerBottom
)

func (p Position) String() string {
	switch p {
	case Above:
		return "above"
	case Below:
		return "below"
	case InnerTop:
		return "inner-top"
	case InnerBottom:
		return "inner-bottom"
	}
	return "Position(" + strconv.Itoa(int(p)) + ")"
}

// Node is the base interface for all XTN nodes. It is implemented by
// *Text, *Array and *Object only.
type Node interface {
	// Comments returns the comments attached at pos. A nil slice means none.
	Comments(pos Position) []Comment
	// SetComments replaces the comments attached at pos.
	SetComments(pos Position, comments []Comment)
	// String returns a compact debug representation of the node.
	String() string
	xtnNode()
}

// Container is a node that holds other nodes: *Array or *Object.
type Container interface {
	Node
	Len() int
	container()
}

// Text is a scalar text value.
type Text struct {
	Value string
	// ForceMultiline requests the block form when serializing even if the
	// value would fit on the key line.
	ForceMultiline bool

	CommentsAbove []Comment
	CommentsBelow []Comment
}

// NewText returns a Text node holding v.
func NewText(v string) *Text { return &Text{Value: v} }

func (t *Text) xtnNode() {}

// Comments returns the comments at pos. Text has no inner slots.
func (t *Text) Comments(pos Position) []Comment {
	switch pos {
	case Above:
		return t.CommentsAbove
	case Below:
		return t.CommentsBelow
	}
	return nil
}

// SetComments sets the comments at pos. Inner positions are ignored.
func (t *Text) SetComments(pos Position, comments []Comment) {
	switch pos {
	case Above:
		t.CommentsAbove = comments
	case Below:
		t.CommentsBelow = comments
	}
}

func (t *Text) String() string { return strconv.Quote(t.Value) }

// Array is an ordered sequence of nodes.
type Array struct {
	Elements []Node

	CommentsAbove       []Comment
	CommentsBelow       []Comment
	CommentsInnerTop    []Comment
	CommentsInnerBottom []Comment
}

func (a *Array) xtnNode()   {}
func (a *Array) container() {}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elements) }

// Append adds n to the end of the array.
func (a *Array) Append(n Node) { a.Elements = append(a.Elements, n) }

func (a *Array) Comments(pos Position) []Comment {
	switch pos {
	case Above:
		return a.CommentsAbove
	case Below:
		return a.CommentsBelow
	case InnerTop:
		return a.CommentsInnerTop
	case InnerBottom:
		return a.CommentsInnerBottom
	}
	return nil
}

func (a *Array) SetComments(pos Position, comments []Comment) {
	switch pos {
	case Above:
		a.CommentsAbove = comments
	case Below:
		a.CommentsBelow = comments
	case InnerTop:
		a.CommentsInnerTop = comments
	case InnerBottom:
		a.CommentsInnerBottom = comments
	}
}

func (a *Array) String() string {
	var out bytes.Buffer
	out.WriteByte('[')
	for i, e := range a.Elements {
		if i > 0 {
			out.WriteByte(',')
		}
		out.WriteString(e.String())
	}
	out.WriteByte(']')
	return out.String()
}

// Object is an ordered mapping from unique keys to nodes. The zero value is
// an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]Node

	CommentsAbove       []Comment
	CommentsBelow       []Comment
	CommentsInnerTop    []Comment
	CommentsInnerBottom []Comment
}

// NewObject returns an empty object.
func NewObject() *Object { return &Object{} }

func (o *Object) xtnNode()   {}
func (o *Object) container() {}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// Get returns the node stored under key.
func (o *Object) Get(key string) (Node, bool) {
	n, ok := o.values[key]
	return n, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set stores n under key. An existing key keeps its position.
func (o *Object) Set(key string, n Node) {
	if o.values == nil {
		o.values = make(map[string]Node)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = n
}

// Add stores n under a new key. It returns ErrDuplicateKey if the key is
// already present.
func (o *Object) Add(key string, n Node) error {
	if o.Has(key) {
		return ErrDuplicateKey
	}
	o.Set(key, n)
	return nil
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if !o.Has(key) {
		return false
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// All iterates over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

func (o *Object) Comments(pos Position) []Comment {
	switch pos {
	case Above:
		return o.CommentsAbove
	case Below:
		return o.CommentsBelow
	case InnerTop:
		return o.CommentsInnerTop
	case InnerBottom:
		return o.CommentsInnerBottom
	}
	return nil
}

func (o *Object) SetComments(pos Position, comments []Comment) {
	switch pos {
	case Above:
		o.CommentsAbove = comments
	case Below:
		o.CommentsBelow = comments
	case InnerTop:
		o.CommentsInnerTop = comments
	case InnerBottom:
		o.CommentsInnerBottom = comments
	}
}

func (o *Object) String() string {
	var out bytes.Buffer
	out.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		out.WriteString(k)
		out.WriteByte(':')
		out.WriteString(o.values[k].String())
	}
	out.WriteByte('}')
	return out.String()
}
