// Package mapper converts between XTN trees and plain Go values.
//
// The projection is lossy: comments and the multi-line flag are dropped.
// Objects become map[string]any (or Ordered), arrays []any and text string.
package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-xtn/ast"
)

// ToValue projects n to map[string]any, []any and string values.
func ToValue(n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Text:
		return n.Value, nil
	case *ast.Array:
		out := make([]any, 0, len(n.Elements))
		for _, e := range n.Elements {
			v, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.Object:
		out := make(map[string]any, n.Len())
		for k, child := range n.All() {
			v, err := ToValue(child)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("xtn: unsupported node type %T", n)
	}
}

// Entry is a key/value pair of an Ordered object.
type Entry struct {
	Key   string
	Value any
}

// Ordered is an object projection that keeps the document's key order. It
// encodes to JSON and YAML with keys in that order.
type Ordered []Entry

// ToOrdered is like ToValue but projects objects to Ordered.
func ToOrdered(n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Text:
		return n.Value, nil
	case *ast.Array:
		out := make([]any, 0, len(n.Elements))
		for _, e := range n.Elements {
			v, err := ToOrdered(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.Object:
		out := make(Ordered, 0, n.Len())
		for k, child := range n.All() {
			v, err := ToOrdered(child)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("xtn: unsupported node type %T", n)
	}
}

// Get returns the value stored under key.
func (o Ordered) Get(key string) (any, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (o Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (o Ordered) MarshalYAML() (any, error) {
	return toMapSlice(o), nil
}

func toMapSlice(v any) any {
	switch v := v.(type) {
	case Ordered:
		ms := make(yaml.MapSlice, 0, len(v))
		for _, e := range v {
			ms = append(ms, yaml.MapItem{Key: e.Key, Value: toMapSlice(e.Value)})
		}
		return ms
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toMapSlice(e)
		}
		return out
	}
	return v
}

// FromValue builds a tree from plain values. Objects may be given as
// map[string]any (keys are sorted), Ordered or yaml.MapSlice (order kept).
// Booleans, numbers and nil, as produced by JSON and YAML decoders, are
// written as their text form; nil becomes empty text.
func FromValue(v any) (ast.Node, error) {
	switch v := v.(type) {
	case ast.Node:
		return v, nil
	case nil:
		return ast.NewText(""), nil
	case string:
		return ast.NewText(v), nil
	case []string:
		arr := &ast.Array{}
		for _, s := range v {
			arr.Append(ast.NewText(s))
		}
		return arr, nil
	case []any:
		arr := &ast.Array{}
		for _, e := range v {
			n, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			arr.Append(n)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		obj := ast.NewObject()
		for _, k := range keys {
			n, err := FromValue(v[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, n)
		}
		return obj, nil
	case Ordered:
		obj := ast.NewObject()
		for _, e := range v {
			n, err := FromValue(e.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(e.Key, n)
		}
		return obj, nil
	case yaml.MapSlice:
		obj := ast.NewObject()
		for _, item := range v {
			n, err := FromValue(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(fmt.Sprint(item.Key), n)
		}
		return obj, nil
	}
	if s, ok := FormatScalar(v); ok {
		return ast.NewText(s), nil
	}
	return nil, fmt.Errorf("xtn: cannot convert %T to a node", v)
}

// FormatScalar returns the text form of a boolean or numeric value.
func FormatScalar(v any) (string, bool) {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}
