package xtn

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/formatter"
	"github.com/KimNorgaard/go-xtn/internal/mapper"
)

// Encoder writes XTN documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the XTN encoding of v to the stream. The top-level value
// must encode to an object.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}

	es := &encodeState{depth: o.maxDepth}
	node, err := es.marshalValue(reflect.ValueOf(v))
	if err != nil {
		return err
	}
	root, ok := node.(*ast.Object)
	if !ok {
		return fmt.Errorf("xtn: top-level value of type %T does not encode to an object", v)
	}
	return formatter.New(e.w).Format(root)
}

type encodeState struct {
	depth int
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

func (e *encodeState) marshalCustom(v reflect.Value, u Marshaler) (ast.Node, error) {
	n, err := u.MarshalXTN()
	if err != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: err}
	}
	return n, nil
}

func (e *encodeState) marshalText(v reflect.Value, u encoding.TextMarshaler) (ast.Node, error) {
	b, err := u.MarshalText()
	if err != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: err}
	}
	return ast.NewText(string(b)), nil
}

// custom returns the Marshaler or TextMarshaler of v, checking the value
// itself and a pointer to it to cover both receiver kinds.
func (e *encodeState) custom(v reflect.Value) (ast.Node, bool, error) {
	try := func(v reflect.Value) (ast.Node, bool, error) {
		if v.Type().NumMethod() == 0 || !v.CanInterface() {
			return nil, false, nil
		}
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, false, nil
		}
		switch u := v.Interface().(type) {
		case Marshaler:
			n, err := e.marshalCustom(v, u)
			return n, true, err
		case encoding.TextMarshaler:
			n, err := e.marshalText(v, u)
			return n, true, err
		}
		return nil, false, nil
	}

	if n, ok, err := try(v); ok {
		return n, ok, err
	}
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface || !v.CanInterface() {
		return nil, false, nil
	}
	var pv reflect.Value
	if v.CanAddr() {
		pv = v.Addr()
	} else {
		// For non-addressable values (like struct literals),
		// create a pointer to a copy to check for the interface.
		pv = reflect.New(v.Type())
		pv.Elem().Set(v)
	}
	return try(pv)
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// marshalValue converts v to a node. A nil result with a nil error means v
// has no value; struct fields and map entries holding it are left out and
// array elements become empty text.
func (e *encodeState) marshalValue(v reflect.Value) (ast.Node, error) { //nolint:gocyclo
	e.depth--
	if e.depth <= 0 {
		return nil, fmt.Errorf("xtn: reached max recursion depth, possibly a cycle")
	}
	defer func() { e.depth++ }()

	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return nil, nil
	}

	if v.CanInterface() {
		switch v.Type() {
		case objectType, arrayType, textType:
			// Node structs held by value only implement ast.Node through a pointer.
			p := reflect.New(v.Type())
			if v.CanAddr() {
				p = v.Addr()
			} else {
				p.Elem().Set(v)
			}
			return p.Interface().(ast.Node), nil
		}
		if n, ok := v.Interface().(ast.Node); ok {
			if reflect.ValueOf(n).IsNil() {
				return nil, nil
			}
			return n, nil
		}
	}

	if n, ok, err := e.custom(v); ok || err != nil {
		return n, err
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
		if n, ok, err := e.custom(v); ok || err != nil {
			return n, err
		}
	}

	switch v.Kind() {
	case reflect.String:
		return ast.NewText(v.String()), nil
	case reflect.Bool:
		return ast.NewText(strconv.FormatBool(v.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ast.NewText(strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ast.NewText(strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32:
		return ast.NewText(strconv.FormatFloat(v.Float(), 'g', -1, 32)), nil
	case reflect.Float64:
		return ast.NewText(strconv.FormatFloat(v.Float(), 'g', -1, 64)), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 &&
			!v.Type().Elem().Implements(textMarshalerType) {
			if v.IsNil() {
				return nil, nil
			}
			return ast.NewText(string(v.Bytes())), nil
		}
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		arr := &ast.Array{Elements: make([]ast.Node, 0, v.Len())}
		for i := range v.Len() {
			n, err := e.marshalValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			if n == nil {
				n = ast.NewText("")
			}
			arr.Append(n)
		}
		return arr, nil
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("xtn: map key type must be a string, got %s", v.Type().Key())
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.String() < b.String():
				return -1
			case a.String() > b.String():
				return 1
			}
			return 0
		})
		obj := ast.NewObject()
		for _, key := range keys {
			n, err := e.marshalValue(v.MapIndex(key))
			if err != nil {
				return nil, err
			}
			if n == nil {
				continue
			}
			obj.Set(key.String(), n)
		}
		return obj, nil
	case reflect.Struct:
		return e.marshalStruct(v)
	default:
		return nil, fmt.Errorf("xtn: unsupported type for marshaling: %s", v.Type())
	}
}

func (e *encodeState) marshalStruct(v reflect.Value) (ast.Node, error) {
	obj := ast.NewObject()
	for _, f := range mapper.CachedFields(v.Type()).List {
		fv, ok := fieldByIndex(v, f.Index)
		if !ok {
			continue
		}
		if f.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		n, err := e.marshalValue(fv)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		if t, isText := n.(*ast.Text); isText && f.Multiline && !t.ForceMultiline {
			c := *t
			c.ForceMultiline = true
			n = &c
		}
		obj.Set(f.Name, n)
	}
	return obj, nil
}

// fieldByIndex is like FieldByIndex but reports false when an embedded
// pointer on the path is nil.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
