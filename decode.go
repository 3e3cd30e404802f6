package xtn

import (
	"encoding"
	"fmt"
	"io"
	"reflect"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/mapper"
)

// Decoder reads and decodes XTN documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure the decoding process,
// such as the file name used in errors or a maximum decoding depth.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the whole document from its input and stores it in the value
// pointed to by v. If v is nil or not a pointer, Decode returns an error.
//
// See the documentation for Unmarshal for details about the conversion of
// XTN into a Go value.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("xtn: Decode(nil reader)")
	}
	o, err := newOptions(d.opts)
	if err != nil {
		return err
	}
	root, err := Parse(d.r, o.name)
	if err != nil {
		return err
	}
	return decodeTree(root, v, o)
}

// decodeTree maps the parsed tree to a Go value.
func decodeTree(root *ast.Object, v any, o *options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("xtn: Unmarshal(non-pointer %T or nil)", v)
	}
	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(root, rv.Elem())
}

type decodeState struct {
	depth int
}

var (
	nodeType   = reflect.TypeFor[ast.Node]()
	objectType = reflect.TypeFor[ast.Object]()
	arrayType  = reflect.TypeFor[ast.Array]()
	textType   = reflect.TypeFor[ast.Text]()
)

func (ds *decodeState) mapValue(n ast.Node, rv reflect.Value) error { //nolint:gocyclo
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("xtn: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	// Targets that hold tree nodes receive them as they are, comments included.
	if handled := setNode(n, rv); handled {
		return nil
	}

	handled, err := ds.tryCustomUnmarshal(n, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
		if handled := setNode(n, rv); handled {
			return nil
		}
		if handled, err := ds.tryCustomUnmarshal(n, rv); handled || err != nil {
			return err
		}
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(n, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("xtn: cannot set value of type %s", rv.Type())
	}

	switch node := n.(type) {
	case *ast.Text:
		return ds.mapText(node, rv)
	case *ast.Array:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(node, rv)
		case reflect.Array:
			return ds.mapArray(node, rv)
		default:
			return fmt.Errorf("xtn: cannot unmarshal array into Go value of type %s", rv.Type())
		}
	case *ast.Object:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(node, rv)
		case reflect.Map:
			return ds.mapMap(node, rv)
		default:
			return fmt.Errorf("xtn: cannot unmarshal object into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("xtn: unsupported node type %T", node)
	}
}

// setNode stores n directly when rv is an ast.Node interface, a pointer to
// the node's type or the node's struct type.
func setNode(n ast.Node, rv reflect.Value) bool {
	if !rv.CanSet() {
		return false
	}
	nv := reflect.ValueOf(n)
	switch {
	case rv.Type() == nodeType:
		rv.Set(nv)
	case rv.Kind() == reflect.Pointer && nv.Type() == rv.Type():
		rv.Set(nv)
	case rv.Type() == objectType || rv.Type() == arrayType || rv.Type() == textType:
		if nv.Elem().Type() != rv.Type() {
			return false
		}
		rv.Set(nv.Elem())
	default:
		return false
	}
	return true
}

// tryCustomUnmarshal attempts to use a custom unmarshaler (xtn.Unmarshaler or
// encoding.TextUnmarshaler) on the given reflect.Value. It returns true if a
// custom unmarshaler was found and used, in which case the caller should not
// proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(n ast.Node, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalXTN(n); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		t, isText := n.(*ast.Text)
		if !isText {
			// TextUnmarshaler can only be used on text values.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(t.Value)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapText(t *ast.Text, rv reflect.Value) error {
	switch {
	case rv.Kind() == reflect.String:
		rv.SetString(t.Value)
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		rv.SetBytes([]byte(t.Value))
	default:
		return fmt.Errorf("xtn: cannot unmarshal text into Go value of type %s", rv.Type())
	}
	return nil
}

func (ds *decodeState) mapSlice(a *ast.Array, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(a.Elements), len(a.Elements))
	for i, elem := range a.Elements {
		if err := ds.mapValue(elem, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(a *ast.Array, rv reflect.Value) error {
	if rv.Len() != len(a.Elements) {
		return fmt.Errorf("xtn: cannot unmarshal array of length %d into Go array of length %d", len(a.Elements), rv.Len())
	}
	for i, elem := range a.Elements {
		if err := ds.mapValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(obj *ast.Object, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("xtn: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		rv.Clear()
	}
	elemType := mapType.Elem()
	for key, child := range obj.All() {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(child, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(mapType.Key()), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(obj *ast.Object, rv reflect.Value) error {
	fields := mapper.CachedFields(rv.Type())
	for key, child := range obj.All() {
		f, ok := fields.Lookup(key)
		if !ok {
			continue
		}
		fieldVal, err := fieldByIndexAlloc(rv, f.Index)
		if err != nil {
			return err
		}
		if fieldVal.CanSet() {
			if err := ds.mapValue(child, fieldVal); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldByIndexAlloc is like FieldByIndex but allocates nil embedded pointers.
func fieldByIndexAlloc(rv reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				if !rv.CanSet() {
					return reflect.Value{}, fmt.Errorf("xtn: cannot set embedded pointer to unexported struct %s", rv.Type().Elem())
				}
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, nil
}

func (ds *decodeState) mapInterface(n ast.Node, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("xtn: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch n.(type) {
	case *ast.Text:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case *ast.Array:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case *ast.Object:
		var o map[string]any
		concreteVal = reflect.ValueOf(&o).Elem()
	default:
		return fmt.Errorf("xtn: cannot determine concrete type for interface{} for node %T", n)
	}
	if err := ds.mapValue(n, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}
