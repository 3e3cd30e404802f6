package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// Field is an exported struct field that takes part in mapping.
type Field struct {
	Name      string
	Index     []int
	Tagged    bool
	OmitEmpty bool
	// Multiline requests the block form for text values.
	Multiline bool

	depth int
}

// Fields is the set of mappable fields of a struct type, in declaration order.
type Fields struct {
	List   []Field
	byName map[string]int
	byFold map[string]int
}

// Lookup finds the field for key, trying an exact match before a
// case-insensitive one.
func (fs *Fields) Lookup(key string) (Field, bool) {
	if i, ok := fs.byName[key]; ok {
		return fs.List[i], true
	}
	if i, ok := fs.byFold[strings.ToLower(key)]; ok {
		return fs.List[i], true
	}
	return Field{}, false
}

// fieldCache caches the Fields of struct types.
var fieldCache sync.Map // map[reflect.Type]*Fields

// CachedFields uses reflection to parse a struct's tags and build the list of
// its fields. The result is cached per type. Unexported fields and fields
// tagged `xtn:"-"` are skipped. Fields of embedded structs are promoted
// unless a shallower field has the same name.
func CachedFields(t reflect.Type) *Fields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*Fields)
	}

	var all []Field
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get("xtn")
			if tag == "-" {
				continue
			}
			index := append(append([]int(nil), idx...), i)
			name, opts, _ := strings.Cut(tag, ",")

			if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, index)
				continue
			}
			if !sf.IsExported() {
				continue
			}

			f := Field{Name: sf.Name, Index: index, depth: len(idx)}
			if name != "" {
				f.Name = name
				f.Tagged = true
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				switch strings.TrimSpace(opt) {
				case "omitempty":
					f.OmitEmpty = true
				case "multiline":
					f.Multiline = true
				}
			}
			all = append(all, f)
		}
	}
	walk(t, nil)

	winner := make(map[string]int)
	for i, f := range all {
		if j, ok := winner[f.Name]; !ok || f.depth < all[j].depth {
			winner[f.Name] = i
		}
	}

	fs := &Fields{byName: make(map[string]int), byFold: make(map[string]int)}
	for i, f := range all {
		if winner[f.Name] != i {
			continue
		}
		fs.byName[f.Name] = len(fs.List)
		if _, ok := fs.byFold[strings.ToLower(f.Name)]; !ok {
			fs.byFold[strings.ToLower(f.Name)] = len(fs.List)
		}
		fs.List = append(fs.List, f)
	}

	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.(*Fields)
}
