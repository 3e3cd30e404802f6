package mapper

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type Base struct {
	ID   string `xtn:"id"`
	Name string
}

type sample struct {
	Base
	Name    string `xtn:"name,omitempty"`
	Body    string `xtn:"body,multiline"`
	Skipped string `xtn:"-"`
	hidden  string //nolint:unused
	Plain   []string
}

func TestCachedFields(t *testing.T) {
	fs := CachedFields(reflect.TypeOf(sample{}))

	var names []string
	for _, f := range fs.List {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"id", "Name", "name", "body", "Plain"}, names)

	f, ok := fs.Lookup("name")
	require.True(t, ok)
	require.True(t, f.OmitEmpty)
	require.True(t, f.Tagged)
	require.Equal(t, []int{1}, f.Index)

	f, ok = fs.Lookup("ID")
	require.True(t, ok, "case-insensitive fallback")
	require.Equal(t, []int{0, 0}, f.Index)

	f, ok = fs.Lookup("body")
	require.True(t, ok)
	require.True(t, f.Multiline)

	_, ok = fs.Lookup("Skipped")
	require.False(t, ok)
	_, ok = fs.Lookup("hidden")
	require.False(t, ok)

	require.Same(t, fs, CachedFields(reflect.TypeOf(sample{})))
}
