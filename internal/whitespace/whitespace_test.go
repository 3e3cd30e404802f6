package whitespace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapse(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"key", "key"},
		{"key   name", "key name"},
		{"key \t name", "key name"},
		{"a b  c", "a b c"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, Collapse(tc.input))
		})
	}
}

func TestMapSpaces(t *testing.T) {
	require.Equal(t, "a  b    c d", MapSpaces("a\u00a0\u00a0b \t\u2003 c d"))
	require.Equal(t, "plain", MapSpaces("plain"))
}

func TestPredicates(t *testing.T) {
	require.True(t, IsBlank(""))
	require.True(t, IsBlank(" \t"))
	require.False(t, IsBlank(" x "))

	require.False(t, HasOther("a b c"))
	require.True(t, HasOther("a\tb"))
	require.True(t, HasOther("a\u00a0b"))

	require.Equal(t, "x ", TrimLeft(" \tx "))
	require.Equal(t, " x", TrimRight(" x "))
}
