package formatter_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-xtn/ast"
	"github.com/KimNorgaard/go-xtn/internal/formatter"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/parser"
	"github.com/KimNorgaard/go-xtn/internal/testutil"
)

func format(t *testing.T, root *ast.Object) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, formatter.New(&buf).Format(root))
	return buf.String()
}

func parse(t *testing.T, src string) *ast.Object {
	t.Helper()
	root, err := parser.New(lexer.New(strings.NewReader(src)), "test.xtn").Parse()
	require.NoError(t, err)
	return root
}

func object(pairs ...any) *ast.Object {
	obj := ast.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), pairs[i+1].(ast.Node))
	}
	return obj
}

func TestRoundTripFixtures(t *testing.T) {
	fixtures, err := testutil.Fixtures("valid")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	for _, fx := range fixtures {
		t.Run(fx.Base, func(t *testing.T) {
			root := parse(t, string(fx.Data))
			require.Equal(t, string(fx.Data), format(t, root))
		})
	}
}

func TestTextForms(t *testing.T) {
	testCases := []struct {
		name     string
		text     *ast.Text
		expected string
	}{
		{"inline", ast.NewText("hello world"), "k: hello world\n"},
		{"empty", ast.NewText(""), "k:\n"},
		{"leading space", ast.NewText(" x"), "k'':\n     x\n----\n"},
		{"trailing space", ast.NewText("x "), "k'':\n    x \n----\n"},
		{"tab", ast.NewText("a\tb"), "k'':\n    a\tb\n----\n"},
		{"nbsp", ast.NewText("a\u00a0b"), "k'':\n    a\u00a0b\n----\n"},
		{"newline", ast.NewText("a\nb"), "k'':\n    a\n    b\n----\n"},
		{"blank line", ast.NewText("a\n\nb"), "k'':\n    a\n\n    b\n----\n"},
		{"trailing newline", ast.NewText("a\n"), "k'':\n    a\n\n----\n"},
		{"forced", &ast.Text{Value: "x", ForceMultiline: true}, "k'':\n    x\n----\n"},
		{"forced empty", &ast.Text{ForceMultiline: true}, "k'':\n----\n"},
		{"close marker value", ast.NewText("----"), "k: ----\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := format(t, object("k", tc.text))
			require.Equal(t, tc.expected, out)

			// The written form must read back to the same value.
			back, ok := parse(t, out).Get("k")
			require.True(t, ok)
			require.Equal(t, tc.text.Value, back.(*ast.Text).Value)
		})
	}
}

func TestCarriageReturns(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected string
	}{
		{"lone cr", "a\rb", "k'':\n    a\n    b\n----\n"},
		{"crlf", "a\r\nb", "k'':\n    a\n    b\n----\n"},
		{"trailing cr", "a\r", "k'':\n    a\n\n----\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := format(t, object("k", ast.NewText(tc.value)))
			require.Equal(t, tc.expected, out)

			back, ok := parse(t, out).Get("k")
			require.True(t, ok)
			require.Equal(t, strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(tc.value), back.(*ast.Text).Value)
		})
	}

	t.Run("comment", func(t *testing.T) {
		root := object("k", ast.NewText("v"))
		root.CommentsInnerTop = []ast.Comment{{Value: "one\rtwo"}}
		out := format(t, root)
		require.Equal(t, "# one\n# two\nk: v\n", out)
		require.Equal(t, out, format(t, parse(t, out)))
	})
}

func TestNeedsBlock(t *testing.T) {
	require.False(t, formatter.NeedsBlock(ast.NewText("a b c")))
	require.False(t, formatter.NeedsBlock(ast.NewText("")))
	require.True(t, formatter.NeedsBlock(ast.NewText("a\u2003b")))
	require.True(t, formatter.NeedsBlock(ast.NewText("\u00a0a")))
	require.True(t, formatter.NeedsBlock(&ast.Text{ForceMultiline: true}))
}

func TestNesting(t *testing.T) {
	root := object(
		"obj", object("a", ast.NewText("1")),
		"list", &ast.Array{Elements: []ast.Node{
			ast.NewText("x"),
			&ast.Array{Elements: []ast.Node{ast.NewText("y")}},
			object("b", ast.NewText("2")),
			&ast.Text{Value: "z", ForceMultiline: true},
		}},
		"empty", ast.NewObject(),
	)

	expected := strings.Join([]string{
		"obj{}:",
		"    a: 1",
		"----",
		"list[]:",
		"    +: x",
		"    +[]:",
		"        +: y",
		"    ----",
		"    +{}:",
		"        b: 2",
		"    ----",
		"    +'':",
		"        z",
		"    ----",
		"----",
		"empty{}:",
		"----",
		"",
	}, "\n")
	require.Equal(t, expected, format(t, root))
}

func TestComments(t *testing.T) {
	inner := object("a", &ast.Text{
		Value:         "1",
		CommentsAbove: []ast.Comment{{Value: "above a"}},
		CommentsBelow: []ast.Comment{{Value: "below a"}, {Prefix: ast.SpecialMarker}},
	})
	inner.CommentsInnerTop = []ast.Comment{{Value: "top"}, {Prefix: ast.SpecialMarker}}
	inner.CommentsInnerBottom = []ast.Comment{{Value: "bottom  "}}
	inner.CommentsBelow = []ast.Comment{{Value: "two\nlines"}, {Value: "v", Prefix: "meta"}}

	root := object("obj", inner)
	root.CommentsInnerTop = []ast.Comment{{Value: "header"}, {}}
	root.CommentsInnerBottom = []ast.Comment{{}, {Value: "footer", Prefix: "note"}}

	expected := strings.Join([]string{
		"# header",
		"",
		"obj{}:",
		"    # top",
		"    ####",
		"    # above a",
		"    a: 1",
		"    # below a",
		"    ####",
		"    # bottom",
		"----",
		"# two",
		"# lines",
		"##meta v",
		"",
		"##note footer",
		"",
	}, "\n")
	require.Equal(t, expected, format(t, root))
}

func TestIdempotence(t *testing.T) {
	// Non-canonical input converges after one pass.
	src := "# c\n  key   one :  a\u00a0b\nk'':\n\tx\n----\n#no space\n"
	first := format(t, parse(t, src))
	second := format(t, parse(t, first))
	require.Equal(t, first, second)
	require.Equal(t, "# c\nkey one: a b\nk'':\n    x\n----\n# no space\n", first)
}

func TestHashPrefixedComment(t *testing.T) {
	src := "a: 1\n## ##foo\nb: 2\n"
	root := parse(t, src)
	b, ok := root.Get("b")
	require.True(t, ok)
	require.Equal(t, []ast.Comment{{Prefix: "##foo"}}, b.(*ast.Text).CommentsAbove)

	out := format(t, root)
	require.Equal(t, src, out)
	require.Equal(t, out, format(t, parse(t, out)))

	withValue := object("k", &ast.Text{Value: "v", CommentsAbove: []ast.Comment{{Prefix: "#x", Value: "y"}}})
	require.Equal(t, "## #x y\nk: v\n", format(t, withValue))
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestWriteError(t *testing.T) {
	root := object("a", object("b", ast.NewText("c")))
	for n := 0; n < 3; n++ {
		err := formatter.New(&failingWriter{n: n}).Format(root)
		require.EqualError(t, err, "disk full")
	}
}

func TestDeepNesting(t *testing.T) {
	root := ast.NewObject()
	cur := root
	const depth = 500
	for i := 0; i < depth; i++ {
		next := ast.NewObject()
		cur.Set("n", next)
		cur = next
	}
	out := format(t, root)
	require.Equal(t, depth, strings.Count(out, "n{}:"))
	require.Equal(t, out, format(t, parse(t, out)))
}
