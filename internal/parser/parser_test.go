package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-xtn/ast"
	xerrors "github.com/KimNorgaard/go-xtn/errors"
	"github.com/KimNorgaard/go-xtn/internal/lexer"
	"github.com/KimNorgaard/go-xtn/internal/testutil"
	"github.com/KimNorgaard/go-xtn/internal/token"
)

func parse(t *testing.T, input string) *ast.Object {
	t.Helper()
	root, err := New(lexer.New(strings.NewReader(input)), "test.xtn").Parse()
	require.NoError(t, err)
	return root
}

func parseErr(t *testing.T, input string) *xerrors.ParseError {
	t.Helper()
	root, err := New(lexer.New(strings.NewReader(input)), "test.xtn").Parse()
	require.Error(t, err)
	require.Nil(t, root)
	var perr *xerrors.ParseError
	require.ErrorAs(t, err, &perr)
	return perr
}

func get(t *testing.T, obj *ast.Object, key string) ast.Node {
	t.Helper()
	n, ok := obj.Get(key)
	require.True(t, ok, "missing key %q", key)
	return n
}

func TestParseInvalidFixtures(t *testing.T) {
	expected := map[string]struct {
		code xerrors.Code
		line int
	}{
		"array_on_same_line":       {xerrors.ArrayMustBeOnNewLine, 2},
		"bad_key_in_arr":           {xerrors.ArrayElementMustNotHaveAKey, 5},
		"bad_key_in_obj":           {xerrors.PlusEncounteredOutsideArray, 4},
		"extra_close":              {xerrors.UnmatchedCloseMarker, 9},
		"incorrect_indentation":    {xerrors.IncorrectIndentation, 4},
		"insufficient_indentation": {xerrors.InsufficientIndentation, 5},
		"leading_colon":            {xerrors.LineMustNotStartWithColon, 2},
		"missing_braces":           {xerrors.UnmatchedCloseMarker, 3},
		"missing_brackets":         {xerrors.PlusEncounteredOutsideArray, 2},
		"missing_close":            {xerrors.MissingCloseMarker, 8},
		"missing_colon_arr_el":     {xerrors.MissingColon, 5},
		"missing_colon_obj":        {xerrors.MissingColon, 5},
		"missing_plus_arr_el":      {xerrors.ArrayElementMustStartWithPlus, 6},
		"mixed_tabs_spaces1":       {xerrors.IndentationMustNotBeMixed, 3},
		"mixed_tabs_spaces2":       {xerrors.IndentationMustNotBeMixed, 3},
		"mixed_tabs_spaces3":       {xerrors.IndentationMustNotBeMixed, 4},
		"multiline_on_same_line":   {xerrors.MultilineMustBeOnNewLine, 2},
		"nbsp_indentation":         {xerrors.IndentationMustBeSpaceOrTab, 2},
		"object_on_same_line":      {xerrors.ObjectMustBeOnNewLine, 2},
		"repeated_key":             {xerrors.ObjectKeysCannotBeRepeated, 4},
	}

	fixtures, err := testutil.Fixtures("invalid")
	require.NoError(t, err)
	require.Len(t, fixtures, len(expected))

	for _, fx := range fixtures {
		t.Run(fx.Base, func(t *testing.T) {
			want, ok := expected[fx.Base]
			require.True(t, ok, "no expectation for %s", fx.Name)

			_, err := New(lexer.New(strings.NewReader(string(fx.Data))), fx.Name).Parse()
			var perr *xerrors.ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, want.code, perr.Code, perr.Error())
			require.Equal(t, want.line, perr.Line)
			require.Equal(t, fx.Name, perr.Name)
		})
	}
}

func TestParseSample(t *testing.T) {
	data, err := testutil.ReadTestData("valid/sample1.xtn")
	require.NoError(t, err)
	root := parse(t, string(data))

	expected := `{key1:"value1",` +
		`key2:{key3:"value 3",list:["first",{name:"nested"},["deep"],"multi\nline"],` +
		`key7:"single line forced",empty:{},none:[],blank:""},` +
		`description:"Line one\n\n    Line three is indented",` +
		`edges:" leading space"}`
	require.Equal(t, expected, root.String())

	key2 := get(t, root, "key2").(*ast.Object)
	require.True(t, get(t, key2, "key7").(*ast.Text).ForceMultiline)
	require.False(t, get(t, key2, "key3").(*ast.Text).ForceMultiline)

	require.Equal(t, []ast.Comment{{Value: "Sample document"}}, get(t, root, "key1").Comments(ast.Above))
	require.Equal(t, []ast.Comment{
		{},
		{Value: "This is a comment"},
		{Value: "This is a comment (same as above)"},
		{},
	}, key2.CommentsAbove)
	require.Equal(t, []ast.Comment{
		{},
		{Value: "This is a special comment", Prefix: "meta"},
		{Value: "This is the same as above (still a special comment)", Prefix: "meta"},
	}, root.CommentsInnerBottom)
}

func TestParseComments(t *testing.T) {
	data, err := testutil.ReadTestData("valid/comments1.xtn")
	require.NoError(t, err)
	root := parse(t, string(data))

	c := func(v string) ast.Comment { return ast.Comment{Value: v} }
	special := func(v string) ast.Comment { return ast.Comment{Value: v, Prefix: ast.SpecialMarker} }

	require.Equal(t, []ast.Comment{c("inner top of root object"), c("same"), special("")}, root.CommentsInnerTop)

	key1 := get(t, root, "key1")
	require.Equal(t, []ast.Comment{{}, c("above key1")}, key1.Comments(ast.Above))
	require.Equal(t, []ast.Comment{c("below key1"), special("because of this")}, key1.Comments(ast.Below))

	key2 := get(t, root, "key2").(*ast.Object)
	require.Equal(t, []ast.Comment{{}, c("This is a comment above key2"), c("This is a comment (same as above)")}, key2.CommentsAbove)
	require.Equal(t, []ast.Comment{c("inner top of key2"), special("")}, key2.CommentsInnerTop)
	require.Nil(t, key2.CommentsInnerBottom)
	require.Equal(t, []ast.Comment{c("below key2"), special("")}, key2.CommentsBelow)

	key3 := get(t, key2, "key3")
	require.Equal(t, []ast.Comment{c("for key3 (above)")}, key3.Comments(ast.Above))
	require.Equal(t, []ast.Comment{c("also for key3 (below)"), special("")}, key3.Comments(ast.Below))

	key4 := get(t, key2, "key4").(*ast.Array)
	require.Equal(t, []ast.Comment{c("for key4 (above)")}, key4.CommentsAbove)
	require.Equal(t, []ast.Comment{c("inner top of key4"), special("")}, key4.CommentsInnerTop)
	require.Equal(t, []ast.Comment{c("inner bottom of key4")}, key4.CommentsInnerBottom)
	require.Nil(t, key4.CommentsBelow)
	require.Len(t, key4.Elements, 2)
	require.Equal(t, []ast.Comment{c("for value41 (above)")}, key4.Elements[0].Comments(ast.Above))
	require.Equal(t, []ast.Comment{c("for value41 (below)"), special("")}, key4.Elements[0].Comments(ast.Below))
	require.Equal(t, []ast.Comment{c("for value42")}, key4.Elements[1].Comments(ast.Above))
	require.Equal(t, []ast.Comment{c("for value42 (below)"), special("")}, key4.Elements[1].Comments(ast.Below))

	key5 := get(t, key2, "key5").(*ast.Object)
	require.Nil(t, key5.CommentsAbove)
	require.Equal(t, []ast.Comment{c("inner bottom of key5")}, key5.CommentsInnerBottom)
	require.Equal(t, []ast.Comment{c("for key5 (below)"), special("")}, key5.CommentsBelow)
	require.Equal(t, []ast.Comment{c("for key6")}, get(t, key5, "key6").Comments(ast.Above))
	require.Nil(t, get(t, key5, "key6").Comments(ast.Below))

	key7 := get(t, key2, "key7")
	require.Equal(t, []ast.Comment{c("for key7")}, key7.Comments(ast.Above))
	require.Equal(t, []ast.Comment{c("for key7 (below)"), special("")}, key7.Comments(ast.Below))

	key8 := get(t, key2, "key8").(*ast.Array)
	require.Nil(t, key8.CommentsAbove)
	require.Nil(t, key8.CommentsInnerBottom)
	require.Len(t, key8.Elements, 5)
	third := key8.Elements[2].(*ast.Object)
	require.Equal(t, []ast.Comment{c("inner top"), special("")}, third.CommentsInnerTop)
	require.Equal(t, []ast.Comment{c("inner bottom")}, third.CommentsInnerBottom)
	fourth := key8.Elements[3].(*ast.Object)
	require.Nil(t, fourth.CommentsInnerTop)
	require.Equal(t, []ast.Comment{c("inner bottom")}, fourth.CommentsInnerBottom)
	require.Equal(t, []ast.Comment{
		c("for last child of key8"), special(""),
		c("also for last child of key8"), special(""),
	}, key8.Elements[4].Comments(ast.Below))

	require.Equal(t, []ast.Comment{
		{},
		{Value: "This is a special comment (inner bottom of root object)", Prefix: "meta"},
		{Value: "This is the same as above (still a special comment)", Prefix: "meta"},
	}, root.CommentsInnerBottom)
}

func TestParseMultiline(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces", "k'':\n    a\n    b\n----\n", "a\nb"},
		{"tabs", "k'':\n\ta\n\t\tb\n----\n", "a\n\tb"},
		{"empty", "k'':\n----\n", ""},
		{"single empty line", "k'':\n\n----\n", ""},
		{"blank lines kept", "k'':\n    a\n\n    b\n----\n", "a\n\nb"},
		{"whitespace only line", "k'':\n    a\n  \n    b\n----\n", "a\n\nb"},
		{"trailing blank", "k'':\n    a\n\n----\n", "a\n"},
		{"crlf normalized", "k'':\r\n    a\r\n    b\r\n----\r\n", "a\nb"},
		{"cr normalized", "k'':\r    a\r    b\r----", "a\nb"},
		{"close marker in body", "k'':\n    ----\n----\n", "----"},
		{"extra indentation kept", "k'':\n      a\n----\n", "  a"},
		{"no normalization", "k'':\n    a \t b\n----\n", "a \t b"},
		{"close with trailing space", "k'':\n    a\n----  \n", "a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, tc.input)
			text := get(t, root, "k").(*ast.Text)
			require.Equal(t, tc.expected, text.Value)
			require.True(t, text.ForceMultiline)
		})
	}
}

func TestParseNestedMultiline(t *testing.T) {
	input := "obj{}:\n\tlist[]:\n\t\t+'':\n\t\t\tbody\n\t\t----\n\t----\n----\n"
	root := parse(t, input)
	require.Equal(t, `{obj:{list:["body"]}}`, root.String())
}

func TestParseNormalization(t *testing.T) {
	input := "my   key: a  b \t  c d\nobj \t {}:\n----\n"
	root := parse(t, input)
	require.Equal(t, []string{"my key", "obj"}, root.Keys())
	require.Equal(t, "a  b    c d", get(t, root, "my key").(*ast.Text).Value)
}

func TestParseRepeatedKeyAfterCollapse(t *testing.T) {
	perr := parseErr(t, "a b: 1\na   b: 2\n")
	require.Equal(t, xerrors.ObjectKeysCannotBeRepeated, perr.Code)
	require.Equal(t, "Object keys cannot be repeated. a b already exists.", perr.Message)
	require.Equal(t, 2, perr.Line)
	require.Equal(t, 1, perr.Column)
	require.Equal(t, 6, perr.EndColumn)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  xerrors.Code
		line  int
	}{
		{"element without plus", "list[]:\n    x: y\n----\n", xerrors.ArrayElementMustStartWithPlus, 2},
		{"empty element key", "list[]:\n    {}:\n----\n", xerrors.ArrayElementMustStartWithPlus, 2},
		{"close at root", "----\n", xerrors.UnmatchedCloseMarker, 1},
		{"unclosed multiline", "k'':\n    text\n", xerrors.MissingCloseMarker, 3},
		{"unclosed without newline", "k{}:", xerrors.MissingCloseMarker, 2},
		{"tab body then spaces", "k'':\n\ta\n    b\n----\n", xerrors.IndentationMustNotBeMixed, 3},
		{"close marker too deep", "k'':\n    a\n  ----\n", xerrors.IncorrectIndentation, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			perr := parseErr(t, tc.input)
			require.Equal(t, tc.code, perr.Code, perr.Error())
			require.Equal(t, tc.line, perr.Line)
		})
	}
}

func TestParseReadError(t *testing.T) {
	readErr := errors.New("boom")
	_, err := New(lexer.New(iotest.ErrReader(readErr)), "broken.xtn").Parse()
	require.ErrorIs(t, err, readErr)
}

func TestSpans(t *testing.T) {
	input := "a{}:\n    b[]:\n        +'':\n            x\n        ----\n    ----\n----\n"
	p := New(lexer.New(strings.NewReader(input)), "spans.xtn")
	_, err := p.Parse()
	require.NoError(t, err)
	require.Equal(t, []Span{
		{Kind: token.MULTILINE, Key: "+", StartLine: 3, EndLine: 5},
		{Kind: token.ARRAY, Key: "b", StartLine: 2, EndLine: 6},
		{Kind: token.OBJECT, Key: "a", StartLine: 1, EndLine: 7},
	}, p.Spans())
}

func TestParseEmptyDocument(t *testing.T) {
	root := parse(t, "")
	require.Equal(t, 0, root.Len())

	root = parse(t, "# only a comment\n")
	require.Equal(t, []ast.Comment{{Value: "only a comment"}}, root.CommentsInnerBottom)
}
