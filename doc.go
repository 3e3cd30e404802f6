/*
Package xtn parses and writes XTN, an indentation based text format made of
objects, arrays and text values. Every value is text; there are no numbers,
booleans or nulls.

A document is an object. Each line holds one key:

	# a comment above name
	name: xtn
	tags[]:
	    +: small
	    +: plain
	----
	notes'':
	    first line
	    second line
	----

A key followed by {} opens an object, [] opens an array and '' opens a
multi-line text value. Each of them is closed by a ---- line. Array elements
use + as their key.

The package offers two workflows.

1. Full-fidelity documents

Parse returns the root *ast.Object with every comment attached to a node.
Format writes the tree back out; a canonical document comes back byte for
byte, so the tree can be edited in place and saved without losing comments:

	root, err := xtn.ParseBytes(src, "config.xtn")
	if err != nil {
		// err is a *xtn.ParseError naming the line and the problem
	}
	root.Set("version", ast.NewText("2"))
	out, err := xtn.FormatBytes(root)

2. Go values

Marshal and Unmarshal map between documents and Go values, closely following
encoding/json. Text decodes into strings, arrays into slices and objects into
structs or maps with string keys:

	type Config struct {
		Name  string   `xtn:"name"`
		Tags  []string `xtn:"tags,omitempty"`
		Notes string   `xtn:"notes,multiline"`
	}

	var cfg Config
	if err := xtn.Unmarshal(src, &cfg); err != nil {
		// handle error
	}

Marshal writes booleans and numbers as their text form. Decoding is strict
and only fills string kinds; types needing another representation implement
encoding.TextUnmarshaler or the xtn.Unmarshaler interface.
*/
package xtn
