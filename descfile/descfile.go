// Package descfile loads descriptors from YAML or JSON documents.
//
// A descriptor is either a scalar naming a primitive:
//
//	string
//
// or a mapping with a kind:
//
//	kind: struct
//	fields:
//	  name: string
//	  tags: {kind: array, of: string}
//	  nick: {kind: nullable, of: string}
//	omit: [tags]
//
// nullable, array and map take their inner descriptor in "of"; intersect takes
// exactly two descriptors in "of" and union one or more. Field order in
// "fields" is preserved.
package descfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
)

// Error reports a malformed descriptor document with its position.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("descfile: %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Load reads and parses the descriptor document at path.
func Load(path string) (goshape.Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descfile: %w", err)
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse parses the first document in data.
func Parse(data []byte) (goshape.Descriptor, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Line: 1, Column: 1, Msg: "empty document"}
		}
		return nil, fmt.Errorf("descfile: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errAt(&root, "empty document")
	}
	return node(root.Content[0])
}

func node(n *yaml.Node) (goshape.Descriptor, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return node(n.Alias)
	case yaml.ScalarNode:
		return primitive(n)
	case yaml.MappingNode:
		return composite(n)
	default:
		return nil, errAt(n, "descriptor must be a scalar or a mapping")
	}
}

func primitive(n *yaml.Node) (goshape.Descriptor, error) {
	switch n.Value {
	case "string":
		return goshape.String(), nil
	case "number":
		return goshape.Number(), nil
	case "boolean":
		return goshape.Boolean(), nil
	default:
		return nil, errAt(n, "unknown primitive %q", n.Value)
	}
}

type entry struct {
	key *yaml.Node
	val *yaml.Node
}

func composite(n *yaml.Node) (goshape.Descriptor, error) {
	keys, err := entries(n)
	if err != nil {
		return nil, err
	}
	kindE, ok := keys["kind"]
	if !ok {
		return nil, errAt(n, "missing kind")
	}
	if kindE.val.Kind != yaml.ScalarNode {
		return nil, errAt(kindE.val, "kind must be a scalar")
	}
	allowed := map[string]bool{"kind": true}
	var d goshape.Descriptor
	switch kind := kindE.val.Value; kind {
	case "string", "number", "boolean":
		d, err = primitive(kindE.val)
	case "nullable", "array", "map":
		allowed["of"] = true
		var inner goshape.Descriptor
		inner, err = single(n, keys)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "nullable":
			d = goshape.Nullable(inner)
		case "array":
			d = goshape.Array(inner)
		default:
			d = goshape.Map(inner)
		}
	case "struct", "partial":
		allowed["fields"] = true
		allowed["omit"] = true
		var fields []goshape.Field
		fields, err = fieldList(n, keys)
		if err != nil {
			return nil, err
		}
		var omit []string
		omit, err = omitList(keys)
		if err != nil {
			return nil, err
		}
		if kind == "struct" {
			d = goshape.StructOf(fields...).Omit(omit...)
		} else {
			d = goshape.PartialOf(fields...).Omit(omit...)
		}
	case "intersect":
		allowed["of"] = true
		var ops []goshape.Descriptor
		ops, err = sequence(n, keys)
		if err != nil {
			return nil, err
		}
		if len(ops) != 2 {
			return nil, errAt(keys["of"].val, "intersect takes exactly two descriptors, got %d", len(ops))
		}
		d = goshape.Intersect(ops[0], ops[1])
	case "union":
		allowed["of"] = true
		var vs []goshape.Descriptor
		vs, err = sequence(n, keys)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errAt(keys["of"].val, "union needs at least one variant")
		}
		d = goshape.Union(vs...)
	default:
		return nil, errAt(kindE.val, "unknown kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	for name, e := range keys {
		if !allowed[name] {
			return nil, errAt(e.key, "unexpected key %q for kind %s", name, kindE.val.Value)
		}
	}
	return d, nil
}

func entries(n *yaml.Node) (map[string]entry, error) {
	out := make(map[string]entry, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := out[k.Value]; dup {
			return nil, errAt(k, "duplicate key %q", k.Value)
		}
		out[k.Value] = entry{key: k, val: v}
	}
	return out, nil
}

func single(n *yaml.Node, keys map[string]entry) (goshape.Descriptor, error) {
	e, ok := keys["of"]
	if !ok {
		return nil, errAt(n, "missing of")
	}
	return node(e.val)
}

func sequence(n *yaml.Node, keys map[string]entry) ([]goshape.Descriptor, error) {
	e, ok := keys["of"]
	if !ok {
		return nil, errAt(n, "missing of")
	}
	if e.val.Kind != yaml.SequenceNode {
		return nil, errAt(e.val, "of must be a sequence")
	}
	out := make([]goshape.Descriptor, 0, len(e.val.Content))
	for _, c := range e.val.Content {
		d, err := node(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func fieldList(n *yaml.Node, keys map[string]entry) ([]goshape.Field, error) {
	e, ok := keys["fields"]
	if !ok {
		return nil, nil
	}
	if e.val.Kind != yaml.MappingNode {
		return nil, errAt(e.val, "fields must be a mapping")
	}
	fs, err := entries(e.val)
	if err != nil {
		return nil, err
	}
	out := make([]goshape.Field, 0, len(fs))
	for i := 0; i+1 < len(e.val.Content); i += 2 {
		k, v := e.val.Content[i], e.val.Content[i+1]
		d, err := node(v)
		if err != nil {
			return nil, err
		}
		out = append(out, goshape.F(k.Value, d))
	}
	return out, nil
}

func omitList(keys map[string]entry) ([]string, error) {
	e, ok := keys["omit"]
	if !ok {
		return nil, nil
	}
	var names []string
	if err := e.val.Decode(&names); err != nil {
		return nil, errAt(e.val, "omit must be a list of names")
	}
	return names, nil
}

func errAt(n *yaml.Node, format string, args ...any) error {
	return &Error{Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}
