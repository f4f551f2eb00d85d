// Package gen renders the static Go type of a descriptor.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"unicode"

	goshape "github.com/reoring/goshape"
)

// TypeDef names a descriptor to emit as a Go type declaration.
type TypeDef struct {
	Name string
	Desc goshape.Descriptor
}

// RenderFile emits a gofmt-ed Go file declaring one type per def.
func RenderFile(pkg string, defs []TypeDef) ([]byte, error) {
	if pkg == "" {
		pkg = "main"
	}
	var b bytes.Buffer
	b.WriteString("// Code generated by goshape gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n", pkg)
	for _, d := range defs {
		if !isIdent(d.Name) {
			return nil, fmt.Errorf("gen: invalid type name %q", d.Name)
		}
		expr, err := GoType(d.Desc)
		if err != nil {
			return nil, fmt.Errorf("gen: %s: %w", d.Name, err)
		}
		fmt.Fprintf(&b, "\n// %s is the Go projection of %s.\ntype %s %s\n", d.Name, oneLine(d.Desc.String()), d.Name, expr)
	}
	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return out, nil
}

// GoType returns the Go type expression matching the decoded shape of d:
//
//	string -> string, number -> float64, boolean -> bool
//	nullable<T> -> *T (T itself when already nil-able)
//	array<T> -> []T, map<T> -> map[string]T
//	struct -> struct with json tags, partial -> pointer fields with omitempty
//	intersection of object shapes -> merged struct, otherwise any
//	union -> the variants' common type, otherwise any
func GoType(d goshape.Descriptor) (string, error) {
	return goType(d, goshape.Root())
}

func goType(d goshape.Descriptor, at goshape.PathRef) (string, error) {
	if goshape.IsNil(d) {
		return "", &goshape.DescriptorError{Path: at.Pointer(), Reason: "nil descriptor"}
	}
	switch t := d.(type) {
	case goshape.StringDesc:
		return "string", nil
	case goshape.NumberDesc:
		return "float64", nil
	case goshape.BooleanDesc:
		return "bool", nil
	case *goshape.NullableDesc:
		inner, err := goType(t.Inner(), at)
		if err != nil {
			return "", err
		}
		return pointerTo(inner), nil
	case *goshape.ArrayDesc:
		elem, err := goType(t.Elem(), at.Field("items"))
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case *goshape.MapDesc:
		elem, err := goType(t.Elem(), at.Field("items"))
		if err != nil {
			return "", err
		}
		return "map[string]" + elem, nil
	case *goshape.StructDesc, *goshape.PartialDesc, *goshape.IntersectDesc:
		fields, ok, err := objectFields(d, at)
		if err != nil {
			return "", err
		}
		if !ok {
			return "any", nil
		}
		return renderStruct(fields), nil
	case *goshape.UnionDesc:
		vs := t.Variants()
		if len(vs) == 0 {
			return "", &goshape.DescriptorError{Path: at.Pointer(), Reason: "union has no variants"}
		}
		common := ""
		for i, v := range vs {
			expr, err := goType(v, at.Field("variants").Index(i))
			if err != nil {
				return "", err
			}
			if i == 0 {
				common = expr
			} else if expr != common {
				common = "any"
			}
		}
		return common, nil
	default:
		return "", &goshape.DescriptorError{Path: at.Pointer(), Reason: "unknown descriptor"}
	}
}

type genField struct {
	name     string
	expr     string
	optional bool
}

// objectFields flattens struct, partial and intersections of those. ok is
// false when an intersection operand is not object-shaped.
func objectFields(d goshape.Descriptor, at goshape.PathRef) ([]genField, bool, error) {
	switch t := d.(type) {
	case *goshape.StructDesc:
		fs, err := fieldsOf(t.Fields(), false, at)
		return fs, true, err
	case *goshape.PartialDesc:
		fs, err := fieldsOf(t.Fields(), true, at)
		return fs, true, err
	case *goshape.IntersectDesc:
		if goshape.IsNil(t.Left()) || goshape.IsNil(t.Right()) {
			return nil, false, &goshape.DescriptorError{Path: at.Pointer(), Reason: "nil intersection operand"}
		}
		a, okA, err := objectFields(t.Left(), at.Field("allOf").Index(0))
		if err != nil {
			return nil, false, err
		}
		b, okB, err := objectFields(t.Right(), at.Field("allOf").Index(1))
		if err != nil {
			return nil, false, err
		}
		if !okA || !okB {
			return nil, false, nil
		}
		return mergeFields(a, b), true, nil
	default:
		return nil, false, nil
	}
}

func fieldsOf(fields goshape.Fields, optional bool, at goshape.PathRef) ([]genField, error) {
	out := make([]genField, 0, fields.Len())
	for _, f := range fields.List() {
		expr, err := goType(f.Type, at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, genField{name: f.Name, expr: expr, optional: optional})
	}
	return out, nil
}

// mergeFields keeps the left declaration of a shared field; the field is
// required when either side requires it.
func mergeFields(a, b []genField) []genField {
	out := append([]genField(nil), a...)
	idx := make(map[string]int, len(out))
	for i, f := range out {
		idx[f.name] = i
	}
	for _, f := range b {
		if i, ok := idx[f.name]; ok {
			out[i].optional = out[i].optional && f.optional
			continue
		}
		idx[f.name] = len(out)
		out = append(out, f)
	}
	return out
}

func renderStruct(fields []genField) string {
	if len(fields) == 0 {
		return "struct{}"
	}
	var b strings.Builder
	b.WriteString("struct {\n")
	used := map[string]int{}
	for _, f := range fields {
		id := exportedName(f.name)
		if n := used[id]; n > 0 {
			used[id] = n + 1
			id = id + strconv.Itoa(n+1)
		} else {
			used[id] = 1
		}
		expr := f.expr
		tag := "json:\"" + f.name + "\""
		if f.optional {
			expr = pointerTo(expr)
			tag = "json:\"" + f.name + ",omitempty\""
		}
		fmt.Fprintf(&b, "%s %s %s\n", id, expr, quoteTag(tag))
	}
	b.WriteString("}")
	return b.String()
}

func pointerTo(expr string) string {
	if expr == "any" || strings.HasPrefix(expr, "*") || strings.HasPrefix(expr, "[]") || strings.HasPrefix(expr, "map[") {
		return expr
	}
	return "*" + expr
}

func quoteTag(tag string) string {
	if strings.ContainsRune(tag, '`') {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

// exportedName turns a key such as "first_name" or "user-id" into FirstName
// or UserId.
func exportedName(key string) string {
	var b strings.Builder
	upper := true
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if s == "" {
		return "Field"
	}
	if first := []rune(s)[0]; unicode.IsDigit(first) || !unicode.IsUpper(first) {
		s = "F" + s
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func oneLine(s string) string {
	const max = 80
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
