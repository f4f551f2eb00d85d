package goshape

import (
	"strings"
)

// Kind identifies a descriptor variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindNullable
	KindArray
	KindMap
	KindStruct
	KindPartial
	KindIntersect
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNullable:
		return "nullable"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindPartial:
		return "partial"
	case KindIntersect:
		return "intersect"
	case KindUnion:
		return "union"
	default:
		return "invalid"
	}
}

// Descriptor describes the shape of a value. The set of implementations is
// closed; use the constructor functions (String, Number, Boolean, Nullable,
// Array, Map, Struct, Partial, Intersect, Union) to create values.
//
// Descriptors are immutable. Composite descriptors are pointers, so two
// descriptors are equal only when they are the same value.
type Descriptor interface {
	Kind() Kind
	String() string
	descriptor()
}

// StringDesc matches a string value.
type StringDesc struct{}

// NumberDesc matches a numeric value.
type NumberDesc struct{}

// BooleanDesc matches a boolean value.
type BooleanDesc struct{}

func (StringDesc) Kind() Kind      { return KindString }
func (StringDesc) String() string  { return "string" }
func (StringDesc) descriptor()     {}
func (NumberDesc) Kind() Kind      { return KindNumber }
func (NumberDesc) String() string  { return "number" }
func (NumberDesc) descriptor()     {}
func (BooleanDesc) Kind() Kind     { return KindBoolean }
func (BooleanDesc) String() string { return "boolean" }
func (BooleanDesc) descriptor()    {}

// String returns the string descriptor.
func String() StringDesc { return StringDesc{} }

// Number returns the number descriptor.
func Number() NumberDesc { return NumberDesc{} }

// Boolean returns the boolean descriptor.
func Boolean() BooleanDesc { return BooleanDesc{} }

// NullableDesc matches null or its inner descriptor.
type NullableDesc struct{ inner Descriptor }

// Nullable wraps d so that null is also accepted.
func Nullable(d Descriptor) *NullableDesc { return &NullableDesc{inner: d} }

func (n *NullableDesc) Inner() Descriptor { return n.inner }
func (*NullableDesc) Kind() Kind          { return KindNullable }
func (n *NullableDesc) String() string    { return "nullable<" + describe(n.inner) + ">" }
func (*NullableDesc) descriptor()         {}

// ArrayDesc matches a sequence whose elements all match Elem.
type ArrayDesc struct{ elem Descriptor }

// Array returns a descriptor for sequences of d.
func Array(d Descriptor) *ArrayDesc { return &ArrayDesc{elem: d} }

func (a *ArrayDesc) Elem() Descriptor { return a.elem }
func (*ArrayDesc) Kind() Kind         { return KindArray }
func (a *ArrayDesc) String() string   { return "array<" + describe(a.elem) + ">" }
func (*ArrayDesc) descriptor()        {}

// MapDesc matches a string-keyed mapping whose values all match Elem.
type MapDesc struct{ elem Descriptor }

// Map returns a descriptor for string-keyed mappings of d.
func Map(d Descriptor) *MapDesc { return &MapDesc{elem: d} }

func (m *MapDesc) Elem() Descriptor { return m.elem }
func (*MapDesc) Kind() Kind         { return KindMap }
func (m *MapDesc) String() string   { return "map<" + describe(m.elem) + ">" }
func (*MapDesc) descriptor()        {}

// StructDesc matches an object carrying every declared field.
type StructDesc struct{ fields Fields }

// Struct returns a descriptor requiring every field in fields. The mapping is
// copied and its names are ordered lexicographically.
func Struct(fields map[string]Descriptor) *StructDesc {
	return &StructDesc{fields: fieldsFromMap(fields)}
}

// StructOf is like Struct but keeps the declaration order of fields.
func StructOf(fields ...Field) *StructDesc {
	return &StructDesc{fields: fieldsFromList(fields)}
}

// Fields returns the declared fields.
func (s *StructDesc) Fields() Fields { return s.fields }

// Omit returns a new struct descriptor without the named fields. Names that
// are not declared are ignored.
func (s *StructDesc) Omit(names ...string) *StructDesc {
	return &StructDesc{fields: s.fields.omit(names)}
}

// Pick returns a new struct descriptor keeping only the named fields.
func (s *StructDesc) Pick(names ...string) *StructDesc {
	return &StructDesc{fields: s.fields.pick(names)}
}

// Partial returns a partial descriptor over the same fields.
func (s *StructDesc) Partial() *PartialDesc { return &PartialDesc{fields: s.fields} }

func (*StructDesc) Kind() Kind       { return KindStruct }
func (s *StructDesc) String() string { return "struct" + s.fields.String() }
func (*StructDesc) descriptor()      {}

// PartialDesc matches an object whose present fields match their descriptor.
// Absent fields are allowed.
type PartialDesc struct{ fields Fields }

// Partial returns a descriptor where every field in fields is optional. The
// mapping is copied and its names are ordered lexicographically.
func Partial(fields map[string]Descriptor) *PartialDesc {
	return &PartialDesc{fields: fieldsFromMap(fields)}
}

// PartialOf is like Partial but keeps the declaration order of fields.
func PartialOf(fields ...Field) *PartialDesc {
	return &PartialDesc{fields: fieldsFromList(fields)}
}

// Fields returns the declared fields.
func (p *PartialDesc) Fields() Fields { return p.fields }

// Omit returns a new partial descriptor without the named fields. Names that
// are not declared are ignored.
func (p *PartialDesc) Omit(names ...string) *PartialDesc {
	return &PartialDesc{fields: p.fields.omit(names)}
}

// Pick returns a new partial descriptor keeping only the named fields.
func (p *PartialDesc) Pick(names ...string) *PartialDesc {
	return &PartialDesc{fields: p.fields.pick(names)}
}

// Required returns a struct descriptor over the same fields.
func (p *PartialDesc) Required() *StructDesc { return &StructDesc{fields: p.fields} }

func (*PartialDesc) Kind() Kind       { return KindPartial }
func (p *PartialDesc) String() string { return "partial" + p.fields.String() }
func (*PartialDesc) descriptor()      {}

// IntersectDesc matches values satisfying both Left and Right.
type IntersectDesc struct{ left, right Descriptor }

// Intersect combines a and b. It is typically used to add optional fields
// (a partial) to a struct, but any two descriptors are accepted.
func Intersect(a, b Descriptor) *IntersectDesc { return &IntersectDesc{left: a, right: b} }

// IntersectWith is the curried form of Intersect.
func IntersectWith(a Descriptor) func(b Descriptor) *IntersectDesc {
	return func(b Descriptor) *IntersectDesc { return Intersect(a, b) }
}

func (i *IntersectDesc) Left() Descriptor  { return i.left }
func (i *IntersectDesc) Right() Descriptor { return i.right }
func (*IntersectDesc) Kind() Kind          { return KindIntersect }
func (i *IntersectDesc) String() string {
	return "(" + describe(i.left) + " & " + describe(i.right) + ")"
}
func (*IntersectDesc) descriptor() {}

// UnionDesc matches values satisfying at least one variant, tried in order.
type UnionDesc struct{ variants []Descriptor }

// Union returns a descriptor for the ordered alternatives. A union must have at
// least one variant; an empty union is rejected when a decoder is derived.
func Union(variants ...Descriptor) *UnionDesc {
	return &UnionDesc{variants: append([]Descriptor(nil), variants...)}
}

// Variants returns a copy of the variants in declaration order.
func (u *UnionDesc) Variants() []Descriptor { return append([]Descriptor(nil), u.variants...) }

// Len returns the number of variants.
func (u *UnionDesc) Len() int { return len(u.variants) }

func (*UnionDesc) Kind() Kind { return KindUnion }
func (u *UnionDesc) String() string {
	if len(u.variants) == 0 {
		return "never"
	}
	parts := make([]string, len(u.variants))
	for i, v := range u.variants {
		parts[i] = describe(v)
	}
	return strings.Join(parts, " | ")
}
func (*UnionDesc) descriptor() {}

func describe(d Descriptor) string {
	if d == nil {
		return "<nil>"
	}
	return d.String()
}

// IsNil reports whether d is nil or a nil composite descriptor pointer.
func IsNil(d Descriptor) bool {
	switch t := d.(type) {
	case nil:
		return true
	case *NullableDesc:
		return t == nil
	case *ArrayDesc:
		return t == nil
	case *MapDesc:
		return t == nil
	case *StructDesc:
		return t == nil
	case *PartialDesc:
		return t == nil
	case *IntersectDesc:
		return t == nil
	case *UnionDesc:
		return t == nil
	default:
		return false
	}
}
