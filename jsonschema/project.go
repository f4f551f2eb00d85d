package jsonschema

import (
	goshape "github.com/reoring/goshape"
)

// From projects d onto JSON Schema. Unions become anyOf because variants are
// tried in order and more than one may match. Under goshape.UnknownStrict,
// structs and partials get additionalProperties=false; intersections are
// closed only at their root since their operands accept each other's keys.
func From(d goshape.Descriptor, unknown goshape.UnknownPolicy) (*Schema, error) {
	s, err := project(d, unknown, goshape.Root())
	if err != nil {
		return nil, err
	}
	s.Schema = Draft
	return s, nil
}

func project(d goshape.Descriptor, unknown goshape.UnknownPolicy, at goshape.PathRef) (*Schema, error) {
	if goshape.IsNil(d) {
		return nil, &goshape.DescriptorError{Path: at.Pointer(), Reason: "nil descriptor"}
	}
	switch t := d.(type) {
	case goshape.StringDesc:
		return &Schema{Type: "string"}, nil
	case goshape.NumberDesc:
		return &Schema{Type: "number"}, nil
	case goshape.BooleanDesc:
		return &Schema{Type: "boolean"}, nil
	case *goshape.NullableDesc:
		inner, err := project(t.Inner(), unknown, at)
		if err != nil {
			return nil, err
		}
		return &Schema{AnyOf: []*Schema{{Type: "null"}, inner}}, nil
	case *goshape.ArrayDesc:
		items, err := project(t.Elem(), unknown, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case *goshape.MapDesc:
		vals, err := project(t.Elem(), unknown, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: vals}, nil
	case *goshape.StructDesc:
		s, err := object(t.Fields(), unknown, at)
		if err != nil {
			return nil, err
		}
		s.Required = t.Fields().Names()
		return s, nil
	case *goshape.PartialDesc:
		return object(t.Fields(), unknown, at)
	case *goshape.IntersectDesc:
		open := unknown
		if open == goshape.UnknownStrict {
			open = goshape.UnknownStrip
		}
		a, err := project(t.Left(), open, at.Field("allOf").Index(0))
		if err != nil {
			return nil, err
		}
		b, err := project(t.Right(), open, at.Field("allOf").Index(1))
		if err != nil {
			return nil, err
		}
		s := &Schema{AllOf: []*Schema{a, b}}
		if unknown == goshape.UnknownStrict {
			// allOf members cannot see each other's properties; the closure
			// lists every key the operands declare, at every depth.
			c := closure([]goshape.Descriptor{t})
			s.Properties = c.Properties
			s.AdditionalProperties = c.AdditionalProperties
			s.Items = c.Items
		}
		return s, nil
	case *goshape.UnionDesc:
		vs := t.Variants()
		if len(vs) == 0 {
			return nil, &goshape.DescriptorError{Path: at.Pointer(), Reason: "union has no variants"}
		}
		s := &Schema{AnyOf: make([]*Schema, 0, len(vs))}
		for i, v := range vs {
			vsch, err := project(v, unknown, at.Field("variants").Index(i))
			if err != nil {
				return nil, err
			}
			s.AnyOf = append(s.AnyOf, vsch)
		}
		return s, nil
	default:
		return nil, &goshape.DescriptorError{Path: at.Pointer(), Reason: "unknown descriptor"}
	}
}

func object(fields goshape.Fields, unknown goshape.UnknownPolicy, at goshape.PathRef) (*Schema, error) {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema, fields.Len())}
	for _, f := range fields.List() {
		fs, err := project(f.Type, unknown, at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		s.Properties[f.Name] = fs
	}
	if unknown == goshape.UnknownStrict {
		s.AdditionalProperties = false
	}
	return s, nil
}

// closure builds a schema that only restricts object keys: at each position a
// key is allowed when one of descs declares it there. It carries no type, so
// it leaves the operands' own type checks (null included) to the allOf.
func closure(descs []goshape.Descriptor) *Schema {
	var objs []goshape.Fields
	var maps, items []goshape.Descriptor
	for _, d := range flatten(descs) {
		switch t := d.(type) {
		case *goshape.StructDesc:
			objs = append(objs, t.Fields())
		case *goshape.PartialDesc:
			objs = append(objs, t.Fields())
		case *goshape.MapDesc:
			maps = append(maps, t.Elem())
		case *goshape.ArrayDesc:
			items = append(items, t.Elem())
		}
	}
	s := &Schema{}
	if len(objs) > 0 || len(maps) > 0 {
		byKey := map[string][]goshape.Descriptor{}
		for _, f := range objs {
			f.Each(func(name string, d goshape.Descriptor) {
				byKey[name] = append(byKey[name], d)
			})
		}
		if len(byKey) > 0 {
			s.Properties = make(map[string]*Schema, len(byKey))
			for k, ds := range byKey {
				s.Properties[k] = closure(append(ds, maps...))
			}
		}
		if len(maps) > 0 {
			s.AdditionalProperties = closure(maps)
		} else {
			s.AdditionalProperties = false
		}
	}
	if len(items) > 0 {
		s.Items = closure(items)
	}
	return s
}

// flatten replaces intersections by their operands, unions by their variants
// and nullables by their inner descriptor.
func flatten(descs []goshape.Descriptor) []goshape.Descriptor {
	var out []goshape.Descriptor
	for _, d := range descs {
		switch t := d.(type) {
		case *goshape.IntersectDesc:
			out = append(out, flatten([]goshape.Descriptor{t.Left(), t.Right()})...)
		case *goshape.UnionDesc:
			out = append(out, flatten(t.Variants())...)
		case *goshape.NullableDesc:
			out = append(out, flatten([]goshape.Descriptor{t.Inner()})...)
		default:
			out = append(out, d)
		}
	}
	return out
}
