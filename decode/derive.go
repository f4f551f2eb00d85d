// Package decode derives decoders from goshape descriptors.
//
// Derive walks a descriptor once and composes the matching validate
// combinators. The result is immutable and safe for concurrent use:
//
//	dec, err := decode.Derive(goshape.Array(goshape.Number()))
//	v, err := dec.Decode(ctx, []any{1, 2, "x"}) // invalid_type at /2
//
// Malformed descriptors (nil, an empty union) are reported by Derive as a
// *goshape.DescriptorError; data failures are reported by Decode as
// goshape.Issues.
package decode

import (
	"context"
	"fmt"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/validate"
)

// Option configures derivation.
type Option func(*options)

type options struct {
	unknown goshape.UnknownPolicy
	// closing is set below a strict intersection, whose closure needs unions
	// to keep as many input keys as they can.
	closing bool
}

// WithUnknown selects how struct and partial decoders treat undeclared keys.
// The default is goshape.UnknownStrip.
func WithUnknown(p goshape.UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Decoder validates untyped input against the descriptor it was derived from.
type Decoder struct {
	desc goshape.Descriptor
	dec  validate.Decoder
}

// Derive builds the decoder for d. Every nested descriptor is derived up front,
// so a malformed descriptor anywhere in the tree fails here rather than during
// Decode.
func Derive(d goshape.Descriptor, opts ...Option) (*Decoder, error) {
	o := buildOptions(opts)
	dec, err := derive(d, o, goshape.Root())
	if err != nil {
		return nil, err
	}
	return &Decoder{desc: d, dec: dec}, nil
}

// MustDerive is like Derive but panics on a malformed descriptor.
func MustDerive(d goshape.Descriptor, opts ...Option) *Decoder {
	dec, err := Derive(d, opts...)
	if err != nil {
		panic(err)
	}
	return dec
}

// Descriptor returns the descriptor the decoder was derived from.
func (d *Decoder) Descriptor() goshape.Descriptor { return d.desc }

// Decode validates v and returns the decoded value or goshape.Issues.
func (d *Decoder) Decode(ctx context.Context, v any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := d.dec.Decode(ctx, v)
	if err != nil {
		return nil, goshape.PrefixIssues("", err)
	}
	return out, nil
}

// DecodeWithMeta decodes v and reports which paths of the decoded value were
// present and which held null.
func (d *Decoder) DecodeWithMeta(ctx context.Context, v any) (goshape.Decoded[any], error) {
	out, err := d.Decode(ctx, v)
	if err != nil {
		return goshape.Decoded[any]{}, err
	}
	return goshape.Decoded[any]{Value: out, Presence: goshape.CollectPresence(out)}, nil
}

// Validate reports only the failure, if any.
func (d *Decoder) Validate(ctx context.Context, v any) error {
	_, err := d.Decode(ctx, v)
	return err
}

func malformed(at goshape.PathRef, format string, a ...any) error {
	return &goshape.DescriptorError{Path: at.Pointer(), Reason: fmt.Sprintf(format, a...)}
}

// derive maps one descriptor to its validate decoder. at locates the
// descriptor in the tree for error reporting: fields by name, "items" for
// array and map elements, "variants/<i>" for union members, "allOf/<0|1>" for
// intersection operands.
func derive(d goshape.Descriptor, o options, at goshape.PathRef) (validate.Decoder, error) {
	switch t := d.(type) {
	case nil:
		return nil, malformed(at, "nil descriptor")
	case goshape.StringDesc:
		return validate.String(), nil
	case goshape.NumberDesc:
		return validate.Number(), nil
	case goshape.BooleanDesc:
		return validate.Boolean(), nil
	case *goshape.NullableDesc:
		if t == nil {
			return nil, malformed(at, "nil nullable")
		}
		inner, err := derive(t.Inner(), o, at)
		if err != nil {
			return nil, err
		}
		return validate.Nullable(inner), nil
	case *goshape.ArrayDesc:
		if t == nil {
			return nil, malformed(at, "nil array")
		}
		elem, err := derive(t.Elem(), o, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return validate.Array(elem), nil
	case *goshape.MapDesc:
		if t == nil {
			return nil, malformed(at, "nil map")
		}
		elem, err := derive(t.Elem(), o, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return validate.Record(elem), nil
	case *goshape.StructDesc:
		if t == nil {
			return nil, malformed(at, "nil struct")
		}
		props, err := deriveProps(t.Fields(), o, at)
		if err != nil {
			return nil, err
		}
		return validate.Struct(props, o.unknown), nil
	case *goshape.PartialDesc:
		if t == nil {
			return nil, malformed(at, "nil partial")
		}
		props, err := deriveProps(t.Fields(), o, at)
		if err != nil {
			return nil, err
		}
		return validate.Partial(props, o.unknown), nil
	case *goshape.IntersectDesc:
		if t == nil {
			return nil, malformed(at, "nil intersection")
		}
		return deriveIntersect(t, o, at)
	case *goshape.UnionDesc:
		if t == nil {
			return nil, malformed(at, "nil union")
		}
		variants := t.Variants()
		if len(variants) == 0 {
			return nil, malformed(at, "union has no variants")
		}
		decs := make([]validate.Decoder, len(variants))
		for i, v := range variants {
			dec, err := derive(v, o, at.Field("variants").Index(i))
			if err != nil {
				return nil, err
			}
			decs[i] = dec
		}
		if o.closing {
			return validate.WidestUnion(decs...), nil
		}
		return validate.Union(decs...), nil
	default:
		return nil, malformed(at, "unknown descriptor %T", d)
	}
}

func deriveProps(fields goshape.Fields, o options, at goshape.PathRef) ([]validate.Prop, error) {
	props := make([]validate.Prop, 0, fields.Len())
	for _, f := range fields.List() {
		dec, err := derive(f.Type, o, at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		props = append(props, validate.Prop{Name: f.Name, Decoder: dec})
	}
	return props, nil
}

// deriveIntersect closes a strict intersection over the keys of both
// operands. The operands are derived with the strip policy, so each tolerates
// the other's keys, and validate.Closed rejects whatever neither declared.
func deriveIntersect(t *goshape.IntersectDesc, o options, at goshape.PathRef) (validate.Decoder, error) {
	inner := o
	if o.unknown == goshape.UnknownStrict {
		inner.unknown = goshape.UnknownStrip
		inner.closing = true
	}
	a, err := derive(t.Left(), inner, at.Field("allOf").Index(0))
	if err != nil {
		return nil, err
	}
	b, err := derive(t.Right(), inner, at.Field("allOf").Index(1))
	if err != nil {
		return nil, err
	}
	dec := validate.Intersect(a, b)
	if o.unknown == goshape.UnknownStrict {
		dec = validate.Closed(dec)
	}
	return dec, nil
}
