package validate

import (
	"context"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/i18n"
)

// Prop binds an object key to the decoder of its value.
type Prop struct {
	Name    string
	Decoder Decoder
}

// Struct accepts objects carrying every prop. A missing prop is reported as
// required under /<name>. Keys without a prop are handled by unknown.
func Struct(props []Prop, unknown goshape.UnknownPolicy) Decoder {
	return newObject(props, true, unknown)
}

// Partial accepts objects where every prop is optional. Present props must
// decode; absent props are left out of the result.
func Partial(props []Prop, unknown goshape.UnknownPolicy) Decoder {
	return newObject(props, false, unknown)
}

type objectDecoder struct {
	props    []Prop
	required bool
	unknown  goshape.UnknownPolicy
	known    map[string]struct{}
}

func newObject(props []Prop, required bool, unknown goshape.UnknownPolicy) *objectDecoder {
	o := &objectDecoder{
		props:    append([]Prop(nil), props...),
		required: required,
		unknown:  unknown,
		known:    make(map[string]struct{}, len(props)),
	}
	for _, p := range props {
		o.known[p.Name] = struct{}{}
	}
	return o
}

func (o *objectDecoder) Decode(ctx context.Context, v any) (any, error) {
	v = deref(v)
	obj, ok := asObject(v)
	if !ok {
		return nil, invalidType("object", v)
	}
	failFast := goshape.IsFailFast(ctx)
	root := goshape.Root()
	out := make(map[string]any, len(o.props))
	var iss goshape.Issues
	for _, p := range o.props {
		raw, present := obj[p.Name]
		if !present {
			if o.required {
				iss = append(iss, root.Field(p.Name).Issue(goshape.CodeRequired, i18n.T(goshape.CodeRequired, nil), "field", p.Name))
				if failFast {
					return nil, iss
				}
			}
			continue
		}
		dv, err := p.Decoder.Decode(ctx, raw)
		if err != nil {
			iss = append(iss, goshape.PrefixIssues(root.Field(p.Name).Pointer(), err)...)
			if failFast {
				return nil, iss
			}
			continue
		}
		out[p.Name] = dv
	}
	if o.unknown != goshape.UnknownStrip {
		for _, k := range sortedKeys(obj) {
			if _, ok := o.known[k]; ok {
				continue
			}
			if o.unknown == goshape.UnknownPassthrough {
				out[k] = obj[k]
				continue
			}
			iss = append(iss, unknownKey(root, k))
			if failFast {
				return nil, iss
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func unknownKey(root goshape.PathRef, k string) goshape.Issue {
	return root.Field(k).Issue(goshape.CodeUnknownKey, i18n.T(goshape.CodeUnknownKey, nil), "key", k)
}

// Closed wraps a decoder that strips undeclared keys and reports every key of
// the input that the decoded result dropped as unknown_key, at any depth. It
// closes an intersection over the keys its operands accept together: a key
// survives when any operand declares it at that position.
func Closed(inner Decoder) Decoder { return closedDecoder{inner: inner} }

type closedDecoder struct{ inner Decoder }

func (c closedDecoder) Decode(ctx context.Context, v any) (any, error) {
	out, err := c.inner.Decode(ctx, v)
	if err != nil {
		return nil, err
	}
	var iss goshape.Issues
	dropped(v, out, goshape.Root(), goshape.IsFailFast(ctx), &iss)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// dropped walks in and out together and records the object keys of in that
// out lacks. It returns false once failFast has recorded an issue.
func dropped(in, out any, at goshape.PathRef, failFast bool, iss *goshape.Issues) bool {
	in = deref(in)
	switch ot := out.(type) {
	case map[string]any:
		obj, ok := asObject(in)
		if !ok {
			return true
		}
		for _, k := range sortedKeys(obj) {
			ov, kept := ot[k]
			if !kept {
				*iss = append(*iss, unknownKey(at, k))
				if failFast {
					return false
				}
				continue
			}
			if !dropped(obj[k], ov, at.Field(k), failFast, iss) {
				return false
			}
		}
	case []any:
		seq, ok := asSequence(in)
		if !ok || len(seq) != len(ot) {
			return true
		}
		for i := range seq {
			if !dropped(seq[i], ot[i], at.Index(i), failFast, iss) {
				return false
			}
		}
	}
	return true
}
