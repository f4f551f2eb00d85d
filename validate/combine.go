package validate

import (
	"context"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/i18n"
)

// Intersect accepts values that decode with both a and b. Object results are
// merged recursively, with b winning on conflicting leaves. Failures of both
// sides are reported together.
func Intersect(a, b Decoder) Decoder { return intersectDecoder{a: a, b: b} }

type intersectDecoder struct{ a, b Decoder }

func (d intersectDecoder) Decode(ctx context.Context, v any) (any, error) {
	av, errA := d.a.Decode(ctx, v)
	if errA != nil && goshape.IsFailFast(ctx) {
		return nil, errA
	}
	bv, errB := d.b.Decode(ctx, v)
	if errA != nil || errB != nil {
		var iss goshape.Issues
		iss = append(iss, goshape.PrefixIssues("", errA)...)
		iss = append(iss, goshape.PrefixIssues("", errB)...)
		return nil, iss
	}
	return merge(av, bv), nil
}

func merge(a, b any) any {
	switch at := a.(type) {
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok {
			return b
		}
		out := make(map[string]any, len(at)+len(bt))
		for k, v := range at {
			out[k] = v
		}
		for k, v := range bt {
			if prev, ok := out[k]; ok {
				out[k] = merge(prev, v)
				continue
			}
			out[k] = v
		}
		return out
	case []any:
		bt, ok := b.([]any)
		if !ok || len(bt) != len(at) {
			return b
		}
		out := make([]any, len(at))
		for i := range at {
			out[i] = merge(at[i], bt[i])
		}
		return out
	default:
		return b
	}
}

// Union tries each decoder in order and returns the first success. When all
// fail it reports a single invalid_union issue keeping every variant's issues.
func Union(variants ...Decoder) Decoder {
	return unionDecoder{variants: append([]Decoder(nil), variants...)}
}

type unionDecoder struct{ variants []Decoder }

func (u unionDecoder) Decode(ctx context.Context, v any) (any, error) {
	branches := make([]goshape.Issues, 0, len(u.variants))
	for _, d := range u.variants {
		out, err := d.Decode(ctx, v)
		if err == nil {
			return out, nil
		}
		branches = append(branches, goshape.PrefixIssues("", err))
	}
	return nil, goshape.Issues{goshape.Issue{
		Path:     "/",
		Code:     goshape.CodeInvalidUnion,
		Message:  i18n.T(goshape.CodeInvalidUnion, nil),
		Params:   map[string]any{"variants": len(u.variants), "got": kindOf(v)},
		Variants: branches,
	}}
}

// WidestUnion is Union for operands of a closed intersection. Among the
// variants that succeed it returns the first whose result keeps every object
// key of the input, otherwise the one that drops the fewest keys, earliest
// first. Failure is reported as by Union.
func WidestUnion(variants ...Decoder) Decoder {
	return widestUnionDecoder{variants: append([]Decoder(nil), variants...)}
}

type widestUnionDecoder struct{ variants []Decoder }

func (u widestUnionDecoder) Decode(ctx context.Context, v any) (any, error) {
	var (
		best     any
		bestDrop = -1
	)
	for _, d := range u.variants {
		out, err := d.Decode(ctx, v)
		if err != nil {
			continue
		}
		var lost goshape.Issues
		dropped(v, out, goshape.Root(), false, &lost)
		if len(lost) == 0 {
			return out, nil
		}
		if bestDrop < 0 || len(lost) < bestDrop {
			best, bestDrop = out, len(lost)
		}
	}
	if bestDrop >= 0 {
		return best, nil
	}
	return unionDecoder{variants: u.variants}.Decode(ctx, v)
}
