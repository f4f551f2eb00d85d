package validate

import (
	"context"
	"sort"
	"strconv"

	"github.com/samber/lo"

	goshape "github.com/reoring/goshape"
)

// Nullable accepts null (including nil pointers) and otherwise delegates to
// inner.
func Nullable(inner Decoder) Decoder { return nullableDecoder{inner: inner} }

type nullableDecoder struct{ inner Decoder }

func (n nullableDecoder) Decode(ctx context.Context, v any) (any, error) {
	if deref(v) == nil {
		return nil, nil
	}
	return n.inner.Decode(ctx, v)
}

// Array accepts sequences whose elements all decode with elem. Element
// failures are reported under /<index>.
func Array(elem Decoder) Decoder { return arrayDecoder{elem: elem} }

type arrayDecoder struct{ elem Decoder }

func (a arrayDecoder) Decode(ctx context.Context, v any) (any, error) {
	v = deref(v)
	seq, ok := asSequence(v)
	if !ok {
		return nil, invalidType("array", v)
	}
	failFast := goshape.IsFailFast(ctx)
	out := make([]any, len(seq))
	var iss goshape.Issues
	for i := range seq {
		ev, err := a.elem.Decode(ctx, seq[i])
		if err != nil {
			iss = append(iss, goshape.PrefixIssues("/"+strconv.Itoa(i), err)...)
			if failFast {
				return nil, iss
			}
			continue
		}
		out[i] = ev
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Record accepts string-keyed mappings whose values all decode with elem.
// Keys are visited in ascending order and failures are reported under /<key>.
func Record(elem Decoder) Decoder { return recordDecoder{elem: elem} }

type recordDecoder struct{ elem Decoder }

func (r recordDecoder) Decode(ctx context.Context, v any) (any, error) {
	v = deref(v)
	obj, ok := asObject(v)
	if !ok {
		return nil, invalidType("object", v)
	}
	failFast := goshape.IsFailFast(ctx)
	out := make(map[string]any, len(obj))
	var iss goshape.Issues
	for _, k := range sortedKeys(obj) {
		ev, err := r.elem.Decode(ctx, obj[k])
		if err != nil {
			iss = append(iss, goshape.PrefixIssues(goshape.Root().Field(k).Pointer(), err)...)
			if failFast {
				return nil, iss
			}
			continue
		}
		out[k] = ev
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
