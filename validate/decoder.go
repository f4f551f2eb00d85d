// Package validate provides the leaf validators and combinators that decoders
// derived from descriptors are composed of.
//
// Every Decoder takes an untyped value (JSON/YAML trees or plain Go values)
// and returns the decoded value or goshape.Issues. Decoded values use a small
// set of Go types: string, float64, bool, nil, []any and map[string]any.
//
// Container combinators collect every failure unless the context is marked
// with goshape.WithFailFast, in which case they stop at the first one.
package validate

import (
	"context"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/i18n"
)

// Decoder validates an untyped value and returns its decoded form.
type Decoder interface {
	Decode(ctx context.Context, v any) (any, error)
}

// Func adapts a function to Decoder.
type Func func(ctx context.Context, v any) (any, error)

func (f Func) Decode(ctx context.Context, v any) (any, error) { return f(ctx, v) }

func invalidType(expected string, got any) goshape.Issues {
	return goshape.Issues{goshape.Issue{
		Path:    "/",
		Code:    goshape.CodeInvalidType,
		Message: i18n.T(goshape.CodeInvalidType, map[string]string{"expected": expected}),
		Hint:    "expected " + expected,
		Params:  map[string]any{"expected": expected, "got": kindOf(got)},
	}}
}
