package decode

import (
	"context"

	goshape "github.com/reoring/goshape"
)

var defaultCache Cache

// Is reports whether v decodes successfully against d. Decoders are cached per
// descriptor. Is panics if d is malformed, since that is a programming error
// rather than a data error.
func Is(ctx context.Context, d goshape.Descriptor, v any) bool {
	dec, err := defaultCache.Decoder(d)
	if err != nil {
		panic(err)
	}
	return dec.Validate(ctx, v) == nil
}

// Guard derives d once and returns a predicate equivalent to a successful
// Decode.
func Guard(d goshape.Descriptor, opts ...Option) (func(ctx context.Context, v any) bool, error) {
	dec, err := Derive(d, opts...)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, v any) bool { return dec.Validate(ctx, v) == nil }, nil
}

// SafeDecode decodes v, returning (nil, false) on validation error.
func SafeDecode(ctx context.Context, dec *Decoder, v any) (any, bool) {
	out, err := dec.Decode(ctx, v)
	if err != nil {
		return nil, false
	}
	return out, true
}
