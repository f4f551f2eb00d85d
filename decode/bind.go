package decode

import (
	"context"

	json "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
)

// Typed decodes into a Go type T whose JSON shape matches the descriptor,
// such as a struct generated by `goshape gen`.
type Typed[T any] struct {
	dec *Decoder
}

// Bind derives d and pairs it with the target type T.
func Bind[T any](d goshape.Descriptor, opts ...Option) (*Typed[T], error) {
	dec, err := Derive(d, opts...)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{dec: dec}, nil
}

// MustBind is like Bind but panics on a malformed descriptor.
func MustBind[T any](d goshape.Descriptor, opts ...Option) *Typed[T] {
	t, err := Bind[T](d, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Decoder returns the underlying untyped decoder.
func (t *Typed[T]) Decoder() *Decoder { return t.dec }

// Decode validates v and projects the decoded value onto T. A decoded value
// that does not fit T is reported as a parse_error issue at the root.
func (t *Typed[T]) Decode(ctx context.Context, v any) (T, error) {
	var zero T
	out, err := t.dec.Decode(ctx, v)
	if err != nil {
		return zero, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return zero, goshape.PrefixIssues("", err)
	}
	var typed T
	if err := json.Unmarshal(b, &typed); err != nil {
		return zero, goshape.Issues{goshape.Issue{Path: "/", Code: goshape.CodeParseError, Message: err.Error(), Hint: "decoded value does not fit the target type", Cause: err}}
	}
	return typed, nil
}
