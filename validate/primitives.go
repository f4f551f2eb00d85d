package validate

import "context"

// String accepts string values, including named string types other than
// numeric ones such as json.Number.
func String() Decoder { return stringDecoder{} }

// Number accepts every Go integer and float kind and values with a
// Float64() (float64, error) method such as json.Number. NaN is rejected.
// The decoded value is a float64.
func Number() Decoder { return numberDecoder{} }

// Boolean accepts bool values.
func Boolean() Decoder { return boolDecoder{} }

type stringDecoder struct{}

func (stringDecoder) Decode(_ context.Context, v any) (any, error) {
	v = deref(v)
	s, ok := asString(v)
	if !ok {
		return nil, invalidType("string", v)
	}
	return s, nil
}

type numberDecoder struct{}

func (numberDecoder) Decode(_ context.Context, v any) (any, error) {
	v = deref(v)
	f, ok := asNumber(v)
	if !ok {
		return nil, invalidType("number", v)
	}
	return f, nil
}

type boolDecoder struct{}

func (boolDecoder) Decode(_ context.Context, v any) (any, error) {
	v = deref(v)
	b, ok := asBool(v)
	if !ok {
		return nil, invalidType("boolean", v)
	}
	return b, nil
}
