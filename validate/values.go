package validate

import (
	"fmt"
	"math"
	"reflect"

	goshape "github.com/reoring/goshape"
)

type floater interface {
	Float64() (float64, error)
}

// pointerCycle replaces a pointer chain that leads back to itself. Its kind
// is Func, so no validator accepts it.
type pointerCycle func()

// deref follows non-nil pointers. A nil pointer becomes nil; a chain that
// revisits a pointer becomes pointerCycle.
func deref(v any) any {
	var seen []uintptr
	for {
		if v == nil {
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		p := rv.Pointer()
		for _, q := range seen {
			if p == q {
				return pointerCycle(nil)
			}
		}
		seen = append(seen, p)
		v = rv.Elem().Interface()
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case floater:
		// json.Number and friends are numbers, not strings.
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func asBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case floater:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return 0, false
		}
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// asSequence views slices and arrays as []any.
func asSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

// asObject views string-keyed maps and Go structs as map[string]any. Struct
// keys follow goshape.ResolveStructKey; untagged embedded structs are
// flattened like encoding/json does.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		structFields(rv, out)
		return out, true
	default:
		return nil, false
	}
}

func structFields(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && sf.Tag.Get("json") == "" && sf.Tag.Get("goshape") == "" {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				structFields(fv, out)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		key := goshape.ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		if _, taken := out[key]; taken {
			continue
		}
		fv := rv.Field(i)
		if !fv.CanInterface() {
			continue
		}
		out[key] = fv.Interface()
	}
}

func kindOf(v any) string {
	v = deref(v)
	if v == nil {
		return "null"
	}
	if _, ok := v.(pointerCycle); ok {
		return "pointer cycle"
	}
	if _, ok := v.(floater); ok {
		return "number"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
