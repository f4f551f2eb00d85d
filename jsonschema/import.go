package jsonschema

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"

	goshape "github.com/reoring/goshape"
)

// Diag carries non-fatal warnings produced during Import.
type Diag struct {
	Warnings []string
}

func (d *Diag) warnf(at, format string, args ...any) {
	if at == "" {
		at = "/"
	}
	d.Warnings = append(d.Warnings, at+": "+fmt.Sprintf(format, args...))
}

// validation keywords the descriptor algebra cannot express; they are
// reported and otherwise ignored.
var ignoredKeywords = []string{
	"enum", "const", "format", "pattern", "minLength", "maxLength",
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	"minItems", "maxItems", "uniqueItems", "minProperties", "maxProperties",
	"patternProperties", "not", "if", "then", "else", "default",
}

// Import converts a subset of JSON Schema (and OpenAPI v3) into a descriptor.
// The input is a decoded document (map[string]any) or raw JSON bytes. A
// Kubernetes CRD or a document holding openAPIV3Schema is unwrapped first.
//
// Supported: type string/number/integer/boolean/array/object, type lists
// with "null", nullable: true, properties with required, additionalProperties
// as a schema, anyOf/oneOf (union), allOf (intersection) and local $ref into
// $defs or definitions. Object properties split into a struct of the required
// names intersected with a partial of the rest.
func Import(doc any) (goshape.Descriptor, *Diag, error) {
	d := &Diag{}
	root, err := toMap(doc)
	if err != nil {
		return nil, d, err
	}
	if oas, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = oas
	} else if oas := unwrapCRD(root); oas != nil {
		root = oas
	}
	im := &importer{diag: d, defs: map[string]map[string]any{}, visiting: map[string]bool{}}
	for _, key := range []string{"$defs", "definitions"} {
		if m, ok := root[key].(map[string]any); ok {
			for name, raw := range m {
				if s, ok := raw.(map[string]any); ok {
					im.defs["#/"+key+"/"+name] = s
				}
			}
		}
	}
	desc, err := im.schema(root, goshape.Root())
	return desc, d, err
}

func toMap(doc any) (map[string]any, error) {
	switch t := doc.(type) {
	case nil:
		return nil, errors.New("jsonschema: nil schema")
	case map[string]any:
		return t, nil
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(t, &m); err != nil {
			return nil, fmt.Errorf("jsonschema: invalid JSON: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("jsonschema: unsupported input %T", doc)
	}
}

// unwrapCRD returns spec.versions[].schema.openAPIV3Schema, preferring a
// served version.
func unwrapCRD(root map[string]any) map[string]any {
	spec, _ := root["spec"].(map[string]any)
	vers, _ := spec["versions"].([]any)
	var first map[string]any
	for _, v := range vers {
		vm, _ := v.(map[string]any)
		sch, _ := vm["schema"].(map[string]any)
		oas, _ := sch["openAPIV3Schema"].(map[string]any)
		if oas == nil {
			continue
		}
		if served, ok := vm["served"].(bool); !ok || served {
			return oas
		}
		if first == nil {
			first = oas
		}
	}
	return first
}

type importer struct {
	diag     *Diag
	defs     map[string]map[string]any
	visiting map[string]bool
}

func (im *importer) fail(at goshape.PathRef, format string, args ...any) error {
	return &goshape.DescriptorError{Path: at.Pointer(), Reason: fmt.Sprintf(format, args...)}
}

func (im *importer) schema(s map[string]any, at goshape.PathRef) (goshape.Descriptor, error) {
	if ref, ok := s["$ref"].(string); ok {
		target, ok := im.defs[ref]
		if !ok {
			return nil, im.fail(at, "unresolved $ref %q", ref)
		}
		if im.visiting[ref] {
			return nil, im.fail(at, "recursive $ref %q", ref)
		}
		im.visiting[ref] = true
		defer delete(im.visiting, ref)
		return im.schema(target, at)
	}
	for _, k := range ignoredKeywords {
		if _, ok := s[k]; ok {
			im.diag.warnf(at.Pointer(), "keyword %q ignored", k)
		}
	}

	types, nullable, err := im.types(s, at)
	if err != nil {
		return nil, err
	}
	if n, ok := s["nullable"].(bool); ok && n {
		nullable = true
	}

	var d goshape.Descriptor
	switch {
	case s["anyOf"] != nil || s["oneOf"] != nil:
		key := "anyOf"
		if s["oneOf"] != nil {
			key = "oneOf"
			im.diag.warnf(at.Pointer(), "oneOf imported as an ordered union; exclusivity is not checked")
		}
		vs, hasNull, err := im.list(s, key, at)
		if err != nil {
			return nil, err
		}
		nullable = nullable || hasNull
		if len(vs) == 1 {
			d = vs[0]
		} else {
			d = goshape.Union(vs...)
		}
	case s["allOf"] != nil:
		ops, _, err := im.list(s, "allOf", at)
		if err != nil {
			return nil, err
		}
		d = lo.Reduce(ops[1:], func(acc goshape.Descriptor, op goshape.Descriptor, _ int) goshape.Descriptor {
			return goshape.Intersect(acc, op)
		}, ops[0])
	case len(types) > 1:
		vs := make([]goshape.Descriptor, 0, len(types))
		for _, t := range types {
			v, err := im.typed(t, s, at)
			if err != nil {
				return nil, err
			}
			vs = append(vs, v)
		}
		d = goshape.Union(vs...)
	case len(types) == 1:
		d, err = im.typed(types[0], s, at)
		if err != nil {
			return nil, err
		}
	case s["properties"] != nil || s["additionalProperties"] != nil:
		d, err = im.typed("object", s, at)
		if err != nil {
			return nil, err
		}
	case s["items"] != nil:
		d, err = im.typed("array", s, at)
		if err != nil {
			return nil, err
		}
	default:
		return nil, im.fail(at, "schema has no type")
	}
	if nullable {
		d = goshape.Nullable(d)
	}
	return d, nil
}

// types returns the declared non-null types and whether "null" was listed.
func (im *importer) types(s map[string]any, at goshape.PathRef) ([]string, bool, error) {
	switch t := s["type"].(type) {
	case nil:
		return nil, false, nil
	case string:
		if t == "null" {
			return nil, false, im.fail(at, "type null alone cannot be expressed")
		}
		return []string{t}, false, nil
	case []any:
		var out []string
		nullable := false
		for _, raw := range t {
			name, ok := raw.(string)
			if !ok {
				return nil, false, im.fail(at.Field("type"), "type entries must be strings")
			}
			if name == "null" {
				nullable = true
				continue
			}
			out = append(out, name)
		}
		if len(out) == 0 {
			return nil, false, im.fail(at, "type null alone cannot be expressed")
		}
		return out, nullable, nil
	default:
		return nil, false, im.fail(at.Field("type"), "type must be a string or a list")
	}
}

func (im *importer) typed(t string, s map[string]any, at goshape.PathRef) (goshape.Descriptor, error) {
	switch t {
	case "string":
		return goshape.String(), nil
	case "number":
		return goshape.Number(), nil
	case "integer":
		im.diag.warnf(at.Pointer(), "integer imported as number")
		return goshape.Number(), nil
	case "boolean":
		return goshape.Boolean(), nil
	case "array":
		items, ok := s["items"].(map[string]any)
		if !ok {
			return nil, im.fail(at.Field("items"), "array needs a single items schema")
		}
		elem, err := im.schema(items, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return goshape.Array(elem), nil
	case "object":
		return im.object(s, at)
	default:
		return nil, im.fail(at.Field("type"), "unknown type %q", t)
	}
}

func (im *importer) object(s map[string]any, at goshape.PathRef) (goshape.Descriptor, error) {
	props, _ := s["properties"].(map[string]any)
	if len(props) == 0 {
		if ap, ok := s["additionalProperties"].(map[string]any); ok {
			elem, err := im.schema(ap, at.Field("additionalProperties"))
			if err != nil {
				return nil, err
			}
			return goshape.Map(elem), nil
		}
	} else if _, ok := s["additionalProperties"].(map[string]any); ok {
		im.diag.warnf(at.Pointer(), "additionalProperties schema ignored next to properties")
	}
	if pu, _ := s["x-kubernetes-preserve-unknown-fields"].(bool); pu {
		im.diag.warnf(at.Pointer(), "x-kubernetes-preserve-unknown-fields: decode with the passthrough policy to keep unknown fields")
	}

	required := map[string]bool{}
	if rs, ok := s["required"].([]any); ok {
		for _, r := range rs {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}
	names := lo.Keys(props)
	sort.Strings(names)
	var req, opt []goshape.Field
	for _, name := range names {
		ps, ok := props[name].(map[string]any)
		if !ok {
			return nil, im.fail(at.Field("properties").Field(name), "property schema must be an object")
		}
		d, err := im.schema(ps, at.Field("properties").Field(name))
		if err != nil {
			return nil, err
		}
		if required[name] {
			req = append(req, goshape.F(name, d))
		} else {
			opt = append(opt, goshape.F(name, d))
		}
	}
	missing := lo.Filter(lo.Keys(required), func(name string, _ int) bool {
		_, ok := props[name]
		return !ok
	})
	sort.Strings(missing)
	for _, name := range missing {
		im.diag.warnf(at.Pointer(), "required %q has no property schema", name)
	}
	switch {
	case len(opt) == 0:
		return goshape.StructOf(req...), nil
	case len(req) == 0:
		return goshape.PartialOf(opt...), nil
	default:
		return goshape.Intersect(goshape.StructOf(req...), goshape.PartialOf(opt...)), nil
	}
}

// list imports the schemas under key. Members that are exactly {"type":
// "null"} are dropped from anyOf/oneOf and reported through hasNull.
func (im *importer) list(s map[string]any, key string, at goshape.PathRef) (out []goshape.Descriptor, hasNull bool, err error) {
	raw, ok := s[key].([]any)
	if !ok || len(raw) == 0 {
		return nil, false, im.fail(at.Field(key), "%s needs at least one schema", key)
	}
	out = make([]goshape.Descriptor, 0, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, false, im.fail(at.Field(key).Index(i), "schema must be an object")
		}
		if key != "allOf" && len(m) == 1 && m["type"] == "null" {
			hasNull = true
			continue
		}
		d, err := im.schema(m, at.Field(key).Index(i))
		if err != nil {
			return nil, false, err
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, false, im.fail(at.Field(key), "%s holds only null", key)
	}
	return out, hasNull, nil
}
