// Package goshape describes data shapes as composable descriptor values.
//
// A descriptor is built once from constructors and reused:
//
//	user := goshape.Struct(map[string]goshape.Descriptor{
//	    "name": goshape.String(),
//	    "age":  goshape.Number(),
//	})
//	patch := goshape.Intersect(user.Pick("name"), user.Omit("name").Partial())
//
// From a descriptor, package decode derives a decoder that validates untyped
// input (JSON/YAML trees or plain Go values) and returns the decoded value or
// Issues:
//
//	dec, err := decode.Derive(user)
//	v, err := dec.Decode(ctx, map[string]any{"name": "Ann", "age": 30})
//
// Design policy:
//   - The root package holds the descriptor algebra and the shared error model
//     (Issues with JSON Pointer paths, DescriptorError for bad schemas).
//   - Leaf validators and combinators live in validate/, derivation in decode/.
//   - Projections live in jsonschema/ (JSON Schema, both directions) and
//     internal/gen (Go types), descriptor documents in descfile/, input loading
//     in source/, HTTP body validation in middleware/ and the CLI under
//     cmd/goshape.
package goshape
