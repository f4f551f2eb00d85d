package gen

import (
	"strings"
	"testing"

	goshape "github.com/reoring/goshape"
)

func TestGoType_Projection(t *testing.T) {
	tests := []struct {
		name string
		d    goshape.Descriptor
		want string
	}{
		{"string", goshape.String(), "string"},
		{"nullable number", goshape.Nullable(goshape.Number()), "*float64"},
		{"nullable array", goshape.Nullable(goshape.Array(goshape.Boolean())), "[]bool"},
		{"map", goshape.Map(goshape.Nullable(goshape.String())), "map[string]*string"},
		{"same-typed union", goshape.Union(goshape.String(), goshape.String()), "string"},
		{"mixed union", goshape.Union(goshape.String(), goshape.Number()), "any"},
		{"intersection with non-object", goshape.Intersect(goshape.String(), goshape.Struct(nil)), "any"},
		{"empty struct", goshape.Struct(nil), "struct{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoType(tt.d)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %q got %q", tt.want, got)
			}
		})
	}
}

func TestRenderFile_Intersection(t *testing.T) {
	d := goshape.Intersect(
		goshape.StructOf(goshape.F("user_id", goshape.String()), goshape.F("age", goshape.Number())),
		goshape.PartialOf(goshape.F("nick-name", goshape.String()), goshape.F("age", goshape.Number())),
	)
	out, err := RenderFile("model", []TypeDef{{Name: "User", Desc: d}})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	code := string(out)
	for _, want := range []string{
		"// Code generated by goshape gen. DO NOT EDIT.",
		"package model",
		"type User struct {",
		"UserId   string  `json:\"user_id\"`",
		"Age      float64 `json:\"age\"`",
		"NickName *string `json:\"nick-name,omitempty\"`",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("missing %q in:\n%s", want, code)
		}
	}
}

func TestRenderFile_Errors(t *testing.T) {
	if _, err := RenderFile("p", []TypeDef{{Name: "1bad", Desc: goshape.String()}}); err == nil {
		t.Fatalf("expected invalid name error")
	}
	if _, err := RenderFile("p", []TypeDef{{Name: "U", Desc: goshape.Array(goshape.Union())}}); err == nil {
		t.Fatalf("expected descriptor error")
	}
}

func TestExportedName(t *testing.T) {
	tests := map[string]string{
		"name":       "Name",
		"first_name": "FirstName",
		"2fa":        "F2fa",
		"":           "Field",
		"é":          "É",
	}
	for in, want := range tests {
		if got := exportedName(in); got != want {
			t.Fatalf("exportedName(%q)=%q want %q", in, got, want)
		}
	}
}

func TestRenderStruct_DuplicateIdentifiers(t *testing.T) {
	got := renderStruct([]genField{{name: "a_b", expr: "string"}, {name: "a-b", expr: "string"}})
	if !strings.Contains(got, "AB string") || !strings.Contains(got, "AB2 string") {
		t.Fatalf("expected disambiguated identifiers, got %s", got)
	}
}
