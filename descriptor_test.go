package goshape_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	goshape "github.com/reoring/goshape"
)

func TestConstructors_Kinds(t *testing.T) {
	tests := []struct {
		d    goshape.Descriptor
		kind goshape.Kind
		str  string
	}{
		{goshape.String(), goshape.KindString, "string"},
		{goshape.Number(), goshape.KindNumber, "number"},
		{goshape.Boolean(), goshape.KindBoolean, "boolean"},
		{goshape.Nullable(goshape.String()), goshape.KindNullable, "nullable<string>"},
		{goshape.Array(goshape.Number()), goshape.KindArray, "array<number>"},
		{goshape.Map(goshape.Boolean()), goshape.KindMap, "map<boolean>"},
		{goshape.Struct(map[string]goshape.Descriptor{"b": goshape.String(), "a": goshape.Number()}), goshape.KindStruct, "struct{a: number, b: string}"},
		{goshape.PartialOf(goshape.F("b", goshape.String()), goshape.F("a", goshape.Number())), goshape.KindPartial, "partial{b: string, a: number}"},
		{goshape.Intersect(goshape.String(), goshape.Number()), goshape.KindIntersect, "(string & number)"},
		{goshape.Union(goshape.String(), goshape.Number()), goshape.KindUnion, "string | number"},
		{goshape.Union(), goshape.KindUnion, "never"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if tt.d.Kind() != tt.kind {
				t.Fatalf("kind: want %v got %v", tt.kind, tt.d.Kind())
			}
			if tt.d.String() != tt.str {
				t.Fatalf("string: want %q got %q", tt.str, tt.d.String())
			}
		})
	}
}

func TestStruct_CopiesInput(t *testing.T) {
	fields := map[string]goshape.Descriptor{"a": goshape.String()}
	s := goshape.Struct(fields)
	fields["b"] = goshape.Number()
	delete(fields, "a")

	if !s.Fields().Has("a") || s.Fields().Has("b") || s.Fields().Len() != 1 {
		t.Fatalf("struct must not observe caller mutation: %s", s)
	}
	names := s.Fields().Names()
	names[0] = "zzz"
	if s.Fields().Names()[0] != "a" {
		t.Fatalf("Names must return a copy")
	}
}

func TestUnion_CopiesInput(t *testing.T) {
	vs := []goshape.Descriptor{goshape.String(), goshape.Number()}
	u := goshape.Union(vs...)
	vs[0] = goshape.Boolean()
	got := u.Variants()
	if got[0].Kind() != goshape.KindString {
		t.Fatalf("union must not observe caller mutation")
	}
	got[1] = goshape.Boolean()
	if u.Variants()[1].Kind() != goshape.KindNumber {
		t.Fatalf("Variants must return a copy")
	}
}

func TestOmit(t *testing.T) {
	s := goshape.Struct(map[string]goshape.Descriptor{
		"a": goshape.String(), "b": goshape.Number(), "c": goshape.Boolean(),
	})
	o := s.Omit("b")
	if diff := cmp.Diff([]string{"a", "c"}, o.Fields().Names()); diff != "" {
		t.Fatalf("omit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, s.Fields().Names()); diff != "" {
		t.Fatalf("receiver mutated (-want +got):\n%s", diff)
	}
	if o == s {
		t.Fatalf("omit must return a new descriptor")
	}

	same := s.Omit("z")
	if same.String() != s.String() {
		t.Fatalf("omitting an absent name is a no-op: %s vs %s", same, s)
	}

	p := s.Partial().Omit("a", "c", "nope")
	if p.Kind() != goshape.KindPartial || p.String() != "partial{b: number}" {
		t.Fatalf("unexpected partial omit: %s", p)
	}
}

func TestPickAndConversions(t *testing.T) {
	s := goshape.StructOf(goshape.F("z", goshape.String()), goshape.F("a", goshape.Number()), goshape.F("m", goshape.Boolean()))
	if got := s.Pick("m", "z", "missing").String(); got != "struct{z: string, m: boolean}" {
		t.Fatalf("pick keeps declaration order, got %s", got)
	}
	if got := s.Partial().Required().String(); got != s.String() {
		t.Fatalf("round trip through partial changed fields: %s", got)
	}
	if got := s.Partial().Pick("a").String(); got != "partial{a: number}" {
		t.Fatalf("unexpected partial pick: %s", got)
	}
}

func TestStructOf_DuplicateNames(t *testing.T) {
	s := goshape.StructOf(goshape.F("a", goshape.String()), goshape.F("b", goshape.String()), goshape.F("a", goshape.Number()))
	if got := s.String(); got != "struct{a: number, b: string}" {
		t.Fatalf("duplicate keeps first position and last descriptor, got %s", got)
	}
}

func TestFields_EachAndList(t *testing.T) {
	s := goshape.StructOf(goshape.F("x", goshape.String()), goshape.F("y", goshape.Number()))
	var seen []string
	s.Fields().Each(func(name string, d goshape.Descriptor) { seen = append(seen, name+":"+d.String()) })
	if diff := cmp.Diff([]string{"x:string", "y:number"}, seen); diff != "" {
		t.Fatalf("each mismatch (-want +got):\n%s", diff)
	}
	list := s.Fields().List()
	if len(list) != 2 || list[1].Name != "y" || list[1].Type.Kind() != goshape.KindNumber {
		t.Fatalf("unexpected list: %v", list)
	}
	if d, ok := s.Fields().Get("x"); !ok || d.Kind() != goshape.KindString {
		t.Fatalf("get x: %v %v", d, ok)
	}
}

func TestIntersectWith_Curried(t *testing.T) {
	a := goshape.Struct(map[string]goshape.Descriptor{"a": goshape.Number()})
	b := goshape.Partial(map[string]goshape.Descriptor{"b": goshape.String()})
	i := goshape.IntersectWith(a)(b)
	if i.Left() != goshape.Descriptor(a) || i.Right() != goshape.Descriptor(b) {
		t.Fatalf("operands not kept")
	}
}

func TestKind_String(t *testing.T) {
	if goshape.KindInvalid.String() != "invalid" || goshape.Kind(200).String() != "invalid" {
		t.Fatalf("unexpected invalid kind rendering")
	}
}
