package validate_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/validate"
)

type myString string

func TestPrimitives(t *testing.T) {
	ctx := context.Background()
	one := 1
	tests := []struct {
		name string
		dec  validate.Decoder
		in   any
		want any
		ok   bool
	}{
		{"string", validate.String(), "a", "a", true},
		{"named string", validate.String(), myString("b"), "b", true},
		{"string rejects number", validate.String(), 1, nil, false},
		{"number int", validate.Number(), 3, float64(3), true},
		{"number uint8", validate.Number(), uint8(7), float64(7), true},
		{"number pointer", validate.Number(), &one, float64(1), true},
		{"number json", validate.Number(), json.Number("2.5"), 2.5, true},
		{"number bad json", validate.Number(), json.Number("x"), nil, false},
		{"number rejects string", validate.Number(), "1", nil, false},
		{"boolean", validate.Boolean(), true, true, true},
		{"boolean rejects null", validate.Boolean(), nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dec.Decode(ctx, tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ok=%v err=%v", tt.ok, err)
			}
			if tt.ok && got != tt.want {
				t.Fatalf("want %#v got %#v", tt.want, got)
			}
			if !tt.ok {
				iss, _ := goshape.AsIssues(err)
				if len(iss) != 1 || iss[0].Code != goshape.CodeInvalidType || iss[0].Path != "/" {
					t.Fatalf("unexpected issues %v", iss)
				}
			}
		})
	}
}

func TestNumber_RejectsNaN(t *testing.T) {
	nan := 0.0
	nan = nan / nan
	if _, err := validate.Number().Decode(context.Background(), nan); err == nil {
		t.Fatalf("NaN must be rejected")
	}
}

func TestStruct_GoValues(t *testing.T) {
	type Base struct {
		ID string `json:"id"`
	}
	type Item struct {
		Base
		Label  string `goshape:"name=title" json:"label"`
		Hidden string `json:"-"`
		Count  int
	}
	dec := validate.Struct([]validate.Prop{
		{Name: "id", Decoder: validate.String()},
		{Name: "title", Decoder: validate.String()},
		{Name: "Count", Decoder: validate.Number()},
	}, goshape.UnknownStrict)

	got, err := dec.Decode(context.Background(), &Item{Base: Base{ID: "i"}, Label: "L", Hidden: "h", Count: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"id": "i", "title": "L", "Count": float64(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord(t *testing.T) {
	dec := validate.Record(validate.Number())
	got, err := dec.Decode(context.Background(), map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": float64(1), "b": float64(2)}, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}

	_, err = dec.Decode(context.Background(), map[string]any{"z": "x", "a": "y"})
	iss, _ := goshape.AsIssues(err)
	if len(iss) != 2 || iss[0].Path != "/a" || iss[1].Path != "/z" {
		t.Fatalf("issues should follow key order, got %v", iss)
	}
	if _, err := dec.Decode(context.Background(), []any{}); err == nil {
		t.Fatalf("arrays are not records")
	}
}

func TestPartial_AbsentVersusNull(t *testing.T) {
	dec := validate.Partial([]validate.Prop{{Name: "a", Decoder: validate.String()}}, goshape.UnknownStrip)
	ctx := context.Background()
	if _, err := dec.Decode(ctx, map[string]any{}); err != nil {
		t.Fatalf("absent field is allowed: %v", err)
	}
	_, err := dec.Decode(ctx, map[string]any{"a": nil})
	iss, _ := goshape.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a" || iss[0].Code != goshape.CodeInvalidType {
		t.Fatalf("present null must still match the field, got %v", iss)
	}
}

func TestClosed(t *testing.T) {
	inner := validate.Partial([]validate.Prop{
		{Name: "a", Decoder: validate.String()},
		{Name: "sub", Decoder: validate.Array(validate.Struct([]validate.Prop{{Name: "x", Decoder: validate.Number()}}, goshape.UnknownStrip))},
	}, goshape.UnknownStrip)
	dec := validate.Closed(inner)
	ctx := context.Background()
	if _, err := dec.Decode(ctx, map[string]any{"a": "x", "sub": []any{map[string]any{"x": 1}}}); err != nil {
		t.Fatalf("declared keys accepted: %v", err)
	}

	in := map[string]any{"a": "x", "c": 1, "d": 2, "sub": []any{map[string]any{"x": 1, "y": 2}}}
	_, err := dec.Decode(ctx, in)
	iss, _ := goshape.AsIssues(err)
	var paths []string
	for _, it := range iss {
		if it.Code != goshape.CodeUnknownKey {
			t.Fatalf("unexpected issue %v", it)
		}
		paths = append(paths, it.Path)
	}
	if diff := cmp.Diff([]string{"/c", "/d", "/sub/0/y"}, paths); diff != "" {
		t.Fatalf("unknown keys mismatch (-want +got):\n%s", diff)
	}

	_, err = dec.Decode(goshape.WithFailFast(ctx, true), in)
	if iss, _ = goshape.AsIssues(err); len(iss) != 1 || iss[0].Path != "/c" {
		t.Fatalf("fail-fast stops at the first unknown key, got %v", iss)
	}

	_, err = dec.Decode(ctx, map[string]any{"a": 1, "c": 1})
	if iss, _ = goshape.AsIssues(err); len(iss) != 1 || iss[0].Path != "/a" {
		t.Fatalf("inner failures are reported as is, got %v", iss)
	}
}

func TestDeref_PointerCycle(t *testing.T) {
	var x any
	x = &x
	done := make(chan error, 1)
	go func() {
		_, err := validate.String().Decode(context.Background(), x)
		done <- err
	}()
	select {
	case err := <-done:
		iss, _ := goshape.AsIssues(err)
		if len(iss) != 1 || iss[0].Code != goshape.CodeInvalidType || iss[0].Params["got"] != "pointer cycle" {
			t.Fatalf("expected invalid_type for a pointer cycle, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("decode did not return on a pointer cycle")
	}

	s := "ok"
	p := &s
	pp := &p
	if v, err := validate.String().Decode(context.Background(), &pp); err != nil || v != "ok" {
		t.Fatalf("pointer chains still resolve: %v %v", v, err)
	}
}

func TestIntersect_FailFastSkipsRight(t *testing.T) {
	calls := 0
	right := validate.Func(func(ctx context.Context, v any) (any, error) {
		calls++
		return v, nil
	})
	dec := validate.Intersect(validate.String(), right)
	if _, err := dec.Decode(goshape.WithFailFast(context.Background(), true), 1); err == nil {
		t.Fatalf("expected failure")
	}
	if calls != 0 {
		t.Fatalf("right side should not run in fail-fast mode")
	}
	if _, err := dec.Decode(context.Background(), 1); err == nil || calls != 1 {
		t.Fatalf("right side runs when collecting, calls=%d", calls)
	}
}

func TestUnion_EmptyFails(t *testing.T) {
	_, err := validate.Union().Decode(context.Background(), "x")
	iss, _ := goshape.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != goshape.CodeInvalidUnion || len(iss[0].Variants) != 0 {
		t.Fatalf("unexpected issues %v", iss)
	}
}

func TestArray_FixedArrays(t *testing.T) {
	got, err := validate.Array(validate.Boolean()).Decode(context.Background(), [2]bool{true, false})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff([]any{true, false}, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestWidestUnion(t *testing.T) {
	ctx := context.Background()
	loose := validate.Partial([]validate.Prop{{Name: "a", Decoder: validate.String()}}, goshape.UnknownStrip)
	wide := validate.Partial([]validate.Prop{{Name: "a", Decoder: validate.String()}, {Name: "b", Decoder: validate.Number()}}, goshape.UnknownStrip)
	dec := validate.WidestUnion(loose, wide)

	got, err := dec.Decode(ctx, map[string]any{"a": "x", "b": 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "x", "b": float64(1)}, got); diff != "" {
		t.Fatalf("the variant keeping every key wins (-want +got):\n%s", diff)
	}

	got, err = dec.Decode(ctx, map[string]any{"a": "x"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "x"}, got); diff != "" {
		t.Fatalf("declaration order breaks ties (-want +got):\n%s", diff)
	}

	_, err = dec.Decode(ctx, "nope")
	iss, _ := goshape.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != goshape.CodeInvalidUnion || len(iss[0].Variants) != 2 {
		t.Fatalf("expected invalid_union with both variants, got %v", iss)
	}
}
