package goshape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goshape "github.com/reoring/goshape"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := goshape.Issues{
		{Path: "/a", Code: goshape.CodeRequired},
		{Path: "/b", Code: goshape.CodeInvalidUnion, Variants: []goshape.Issues{{}, {}}},
		{Path: "/c", Code: goshape.CodeInvalidType},
		{Path: "/d", Code: goshape.CodeInvalidType},
	}
	want := "required at /a; invalid_union at /b (2 variants); invalid_type at /c; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
	if (goshape.Issues{}).Error() != "" {
		t.Fatalf("empty issues should render empty")
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	base := goshape.Issues{{Path: "/", Code: goshape.CodeInvalidType}}
	err := fmt.Errorf("loading config: %w", base)
	iss, ok := goshape.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected to unwrap issues, got %v %v", iss, ok)
	}
	if _, ok := goshape.AsIssues(errors.New("x")); ok {
		t.Fatalf("plain errors are not issues")
	}
	if _, ok := goshape.AsIssues(nil); ok {
		t.Fatalf("nil is not issues")
	}
}

func TestPrefixIssues(t *testing.T) {
	err := goshape.Issues{
		{Path: "/", Code: goshape.CodeInvalidType},
		{Path: "/x", Code: goshape.CodeInvalidUnion, Variants: []goshape.Issues{{{Path: "/x/y", Code: goshape.CodeRequired}}}},
	}
	got := goshape.PrefixIssues("/items/3", err)
	if got[0].Path != "/items/3" || got[1].Path != "/items/3/x" {
		t.Fatalf("unexpected paths: %v", got)
	}
	if got[1].Variants[0][0].Path != "/items/3/x/y" {
		t.Fatalf("variant paths must be rebased, got %q", got[1].Variants[0][0].Path)
	}
	if err[0].Path != "/" {
		t.Fatalf("input must not be modified")
	}

	plain := goshape.PrefixIssues("/k", errors.New("boom"))
	if len(plain) != 1 || plain[0].Code != goshape.CodeParseError || plain[0].Path != "/k" {
		t.Fatalf("unexpected conversion: %v", plain)
	}
	if goshape.PrefixIssues("/k", nil) != nil {
		t.Fatalf("nil error should yield nil")
	}
}

func TestJoinPointer(t *testing.T) {
	tests := []struct{ base, p, want string }{
		{"", "", "/"},
		{"/", "/a", "/a"},
		{"/a", "/", "/a"},
		{"/a", "/b", "/a/b"},
		{"/a", "b", "/a/b"},
	}
	for _, tt := range tests {
		if got := goshape.JoinPointer(tt.base, tt.p); got != tt.want {
			t.Fatalf("JoinPointer(%q,%q)=%q want %q", tt.base, tt.p, got, tt.want)
		}
	}
}

func TestDescriptorError(t *testing.T) {
	var err error = &goshape.DescriptorError{Path: "/a", Reason: "union has no variants"}
	if !errors.Is(err, goshape.ErrMalformedDescriptor) {
		t.Fatalf("descriptor errors must wrap ErrMalformedDescriptor")
	}
	if err.Error() != "goshape: malformed descriptor at /a: union has no variants" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPathRef(t *testing.T) {
	p := goshape.Root().Field("a/b").Index(2).Field("c~d")
	if p.Pointer() != "/a~1b/2/c~0d" {
		t.Fatalf("unexpected pointer %q", p.Pointer())
	}
	it := p.Issue(goshape.CodeRequired, "missing", "field", "c~d")
	if it.Path != p.Pointer() || it.Params["field"] != "c~d" {
		t.Fatalf("unexpected issue %#v", it)
	}
	if goshape.At("/x/y").Pointer() != "/x/y" || goshape.At("").Pointer() != "/" {
		t.Fatalf("At round trip failed")
	}
}

func TestFailFastContext(t *testing.T) {
	ctx := context.Background()
	if goshape.IsFailFast(ctx) {
		t.Fatalf("default is collect-all")
	}
	if !goshape.IsFailFast(goshape.WithFailFast(ctx, true)) {
		t.Fatalf("expected fail-fast")
	}
}

func TestUnknownPolicy_Parse(t *testing.T) {
	for _, p := range []goshape.UnknownPolicy{goshape.UnknownStrip, goshape.UnknownStrict, goshape.UnknownPassthrough} {
		got, ok := goshape.ParseUnknownPolicy(p.String())
		if !ok || got != p {
			t.Fatalf("round trip failed for %v", p)
		}
	}
	if _, ok := goshape.ParseUnknownPolicy("loose"); ok {
		t.Fatalf("unexpected policy accepted")
	}
}

func TestCollectAndFilterPresence(t *testing.T) {
	pm := goshape.CollectPresence(map[string]any{"a": []any{nil}, "b/c": 1})
	if !pm.Seen("/a/0") || !pm.WasNull("/a/0") || !pm.Seen("/b~1c") {
		t.Fatalf("unexpected presence: %v", pm)
	}
	f := goshape.FilterPresence(pm, []string{"/a"}, []string{"/a/0"})
	if len(f) != 1 || !f.Seen("/a") {
		t.Fatalf("unexpected filtered presence: %v", f)
	}
}
