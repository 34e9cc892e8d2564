package entities

import "testing"

func TestSameRef(t *testing.T) {
	m := map[string]Record{"1": {}}
	other := map[string]Record{"1": {}}
	slice := []Record{{}}

	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "same map", a: m, b: m, want: true},
		{name: "equal but distinct maps", a: m, b: other, want: false},
		{name: "same slice", a: slice, b: slice, want: true},
		{name: "nil both", a: nil, b: nil, want: true},
		{name: "nil one side", a: m, b: nil, want: false},
		{name: "scalar equal", a: "x", b: "x", want: true},
		{name: "scalar different", a: "x", b: "y", want: false},
		{name: "kind mismatch", a: m, b: slice, want: false},
	}
	for _, tc := range cases {
		if got := sameRef(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDepsCacheRecomputesOnDepChange(t *testing.T) {
	cache := newDepsCache()
	dep := map[string]Record{}
	computed := 0
	compute := func() any {
		computed++
		return computed
	}

	if got := cache.lookup("key", []any{dep}, compute); got != 1 {
		t.Fatalf("expected first lookup to compute, got %v", got)
	}
	if got := cache.lookup("key", []any{dep}, compute); got != 1 {
		t.Fatalf("expected identical deps to reuse cached value, got %v", got)
	}

	replaced := map[string]Record{}
	if got := cache.lookup("key", []any{replaced}, compute); got != 2 {
		t.Fatalf("expected replaced dep to recompute, got %v", got)
	}
	if got := cache.lookup("other", []any{replaced}, compute); got != 3 {
		t.Fatalf("expected distinct keys to memoize independently, got %v", got)
	}
}
