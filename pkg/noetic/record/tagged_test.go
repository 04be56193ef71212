package record

import "testing"

func TestTaggedRecord_FieldStates(t *testing.T) {
	r := NewTaggedRecord("account", map[string]any{"age": 30})
	r.MarkPending("owner")

	if v, state := r.Field("age"); state != FieldPresent || v != 30 {
		t.Fatalf("expected present age=30, got %v %v", v, state)
	}
	if _, state := r.Field("owner"); state != FieldPending {
		t.Fatalf("expected pending owner, got %v", state)
	}
	if _, state := r.Field("nope"); state != FieldMissing {
		t.Fatalf("expected missing nope, got %v", state)
	}
}

func TestTaggedRecord_CompareFallback(t *testing.T) {
	r := NewTaggedRecord("account", map[string]any{"age": 30})
	if _, ok := r.CompareTo(r); ok {
		t.Fatalf("expected no compare without CompareFn")
	}

	r.CompareFn = func(a, b *TaggedRecord) (Ordering, bool) {
		return EQ, a.Fields["age"] == b.Fields["age"]
	}
	other := NewTaggedRecord("account", map[string]any{"age": 30})
	ord, ok := r.CompareTo(other)
	if !ok || ord != EQ {
		t.Fatalf("expected EQ, true, got %v %v", ord, ok)
	}
}

func TestTaggedRecord_TemplateRoundTrip(t *testing.T) {
	r := NewTaggedRecord("account", map[string]any{"a": 1, "b": 2})
	projected := map[string]any{"a": 10, "b": 20}
	rebuilt := r.WithTemplateFields(projected)

	rt, ok := rebuilt.(*TaggedRecord)
	if !ok || rt.Tag != "account" || rt.Fields["a"] != 10 || rt.Fields["b"] != 20 {
		t.Fatalf("unexpected rebuilt record: %+v", rebuilt)
	}
}

func TestStructuralEquals(t *testing.T) {
	a := NewTaggedRecord("x", map[string]any{"n": "bob"})
	b := NewTaggedRecord("x", map[string]any{"n": "bob"})
	c := NewTaggedRecord("y", map[string]any{"n": "bob"})

	if !StructuralEquals(a, b) {
		t.Fatalf("expected equal records")
	}
	if StructuralEquals(a, c) {
		t.Fatalf("expected type tag mismatch to differ")
	}
	if !StructuralEquals([]any{1, 2, 3}, []any{1, 2, 3}) {
		t.Fatalf("expected equal sequences")
	}
	if StructuralEquals([]any{1, 2}, []any{1, 2, 3}) {
		t.Fatalf("expected different-length sequences to differ")
	}
	if !StructuralEquals(map[string]any{"k": 1}, map[string]any{"k": 1}) {
		t.Fatalf("expected equal maps")
	}
	if StructuralEquals("a", 1) {
		t.Fatalf("expected different dynamic types to differ, not panic")
	}
}
