package cache

import (
	"testing"

	"github.com/cognicore/noetic/pkg/noetic/result"
)

func TestLRU_GetPutRoundTrip(t *testing.T) {
	c, err := NewLRU(4)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	req := result.NewRequest("account", map[string]any{"id": 1}, "owner")

	if _, ok := c.Get(req); ok {
		t.Fatalf("expected miss before Put")
	}
	c.Put(req, "alice")
	v, ok := c.Get(req)
	if !ok || v != "alice" {
		t.Fatalf("expected hit with 'alice', got %v %v", v, ok)
	}
}

func TestLRU_EvictsOldest(t *testing.T) {
	c, err := NewLRU(1)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	first := result.NewRequest("account", "c1", "owner")
	second := result.NewRequest("account", "c2", "owner")

	c.Put(first, "alice")
	c.Put(second, "bob")

	if _, ok := c.Get(first); ok {
		t.Fatalf("expected first entry evicted")
	}
	if v, ok := c.Get(second); !ok || v != "bob" {
		t.Fatalf("expected second entry present, got %v %v", v, ok)
	}
}
