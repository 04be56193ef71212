// Package cache provides engine.Cache implementations. A Cache is purely
// a memo in front of a Loader; the engine consults it before calling the
// Loader and populates it only after a successful lookup.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/noetic/pkg/noetic/result"
)

// LRU is a fixed-size, least-recently-used engine.Cache.
type LRU struct {
	inner *lru.Cache[string, any]
}

// NewLRU builds an LRU cache holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: c}, nil
}

// Get implements engine.Cache.
func (c *LRU) Get(req result.Request) (any, bool) {
	return c.inner.Get(cacheKey(req))
}

// Put implements engine.Cache.
func (c *LRU) Put(req result.Request, value any) {
	c.inner.Add(cacheKey(req), value)
}

// cacheKey identifies a pending association by kind, container, and key.
// Container is rendered with %v rather than compared directly, since it
// may be a map or another non-comparable value; two containers that
// render the same share a key.
func cacheKey(req result.Request) string {
	return fmt.Sprintf("%s\x00%v\x00%s", req.Kind, req.Container, req.Key)
}
