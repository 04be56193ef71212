// Package loader provides engine.Loader implementations. The engine
// itself never does I/O; everything it needs for a pending field goes
// through whatever is registered here, mirroring how the predecessor
// engine kept its Store interface opaque to the reasoning code that used
// it.
package loader

import (
	"sync"

	"github.com/cognicore/noetic/pkg/noetic/internalerr"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// Resolver computes the value of one (kind, key) association given the
// record that named it as pending.
type Resolver func(container any) (any, error)

// Memory is an in-memory engine.Loader keyed by association kind and
// field key, resolving each lookup through a registered Resolver. It is
// the default loader for tests and small fixtures, the same role
// memstore.Store plays for the predecessor engine's document store.
type Memory struct {
	mu        sync.RWMutex
	resolvers map[string]map[string]Resolver
}

// NewMemory builds an empty loader with no resolvers registered.
func NewMemory() *Memory {
	return &Memory{resolvers: make(map[string]map[string]Resolver)}
}

// Register installs r as the resolver for every pending field of the
// given kind and key. A later call for the same pair replaces the
// earlier resolver.
func (m *Memory) Register(kind, key string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.resolvers[kind]
	if !ok {
		byKey = make(map[string]Resolver)
		m.resolvers[kind] = byKey
	}
	byKey[key] = r
}

// Lookup implements engine.Loader.
func (m *Memory) Lookup(req result.Request) result.Result[any] {
	m.mu.RLock()
	byKey, ok := m.resolvers[req.Kind]
	var r Resolver
	if ok {
		r, ok = byKey[req.Key]
	}
	m.mu.RUnlock()

	if !ok {
		return result.ErrResult[any](internalerr.NewLoaderError(
			&unresolvedError{Kind: req.Kind, Key: req.Key}))
	}
	v, err := r(req.Container)
	if err != nil {
		return result.ErrResult[any](internalerr.NewLoaderError(err))
	}
	return result.Ok(v)
}

type unresolvedError struct {
	Kind, Key string
}

func (e *unresolvedError) Error() string {
	return "loader: no resolver registered for kind=" + e.Kind + " key=" + e.Key
}
