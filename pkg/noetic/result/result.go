// Package result implements the three-valued result algebra the
// evaluation engine is built on: every intermediate outcome is exactly
// one of a determined value, a terminal error, or a not-loaded marker
// listing the data the caller must fetch before evaluation can finish.
//
// combine is the one primitive every reducer (All, Any, Find) goes
// through. Err is absorbing everywhere; NotLoaded accumulates requests
// without deduplicating them.
package result

import "github.com/cognicore/noetic/pkg/noetic/internalerr"

// Kind discriminates the three Result variants.
type Kind uint8

const (
	KindOk Kind = iota
	KindNotLoaded
	KindErr
)

// Bindings maps a Bind key to the subject snapshot captured when its
// condition evaluated true. Bindings are local to one rule's condition
// evaluation and must never leak into another rule's attempt — callers
// thread them through Result rather than through shared mutable state.
type Bindings map[string]any

func cloneBindings(b Bindings) Bindings {
	if len(b) == 0 {
		return nil
	}
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func mergeBindings(a, b Bindings) Bindings {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(Bindings, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Result is exactly one of Ok(v), NotLoaded(reqs), or Err(e).
type Result[T any] struct {
	kind  Kind
	value T
	reqs  Requests
	err   *internalerr.EvalError
	binds Bindings
}

// Ok builds a determined Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{kind: KindOk, value: v}
}

// NotLoadedResult builds a Result blocked on the given requests. An empty
// Requests is legal (spec §3 calls it "stuck without known reason") but is
// not expected to arise from the engine's own evaluation paths.
func NotLoadedResult[T any](reqs Requests) Result[T] {
	return Result[T]{kind: KindNotLoaded, reqs: reqs}
}

// ErrResult builds a terminal Result.
func ErrResult[T any](err *internalerr.EvalError) Result[T] {
	return Result[T]{kind: KindErr, err: err}
}

func (r Result[T]) Kind() Kind                     { return r.kind }
func (r Result[T]) IsOk() bool                     { return r.kind == KindOk }
func (r Result[T]) IsNotLoaded() bool               { return r.kind == KindNotLoaded }
func (r Result[T]) IsErr() bool                    { return r.kind == KindErr }
func (r Result[T]) Value() T                       { return r.value }
func (r Result[T]) Requests() Requests              { return r.reqs }
func (r Result[T]) Err() *internalerr.EvalError     { return r.err }
func (r Result[T]) Bindings() Bindings              { return r.binds }

// WithBindings returns a copy of r carrying the given bindings, without
// mutating r. Used by the condition evaluator when threading bindings
// recorded by a nested Bind up through the recursion.
func (r Result[T]) WithBindings(b Bindings) Result[T] {
	r.binds = b
	return r
}

// BindKey records key -> subject into r's bindings, but only when r is
// Ok(true). Any other Result passes through unchanged. Bindings are
// cloned, never mutated in place, so that sibling branches of a
// conjunction or disjunction never observe each other's bindings.
func BindKey(r Result[bool], key string, subject any) Result[bool] {
	if r.kind != KindOk || !r.value {
		return r
	}
	nb := cloneBindings(r.binds)
	if nb == nil {
		nb = make(Bindings, 1)
	}
	nb[key] = subject
	r.binds = nb
	return r
}

// Transform maps the Ok payload through f; Err and NotLoaded pass through.
func Transform[T, U any](r Result[T], f func(T) U) Result[U] {
	switch r.kind {
	case KindOk:
		return Result[U]{kind: KindOk, value: f(r.value), binds: r.binds}
	case KindNotLoaded:
		return Result[U]{kind: KindNotLoaded, reqs: r.reqs, binds: r.binds}
	default:
		return Result[U]{kind: KindErr, err: r.err}
	}
}

// Then is the monadic bind: Ok(v) feeds into f; Err/NotLoaded pass
// through. Bindings accumulated on r and on f's result are merged.
func Then[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	switch r.kind {
	case KindOk:
		next := f(r.value)
		next.binds = mergeBindings(r.binds, next.binds)
		return next
	case KindNotLoaded:
		return Result[U]{kind: KindNotLoaded, reqs: r.reqs, binds: r.binds}
	default:
		return Result[U]{kind: KindErr, err: r.err}
	}
}

// MapSeq projects every element through f, concatenating NotLoaded
// requests across elements and short-circuiting on the first Err. When no
// element produced NotLoaded or Err, the result is Ok of the projected
// slice in input order.
func MapSeq[E, V any](elems []E, f func(E) Result[V]) Result[[]V] {
	out := make([]V, 0, len(elems))
	var reqs Requests
	for _, e := range elems {
		r := f(e)
		if r.IsErr() {
			return ErrResult[[]V](r.err)
		}
		if r.IsNotLoaded() {
			reqs = reqs.Concat(r.reqs)
			continue
		}
		out = append(out, r.value)
	}
	if len(reqs) > 0 {
		return NotLoadedResult[[]V](reqs)
	}
	return Ok(out)
}

// MapValues projects every value of m through f, preserving keys. Same
// short-circuit/accumulate rules as MapSeq.
func MapValues[V any](m map[string]any, f func(any) Result[V]) Result[map[string]V] {
	out := make(map[string]V, len(m))
	var reqs Requests
	for k, v := range m {
		r := f(v)
		if r.IsErr() {
			return ErrResult[map[string]V](r.err)
		}
		if r.IsNotLoaded() {
			reqs = reqs.Concat(r.reqs)
			continue
		}
		out[k] = r.value
	}
	if len(reqs) > 0 {
		return NotLoadedResult[map[string]V](reqs)
	}
	return Ok(out)
}
