package result

// Mode selects which of the three reducers combine implements.
type Mode int

const (
	// ModeAll implements all? (conjunction): Ok(false) short-circuits,
	// dropping any pending requests accumulated so far — a determined
	// falsehood conclusively fixes the outcome, so the data that would
	// have been needed to evaluate the rest can no longer change it.
	ModeAll Mode = iota
	// ModeAny implements any? (disjunction), the mirror of ModeAll.
	ModeAny
	// ModeFirst implements first: a pending element is never skipped in
	// favor of a later determined true, because the pending element might
	// itself resolve true once loaded — so evaluation halts with
	// NotLoaded rather than reporting the later match.
	ModeFirst
)

// Step is the outcome of one combine call: either Continue with a new
// accumulator, or Halt with the final result.
type Step struct {
	Result Result[bool]
	Halt   bool
}

// Combine applies the next Result to the accumulator under the given
// mode, per spec §4.1's truth table. It is the single primitive every
// reducer in this package is built from.
func Combine(acc, next Result[bool], mode Mode) Step {
	if next.IsErr() {
		return Step{Result: ErrResult[bool](next.err), Halt: true}
	}
	if acc.IsErr() {
		return Step{Result: acc, Halt: true}
	}
	switch mode {
	case ModeAll:
		return combineAll(acc, next)
	case ModeAny:
		return combineAny(acc, next)
	case ModeFirst:
		return combineFirst(acc, next)
	default:
		panic("result: unknown combine mode")
	}
}

func combineAll(acc, next Result[bool]) Step {
	if next.IsNotLoaded() {
		reqs := next.reqs
		if acc.IsNotLoaded() {
			reqs = acc.reqs.Concat(next.reqs)
		}
		return Step{Result: NotLoadedResult[bool](reqs).WithBindings(mergeBindings(acc.binds, next.binds))}
	}
	// next is Ok(bool).
	if !next.value {
		// A determined falsehood halts the conjunction; any pending
		// requests accumulated so far are discarded.
		return Step{Result: Ok(false), Halt: true}
	}
	if acc.IsNotLoaded() {
		return Step{Result: NotLoadedResult[bool](acc.reqs).WithBindings(mergeBindings(acc.binds, next.binds))}
	}
	return Step{Result: Ok(true).WithBindings(mergeBindings(acc.binds, next.binds))}
}

func combineAny(acc, next Result[bool]) Step {
	if next.IsNotLoaded() {
		reqs := next.reqs
		if acc.IsNotLoaded() {
			reqs = acc.reqs.Concat(next.reqs)
		}
		return Step{Result: NotLoadedResult[bool](reqs).WithBindings(mergeBindings(acc.binds, next.binds))}
	}
	if next.value {
		return Step{Result: Ok(true).WithBindings(mergeBindings(acc.binds, next.binds)), Halt: true}
	}
	if acc.IsNotLoaded() {
		return Step{Result: NotLoadedResult[bool](acc.reqs).WithBindings(mergeBindings(acc.binds, next.binds))}
	}
	return Step{Result: Ok(false).WithBindings(mergeBindings(acc.binds, next.binds))}
}

func combineFirst(acc, next Result[bool]) Step {
	if next.IsNotLoaded() {
		reqs := next.reqs
		if acc.IsNotLoaded() {
			reqs = acc.reqs.Concat(next.reqs)
		}
		return Step{Result: NotLoadedResult[bool](reqs).WithBindings(mergeBindings(acc.binds, next.binds))}
	}
	if next.value {
		if acc.IsNotLoaded() {
			// An earlier element is still pending: it might resolve true
			// itself, so this later true cannot be reported yet.
			return Step{Result: NotLoadedResult[bool](acc.reqs).WithBindings(acc.binds), Halt: true}
		}
		return Step{Result: Ok(true).WithBindings(next.binds), Halt: true}
	}
	// next is Ok(false): the accumulator (Ok(false) or NotLoaded(r))
	// carries forward unchanged.
	return Step{Result: acc}
}

// All reduces elems under all? semantics.
func All[E any](elems []E, f func(E) Result[bool]) Result[bool] {
	acc := Ok(true)
	for _, e := range elems {
		step := Combine(acc, f(e), ModeAll)
		acc = step.Result
		if step.Halt {
			return acc
		}
	}
	return acc
}

// Any reduces elems under any? semantics.
func Any[E any](elems []E, f func(E) Result[bool]) Result[bool] {
	acc := Ok(false)
	for _, e := range elems {
		step := Combine(acc, f(e), ModeAny)
		acc = step.Result
		if step.Halt {
			return acc
		}
	}
	return acc
}

// Find iterates elems under first semantics: cond is evaluated for each
// element in order; on the first determined true that is not blocked by
// an earlier pending element, then is invoked with that element and the
// bindings accumulated while evaluating its condition. If the sequence is
// exhausted without a match, Find returns Ok(def) — unless some element
// was pending, in which case it returns NotLoaded so the caller knows the
// "no match" verdict is not yet final.
func Find[E, V any](elems []E, cond func(E) Result[bool], then func(E, Bindings) Result[V], def V) Result[V] {
	acc := Ok(false)
	for _, e := range elems {
		next := cond(e)
		step := Combine(acc, next, ModeFirst)
		if step.Halt {
			if step.Result.IsErr() {
				return ErrResult[V](step.Result.err)
			}
			if step.Result.IsOk() && step.Result.value {
				return then(e, next.binds)
			}
			return NotLoadedResult[V](step.Result.reqs)
		}
		acc = step.Result
	}
	if acc.IsNotLoaded() {
		return NotLoadedResult[V](acc.reqs)
	}
	return Ok(def)
}
