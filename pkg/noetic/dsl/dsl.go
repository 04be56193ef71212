// Package dsl defines the explicit tagged node types for the condition
// and value-template recursion (spec §3). Everything that is not one of
// these node types is a plain Go literal: bool, string, float64, nil,
// map[string]any (conjunction / field projection), []any (disjunction /
// sequence projection), or a record.Record for typed literals.
package dsl

// Condition and ValueTemplate are aliases, not distinct types: the
// engine's recursion dispatches on the dynamic shape of the value, and
// literals are ordinary Go data. Keeping them as aliases means a rule
// author can build either tree out of the same Go values without casts.
type Condition = any
type ValueTemplate = any

// PredicateName is a condition atom resolved against the subject and
// coerced to ==true (spec §3, "predicate-name"). It is a distinct type
// from string so that a plain string condition is always treated as a
// literal to match by equality, never as something to resolve.
type PredicateName string

// Not negates the boolean result of evaluating Cond.
type Not struct {
	Cond Condition
}

// Ref resolves Path against either the root subject or, when FromArgs is
// set, the evaluation's argument bag (spec §3, "Ref"). The resolved value
// is then used as a sub-condition (when Ref appears in a Condition tree)
// or projected directly (when Ref appears in a ValueTemplate tree).
type Ref struct {
	Path     []string
	FromArgs bool
}

// Bind evaluates Cond; if it yields true, Key is also recorded against
// the current subject in the active bindings (spec §3, "Bind").
type Bind struct {
	Key  string
	Cond Condition
}

// Args switches the current subject to the evaluation's argument bag and
// evaluates Cond, but only when the current subject is the root subject
// (spec §3, "Args"; spec §9 Open Question 1 — preserved as a silent
// non-match rather than an error when the restriction does not hold).
type Args struct {
	Cond Condition
}

// FnCall applies Fn to the projected value of each of Args in order,
// after collecting any NotLoaded requests across all of them (spec §4.3).
// Fn is expected to be pure from the engine's perspective; any error it
// returns surfaces as a CallError.
type FnCall struct {
	Name string
	Fn   func(args ...any) (any, error)
	Args []ValueTemplate
}

// Bound looks up Key in the active bindings (populated by Bind during
// condition evaluation). Without HasDefault it errors when Key is absent;
// with HasDefault it falls back to Default (spec §3, "Bound").
type Bound struct {
	Key        string
	HasDefault bool
	Default    any
}
