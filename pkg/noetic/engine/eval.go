// Package engine implements the condition evaluator, value projector, and
// rule matcher described in spec §4, plus the resolve/fetch bridge that
// connects them to an external Loader, Cache, and rule Registry. The three
// evaluators are mutually recursive by design (a condition can reference a
// rule-derived field, whose rule's condition can itself reference another
// derived field) so they live in one package rather than being split along
// interface boundaries that would only exist to break an import cycle.
package engine

import (
	"github.com/google/uuid"

	"github.com/cognicore/noetic/pkg/noetic/dsl"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// Loader is the engine's only way to obtain data for a pending field. It
// never runs automatically; the engine calls it at most once per fetch
// (not at all on a Cache hit), synchronously, and treats whatever Result
// it returns as authoritative.
type Loader interface {
	Lookup(req result.Request) result.Result[any]
}

// Cache is an opaque memo the engine consults before calling Loader and
// populates after a successful lookup. A nil Cache disables memoization.
type Cache interface {
	Get(req result.Request) (any, bool)
	Put(req result.Request, value any)
}

// Registry resolves a derived-field predicate on a given type tag to its
// ordered candidate rules. An empty result means "no rule defines this
// field", which falls back to a direct field lookup on the record.
type Registry interface {
	RulesForPredicate(predicate, typeTag string) []Rule
}

// Tracer is an optional debug hook; the engine never performs I/O itself,
// so anything resembling logging during evaluation goes through here.
type Tracer interface {
	Trace(event string, fields map[string]any)
}

// Rule pairs a condition with the value template to project when it
// matches. Key is opaque to the engine; callers use it for diagnostics and
// persistence, not for matching.
type Rule struct {
	Key  string
	When dsl.Condition
	Val  dsl.ValueTemplate
}

// Eval carries everything a single evaluation needs: the root subject and
// argument bag conditions and templates resolve against, and the
// collaborators a fetch may need. It is passed by value and never mutated
// in place; the With* methods return a modified copy.
type Eval struct {
	Root     any
	Args     any
	Loader   Loader
	Cache    Cache
	Registry Registry
	Tracer   Tracer
	ID       uuid.UUID
}

// NewEval starts a fresh evaluation rooted at subject, with a freshly
// minted correlation id for debug tracing.
func NewEval(subject any) Eval {
	return Eval{Root: subject, ID: uuid.New()}
}

func (e Eval) WithArgs(args any) Eval         { e.Args = args; return e }
func (e Eval) WithLoader(l Loader) Eval       { e.Loader = l; return e }
func (e Eval) WithCache(c Cache) Eval         { e.Cache = c; return e }
func (e Eval) WithRegistry(r Registry) Eval   { e.Registry = r; return e }
func (e Eval) WithTracer(t Tracer) Eval       { e.Tracer = t; return e }

// withRoot rebinds Root for a nested evaluation: a derived-field rule's
// condition is evaluated with that field's owning record as its own root,
// so Args inside that rule refers to the outer evaluation's argument bag
// while the root-subject restriction is checked against the new record.
func (e Eval) withRoot(subject any) Eval {
	e.Root = subject
	return e
}
