package engine

import (
	"github.com/cognicore/noetic/pkg/noetic/internalerr"
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// resolveField projects one field off subject (spec §4.5). A record.Record
// whose owning type has rules registered for a predicate matching key takes
// precedence over the record's own stored field: the field is computed
// by matching those rules against the record as a fresh root, the way the
// predecessor engine's transitive queries layered derived facts over
// stored ones. If no registered rule's condition actually holds,
// MatchRules comes back with the NoMatch sentinel and resolution falls
// through to the record's own field lookup, same as when no rules were
// registered at all. That lookup decides Present/Missing/Pending: present
// resolves to its value, missing is a KeyError, pending goes through
// fetch. A plain map[string]any is looked up directly under the same
// present/missing policy; anything else (including nil) has no fields and
// yields nil.
func resolveField(ev Eval, subject any, key string) result.Result[any] {
	if rec, ok := subject.(record.Record); ok {
		if ev.Registry != nil {
			if rules := ev.Registry.RulesForPredicate(key, rec.TypeTag()); len(rules) > 0 {
				matched := MatchRules(ev.withRoot(subject), rules, nil)
				if !matched.IsOk() || matched.Value() != NoMatch {
					return matched
				}
			}
		}
		v, state := rec.Field(key)
		switch state {
		case record.FieldPresent:
			return result.Ok(v)
		case record.FieldMissing:
			return result.ErrResult[any](internalerr.NewKeyError("field %q not present on %q", key, rec.TypeTag()))
		default: // record.FieldPending
			return fetch(ev, "assoc", subject, key)
		}
	}
	if m, ok := subject.(map[string]any); ok {
		v, ok := m[key]
		if !ok {
			return result.ErrResult[any](internalerr.NewKeyError("field %q not present", key))
		}
		return result.Ok(v)
	}
	return result.Ok[any](nil)
}

// resolvePath left-folds resolveField over path. Once the running value
// goes nil, every further resolveField call falls through to the
// "anything else yields nil" case above, so there is no separate
// short-circuit to write.
func resolvePath(ev Eval, subject any, path []string) result.Result[any] {
	cur := result.Ok(subject)
	for _, seg := range path {
		cur = result.Then(cur, func(v any) result.Result[any] { return resolveField(ev, v, seg) })
	}
	return cur
}

// ResolveField projects key off ev's root subject, through any registered
// derived-field rules and any Loader needed for a pending association. It
// is the same machinery the condition evaluator and value projector use
// internally for a bare Ref{Path: []string{key}}, exported for callers
// that want to resolve one field without building a Condition.
func ResolveField(ev Eval, key string) result.Result[any] {
	return resolveField(ev, ev.Root, key)
}

// Resolve walks path off ev's root subject the same way a multi-segment
// Ref does.
func Resolve(ev Eval, path []string) result.Result[any] {
	return resolvePath(ev, ev.Root, path)
}

// fetch builds a Request for one pending association, consulting Cache
// before Loader and populating it after a successful lookup. With no
// Loader configured, a pending field the Cache does not hold comes back
// not-loaded.
func fetch(ev Eval, kind string, container any, key string) result.Result[any] {
	req := result.NewRequest(kind, container, key)
	if ev.Cache != nil {
		if v, ok := ev.Cache.Get(req); ok {
			return result.Ok(v)
		}
	}
	if ev.Loader == nil {
		return result.NotLoadedResult[any](result.Requests{req})
	}
	r := ev.Loader.Lookup(req)
	if ev.Cache != nil && r.IsOk() {
		ev.Cache.Put(req, r.Value())
	}
	trace(ev, "fetch", map[string]any{"kind": kind, "key": key, "ok": r.IsOk()})
	return r
}
