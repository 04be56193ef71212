package engine

import (
	"sort"

	"github.com/cognicore/noetic/pkg/noetic/dsl"
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// EvaluateCondition runs cond against ev's root subject (spec §4.2).
func EvaluateCondition(ev Eval, cond dsl.Condition) result.Result[bool] {
	return evalCond(ev, ev.Root, true, cond)
}

// evalCond dispatches on the shape of subject and cond in the order spec
// §4.2 fixes: whether the subject is itself a sequence is checked before
// anything about the condition's own shape, because a list-subject always
// means "does any element satisfy this", regardless of what shape the
// condition happens to have. atRoot tracks whether subject is still
// exactly ev.Root, unchanged by any narrowing step taken to reach this
// call; Args only fires while that holds.
func evalCond(ev Eval, subject any, atRoot bool, cond dsl.Condition) result.Result[bool] {
	if seq, ok := record.AsSequence(subject); ok {
		return result.Any(seq, func(e any) result.Result[bool] {
			return evalCond(ev, e, false, cond)
		})
	}

	switch c := cond.(type) {
	case []any:
		return result.Any(c, func(branch any) result.Result[bool] {
			return evalCond(ev, subject, atRoot, branch)
		})

	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return result.All(keys, func(k string) result.Result[bool] {
			field := resolveField(ev, subject, k)
			branch := c[k]
			return result.Then(field, func(v any) result.Result[bool] {
				return evalCond(ev, v, false, branch)
			})
		})

	case dsl.Not:
		return result.Transform(evalCond(ev, subject, atRoot, c.Cond), func(b bool) bool { return !b })

	case dsl.Ref:
		root := ev.Root
		if c.FromArgs {
			root = ev.Args
		}
		resolved := resolvePath(ev, root, c.Path)
		return result.Then(resolved, func(v any) result.Result[bool] {
			return evalCond(ev, subject, atRoot, v)
		})

	case dsl.Bind:
		inner := evalCond(ev, subject, atRoot, c.Cond)
		return result.BindKey(inner, c.Key, subject)

	case dsl.Args:
		if !atRoot {
			return result.Ok(false)
		}
		return evalCond(ev, ev.Args, false, c.Cond)

	case record.Comparer:
		if ord, ok := c.CompareTo(subject); ok {
			return result.Ok(ord == record.EQ)
		}
		if sc, ok := subject.(record.Comparer); ok {
			if ord, ok := sc.CompareTo(c); ok {
				return result.Ok(ord == record.EQ)
			}
		}
		return result.Ok(record.StructuralEquals(subject, cond))

	case dsl.PredicateName:
		field := resolveField(ev, subject, string(c))
		return result.Then(field, func(v any) result.Result[bool] {
			return result.Ok(v == true)
		})

	default:
		return result.Ok(record.StructuralEquals(subject, cond))
	}
}
