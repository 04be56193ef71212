package engine

import (
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// noMatch is the sentinel MatchRules returns (via result.Find's def
// value) when none of rules' conditions held, distinguishable from a
// rule's own Val legitimately projecting a nil value.
type noMatch struct{}

// NoMatch lets resolveField tell "no rule matched" apart from "the
// matching rule's value was nil".
var NoMatch any = noMatch{}

// MatchRules finds the first rule in rules whose When matches under ev,
// and projects its Val using the bindings that condition recorded, merged
// over any bindings already in scope from the caller (spec §4.2 "first").
// Each attempt is traced: one line per rule tried, and one more for the
// winning rule's projected value (spec §4.2, §6 "one line per rule
// attempt"). With no match, and nothing left pending, it yields
// Ok(NoMatch).
func MatchRules(ev Eval, rules []Rule, scope result.Bindings) result.Result[any] {
	return result.Find(rules,
		func(r Rule) result.Result[bool] {
			got := EvaluateCondition(ev, r.When)
			trace(ev, "rule_attempt", map[string]any{
				"type":    typeTagOf(ev.Root),
				"key":     r.Key,
				"when":    r.When,
				"matched": got.IsOk() && got.Value(),
			})
			return got
		},
		func(r Rule, binds result.Bindings) result.Result[any] {
			val := Project(ev, mergeScope(scope, binds), r.Val)
			var projected any
			if val.IsOk() {
				projected = val.Value()
			}
			trace(ev, "rule_match", map[string]any{
				"type": typeTagOf(ev.Root),
				"key":  r.Key,
				"ok":   val.IsOk(),
				"val":  projected,
			})
			return val
		},
		NoMatch,
	)
}

func trace(ev Eval, event string, fields map[string]any) {
	if ev.Tracer != nil {
		fields["eval_id"] = ev.ID
		ev.Tracer.Trace(event, fields)
	}
}

func typeTagOf(subject any) string {
	if rec, ok := subject.(record.Record); ok {
		return rec.TypeTag()
	}
	return ""
}

func mergeScope(outer, inner result.Bindings) result.Bindings {
	if len(outer) == 0 {
		return inner
	}
	if len(inner) == 0 {
		return outer
	}
	out := make(result.Bindings, len(outer)+len(inner))
	for k, v := range outer {
		out[k] = v
	}
	for k, v := range inner {
		out[k] = v
	}
	return out
}
