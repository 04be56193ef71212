package engine

import (
	"testing"

	"github.com/cognicore/noetic/pkg/noetic/dsl"
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/result"
	tracepkg "github.com/cognicore/noetic/pkg/noetic/trace"
)

type fakeLoader struct {
	values map[string]any
	calls  int
}

func (f *fakeLoader) Lookup(req result.Request) result.Result[any] {
	f.calls++
	v, ok := f.values[req.Key]
	if !ok {
		return result.ErrResult[any](nil)
	}
	return result.Ok(v)
}

type fakeRegistry struct {
	rules map[string][]Rule
}

func (f *fakeRegistry) RulesForPredicate(predicate, typeTag string) []Rule {
	return f.rules[typeTag+"."+predicate]
}

func TestEvaluateCondition_MapConjunction(t *testing.T) {
	subject := map[string]any{"age": 30, "active": true}
	cond := map[string]any{"age": 30, "active": true}
	got := EvaluateCondition(NewEval(subject), cond)
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected Ok(true), got %+v", got)
	}
}

func TestEvaluateCondition_ListSubjectPrecedesListCondition(t *testing.T) {
	subject := []any{1, 2, 3}
	cond := []any{2, 5}
	got := EvaluateCondition(NewEval(subject), cond)
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected any element to satisfy any branch, got %+v", got)
	}
}

func TestEvaluateCondition_Not(t *testing.T) {
	got := EvaluateCondition(NewEval(5), dsl.Not{Cond: 6})
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected Not(5==6) == true, got %+v", got)
	}
}

func TestEvaluateCondition_Bind(t *testing.T) {
	cond := dsl.Bind{Key: "who", Cond: map[string]any{"name": "bob"}}
	subject := map[string]any{"name": "bob"}
	got := EvaluateCondition(NewEval(subject), cond)
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected match, got %+v", got)
	}
	if got.Bindings()["who"] == nil {
		t.Fatalf("expected binding for 'who', got %+v", got.Bindings())
	}
}

func TestEvaluateCondition_ArgsOnlyAtRoot(t *testing.T) {
	ev := NewEval(map[string]any{"items": []any{map[string]any{"x": 1}}}).WithArgs(map[string]any{"threshold": 1})
	cond := dsl.Args{Cond: map[string]any{"threshold": 1}}
	if got := EvaluateCondition(ev, cond); !got.IsOk() || !got.Value() {
		t.Fatalf("expected Args to match at root, got %+v", got)
	}

	nestedCond := map[string]any{"items": []any{dsl.Args{Cond: map[string]any{"threshold": 1}}}}
	got := EvaluateCondition(ev, nestedCond)
	if !got.IsOk() || got.Value() {
		t.Fatalf("expected Args under a narrowed subject to silently fail to match, got %+v", got)
	}
}

func TestEvaluateCondition_PredicateNamePending(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{}).MarkPending("verified")
	ev := NewEval(rec)
	got := EvaluateCondition(ev, dsl.PredicateName("verified"))
	if !got.IsNotLoaded() || len(got.Requests()) != 1 {
		t.Fatalf("expected one pending request, got %+v", got)
	}
}

func TestEvaluateCondition_PredicateNameResolvedViaLoader(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{}).MarkPending("verified")
	loader := &fakeLoader{values: map[string]any{"verified": true}}
	ev := NewEval(rec).WithLoader(loader)
	got := EvaluateCondition(ev, dsl.PredicateName("verified"))
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected true after load, got %+v", got)
	}
	if loader.calls != 1 {
		t.Fatalf("expected exactly one loader call, got %d", loader.calls)
	}
}

func TestEvaluateCondition_DerivedFieldViaRegistry(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{"balance": 150})
	registry := &fakeRegistry{rules: map[string][]Rule{
		"account.tier": {
			{Key: "gold", When: map[string]any{"balance": dsl.Not{Cond: nil}}, Val: "gold"},
		},
	}}
	ev := NewEval(rec).WithRegistry(registry)
	got := EvaluateCondition(ev, map[string]any{"tier": "gold"})
	if !got.IsOk() || !got.Value() {
		t.Fatalf("expected derived tier field to resolve to gold, got %+v", got)
	}
}

func TestResolveField_NonMatchingRuleFallsThroughToStoredField(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{"display_name": "ACME Corp"})
	registry := &fakeRegistry{rules: map[string][]Rule{
		"account.display_name": {
			{Key: "nickname", When: map[string]any{"display_name": "never matches this"}, Val: "nickname wins"},
		},
	}}
	ev := NewEval(rec).WithRegistry(registry)
	got := ResolveField(ev, "display_name")
	if !got.IsOk() || got.Value() != "ACME Corp" {
		t.Fatalf("expected fall-through to stored field 'ACME Corp', got %+v", got)
	}
}

func TestResolveField_NonMatchingRuleWithMissingFieldYieldsKeyError(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{})
	registry := &fakeRegistry{rules: map[string][]Rule{
		"account.display_name": {
			{Key: "nickname", When: map[string]any{"display_name": "never matches this"}, Val: "nickname wins"},
		},
	}}
	ev := NewEval(rec).WithRegistry(registry)
	got := ResolveField(ev, "display_name")
	if !got.IsErr() {
		t.Fatalf("expected KeyError for absent field with no matching rule, got %+v", got)
	}
}

func TestResolveField_MissingFieldOnRecordYieldsKeyError(t *testing.T) {
	rec := record.NewTaggedRecord("account", map[string]any{})
	got := ResolveField(NewEval(rec), "display_name")
	if !got.IsErr() {
		t.Fatalf("expected KeyError, got %+v", got)
	}
}

func TestResolveField_MissingKeyOnMapYieldsKeyError(t *testing.T) {
	got := ResolveField(NewEval(map[string]any{"a": 1}), "b")
	if !got.IsErr() {
		t.Fatalf("expected KeyError, got %+v", got)
	}
}

func TestProject_RefAndFnCall(t *testing.T) {
	ev := NewEval(map[string]any{"first": "a", "last": "b"})
	tmpl := dsl.FnCall{
		Name: "concat",
		Fn: func(args ...any) (any, error) {
			return args[0].(string) + args[1].(string), nil
		},
		Args: []dsl.ValueTemplate{
			dsl.Ref{Path: []string{"first"}},
			dsl.Ref{Path: []string{"last"}},
		},
	}
	got := Project(ev, nil, tmpl)
	if !got.IsOk() || got.Value() != "ab" {
		t.Fatalf("expected 'ab', got %+v", got)
	}
}

func TestProject_BoundDefault(t *testing.T) {
	got := Project(NewEval(nil), nil, dsl.Bound{Key: "missing", HasDefault: true, Default: 42})
	if !got.IsOk() || got.Value() != 42 {
		t.Fatalf("expected default 42, got %+v", got)
	}

	got2 := Project(NewEval(nil), nil, dsl.Bound{Key: "missing"})
	if !got2.IsErr() {
		t.Fatalf("expected error for unbound key with no default, got %+v", got2)
	}
}

func TestProject_ReconstructableRecord(t *testing.T) {
	rec := record.NewTaggedRecord("point", map[string]any{"x": 1, "y": 2})
	tmpl := dsl.ValueTemplate(rec)
	got := Project(NewEval(nil), nil, tmpl)
	if !got.IsOk() {
		t.Fatalf("expected ok, got %+v", got)
	}
	out, ok := got.Value().(*record.TaggedRecord)
	if !ok || out.Tag != "point" || out.Fields["x"] != 1 {
		t.Fatalf("expected rebuilt point record, got %+v", got.Value())
	}
}

func TestMatchRules_FirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Key: "r1", When: map[string]any{"tier": "silver"}, Val: "silver-discount"},
		{Key: "r2", When: map[string]any{"tier": "gold"}, Val: "gold-discount"},
	}
	subject := map[string]any{"tier": "gold"}
	got := MatchRules(NewEval(subject), rules, nil)
	if !got.IsOk() || got.Value() != "gold-discount" {
		t.Fatalf("expected gold-discount, got %+v", got)
	}
}

func TestMatchRules_TracesEachAttemptAndTheWinningMatch(t *testing.T) {
	rules := []Rule{
		{Key: "r1", When: map[string]any{"tier": "silver"}, Val: "silver-discount"},
		{Key: "r2", When: map[string]any{"tier": "gold"}, Val: "gold-discount"},
	}
	collector := &tracepkg.Collector{}
	ev := NewEval(map[string]any{"tier": "gold"}).WithTracer(collector)

	got := MatchRules(ev, rules, nil)
	if !got.IsOk() || got.Value() != "gold-discount" {
		t.Fatalf("expected gold-discount, got %+v", got)
	}

	if len(collector.Events) != 3 {
		t.Fatalf("expected 2 rule_attempt events plus 1 rule_match event, got %+v", collector.Events)
	}
	if collector.Events[0].Name != "rule_attempt" || collector.Events[0].Fields["key"] != "r1" || collector.Events[0].Fields["matched"] != false {
		t.Fatalf("expected a failed attempt for r1 first, got %+v", collector.Events[0])
	}
	if collector.Events[1].Name != "rule_attempt" || collector.Events[1].Fields["key"] != "r2" || collector.Events[1].Fields["matched"] != true {
		t.Fatalf("expected a successful attempt for r2 second, got %+v", collector.Events[1])
	}
	if collector.Events[2].Name != "rule_match" || collector.Events[2].Fields["key"] != "r2" || collector.Events[2].Fields["val"] != "gold-discount" {
		t.Fatalf("expected a rule_match event for the winning rule, got %+v", collector.Events[2])
	}
}

func TestMatchRules_NoMatchYieldsNoMatchSentinel(t *testing.T) {
	rules := []Rule{
		{Key: "r1", When: map[string]any{"tier": "silver"}, Val: "silver-discount"},
	}
	got := MatchRules(NewEval(map[string]any{"tier": "bronze"}), rules, nil)
	if !got.IsOk() || got.Value() != NoMatch {
		t.Fatalf("expected Ok(NoMatch), got %+v", got)
	}
}
