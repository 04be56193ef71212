package engine

import (
	"fmt"

	"github.com/cognicore/noetic/pkg/noetic/dsl"
	"github.com/cognicore/noetic/pkg/noetic/internalerr"
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

// Project evaluates a value template against ev's root/argument bag, with
// binds supplying whatever a sibling condition's Bind nodes recorded
// (spec §4.3). Maps and sequences project element-wise; a Reconstructable
// record projects its fields and is rebuilt with the same type tag;
// everything else not named below passes through unchanged.
func Project(ev Eval, binds result.Bindings, tmpl dsl.ValueTemplate) result.Result[any] {
	switch t := tmpl.(type) {
	case dsl.Ref:
		root := ev.Root
		if t.FromArgs {
			root = ev.Args
		}
		return resolvePath(ev, root, t.Path)

	case dsl.Bound:
		if v, ok := binds[t.Key]; ok {
			return result.Ok(v)
		}
		if t.HasDefault {
			return result.Ok(t.Default)
		}
		return result.ErrResult[any](internalerr.NewNotBoundError(t.Key))

	case dsl.FnCall:
		args := result.MapSeq(t.Args, func(a dsl.ValueTemplate) result.Result[any] {
			return Project(ev, binds, a)
		})
		return result.Then(args, func(vals []any) (res result.Result[any]) {
			defer func() {
				if p := recover(); p != nil {
					res = result.ErrResult[any](internalerr.NewCallError(fmt.Errorf("panic: %v", p)))
				}
			}()
			out, err := t.Fn(vals...)
			if err != nil {
				return result.ErrResult[any](internalerr.NewCallError(err))
			}
			return result.Ok(out)
		})

	case record.Reconstructable:
		fields := t.TemplateFields()
		projected := result.MapValues(fields, func(v any) result.Result[any] { return Project(ev, binds, v) })
		return result.Transform(projected, func(m map[string]any) any { return t.WithTemplateFields(m) })

	case map[string]any:
		projected := result.MapValues(t, func(v any) result.Result[any] { return Project(ev, binds, v) })
		return result.Transform(projected, func(m map[string]any) any { return any(m) })

	case []any:
		projected := result.MapSeq(t, func(v any) result.Result[any] { return Project(ev, binds, v) })
		return result.Transform(projected, func(s []any) any { return any(s) })

	default:
		return result.Ok(tmpl)
	}
}
