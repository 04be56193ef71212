// Package funinfo normalizes per-function argument annotations into a
// fixed-arity list (spec §4.6), and pairs the normalized metadata with an
// actual callable so a rule source (e.g. the YAML registry loader) can
// resolve a dsl.FnCall by name instead of requiring hand-wired closures.
package funinfo

import "github.com/cognicore/noetic/pkg/noetic/internalerr"

// ArgInfo describes a single argument position.
type ArgInfo struct {
	PreloadScope bool
	AtomToScope  bool
}

// ArgOverride is a sparse override for one argument position: a nil field
// means "inherit from the default", a non-nil field wins even when it is
// false (spec §4.6, "explicit false overrides winning over inherited
// true").
type ArgOverride struct {
	PreloadScope *bool
	AtomToScope  *bool
}

func mergeArg(base ArgInfo, override ArgOverride) ArgInfo {
	out := base
	if override.PreloadScope != nil {
		out.PreloadScope = *override.PreloadScope
	}
	if override.AtomToScope != nil {
		out.AtomToScope = *override.AtomToScope
	}
	return out
}

// FunInfo is an immutable description of a named function of fixed arity.
type FunInfo struct {
	Module         string
	FuncName       string
	Arity          int
	Args           []ArgInfo
	CanReturnScope bool
	WarnNotOk      bool
	WarnAlways     bool
}

// ArgsSpec is the raw per-argument annotation a caller supplies to New: it
// is either a position-keyed map (with the special keys "first", "last",
// and "all" for the default seed), a positional list padded to arity, or
// nil for "everything defaults".
type ArgsSpec struct {
	ByPosition map[int]ArgOverride
	First      *ArgOverride
	Last       *ArgOverride
	All        *ArgOverride
	Positional []ArgOverride
}

// New normalizes spec into a FunInfo of exactly arity Args entries,
// per spec §4.6's five-step algorithm.
func New(module, funcName string, arity int, spec ArgsSpec, canReturnScope, warnNotOk, warnAlways bool) (*FunInfo, error) {
	if arity < 0 {
		return nil, internalerr.NewConfigError("funinfo: arity must be >= 0, got %d", arity)
	}

	def := ArgInfo{}
	if spec.All != nil {
		def = mergeArg(def, *spec.All)
	}

	args := make([]ArgInfo, arity)
	for i := range args {
		args[i] = def
	}

	if len(spec.Positional) > 0 {
		if len(spec.Positional) > arity {
			return nil, internalerr.NewConfigError("funinfo: positional args list longer than arity %d", arity)
		}
		for i, ov := range spec.Positional {
			args[i] = mergeArg(def, ov)
		}
		return &FunInfo{Module: module, FuncName: funcName, Arity: arity, Args: args, CanReturnScope: canReturnScope, WarnNotOk: warnNotOk, WarnAlways: warnAlways}, nil
	}

	if spec.First != nil {
		if arity == 0 {
			return nil, internalerr.NewConfigError("funinfo: %q has 'first' arg override but arity is 0", funcName)
		}
		args[0] = mergeArg(def, *spec.First)
	}
	if spec.Last != nil {
		if arity == 0 {
			return nil, internalerr.NewConfigError("funinfo: %q has 'last' arg override but arity is 0", funcName)
		}
		args[arity-1] = mergeArg(def, *spec.Last)
	}
	for pos, ov := range spec.ByPosition {
		if pos < 0 || pos >= arity {
			return nil, internalerr.NewConfigError("funinfo: %q arg position %d out of range for arity %d", funcName, pos, arity)
		}
		args[pos] = mergeArg(def, ov)
	}

	return &FunInfo{Module: module, FuncName: funcName, Arity: arity, Args: args, CanReturnScope: canReturnScope, WarnNotOk: warnNotOk, WarnAlways: warnAlways}, nil
}

// Callable pairs a FunInfo with the function it describes.
type Callable struct {
	Info *FunInfo
	Fn   func(args ...any) (any, error)
}

// Registry resolves function names to Callables, used by rule sources
// that declare dsl.FnCall nodes by name rather than by Go closure.
type Registry struct {
	byName map[string]Callable
}

// NewRegistry builds an empty function registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Callable)}
}

// Register adds fn under name, paired with info. It returns a ConfigError
// if any function is already registered under the same name. fn's arity
// is not checked against info.
func (r *Registry) Register(name string, info *FunInfo, fn func(args ...any) (any, error)) error {
	if _, exists := r.byName[name]; exists {
		return internalerr.NewConfigError("funinfo: function %q already registered", name)
	}
	r.byName[name] = Callable{Info: info, Fn: fn}
	return nil
}

// Lookup returns the Callable registered under name, if any.
func (r *Registry) Lookup(name string) (Callable, bool) {
	c, ok := r.byName[name]
	return c, ok
}
