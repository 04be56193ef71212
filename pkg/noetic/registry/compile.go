package registry

import (
	"github.com/cognicore/noetic/pkg/noetic/dsl"
	"github.com/cognicore/noetic/pkg/noetic/funinfo"
	"github.com/cognicore/noetic/pkg/noetic/internalerr"
)

// compileNode turns a yaml.v3-decoded tree into a dsl.Condition (or,
// identically, a dsl.ValueTemplate, since both are plain `any`). Plain
// maps and sequences decode straight into the literal conjunction and
// disjunction shapes the engine already understands; a map with exactly
// one of the reserved "$"-prefixed keys below is compiled into the
// matching dsl node instead. fns resolves $fn names to callables; it may
// be nil for rule sources that never call a function.
func compileNode(fns *funinfo.Registry, raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		if len(v) == 1 {
			for key, body := range v {
				if compiled, ok, err := compileMarker(fns, key, body); ok || err != nil {
					return compiled, err
				}
			}
		}
		out := make(map[string]any, len(v))
		for k, val := range v {
			c, err := compileNode(fns, val)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			c, err := compileNode(fns, val)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil

	case int:
		// yaml.v3 decodes whole numbers as int; dsl number literals are
		// float64, the same type encoding/json gives record data.
		return float64(v), nil

	default:
		return v, nil
	}
}

func compileMarker(fns *funinfo.Registry, key string, body any) (any, bool, error) {
	switch key {
	case "$not":
		cond, err := compileNode(fns, body)
		if err != nil {
			return nil, true, err
		}
		return dsl.Not{Cond: cond}, true, nil

	case "$ref":
		path, err := toPath(body)
		if err != nil {
			return nil, true, err
		}
		return dsl.Ref{Path: path}, true, nil

	case "$refArgs":
		path, err := toPath(body)
		if err != nil {
			return nil, true, err
		}
		return dsl.Ref{Path: path, FromArgs: true}, true, nil

	case "$bind":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, true, internalerr.NewConfigError("registry: $bind requires a map with 'key' and 'cond'")
		}
		keyName, _ := m["key"].(string)
		if keyName == "" {
			return nil, true, internalerr.NewConfigError("registry: $bind missing 'key'")
		}
		cond, err := compileNode(fns, m["cond"])
		if err != nil {
			return nil, true, err
		}
		return dsl.Bind{Key: keyName, Cond: cond}, true, nil

	case "$args":
		cond, err := compileNode(fns, body)
		if err != nil {
			return nil, true, err
		}
		return dsl.Args{Cond: cond}, true, nil

	case "$atom":
		name, ok := body.(string)
		if !ok {
			return nil, true, internalerr.NewConfigError("registry: $atom requires a string")
		}
		return dsl.PredicateName(name), true, nil

	case "$bound":
		switch b := body.(type) {
		case string:
			return dsl.Bound{Key: b}, true, nil
		case map[string]any:
			keyName, _ := b["key"].(string)
			if keyName == "" {
				return nil, true, internalerr.NewConfigError("registry: $bound map requires 'key'")
			}
			def, hasDefault := b["default"]
			return dsl.Bound{Key: keyName, HasDefault: hasDefault, Default: def}, true, nil
		default:
			return nil, true, internalerr.NewConfigError("registry: $bound requires a string or map")
		}

	case "$fn":
		m, ok := body.(map[string]any)
		if !ok {
			return nil, true, internalerr.NewConfigError("registry: $fn requires a map with 'name' and 'args'")
		}
		name, _ := m["name"].(string)
		if name == "" {
			return nil, true, internalerr.NewConfigError("registry: $fn missing 'name'")
		}
		if fns == nil {
			return nil, true, internalerr.NewConfigError("registry: $fn %q used with no function registry configured", name)
		}
		callable, ok := fns.Lookup(name)
		if !ok {
			return nil, true, internalerr.NewConfigError("registry: unknown function %q", name)
		}
		rawArgs, _ := m["args"].([]any)
		args := make([]dsl.ValueTemplate, len(rawArgs))
		for i, a := range rawArgs {
			c, err := compileNode(fns, a)
			if err != nil {
				return nil, true, err
			}
			args[i] = c
		}
		return dsl.FnCall{Name: name, Fn: callable.Fn, Args: args}, true, nil

	default:
		return nil, false, nil
	}
}

func toPath(body any) ([]string, error) {
	raw, ok := body.([]any)
	if !ok {
		return nil, internalerr.NewConfigError("registry: $ref/$refArgs requires a list of path segments")
	}
	path := make([]string, len(raw))
	for i, seg := range raw {
		s, ok := seg.(string)
		if !ok {
			return nil, internalerr.NewConfigError("registry: path segment %v is not a string", seg)
		}
		path[i] = s
	}
	return path, nil
}
