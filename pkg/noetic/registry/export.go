package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/noetic/pkg/noetic/dsl"
)

// Writer persists exported rule YAML to a destination: a file, or
// anything else that can take the rendered text.
type Writer interface {
	WriteRules(ctx context.Context, content string) error
}

// FileWriter writes exported rule YAML to a path on disk, overwriting
// whatever was there.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	return os.WriteFile(w.Path, []byte(content), 0644)
}

// Exporter renders a registry's rules back into the same YAML shape
// LoadYAML reads, for backup, diffing, or handing off to another
// instance. It reads rules from a *Memory registry.
type Exporter struct {
	Writer Writer
}

// Export walks each (predicate, typeTag) pair in pairs and renders reg's
// rules for them as one YAML document.
func (e *Exporter) Export(ctx context.Context, reg *Memory, pairs []PredicateType) error {
	if e.Writer == nil {
		return fmt.Errorf("registry: exporter has no writer")
	}

	var file ruleFile
	for _, pt := range pairs {
		for _, rule := range reg.RulesForPredicate(pt.Predicate, pt.TypeTag) {
			when, err := decompileNode(rule.When)
			if err != nil {
				return fmt.Errorf("export rule %s: %w", rule.Key, err)
			}
			val, err := decompileNode(rule.Val)
			if err != nil {
				return fmt.Errorf("export rule %s: %w", rule.Key, err)
			}
			file.Rules = append(file.Rules, ruleSource{
				Key: rule.Key, Predicate: pt.Predicate, Type: pt.TypeTag, When: when, Val: val,
			})
		}
	}

	out, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return e.Writer.WriteRules(ctx, string(out))
}

// PredicateType names one (predicate, typeTag) pair to export rules for;
// the registry itself has no way to enumerate the pairs it was filed
// under, so the caller supplies the ones it cares about.
type PredicateType struct {
	Predicate string
	TypeTag   string
}

// decompileNode is compileNode run backwards: it turns a compiled
// dsl.Condition/ValueTemplate back into the "$"-marker YAML shape
// LoadYAML understands. A dsl.FnCall loses its bound Fn closure and
// keeps only its Name, so re-importing the export needs the same
// funinfo.Registry the original rule was compiled against.
func decompileNode(node any) (any, error) {
	switch v := node.(type) {
	case dsl.Not:
		cond, err := decompileNode(v.Cond)
		if err != nil {
			return nil, err
		}
		return map[string]any{"$not": cond}, nil

	case dsl.Ref:
		path := make([]any, len(v.Path))
		for i, seg := range v.Path {
			path[i] = seg
		}
		if v.FromArgs {
			return map[string]any{"$refArgs": path}, nil
		}
		return map[string]any{"$ref": path}, nil

	case dsl.Bind:
		cond, err := decompileNode(v.Cond)
		if err != nil {
			return nil, err
		}
		return map[string]any{"$bind": map[string]any{"key": v.Key, "cond": cond}}, nil

	case dsl.Args:
		cond, err := decompileNode(v.Cond)
		if err != nil {
			return nil, err
		}
		return map[string]any{"$args": cond}, nil

	case dsl.PredicateName:
		return map[string]any{"$atom": string(v)}, nil

	case dsl.Bound:
		if !v.HasDefault {
			return map[string]any{"$bound": v.Key}, nil
		}
		return map[string]any{"$bound": map[string]any{"key": v.Key, "default": v.Default}}, nil

	case dsl.FnCall:
		args := make([]any, len(v.Args))
		for i, a := range v.Args {
			c, err := decompileNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = c
		}
		return map[string]any{"$fn": map[string]any{"name": v.Name, "args": args}}, nil

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			c, err := decompileNode(val)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			c, err := decompileNode(val)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil

	default:
		return v, nil
	}
}
