package registry

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/noetic/pkg/noetic/engine"
	"github.com/cognicore/noetic/pkg/noetic/funinfo"
)

// ruleSource is the on-disk shape of one rule entry, mirroring how the
// predecessor config package decodes taxonomy/stoplist YAML straight into
// a plain struct before any further processing.
type ruleSource struct {
	Key       string `yaml:"key"`
	Predicate string `yaml:"predicate"`
	Type      string `yaml:"type"`
	When      any    `yaml:"when"`
	Val       any    `yaml:"val"`
}

type ruleFile struct {
	Rules []ruleSource `yaml:"rules"`
}

// LoadYAML reads path and compiles its rules into a fresh Memory
// registry. fns resolves any $fn nodes in a rule's when/val trees; it may
// be nil if none of the rules need one.
func LoadYAML(path string, fns *funinfo.Registry) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compileYAML(data, fns)
}

func compileYAML(data []byte, fns *funinfo.Registry) (*Memory, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	reg := NewMemory()
	for _, src := range file.Rules {
		rule, predicate, typeTag, err := compileRuleSource(src, fns)
		if err != nil {
			return nil, err
		}
		reg.Add(predicate, typeTag, rule)
	}
	return reg, nil
}

func compileRuleSource(src ruleSource, fns *funinfo.Registry) (engine.Rule, string, string, error) {
	key := src.Key
	if key == "" {
		key = newRuleKey()
	}
	when, err := compileNode(fns, src.When)
	if err != nil {
		return engine.Rule{}, "", "", err
	}
	val, err := compileNode(fns, src.Val)
	if err != nil {
		return engine.Rule{}, "", "", err
	}
	return engine.Rule{Key: key, When: when, Val: val}, src.Predicate, src.Type, nil
}
