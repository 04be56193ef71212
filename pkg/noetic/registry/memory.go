// Package registry supplies engine.Registry implementations: an ordered
// in-memory index, a YAML rule-source compiler on top of it, and a
// SQLite-backed persistent variant, mirroring the predecessor engine's
// split between its memstore and sqlite Store implementations.
package registry

import (
	"sort"
	"sync"

	"github.com/cognicore/noetic/pkg/noetic/engine"
)

// entry is one registered rule plus the predicate/type it is filed under
// and the order it was added in, used to break ties deterministically.
type entry struct {
	predicate string
	typeTag   string
	seq       int64
	rule      engine.Rule
}

// Memory is an ordered, in-memory engine.Registry: rules for a given
// (predicate, typeTag) pair are returned in registration order, the same
// "first rule wins" ordering the autotuner's rule list relies on.
type Memory struct {
	mu      sync.RWMutex
	nextSeq int64
	entries []entry
}

// NewMemory builds an empty registry.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends rule under (predicate, typeTag), after any rule already
// registered for that pair.
func (m *Memory) Add(predicate, typeTag string, rule engine.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{predicate: predicate, typeTag: typeTag, seq: m.nextSeq, rule: rule})
	m.nextSeq++
}

// RulesForPredicate implements engine.Registry.
func (m *Memory) RulesForPredicate(predicate, typeTag string) []engine.Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []entry
	for _, e := range m.entries {
		if e.predicate == predicate && e.typeTag == typeTag {
			matches = append(matches, e)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].seq < matches[j].seq })

	out := make([]engine.Rule, len(matches))
	for i, e := range matches {
		out[i] = e.rule
	}
	return out
}
