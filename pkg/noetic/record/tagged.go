package record

// TaggedRecord is a generic Record implementation: a type tag plus a flat
// field map, with an optional per-type compare function and an explicit
// set of fields known to be pending (not-yet-loaded associations). It
// doubles as the engine's typed-literal condition shape and as the
// typed-record value-template shape — both just need to carry a type tag
// and project/reconstruct fields.
type TaggedRecord struct {
	Tag     string
	Fields  map[string]any
	Pending map[string]bool
	// CompareFn, if set, backs the Comparer capability for this type.
	CompareFn func(a, b *TaggedRecord) (Ordering, bool)
}

// NewTaggedRecord builds a TaggedRecord with no pending fields.
func NewTaggedRecord(tag string, fields map[string]any) *TaggedRecord {
	return &TaggedRecord{Tag: tag, Fields: fields}
}

func (r *TaggedRecord) TypeTag() string { return r.Tag }

func (r *TaggedRecord) Field(key string) (any, FieldState) {
	if r.Pending[key] {
		return nil, FieldPending
	}
	v, ok := r.Fields[key]
	if !ok {
		return nil, FieldMissing
	}
	return v, FieldPresent
}

func (r *TaggedRecord) CompareTo(other any) (Ordering, bool) {
	o, ok := other.(*TaggedRecord)
	if !ok || r.CompareFn == nil {
		return EQ, false
	}
	return r.CompareFn(r, o)
}

// TemplateFields / WithTemplateFields implement Reconstructable so a
// *TaggedRecord used as a value template projects its fields and is
// rebuilt with the same type tag (spec §4.3).
func (r *TaggedRecord) TemplateFields() map[string]any { return r.Fields }

func (r *TaggedRecord) WithTemplateFields(fields map[string]any) any {
	return &TaggedRecord{Tag: r.Tag, Fields: fields, CompareFn: r.CompareFn}
}

// MarkPending flags key as a deferred association not yet loaded. It
// mutates r in place, meant for building test/demo fixtures before they
// are passed into the engine, not for use during evaluation itself.
func (r *TaggedRecord) MarkPending(key string) *TaggedRecord {
	if r.Pending == nil {
		r.Pending = make(map[string]bool, 1)
	}
	r.Pending[key] = true
	return r
}

// StructuralEquals compares two raw domain values without relying on the
// Comparer capability: used by the condition evaluator's fallback rule
// (spec §4.2 rule 11) and for typed records that don't have a CompareFn.
func StructuralEquals(a, b any) bool {
	ra, aok := a.(*TaggedRecord)
	rb, bok := b.(*TaggedRecord)
	if aok && bok {
		if ra.Tag != rb.Tag || len(ra.Fields) != len(rb.Fields) {
			return false
		}
		for k, v := range ra.Fields {
			ov, ok := rb.Fields[k]
			if !ok || !StructuralEquals(v, ov) {
				return false
			}
		}
		return true
	}
	if seqA, ok := AsSequence(a); ok {
		seqB, ok2 := AsSequence(b)
		if !ok2 || len(seqA) != len(seqB) {
			return false
		}
		for i := range seqA {
			if !StructuralEquals(seqA[i], seqB[i]) {
				return false
			}
		}
		return true
	}
	if mapA, ok := a.(map[string]any); ok {
		mapB, ok2 := b.(map[string]any)
		if !ok2 || len(mapA) != len(mapB) {
			return false
		}
		for k, v := range mapA {
			ov, ok := mapB[k]
			if !ok || !StructuralEquals(v, ov) {
				return false
			}
		}
		return true
	}
	return a == b
}
