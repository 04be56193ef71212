// Package record defines the minimal capability contract the evaluation
// engine requires of subjects: a type tag, field lookup that can report a
// pending association, and an optional type-specific compare. It also
// ships TaggedRecord, a concrete generic implementation usable directly
// as rule/test fixture data, mirroring how the predecessor engine paired
// its Store interface with plain struct types like Doc and Card.
package record

// FieldState reports the outcome of a field lookup.
type FieldState int

const (
	// FieldPresent means the value is available now.
	FieldPresent FieldState = iota
	// FieldMissing means the record has no such field at all.
	FieldMissing
	// FieldPending means the field names a deferred association that has
	// not been loaded yet; the caller must go through the loader.
	FieldPending
)

// Ordering is the three-way result of a type-specific compare.
type Ordering int

const (
	LT Ordering = -1
	EQ Ordering = 0
	GT Ordering = 1
)

// Record is the capability contract the engine requires of a typed
// subject: a type tag retrievable at runtime, and field lookup by key.
type Record interface {
	TypeTag() string
	Field(key string) (value any, state FieldState)
}

// Comparer is an optional capability: a type that knows how to compare
// two of its own instances for the typed-literal equality rule (spec §4.2
// rule 9). A Record that does not implement Comparer falls back to
// structural equality.
type Comparer interface {
	CompareTo(other any) (Ordering, bool)
}

// Sequence is an optional capability for record-backed subjects that
// should be treated as a sequence for the "subject is a sequence" rule
// (spec §4.2 rule 1), in addition to plain []any.
type Sequence interface {
	AsSequence() []any
}

// Reconstructable is an optional capability a typed value template node
// provides so the value projector can project its fields and rebuild an
// instance of the same type (spec §4.3, "typed records").
type Reconstructable interface {
	TemplateFields() map[string]any
	WithTemplateFields(map[string]any) any
}

// AsSequence returns v's elements and true if v is a sequence, either a
// plain []any or a value implementing Sequence.
func AsSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case Sequence:
		return t.AsSequence(), true
	default:
		return nil, false
	}
}
