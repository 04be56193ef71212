package engine

import (
	"context"
	"errors"

	"github.com/cognicore/noetic/pkg/noetic/record"
)

// RecordSource iterates a batch of records to revalidate, the way the
// predecessor maintenance pass iterated stored documents for
// reprocessing after a stoplist or taxonomy change.
type RecordSource interface {
	Next(ctx context.Context) (record.Record, bool, error)
}

// RevalidateResult summarizes a revalidation run: how many records were
// checked, how many had field disagree with its freshly resolved value,
// and how many records errored out entirely.
type RevalidateResult struct {
	Processed int
	Changed   int
	Errors    int
}

// Revalidate re-derives field for every record source produces, under a
// fresh root evaluation copied from base, and reports how many records'
// stored value disagrees with what the current registry would produce —
// the check a registry update (new or edited rules) needs to run before
// trusting previously-computed fields again.
func Revalidate(ctx context.Context, base Eval, source RecordSource, field string) (RevalidateResult, error) {
	var res RevalidateResult
	if source == nil {
		return res, errors.New("engine: revalidate requires a non-nil source")
	}

	for {
		rec, ok, err := source.Next(ctx)
		if err != nil {
			res.Errors++
			continue
		}
		if !ok {
			break
		}
		res.Processed++

		stored, state := rec.Field(field)
		fresh := ResolveField(base.withRoot(rec), field)
		if !fresh.IsOk() {
			res.Errors++
			continue
		}
		if state != record.FieldPresent || !record.StructuralEquals(stored, fresh.Value()) {
			res.Changed++
		}
	}
	return res, nil
}
