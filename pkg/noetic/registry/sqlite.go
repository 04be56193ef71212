package registry

import (
	"context"
	"database/sql"

	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite"

	"github.com/cognicore/noetic/pkg/noetic/engine"
	"github.com/cognicore/noetic/pkg/noetic/funinfo"
)

// SQLiteStore persists rule sources (predicate, type tag, and the raw
// when/val trees as YAML text) so a Memory registry can be rebuilt on
// startup, the same role the predecessor store's sqlite package played
// for docs and cards.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens path, enabling WAL mode, and creates the rules
// table if it does not already exist.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initRuleSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initRuleSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS rules (
	id         TEXT PRIMARY KEY,
	predicate  TEXT NOT NULL,
	type_tag   TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	when_yaml  TEXT NOT NULL,
	val_yaml   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rules_predicate_type ON rules(predicate, type_tag, seq);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Put inserts or replaces the rule identified by key, storing when/val as
// their YAML source so it can be recompiled on the next Load.
func (s *SQLiteStore) Put(ctx context.Context, key, predicate, typeTag string, seq int64, when, val any) error {
	whenYAML, err := yaml.Marshal(when)
	if err != nil {
		return err
	}
	valYAML, err := yaml.Marshal(val)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rules (id, predicate, type_tag, seq, when_yaml, val_yaml) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET predicate=excluded.predicate, type_tag=excluded.type_tag, seq=excluded.seq, when_yaml=excluded.when_yaml, val_yaml=excluded.val_yaml`,
		key, predicate, typeTag, seq, string(whenYAML), string(valYAML))
	return err
}

// Delete removes the rule identified by key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, key)
	return err
}

// Load reads every stored rule, compiles it with fns available for $fn
// resolution, and returns a fresh Memory registry ordered by seq.
func (s *SQLiteStore) Load(ctx context.Context, fns *funinfo.Registry) (*Memory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, predicate, type_tag, when_yaml, val_yaml FROM rules ORDER BY predicate, type_tag, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reg := NewMemory()
	for rows.Next() {
		var id, predicate, typeTag, whenYAML, valYAML string
		if err := rows.Scan(&id, &predicate, &typeTag, &whenYAML, &valYAML); err != nil {
			return nil, err
		}
		src, err := compileRuleSourceYAML(id, whenYAML, valYAML, fns)
		if err != nil {
			return nil, err
		}
		reg.Add(predicate, typeTag, src)
	}
	return reg, rows.Err()
}

func compileRuleSourceYAML(key, whenYAML, valYAML string, fns *funinfo.Registry) (engine.Rule, error) {
	var whenRaw, valRaw any
	if err := yaml.Unmarshal([]byte(whenYAML), &whenRaw); err != nil {
		return engine.Rule{}, err
	}
	if err := yaml.Unmarshal([]byte(valYAML), &valRaw); err != nil {
		return engine.Rule{}, err
	}
	when, err := compileNode(fns, whenRaw)
	if err != nil {
		return engine.Rule{}, err
	}
	val, err := compileNode(fns, valRaw)
	if err != nil {
		return engine.Rule{}, err
	}
	return engine.Rule{Key: key, When: when, Val: val}, nil
}
