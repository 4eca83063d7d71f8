package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// SQLiteStore keeps variables in a SQLite table, one row per variable with
// its value encoded as JSON.
type SQLiteStore struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string, logger *logrus.Entry) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: no path configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: defaultLogger(logger, "sqlite")}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS variables (
		scope TEXT NOT NULL,
		floor INTEGER NOT NULL DEFAULT -1,
		name TEXT NOT NULL,
		value_json TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scope, floor, name)
	);

	CREATE INDEX IF NOT EXISTS idx_variables_floor ON variables(floor);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) FloorVariables(ctx context.Context, floor int) (map[string]any, error) {
	return s.query(ctx, `SELECT name, value_json FROM variables WHERE scope = ? AND floor = ?`,
		string(models.ScopeMessage), floor)
}

func (s *SQLiteStore) ScopeVariables(ctx context.Context, scope models.Scope) (map[string]any, error) {
	if scope == models.ScopeMessage {
		last, err := s.LastFloor(ctx)
		if err != nil || last == NoFloor {
			return map[string]any{}, err
		}
		return s.FloorVariables(ctx, last)
	}
	return s.query(ctx, `SELECT name, value_json FROM variables WHERE scope = ?`, string(scope))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) (map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()

	vars := make(map[string]any)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		v, err := value.Parse(raw)
		if err != nil {
			s.logger.WithError(err).WithField("name", name).Warn("stored value is not JSON, using raw text")
			v = raw
		}
		vars[name] = v
	}
	return vars, rows.Err()
}

func (s *SQLiteStore) LastFloor(ctx context.Context) (int, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(floor) FROM variables WHERE scope = ?`, string(models.ScopeMessage),
	).Scan(&last)
	if err != nil {
		return NoFloor, fmt.Errorf("query last floor: %w", err)
	}
	if !last.Valid {
		return NoFloor, nil
	}
	return int(last.Int64), nil
}

// Put upserts the entries in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, entries ...Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("put variable: %w", err)
		}
		raw, err := value.Marshal(value.Plain(e.Value))
		if err != nil {
			return fmt.Errorf("marshal %q: %w", e.Name, err)
		}
		floor := e.Floor
		if e.Scope != models.ScopeMessage {
			floor = NoFloor
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO variables (scope, floor, name, value_json, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		`, string(e.Scope), floor, e.Name, raw)
		if err != nil {
			return fmt.Errorf("store %q: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

// Delete removes the entries in one transaction.
func (s *SQLiteStore) Delete(ctx context.Context, entries ...Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("delete variable: %w", err)
		}
		floor := e.Floor
		if e.Scope != models.ScopeMessage {
			floor = NoFloor
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM variables WHERE scope = ? AND floor = ? AND name = ?`,
			string(e.Scope), floor, e.Name)
		if err != nil {
			return fmt.Errorf("delete %q: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
