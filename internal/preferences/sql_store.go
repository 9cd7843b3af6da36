package preferences

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect selects the upsert syntax of the SQL store.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS preferences (
	pref_key VARCHAR(64) NOT NULL PRIMARY KEY,
	pref_value VARCHAR(255) NOT NULL
)`

var upsertSQL = map[Dialect]string{
	DialectMySQL: `INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE pref_value = VALUES(pref_value)`,
	DialectSQLite: `INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON CONFLICT(pref_key) DO UPDATE SET pref_value = excluded.pref_value`,
}

type preferenceRow struct {
	Key   string `db:"pref_key"`
	Value string `db:"pref_value"`
}

// SQLStore shares preferences across devices through a database.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewSQLStore(db *sqlx.DB, dialect Dialect) (*SQLStore, error) {
	if _, ok := upsertSQL[dialect]; !ok {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// Migrate creates the preferences table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("db.ExecContext(create preferences) > %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (map[string]string, error) {
	var rows []preferenceRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT pref_key, pref_value FROM preferences"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(preferences) > %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (s *SQLStore) Save(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, upsertSQL[s.dialect], key, value); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert preference %s) > %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit > %w", err)
	}
	return nil
}
