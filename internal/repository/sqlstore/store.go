package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/translation-progress-api/internal/repository"
)

// maxInParams caps the ids bound into a single IN predicate. Postgres allows
// at most 65535 parameters per statement.
const maxInParams = 1000

// Store implements repository.FactStore on top of sqlx. It runs against
// PostgreSQL in production and SQLite for local development and tests.
type Store struct {
	db *sqlx.DB
}

var _ repository.FactStore = (*Store)(nil)

// NewStore creates a fact store reading from db
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// timestampText renders a timestamp column as ISO-8601 text
func (s *Store) timestampText(col string) string {
	if s.db.DriverName() == "postgres" {
		return fmt.Sprintf("to_json(%s)#>>'{}'", col)
	}
	return col
}

// selectIn expands every slice argument of query into an IN list, rebinds it
// for the driver and scans the result into dest.
func (s *Store) selectIn(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	expanded, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, s.db.Rebind(expanded), inArgs...)
}

// chunk splits ids into batches no larger than size
func chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
