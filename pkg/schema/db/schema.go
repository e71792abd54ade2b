package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLiteSchema creates the fact store tables the service reads. Production
// Postgres fact stores are owned by the translation platform; this schema
// backs local development databases and tests.
const SQLiteSchema = `
	CREATE TABLE IF NOT EXISTS editions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		edition_id TEXT NOT NULL REFERENCES editions(id),
		name TEXT NOT NULL,
		book_number INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chapters (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL REFERENCES books(id),
		chapter_number INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS verses (
		id TEXT PRIMARY KEY,
		chapter_id TEXT NOT NULL REFERENCES chapters(id),
		verse_number INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		target_language_entity_id TEXT
	);

	CREATE TABLE IF NOT EXISTS media_files (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		media_type TEXT NOT NULL DEFAULT 'audio',
		start_verse_id TEXT REFERENCES verses(id),
		end_verse_id TEXT REFERENCES verses(id),
		remote_path TEXT,
		check_status TEXT,
		created_at TEXT,
		updated_at TEXT,
		deleted_at TEXT
	);

	CREATE TABLE IF NOT EXISTS text_versions (
		id TEXT PRIMARY KEY,
		language_entity_id TEXT NOT NULL,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS verse_texts (
		id TEXT PRIMARY KEY,
		text_version_id TEXT NOT NULL REFERENCES text_versions(id),
		verse_id TEXT NOT NULL REFERENCES verses(id),
		verse_text TEXT NOT NULL DEFAULT ''
	);
`

// ApplySQLiteSchema creates any missing fact store tables
func ApplySQLiteSchema(ctx context.Context, conn *sqlx.DB) error {
	if _, err := conn.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
