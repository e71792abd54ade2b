// Package testutil opens seeded in-memory fact stores for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	schemadb "github.com/translation-progress-api/pkg/schema/db"
)

// Fixture holds two editions sharing no books. Edition "ed-a" has Genesis
// (gen-1, gen-2) and Exodus (exo-1); edition "ed-b" has Matthew (mat-1).
// Project p1 targets lang-1; project p2 has no target language.
const Fixture = `
	INSERT INTO editions (id, name) VALUES ('ed-b', 'Beta Edition'), ('ed-a', 'Alpha Edition');

	INSERT INTO books (id, edition_id, name, book_number) VALUES
		('gen', 'ed-a', 'Genesis', 1),
		('exo', 'ed-a', 'Exodus', 2),
		('mat', 'ed-b', 'Matthew', 40);

	INSERT INTO chapters (id, book_id, chapter_number) VALUES
		('gen-1', 'gen', 1),
		('gen-2', 'gen', 2),
		('exo-1', 'exo', 1),
		('mat-1', 'mat', 1);

	INSERT INTO verses (id, chapter_id, verse_number) VALUES
		('gen-1-1', 'gen-1', 1),
		('gen-1-2', 'gen-1', 2),
		('gen-2-1', 'gen-2', 1),
		('exo-1-1', 'exo-1', 1),
		('mat-1-1', 'mat-1', 1);

	INSERT INTO projects (id, name, target_language_entity_id) VALUES
		('p1', 'Project One', 'lang-1'),
		('p2', 'Project Two', NULL);

	INSERT INTO media_files (id, project_id, media_type, start_verse_id, end_verse_id, remote_path, check_status, created_at, updated_at, deleted_at) VALUES
		('m1', 'p1', 'audio', 'gen-1-1', 'gen-2-1', 'p1/audio/GEN_001.mp3', 'approved', '2024-01-01T00:00:00Z', '2024-03-01T10:00:00Z', NULL),
		('m2', 'p1', 'audio', 'mat-1-1', NULL, NULL, NULL, '2024-02-01T00:00:00Z', NULL, NULL),
		('m3', 'p1', 'audio', NULL, 'exo-1-1', 'p1/audio/EXO_001.wav', 'pending', '2024-01-15T00:00:00Z', '2024-04-01T00:00:00Z', NULL),
		('m4', 'p1', 'audio', 'exo-1-1', 'exo-1-1', 'p1/audio/old.mp3', NULL, '2023-01-01T00:00:00Z', '2024-05-01T00:00:00Z', '2024-05-02T00:00:00Z'),
		('m5', 'p1', 'video', 'exo-1-1', NULL, 'p1/video/EXO.mp4', NULL, '2024-06-01T00:00:00Z', NULL, NULL),
		('m6', 'p2', 'audio', 'exo-1-1', NULL, 'p2/audio/EXO.mp3', NULL, '2024-06-01T00:00:00Z', NULL, NULL);

	INSERT INTO text_versions (id, language_entity_id, name) VALUES
		('tv1', 'lang-1', 'Draft'),
		('tv2', 'lang-2', 'Other');

	INSERT INTO verse_texts (id, text_version_id, verse_id) VALUES
		('vt1', 'tv1', 'gen-1-1'),
		('vt2', 'tv1', 'gen-1-2'),
		('vt3', 'tv1', 'mat-1-1'),
		('vt4', 'tv2', 'exo-1-1');
`

// OpenDB opens an in-memory SQLite fact store with the schema applied and
// runs each seed statement batch in order. The database is closed on cleanup.
func OpenDB(tb testing.TB, seeds ...string) *sqlx.DB {
	tb.Helper()

	conn, err := schemadb.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { conn.Close() })

	if err := schemadb.ApplySQLiteSchema(context.Background(), conn); err != nil {
		tb.Fatalf("%v", err)
	}
	for _, seed := range seeds {
		if _, err := conn.Exec(seed); err != nil {
			tb.Fatalf("seed: %v", err)
		}
	}
	return conn
}
