package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL UNIQUE,
			file_type TEXT NOT NULL,
			chunk_count INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// seq records insertion order; it breaks ties in search and orders navigation listings.
		`CREATE TABLE IF NOT EXISTS chunks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			sheet TEXT NOT NULL,
			cell_address TEXT NOT NULL,
			row_num INTEGER NOT NULL,
			col_num INTEGER NOT NULL,
			lvl1 TEXT NOT NULL,
			lvl2 TEXT NOT NULL,
			lvl3 TEXT NOT NULL,
			lvl4 TEXT NOT NULL,
			search_text TEXT NOT NULL,
			context_text TEXT NOT NULL,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks (lvl1, lvl2, lvl3);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks (document_id);`,
		`CREATE TABLE IF NOT EXISTS faq_settings (
			lvl1_keyword TEXT PRIMARY KEY,
			visible INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
