package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a writable SQLite database, sets recommended pragmas, and validates connectivity.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}

// OpenReadOnly opens an existing catalog snapshot without write access.
func OpenReadOnly(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite snapshot: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite snapshot: %w", err)
	}

	return db, nil
}

// Detach switches the database back to a rollback journal so the file can be shipped
// and opened read-only without WAL side files.
func Detach(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode = DELETE`); err != nil {
		return fmt.Errorf("reset sqlite journal mode: %w", err)
	}
	return nil
}
