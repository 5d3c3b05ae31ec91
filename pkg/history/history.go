// Package history persists an audit trail of dataset-replace attempts in
// SQLite: who pushed which file, how many rows it carried, and whether the
// swap succeeded.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Upload is one dataset-replace attempt, successful or not.
type Upload struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Rows      int    `json:"rows"`
	Uploader  string `json:"uploader,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// DB manages the uploads audit table.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// uploads table exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS uploads (
		id         TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		size       INTEGER NOT NULL,
		rows       INTEGER NOT NULL DEFAULT 0,
		uploader   TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL,
		error      TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create uploads table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record inserts one upload attempt and returns its generated id.
func (d *DB) Record(up Upload) (string, error) {
	id := uuid.NewString()
	const q = `INSERT INTO uploads (id, filename, size, rows, uploader, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(q, id, up.Filename, up.Size, up.Rows, up.Uploader, up.Status, up.Error, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("record upload: %w", err)
	}
	return id, nil
}

// List returns the most recent attempts, newest first.
func (d *DB) List(limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(`SELECT id, filename, size, rows, uploader, status, error, created_at
		FROM uploads ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var up Upload
		if err := rows.Scan(&up.ID, &up.Filename, &up.Size, &up.Rows, &up.Uploader,
			&up.Status, &up.Error, &up.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, up)
	}
	return uploads, rows.Err()
}
