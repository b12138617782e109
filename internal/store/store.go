// Package store handles SQLite persistence of the local session and backup history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/jadwal/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSession is returned by LoadSession when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// Store wraps SQLite access for local client state.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			token TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS backup_history (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_backup_history_created_at ON backup_history(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSession replaces the stored token and identity.
func (s *Store) SaveSession(ctx context.Context, session model.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, token, user_id, name, username, email, role, saved_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			name = excluded.name,
			username = excluded.username,
			email = excluded.email,
			role = excluded.role,
			saved_at = excluded.saved_at`,
		session.Token,
		session.User.ID,
		session.User.Name,
		session.User.Username,
		session.User.Email,
		session.User.Role,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadSession returns the stored session or ErrNoSession.
func (s *Store) LoadSession(ctx context.Context) (model.Session, error) {
	var session model.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, name, username, email, role FROM session WHERE id = 1`,
	).Scan(
		&session.Token,
		&session.User.ID,
		&session.User.Name,
		&session.User.Username,
		&session.User.Email,
		&session.User.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNoSession
	}
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// ClearSession forgets the stored credentials. Clearing an empty store is not an error.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

// RecordBackup remembers a downloaded backup file.
func (s *Store) RecordBackup(ctx context.Context, rec model.BackupRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt == "" {
		createdAt = s.now().UTC().Format(time.RFC3339Nano)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO backup_history (kind, path, size_bytes, created_at) VALUES (?, ?, ?, ?)`,
		rec.Kind, rec.Path, rec.SizeBytes, createdAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListBackups returns the most recent backups first. A non-positive limit lists all.
func (s *Store) ListBackups(ctx context.Context, limit int) ([]model.BackupRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, path, size_bytes, created_at
		 FROM backup_history
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.BackupRecord
	for rows.Next() {
		var rec model.BackupRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Path, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
