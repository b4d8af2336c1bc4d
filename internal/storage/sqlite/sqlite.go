// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// MemoryDSN opens a database that lives only as long as the process.
const MemoryDSN = ":memory:"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore. dsn is a file path or MemoryDSN.
// It creates parent directories for file paths and runs migrations automatically.
func New(dsn string) (*SQLiteStore, error) {
	if !isMemory(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes every roster command and keeps an in-memory
	// database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func isMemory(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction and commits it if fn succeeds.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// touch bumps updated_at and reports storage.ErrNotFound for unknown sessions.
func touch(ctx context.Context, tx *sql.Tx, sessionID string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	return nil
}

// requireParticipant checks that participantID belongs to sessionID.
func requireParticipant(ctx context.Context, tx *sql.Tx, sessionID, participantID string) error {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM participants WHERE id = ? AND session_id = ?",
		participantID, sessionID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get participant: %w", err)
	}
	return nil
}

func nextPosition(ctx context.Context, tx *sql.Tx, query string, arg string) (int64, error) {
	var pos int64
	if err := tx.QueryRowContext(ctx, query, arg).Scan(&pos); err != nil {
		return 0, fmt.Errorf("failed to get next position: %w", err)
	}
	return pos, nil
}

// scanConfig reads the bill configuration columns of a session row.
func scanConfig(row interface{ Scan(...any) error }, session *models.Session) error {
	var taxKind, serviceKind string
	err := row.Scan(
		&session.ID,
		&session.Config.TotalBill,
		&taxKind, &session.Config.Tax.Value,
		&serviceKind, &session.Config.Service.Value,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return err
	}
	session.Config.Tax.Kind = models.ChargeKind(taxKind)
	session.Config.Service.Kind = models.ChargeKind(serviceKind)
	return nil
}
