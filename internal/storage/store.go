// Package storage provides abstractions for bill session storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNotFound is returned when a session, participant or item does not exist.
var ErrNotFound = errors.New("not found")

// Store holds the rosters of open bill sessions.
// Every mutation is applied atomically, so a calculation never observes a
// half-applied command.
type Store interface {
	// CreateSession persists a new session along with any initial participants.
	// ID, CreatedAt and participant/item IDs are populated by the store when empty.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession returns a snapshot of the session roster.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateConfig replaces the bill base, tax and service of a session.
	UpdateConfig(ctx context.Context, sessionID string, config models.BillConfig) error

	// AddParticipant appends a participant to the roster.
	// participant.ID is populated by the store when empty.
	AddParticipant(ctx context.Context, sessionID string, participant *models.Participant) error

	// AddItem appends an item to a participant's list.
	// item.ID is populated by the store when empty.
	AddItem(ctx context.Context, sessionID, participantID string, item *models.Item) error

	// RemoveParticipant removes a participant and their items.
	RemoveParticipant(ctx context.Context, sessionID, participantID string) error

	// ClearItems removes all items of a participant, keeping the participant.
	ClearItems(ctx context.Context, sessionID, participantID string) error

	// DeleteSession drops a session and its roster.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteExpiredSessions drops every session last updated before the given
	// Unix timestamp and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, before int64) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
