package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// CreateSession persists a new session and its initial roster.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	session.UpdatedAt = session.CreatedAt

	return s.withTx(ctx, func(tx *sql.Tx) error {
		cfg := session.Config
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, total_bill, tax_kind, tax_value, service_kind, service_value, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID, cfg.TotalBill,
			string(cfg.Tax.Kind), cfg.Tax.Value,
			string(cfg.Service.Kind), cfg.Service.Value,
			session.CreatedAt, session.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		for i := range session.Participants {
			p := &session.Participants[i]
			if err := insertParticipant(ctx, tx, session.ID, p, int64(i)); err != nil {
				return err
			}
			for j := range p.Items {
				if err := insertItem(ctx, tx, p.ID, &p.Items[j], int64(j)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetSession retrieves a session with its participants and items in insertion order.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT id, total_bill, tax_kind, tax_value, service_kind, service_value, created_at, updated_at
			 FROM sessions WHERE id = ?`,
			sessionID,
		)
		if err := scanConfig(row, session); err == sql.ErrNoRows {
			return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		// Get participants
		rows, err := tx.QueryContext(ctx,
			"SELECT id, name FROM participants WHERE session_id = ? ORDER BY position",
			sessionID,
		)
		if err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}
		index := make(map[string]int)
		for rows.Next() {
			var p models.Participant
			if err := rows.Scan(&p.ID, &p.Name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan participant: %w", err)
			}
			index[p.ID] = len(session.Participants)
			session.Participants = append(session.Participants, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate participants: %w", err)
		}

		// Get items for all participants at once
		itemRows, err := tx.QueryContext(ctx,
			`SELECT i.id, i.participant_id, i.label, i.price
			 FROM items i JOIN participants p ON p.id = i.participant_id
			 WHERE p.session_id = ?
			 ORDER BY p.position, i.position`,
			sessionID,
		)
		if err != nil {
			return fmt.Errorf("failed to get items: %w", err)
		}
		defer itemRows.Close()

		for itemRows.Next() {
			var item models.Item
			var participantID string
			if err := itemRows.Scan(&item.ID, &participantID, &item.Label, &item.Price); err != nil {
				return fmt.Errorf("failed to scan item: %w", err)
			}
			i, ok := index[participantID]
			if !ok {
				continue
			}
			session.Participants[i].Items = append(session.Participants[i].Items, item)
		}
		if err := itemRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateConfig replaces the bill configuration of a session.
func (s *SQLiteStore) UpdateConfig(ctx context.Context, sessionID string, config models.BillConfig) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, sessionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE sessions SET total_bill = ?, tax_kind = ?, tax_value = ?, service_kind = ?, service_value = ?
			 WHERE id = ?`,
			config.TotalBill,
			string(config.Tax.Kind), config.Tax.Value,
			string(config.Service.Kind), config.Service.Value,
			sessionID,
		)
		if err != nil {
			return fmt.Errorf("failed to update bill config: %w", err)
		}
		return nil
	})
}

// AddParticipant appends a participant to the end of the roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, sessionID string, participant *models.Participant) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, sessionID); err != nil {
			return err
		}
		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) + 1 FROM participants WHERE session_id = ?",
			sessionID,
		)
		if err != nil {
			return err
		}
		if err := insertParticipant(ctx, tx, sessionID, participant, pos); err != nil {
			return err
		}
		for j := range participant.Items {
			if err := insertItem(ctx, tx, participant.ID, &participant.Items[j], int64(j)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItem appends an item to a participant's list.
func (s *SQLiteStore) AddItem(ctx context.Context, sessionID, participantID string, item *models.Item) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, sessionID); err != nil {
			return err
		}
		if err := requireParticipant(ctx, tx, sessionID, participantID); err != nil {
			return err
		}
		pos, err := nextPosition(ctx, tx,
			"SELECT COALESCE(MAX(position), -1) + 1 FROM items WHERE participant_id = ?",
			participantID,
		)
		if err != nil {
			return err
		}
		return insertItem(ctx, tx, participantID, item, pos)
	})
}

// RemoveParticipant deletes a participant; their items go with them.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, sessionID, participantID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, sessionID); err != nil {
			return err
		}
		if err := requireParticipant(ctx, tx, sessionID, participantID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID); err != nil {
			return fmt.Errorf("failed to delete participant: %w", err)
		}
		return nil
	})
}

// ClearItems deletes every item of a participant.
func (s *SQLiteStore) ClearItems(ctx context.Context, sessionID, participantID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, sessionID); err != nil {
			return err
		}
		if err := requireParticipant(ctx, tx, sessionID, participantID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE participant_id = ?", participantID); err != nil {
			return fmt.Errorf("failed to clear items: %w", err)
		}
		return nil
	})
}

// DeleteSession removes a session and its roster.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
		}
		return nil
	})
}

// DeleteExpiredSessions removes sessions idle since before; rosters cascade.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, before int64) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", before)
		if err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count expired sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func insertParticipant(ctx context.Context, tx *sql.Tx, sessionID string, p *models.Participant, pos int64) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO participants (id, session_id, name, position) VALUES (?, ?, ?, ?)",
		p.ID, sessionID, p.Name, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, participantID string, item *models.Item, pos int64) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO items (id, participant_id, label, price, position) VALUES (?, ?, ?, ?, ?)",
		item.ID, participantID, item.Label, item.Price, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}
