package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateConversation inserts a conversation together with its initial
// messages in one transaction.
func (s *Store) CreateConversation(ctx context.Context, c Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, owner_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Title, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	); err != nil {
		return fmt.Errorf("inserting conversation %s: %w", c.ID, err)
	}

	if err := insertMessages(ctx, tx, c.ID, 0, c.Messages); err != nil {
		return err
	}

	return tx.Commit()
}

// GetConversation returns the conversation with its full message history.
// A conversation owned by someone else is reported as ErrNotFound.
func (s *Store) GetConversation(ctx context.Context, ownerID, id string) (Conversation, error) {
	return getConversation(ctx, s.db, ownerID, id)
}

// ListConversations returns the owner's conversations, most recently
// updated first.
func (s *Store) ListConversations(ctx context.Context, ownerID string, limit, offset int) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM conversations WHERE owner_id = ?
		ORDER BY updated_at DESC, rowid DESC
		LIMIT ? OFFSET ?`, ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	var results []Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Messages are loaded after the cursor is closed: the store runs on a
	// single connection.
	for i := range results {
		msgs, err := loadMessages(ctx, s.db, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Messages = msgs
	}
	return results, nil
}

// AppendMessages appends msgs to the end of an existing conversation and
// bumps its updated_at, all in one transaction. It returns the conversation
// as stored after the append.
func (s *Store) AppendMessages(ctx context.Context, ownerID, id string, msgs []Message, updatedAt time.Time) (Conversation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Conversation{}, fmt.Errorf("beginning append transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ? AND owner_id = ?`,
		formatTime(updatedAt), id, ownerID)
	if err != nil {
		return Conversation{}, fmt.Errorf("updating conversation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Conversation{}, err
	}
	if n == 0 {
		return Conversation{}, ErrNotFound
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM messages WHERE conversation_id = ?`, id).Scan(&next); err != nil {
		return Conversation{}, fmt.Errorf("reading next message seq: %w", err)
	}

	if err := insertMessages(ctx, tx, id, next, msgs); err != nil {
		return Conversation{}, err
	}

	c, err := getConversation(ctx, tx, ownerID, id)
	if err != nil {
		return Conversation{}, err
	}

	if err := tx.Commit(); err != nil {
		return Conversation{}, fmt.Errorf("committing append: %w", err)
	}
	return c, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("deleting messages of %s: %w", id, err)
	}

	return tx.Commit()
}

func insertMessages(ctx context.Context, tx *sql.Tx, conversationID string, firstSeq int, msgs []Message) error {
	for i, m := range msgs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (conversation_id, seq, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			conversationID, firstSeq+i, string(m.Role), m.Content, formatTime(m.Timestamp),
		); err != nil {
			return fmt.Errorf("inserting message %d of %s: %w", firstSeq+i, conversationID, err)
		}
	}
	return nil
}

func getConversation(ctx context.Context, q queryer, ownerID, id string) (Conversation, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM conversations WHERE id = ? AND owner_id = ?`, id, ownerID)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, err
	}

	msgs, err := loadMessages(ctx, q, id)
	if err != nil {
		return Conversation{}, err
	}
	c.Messages = msgs
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(sc scanner) (Conversation, error) {
	var c Conversation
	var createdAt, updatedAt string
	if err := sc.Scan(&c.ID, &c.OwnerID, &c.Title, &createdAt, &updatedAt); err != nil {
		return Conversation{}, err
	}
	var err error
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return Conversation{}, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

func loadMessages(ctx context.Context, q queryer, conversationID string) ([]Message, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT role, content, created_at FROM messages
		WHERE conversation_id = ? ORDER BY seq ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		var role, createdAt string
		if err := rows.Scan(&role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.Role = Role(role)
		if m.Timestamp, err = parseTime("message created_at", createdAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
