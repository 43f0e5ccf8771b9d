package chat

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveMessage persists a message in a single INSERT: it is either fully
// persisted and queryable or not persisted at all.
func (s *Store) SaveMessage(ctx context.Context, senderID, receiverID uuid.UUID, text, mediaURL string) (*Message, error) {
	msg := &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		MediaURL:   mediaURL,
	}
	query := `INSERT INTO messages (sender_id, receiver_id, text, media_url)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query, senderID, receiverID, text, mediaURL).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// FindConversation returns every message between the two users in either
// direction, oldest first.
func (s *Store) FindConversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error) {
	query := `SELECT id, sender_id, receiver_id, text, media_url, created_at
              FROM messages
              WHERE (sender_id = $1 AND receiver_id = $2)
                 OR (sender_id = $2 AND receiver_id = $1)
              ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.MediaURL, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListPartnerIDs returns the distinct users this user has exchanged messages
// with, ordered by first contact so the result is stable for a fixed log.
func (s *Store) ListPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT other FROM (
                  SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other,
                         MIN(id) AS first_contact
                  FROM messages
                  WHERE sender_id = $1 OR receiver_id = $1
                  GROUP BY 1
              ) partners
              ORDER BY first_contact ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
