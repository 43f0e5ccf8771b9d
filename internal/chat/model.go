package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted direct message. Exactly one of Text/MediaURL may be
// empty; IDs are server-assigned and increase in commit order.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text,omitempty"`
	MediaURL   string    `json:"media_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SendRequest is what the frontend POSTs. Media carries either an inline
// base64 data URI or an already-hosted URL.
type SendRequest struct {
	Text  string `json:"text"`
	Media string `json:"media"`
}

// PushEvent is the frame delivered over the receiver's live connection.
type PushEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

const EventNewMessage = "message.new"
