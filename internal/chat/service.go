package chat

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"pingchat/internal/apperr"
	"pingchat/internal/user"
)

// MessageStore is the durable message log the pipeline writes to.
type MessageStore interface {
	SaveMessage(ctx context.Context, senderID, receiverID uuid.UUID, text, mediaURL string) (*Message, error)
	FindConversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error)
	ListPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Directory is what we need from the user subsystem.
type Directory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListAllExcept(ctx context.Context, id uuid.UUID) ([]*user.User, error)
	FindMany(ctx context.Context, ids []uuid.UUID) ([]*user.User, error)
}

// Uploader is the media-hosting collaborator.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// Service is the delivery pipeline: it validates, persists, and then makes a
// best-effort push to the receiver's live connection.
type Service struct {
	store     MessageStore
	registry  *Registry
	directory Directory
	uploader  Uploader
}

func NewService(store MessageStore, registry *Registry, directory Directory, uploader Uploader) *Service {
	return &Service{
		store:     store,
		registry:  registry,
		directory: directory,
		uploader:  uploader,
	}
}

// SendMessage runs the full pipeline. Once the message is persisted the call
// succeeds; a failed push to the receiver never bubbles up, the durable copy
// is picked up on their next fetch.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, text, media string) (*Message, error) {
	if text == "" && media == "" {
		return nil, apperr.InvalidArg("text or media is required")
	}
	if senderID == receiverID {
		return nil, apperr.InvalidArg("cannot send messages to yourself")
	}

	exists, err := s.directory.Exists(ctx, receiverID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !exists {
		return nil, apperr.NotFound("receiver not found")
	}

	mediaURL := ""
	if media != "" {
		mediaURL, err = s.uploader.Upload(ctx, media)
		if err != nil {
			return nil, err
		}
	}

	msg, err := s.store.SaveMessage(ctx, senderID, receiverID, text, mediaURL)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	s.pushToReceiver(msg)
	return msg, nil
}

// pushToReceiver delivers the persisted message to the receiver's bound
// connection, if any. Failures only get logged: the receiver may have
// disconnected between lookup and push, which is the same as being offline.
func (s *Service) pushToReceiver(msg *Message) {
	client, ok := s.registry.Lookup(msg.ReceiverID)
	if !ok {
		return
	}

	payload, err := json.Marshal(PushEvent{Type: EventNewMessage, Message: msg})
	if err != nil {
		log.Printf("push encode failed for message %d: %v", msg.ID, err)
		return
	}
	if !client.TrySend(payload) {
		log.Printf("push to %s dropped, treating as offline", msg.ReceiverID)
	}
}

// GetConversation returns the full two-way history with a partner, oldest
// first.
func (s *Service) GetConversation(ctx context.Context, userID, partnerID uuid.UUID) ([]*Message, error) {
	msgs, err := s.store.FindConversation(ctx, userID, partnerID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return msgs, nil
}

// ListPartners derives the contact list from message history: everyone the
// user has exchanged at least one message with, in first-contact order.
func (s *Service) ListPartners(ctx context.Context, userID uuid.UUID) ([]*user.Profile, error) {
	ids, err := s.store.ListPartnerIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []*user.Profile{}, nil
	}

	users, err := s.directory.FindMany(ctx, ids)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return profiles(users), nil
}

// ListContacts returns every other known user, independent of history.
func (s *Service) ListContacts(ctx context.Context, userID uuid.UUID) ([]*user.Profile, error) {
	users, err := s.directory.ListAllExcept(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return profiles(users), nil
}

func profiles(users []*user.User) []*user.Profile {
	return lo.Map(users, func(u *user.User, _ int) *user.Profile { return u.Profile() })
}
