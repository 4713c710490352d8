// Package chat owns direct messages: validation, durable persistence,
// and the realtime push that follows a successful write.
package chat

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"linkup/apperr"
	"linkup/models"
	"linkup/realtime"
	"linkup/store"
)

const (
	maxMessageLen = 1000

	DefaultPage  = 1
	DefaultLimit = 20
)

type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateMessage(ctx context.Context, m *models.Message) error
	MessagesBetween(ctx context.Context, a, b uint, offset, limit int) ([]models.Message, error)
	CountMessagesBetween(ctx context.Context, a, b uint) (int64, error)
}

// Bus pushes realtime events to a user's joined connections. Both the
// in-process hub and the Redis-backed bus satisfy it.
type Bus interface {
	Publish(ctx context.Context, key, event string, data any) error
}

type Service struct {
	store  Store
	bus    Bus
	logger *slog.Logger
}

func NewService(store Store, bus Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, bus: bus, logger: logger}
}

// Payload is the delivery shape of a message, pushed over the bus and
// returned from SendMessage. Image is a pointer so an absent image
// serializes as null.
type Payload struct {
	ID        uint              `json:"id"`
	Sender    store.UserSummary `json:"sender"`
	Recipient uint              `json:"recipient"`
	Content   string            `json:"content"`
	Image     *string           `json:"image"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SendMessage persists the message, then publishes it once under both
// the sender's and recipient's keys so every device of either side
// sees it. Publishing is best effort: the message is durable and
// retrievable from history even if no live connection got the push.
func (s *Service) SendMessage(ctx context.Context, senderID, recipientID uint, content, image string) (*Payload, error) {
	if recipientID == 0 {
		return nil, apperr.Validation("recipient is required")
	}
	if content == "" && image == "" {
		return nil, apperr.Validation("a message must have content or an image")
	}
	if utf8.RuneCountInString(content) > maxMessageLen {
		return nil, apperr.Validation("a message cannot exceed 1000 characters")
	}
	if senderID == recipientID {
		return nil, apperr.SelfReference("you cannot send a message to yourself")
	}

	sender, err := s.store.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Image:       image,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:        msg.ID,
		Sender:    store.Summarize(sender),
		Recipient: recipientID,
		Content:   content,
		CreatedAt: msg.CreatedAt,
	}
	if image != "" {
		payload.Image = &image
	}

	for _, key := range []string{realtime.UserKey(recipientID), realtime.UserKey(senderID)} {
		if err := s.bus.Publish(ctx, key, realtime.EventNewMessage, payload); err != nil {
			s.logger.Warn("message push failed", "key", key, "message", msg.ID, "error", err)
		}
	}
	return payload, nil
}

// History is one page of a conversation, oldest first.
type History struct {
	Results     int              `json:"results"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Messages    []models.Message `json:"messages"`
}

// GetHistory pages through the conversation between two users,
// direction-agnostic. Malformed page and limit values fall back to
// the defaults instead of failing.
func (s *Service) GetHistory(ctx context.Context, userID, otherID uint, page, limit int) (*History, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total, err := s.store.CountMessagesBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	offset := (page - 1) * limit
	msgs, err := s.store.MessagesBetween(ctx, userID, otherID, offset, limit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return &History{
		Results:     len(msgs),
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		Messages:    msgs,
	}, nil
}
