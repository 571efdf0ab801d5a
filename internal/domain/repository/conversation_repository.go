package repository

import (
	"context"
	"playverse/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	Update(ctx context.Context, conversation *entity.Conversation) error

	// AppendMessage commits the message, the conversation aggregate update
	// (last-message preview + recipient unread counter) and the recipient's
	// notification as a single atomic write. On success the message carries
	// its assigned ID and timestamp and the returned conversation reflects
	// the new aggregate state.
	AppendMessage(ctx context.Context, conversationID string, message *entity.Message, notification *entity.Notification) (*entity.Conversation, error)

	// ResetUnread sets userID's unread counter on the conversation to zero.
	// Safe to call repeatedly; the counter never goes negative.
	ResetUnread(ctx context.Context, conversationID, userID string) error

	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
}
