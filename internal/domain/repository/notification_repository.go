package repository

import (
	"context"
	"playverse/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead flips every unread notification of the recipient in one
	// batched write and returns how many rows changed. Already-read rows are
	// not touched.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}
