package usecase

import (
	"context"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns the caller's notifications newest first together
// with their unread count for the badge.
func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, int64, error) {
	notifications, total, err := uc.notificationRepo.ListByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

func (uc *NotificationUseCase) CountUnread(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead flips one notification to read. Only the recipient can do this.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return errors.Forbidden("This notification belongs to another user", nil)
	}
	if notification.Read {
		return nil
	}

	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead flips every unread notification of the caller and returns how
// many changed.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}
