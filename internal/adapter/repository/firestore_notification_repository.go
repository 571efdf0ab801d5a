package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection("notifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, int64, error) {
	query := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting notifications for user %s: %v", recipientID, err)
		return nil, 0, errors.Internal("Failed to count notifications", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var notifications []*entity.Notification

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, 0, errors.Internal("Failed to parse notification data", err)
		}

		notifications = append(notifications, &notification)
	}

	return notifications, total, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	docs, err := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread notifications", err)
	}

	return int64(len(docs)), nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification as read", err)
	}

	return nil
}

// MarkAllRead batches the flips so a large backlog commits as single writes
// per 500 rows, Firestore's batch ceiling.
func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	docs, err := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to fetch unread notifications", err)
	}

	if len(docs) == 0 {
		return 0, nil
	}

	const batchLimit = 500

	for start := 0; start < len(docs); start += batchLimit {
		end := start + batchLimit
		if end > len(docs) {
			end = len(docs)
		}

		batch := r.client.Batch()
		for _, doc := range docs[start:end] {
			batch.Update(doc.Ref, []firestore.Update{
				{Path: "read", Value: true},
			})
		}

		if _, err := batch.Commit(ctx); err != nil {
			log.Printf("Firestore error while batch-marking notifications read for user %s: %v", recipientID, err)
			return 0, errors.Internal("Failed to mark notifications as read", err)
		}
	}

	return int64(len(docs)), nil
}
