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

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}

	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	_, err := r.client.Collection("conversations").Doc(conversation.ID).Set(ctx, conversation)
	if err != nil {
		return errors.Internal("Failed to create conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching conversations for user %s: %v", userID, err)
		return nil, 0, errors.Internal("Failed to fetch conversations", err)
	}

	total := int64(len(allDocs))

	// Pagination in memory; the full result set was already needed for the count
	start := offset
	end := len(allDocs)
	if limit > 0 {
		end = start + limit
		if end > len(allDocs) {
			end = len(allDocs)
		}
	}
	if start > len(allDocs) {
		start = len(allDocs)
	}

	var conversations []*entity.Conversation
	for i := start; i < end; i++ {
		var conversation entity.Conversation
		if err := allDocs[i].DataTo(&conversation); err != nil {
			log.Printf("Error parsing conversation data for user %s: %v", userID, err)
			continue
		}
		conversations = append(conversations, &conversation)
	}

	return conversations, total, nil
}

func (r *firestoreConversationRepository) Update(ctx context.Context, conversation *entity.Conversation) error {
	conversation.UpdatedAt = time.Now()

	_, err := r.client.Collection("conversations").Doc(conversation.ID).Set(ctx, conversation)
	if err != nil {
		return errors.Internal("Failed to update conversation", err)
	}

	return nil
}

// AppendMessage runs the whole send as one transaction: message, conversation
// aggregate and recipient notification commit together or not at all.
func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, conversationID string, message *entity.Message, notification *entity.Notification) (*entity.Conversation, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if notification != nil && notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	convRef := r.client.Collection("conversations").Doc(conversationID)
	msgRef := convRef.Collection("messages").Doc(message.ID)

	var updated entity.Conversation

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return err
		}

		if !conversation.HasParticipant(message.SenderID) {
			return errors.Forbidden("User is not a participant in this conversation", nil)
		}

		now := time.Now()
		message.ConversationID = conversationID
		message.CreatedAt = now

		recipientID := conversation.OtherParticipant(message.SenderID)
		if conversation.UnreadCount == nil {
			conversation.UnreadCount = make(map[string]int)
		}
		conversation.UnreadCount[recipientID]++
		conversation.LastMessage = message.Content
		conversation.LastMessageAt = now
		conversation.LastSenderID = message.SenderID
		conversation.UpdatedAt = now

		if err := tx.Set(msgRef, message); err != nil {
			return err
		}
		if err := tx.Set(convRef, &conversation); err != nil {
			return err
		}

		if notification != nil {
			notification.RefID = conversationID
			notification.CreatedAt = now
			notifRef := r.client.Collection("notifications").Doc(notification.ID)
			if err := tx.Set(notifRef, notification); err != nil {
				return err
			}
		}

		updated = conversation
		return nil
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "FORBIDDEN") {
			return nil, err
		}
		log.Printf("Firestore transaction failed appending message to conversation %s: %v", conversationID, err)
		return nil, errors.Internal("Failed to send message", err)
	}

	return &updated, nil
}

// ResetUnread writes zero regardless of the previous value, so repeated calls
// are no-ops and the counter can never go negative.
func (r *firestoreConversationRepository) ResetUnread(ctx context.Context, conversationID, userID string) error {
	_, err := r.client.Collection("conversations").Doc(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to reset unread counter", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting messages for conversation %s: %v", conversationID, err)
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for conversation %s: %v", conversationID, err)
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, total, nil
}
