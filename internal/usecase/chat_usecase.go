package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/internal/infrastructure/cache"
	ws "playverse/internal/infrastructure/websocket"
	"playverse/pkg/errors"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	pusher           EventPusher
	presence         *cache.PresenceCache
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	pusher EventPusher,
	presence *cache.PresenceCache,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		presence:         presence,
	}
}

type CreateConversationInput struct {
	RecipientID    string
	InitialMessage string
}

type SendMessageInput struct {
	Content     string
	Attachments []entity.Attachment
}

func (uc *ChatUseCase) CreateConversation(ctx context.Context, userID string, input CreateConversationInput) (*entity.Conversation, error) {
	if input.RecipientID == userID {
		return nil, errors.BadRequest("Cannot start a conversation with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, errors.NotFound("Recipient", err)
	}

	// Reuse an existing conversation with this peer when one exists. Two
	// clients racing through this check can still both create one; the
	// list view tolerates the duplicate.
	if existing, err := uc.findExistingConversation(ctx, userID, input.RecipientID); err == nil && existing != nil {
		return existing, nil
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conversation := &entity.Conversation{
		Participants: []string{userID, input.RecipientID},
		Snapshots: map[string]entity.ParticipantSnapshot{
			userID: {
				Username:     sender.Username,
				AvatarURL:    sender.AvatarURL,
				OnlineStatus: sender.OnlineStatus,
			},
			input.RecipientID: {
				Username:     recipient.Username,
				AvatarURL:    recipient.AvatarURL,
				OnlineStatus: recipient.OnlineStatus,
			},
		},
		UnreadCount: map[string]int{
			userID:            0,
			input.RecipientID: 0,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}

	if input.InitialMessage != "" {
		if _, _, err := uc.SendMessage(ctx, userID, conversation.ID, SendMessageInput{Content: input.InitialMessage}); err != nil {
			log.Printf("CreateConversation: Failed to send initial message in %s: %v", conversation.ID, err)
		}
	}

	return uc.conversationRepo.GetByID(ctx, conversation.ID)
}

func (uc *ChatUseCase) findExistingConversation(ctx context.Context, userID, recipientID string) (*entity.Conversation, error) {
	conversations, _, err := uc.conversationRepo.ListByUserID(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, conv := range conversations {
		if conv.HasParticipant(recipientID) {
			return conv, nil
		}
	}
	return nil, nil
}

// SendMessage persists the message together with the conversation aggregate
// update and the recipient notification, then fans the event out to connected
// clients.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, conversationID string, input SendMessageInput) (*entity.Message, *entity.Conversation, error) {
	if input.Content == "" && len(input.Attachments) == 0 {
		return nil, nil, errors.BadRequest("Message must have content or attachments", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}

	recipientID := conversation.OtherParticipant(senderID)

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        input.Content,
		Attachments:    input.Attachments,
	}
	notification := &entity.Notification{
		Type:        entity.NotificationChatMessage,
		Message:     fmt.Sprintf("%s sent you a message", sender.Username),
		RecipientID: recipientID,
		SenderID:    senderID,
		SenderName:  sender.Username,
		RefID:       conversationID,
	}

	updated, err := uc.conversationRepo.AppendMessage(ctx, conversationID, message, notification)
	if err != nil {
		return nil, nil, err
	}

	uc.broadcastMessage(conversationID, senderID, recipientID, message, updated, notification)

	return message, updated, nil
}

// broadcastMessage pushes the committed message to the conversation room and
// the recipient's personal channel. Delivery is best effort; offline clients
// catch up from the store.
func (uc *ChatUseCase) broadcastMessage(conversationID, senderID, recipientID string, message *entity.Message, conversation *entity.Conversation, notification *entity.Notification) {
	if uc.pusher == nil {
		return
	}

	timestamp := time.Now().Format(time.RFC3339)

	if payload, err := json.Marshal(ws.WSMessage{
		Type:           ws.MessageTypeNewMessage,
		ConversationID: conversationID,
		Data:           message,
		Timestamp:      timestamp,
	}); err == nil {
		uc.pusher.SendToRoom(conversationID, payload, senderID)
	}

	if payload, err := json.Marshal(ws.WSMessage{
		Type:           ws.MessageTypeConversationUpdate,
		ConversationID: conversationID,
		Data:           conversation,
		Timestamp:      timestamp,
	}); err == nil {
		uc.pusher.SendToUser(recipientID, payload)
	}

	if payload, err := json.Marshal(ws.WSMessage{
		Type:      ws.MessageTypeNotification,
		Data:      notification,
		Timestamp: timestamp,
	}); err == nil {
		uc.pusher.SendToUser(recipientID, payload)
	}
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	uc.decoratePresence(ctx, conversation)
	return conversation, nil
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	conversations, total, err := uc.conversationRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, conv := range conversations {
		uc.decoratePresence(ctx, conv)
	}

	return conversations, total, nil
}

// decoratePresence overlays live presence on the stored snapshots
func (uc *ChatUseCase) decoratePresence(ctx context.Context, conversation *entity.Conversation) {
	for userID, snapshot := range conversation.Snapshots {
		if uc.presence.IsUserOnline(ctx, userID) {
			snapshot.OnlineStatus = "online"
		} else {
			snapshot.OnlineStatus = "offline"
		}
		conversation.Snapshots[userID] = snapshot
	}
}

// MarkConversationRead zeroes the caller's unread counter for the
// conversation.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return uc.conversationRepo.ResetUnread(ctx, conversationID, userID)
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, 0, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return uc.conversationRepo.ListMessages(ctx, conversationID, limit, offset)
}

// TotalUnread sums the caller's unread counters across all conversations,
// used for the badge on the chat tab.
func (uc *ChatUseCase) TotalUnread(ctx context.Context, userID string) (int, error) {
	conversations, _, err := uc.conversationRepo.ListByUserID(ctx, userID, 0, 0)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conv := range conversations {
		total += conv.UnreadCount[userID]
	}
	return total, nil
}
