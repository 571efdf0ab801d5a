package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playverse/internal/domain/entity"
	"playverse/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *memConversationRepo, *memNotificationRepo, *fakePusher) {
	t.Helper()

	users := newMemUserRepo(
		&entity.User{ID: "alice", Email: "alice@example.com", Username: "alice", Role: "user", Status: "active"},
		&entity.User{ID: "bob", Email: "bob@example.com", Username: "bob", Role: "user", Status: "active"},
		&entity.User{ID: "carol", Email: "carol@example.com", Username: "carol", Role: "user", Status: "active"},
	)
	notifications := newMemNotificationRepo()
	conversations := newMemConversationRepo(notifications)
	pusher := newFakePusher()

	uc := NewChatUseCase(conversations, users, pusher, nil)
	return uc, conversations, notifications, pusher
}

func TestCreateConversation(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"alice", "bob"}, conv.Participants)
	assert.Equal(t, 0, conv.UnreadCount["alice"])
	assert.Equal(t, 0, conv.UnreadCount["bob"])
	assert.Equal(t, "bob", conv.Snapshots["bob"].Username)
}

func TestCreateConversationRejectsSelf(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, err := uc.CreateConversation(context.Background(), "alice", CreateConversationInput{RecipientID: "alice"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateConversationRejectsUnknownRecipient(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, err := uc.CreateConversation(context.Background(), "alice", CreateConversationInput{RecipientID: "nobody"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCreateConversationReturnsExisting(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	// Either side asking again gets the same conversation back
	second, err := uc.CreateConversation(ctx, "bob", CreateConversationInput{RecipientID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	third, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
}

func TestCreateConversationWithInitialMessage(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{
		RecipientID:    "bob",
		InitialMessage: "hey, is the game still discounted?",
	})
	require.NoError(t, err)

	assert.Equal(t, "hey, is the game still discounted?", conv.LastMessage)
	assert.Equal(t, 1, conv.UnreadCount["bob"])

	messages, total, err := uc.ListMessages(ctx, "bob", conv.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", messages[0].SenderID)
}

func TestSendMessageUpdatesAggregateAndNotifies(t *testing.T) {
	uc, _, notifications, pusher := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	message, updated, err := uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{Content: "hello bob"})
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.Equal(t, "alice", message.SenderID)
	assert.Equal(t, "hello bob", message.Content)
	assert.False(t, message.CreatedAt.IsZero())

	// Aggregate reflects the message
	assert.Equal(t, "hello bob", updated.LastMessage)
	assert.Equal(t, "alice", updated.LastSenderID)
	assert.WithinDuration(t, time.Now(), updated.LastMessageAt, time.Second)

	// Recipient's unread moved exactly one, sender's stayed put
	assert.Equal(t, 1, updated.UnreadCount["bob"])
	assert.Equal(t, 0, updated.UnreadCount["alice"])

	// Exactly one chat notification for the recipient
	chatNotifs := notifications.byType(entity.NotificationChatMessage)
	require.Len(t, chatNotifs, 1)
	assert.Equal(t, "bob", chatNotifs[0].RecipientID)
	assert.Equal(t, "alice", chatNotifs[0].SenderID)
	assert.Equal(t, conv.ID, chatNotifs[0].RefID)
	assert.False(t, chatNotifs[0].Read)

	// Conversation update + notification frames pushed to the recipient
	assert.Equal(t, 2, pusher.sentToUser("bob"))
	assert.Equal(t, 0, pusher.sentToUser("alice"))
}

func TestSendMessageUnreadAccumulates(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{Content: "ping"})
		require.NoError(t, err)
	}
	_, updated, err := uc.SendMessage(ctx, "bob", conv.ID, SendMessageInput{Content: "pong"})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.UnreadCount["bob"])
	assert.Equal(t, 1, updated.UnreadCount["alice"])
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, _, err = uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessageAttachmentOnly(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	message, _, err := uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{
		Attachments: []entity.Attachment{{URL: "https://storage.example.com/shot.png", Type: "image"}},
	})
	require.NoError(t, err)
	assert.Len(t, message.Attachments, 1)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, _, err = uc.SendMessage(ctx, "carol", conv.ID, SendMessageInput{Content: "let me in"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMarkConversationRead(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, _, err = uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{Content: "hello"})
	require.NoError(t, err)
	_, _, err = uc.SendMessage(ctx, "alice", conv.ID, SendMessageInput{Content: "you there?"})
	require.NoError(t, err)

	require.NoError(t, uc.MarkConversationRead(ctx, "bob", conv.ID))

	got, err := uc.GetConversation(ctx, "bob", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount["bob"])

	// Idempotent, the counter stays at zero
	require.NoError(t, uc.MarkConversationRead(ctx, "bob", conv.ID))
	got, err = uc.GetConversation(ctx, "bob", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount["bob"])
}

func TestMarkConversationReadRejectsNonParticipant(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	err = uc.MarkConversationRead(ctx, "carol", conv.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListConversations(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	_, err = uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "carol"})
	require.NoError(t, err)

	conversations, total, err := uc.ListConversations(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, conversations, 2)

	conversations, total, err = uc.ListConversations(ctx, "bob", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, conversations, 1)
	assert.True(t, conversations[0].HasParticipant("alice"))
}

func TestTotalUnread(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	convAB, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	convCB, err := uc.CreateConversation(ctx, "carol", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, _, err = uc.SendMessage(ctx, "alice", convAB.ID, SendMessageInput{Content: "one"})
	require.NoError(t, err)
	_, _, err = uc.SendMessage(ctx, "alice", convAB.ID, SendMessageInput{Content: "two"})
	require.NoError(t, err)
	_, _, err = uc.SendMessage(ctx, "carol", convCB.ID, SendMessageInput{Content: "three"})
	require.NoError(t, err)

	total, err := uc.TotalUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	require.NoError(t, uc.MarkConversationRead(ctx, "bob", convAB.ID))
	total, err = uc.TotalUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListMessagesRejectsNonParticipant(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := uc.CreateConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, _, err = uc.ListMessages(ctx, "carol", conv.ID, 0, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
