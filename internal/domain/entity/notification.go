package entity

import "time"

type NotificationType string

const (
	NotificationChatMessage  NotificationType = "chat_message"
	NotificationForumComment NotificationType = "forum_comment"
	NotificationForumReply   NotificationType = "forum_reply"
	NotificationNewForum     NotificationType = "new_forum"
)

// Notification is written by the sender-side action and only ever mutated by
// the recipient flipping Read; rows are never deleted.
type Notification struct {
	ID          string           `json:"id" firestore:"id"`
	Type        NotificationType `json:"type" firestore:"type"`
	Message     string           `json:"message" firestore:"message"`
	RecipientID string           `json:"recipient_id" firestore:"recipientId"`
	SenderID    string           `json:"sender_id" firestore:"senderId"`
	SenderName  string           `json:"sender_name" firestore:"senderName"`
	Read        bool             `json:"read" firestore:"read"`

	// Conversation ID for chat_message, forum topic ID otherwise
	RefID string `json:"ref_id" firestore:"refId"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
