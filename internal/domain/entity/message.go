package entity

import "time"

type Attachment struct {
	URL  string `json:"url" firestore:"url"`
	Type string `json:"type" firestore:"type"` // "image", "video", "file"
	Name string `json:"name,omitempty" firestore:"name,omitempty"`
	Size int64  `json:"size,omitempty" firestore:"size,omitempty"`
}

// Message is immutable once written; ordering is by CreatedAt which the
// server assigns at commit time.
type Message struct {
	ID             string       `json:"id" firestore:"id"`
	ConversationID string       `json:"conversation_id" firestore:"conversationId"`
	SenderID       string       `json:"sender_id" firestore:"senderId"`
	Content        string       `json:"content" firestore:"content"`
	Attachments    []Attachment `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	CreatedAt      time.Time    `json:"created_at" firestore:"createdAt"`
}
