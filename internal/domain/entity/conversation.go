package entity

import "time"

// ParticipantSnapshot is the denormalized peer info rendered in conversation
// lists so the client does not need a second lookup per row.
type ParticipantSnapshot struct {
	Username     string `json:"username" firestore:"username"`
	AvatarURL    string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	OnlineStatus string `json:"online_status" firestore:"onlineStatus"`
}

type Conversation struct {
	ID           string                         `json:"id" firestore:"id"`
	Participants []string                       `json:"participants" firestore:"participants"` // exactly two user IDs
	Snapshots    map[string]ParticipantSnapshot `json:"snapshots" firestore:"snapshots"`       // userID -> snapshot

	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	LastSenderID  string    `json:"last_sender_id,omitempty" firestore:"lastSenderId,omitempty"`

	UnreadCount map[string]int `json:"unread_count" firestore:"unreadCount"` // userID -> unread messages

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// OtherParticipant returns the peer of userID, or "" when userID is not a
// participant.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
