package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role     string `json:"role" firestore:"role"`     // "user", "admin"
	Status   string `json:"status" firestore:"status"` // "active", "banned"

	AvatarURL    string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	LastSeen     time.Time `json:"last_seen" firestore:"lastSeen"`
	OnlineStatus string    `json:"online_status" firestore:"onlineStatus"` // "online", "offline"

	// Loyalty balance, spent when redeeming coupons
	FidelityPoints int `json:"fidelity_points" firestore:"fidelityPoints"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
