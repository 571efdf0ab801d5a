package entity

import "time"

type Coupon struct {
	ID              string `json:"id" firestore:"id"`
	UserID          string `json:"user_id" firestore:"userId"`
	Code            string `json:"code" firestore:"code"`
	DiscountPercent int    `json:"discount_percent" firestore:"discountPercent"`
	PointsSpent     int    `json:"points_spent" firestore:"pointsSpent"`
	Status          string `json:"status" firestore:"status"` // "active", "used", "expired"

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	ExpiresAt time.Time  `json:"expires_at" firestore:"expiresAt"`
	UsedAt    *time.Time `json:"used_at,omitempty" firestore:"usedAt,omitempty"`
}
