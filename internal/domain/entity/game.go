package entity

import (
	"time"
)

type Game struct {
	ID            string   `json:"id" firestore:"id"`
	Title         string   `json:"title" firestore:"title"`
	Slug          string   `json:"slug" firestore:"slug"`
	Description   string   `json:"description" firestore:"description"`
	Genre         string   `json:"genre" firestore:"genre"`
	Platforms     []string `json:"platforms" firestore:"platforms"`
	Price         float64  `json:"price" firestore:"price"`
	DiscountPrice float64  `json:"discount_price,omitempty" firestore:"discountPrice,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty" firestore:"coverURL,omitempty"`
	Screenshots   []string `json:"screenshots,omitempty" firestore:"screenshots,omitempty"`
	Featured      bool     `json:"featured" firestore:"featured"`
	Status        string   `json:"status" firestore:"status"` // "active", "hidden"

	Views int `json:"views" firestore:"views"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
