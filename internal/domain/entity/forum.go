package entity

import (
	"time"
	"unicode/utf8"
)

// ExcerptLength caps the lastPost preview stored on a topic.
const ExcerptLength = 120

// PostExcerpt truncates content for the lastPost snapshot without splitting a
// multi-byte rune.
func PostExcerpt(content string) string {
	if len(content) <= ExcerptLength {
		return content
	}
	cut := ExcerptLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// LastPostSnapshot is the denormalized preview shown in topic lists. It is
// overwritten in the same transaction that creates the post, so it cannot
// drift from the post list.
type LastPostSnapshot struct {
	PostID     string    `json:"post_id" firestore:"postId"`
	AuthorID   string    `json:"author_id" firestore:"authorId"`
	AuthorName string    `json:"author_name" firestore:"authorName"`
	Excerpt    string    `json:"excerpt" firestore:"excerpt"`
	At         time.Time `json:"at" firestore:"at"`
}

type ForumTopic struct {
	ID          string `json:"id" firestore:"id"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	OwnerID     string `json:"owner_id" firestore:"ownerId"`
	OwnerName   string `json:"owner_name" firestore:"ownerName"`
	MediaURL    string `json:"media_url,omitempty" firestore:"mediaURL,omitempty"`

	PostCount int               `json:"post_count" firestore:"postCount"`
	ViewCount int               `json:"view_count" firestore:"viewCount"`
	LastPost  *LastPostSnapshot `json:"last_post,omitempty" firestore:"lastPost,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ReplyRef points a post back at the post it answers.
type ReplyRef struct {
	PostID     string `json:"post_id" firestore:"postId"`
	AuthorID   string `json:"author_id" firestore:"authorId"`
	AuthorName string `json:"author_name" firestore:"authorName"`
}

type ForumPost struct {
	ID         string    `json:"id" firestore:"id"`
	TopicID    string    `json:"topic_id" firestore:"topicId"`
	AuthorID   string    `json:"author_id" firestore:"authorId"`
	AuthorName string    `json:"author_name" firestore:"authorName"`
	Content    string    `json:"content" firestore:"content"`
	ReplyTo    *ReplyRef `json:"reply_to,omitempty" firestore:"replyTo,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
