package repository

import (
	"context"
	"playverse/internal/domain/entity"
)

type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *entity.ForumTopic) error
	GetTopic(ctx context.Context, id string) (*entity.ForumTopic, error)
	ListTopics(ctx context.Context, sortBy string, limit, offset int) ([]*entity.ForumTopic, int64, error)
	UpdateTopic(ctx context.Context, topic *entity.ForumTopic) error
	DeleteTopic(ctx context.Context, id string) error
	IncrementTopicViews(ctx context.Context, id string) error

	// AppendPost commits the post, the topic aggregate update (postCount
	// increment + lastPost snapshot) and the optional notification as a
	// single atomic write. notification may be nil (author posting on their
	// own topic/post).
	AppendPost(ctx context.Context, topicID string, post *entity.ForumPost, notification *entity.Notification) error

	GetPost(ctx context.Context, topicID, postID string) (*entity.ForumPost, error)
	ListPosts(ctx context.Context, topicID string, limit, offset int) ([]*entity.ForumPost, int64, error)
}
