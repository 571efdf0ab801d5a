package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/pkg/errors"
)

type firestoreForumRepository struct {
	client *firestore.Client
}

func NewFirestoreForumRepository(client *firestore.Client) repository.ForumRepository {
	return &firestoreForumRepository{
		client: client,
	}
}

func (r *firestoreForumRepository) CreateTopic(ctx context.Context, topic *entity.ForumTopic) error {
	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}

	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	_, err := r.client.Collection("forums").Doc(topic.ID).Set(ctx, topic)
	if err != nil {
		return errors.Internal("Failed to create forum topic", err)
	}

	return nil
}

func (r *firestoreForumRepository) GetTopic(ctx context.Context, id string) (*entity.ForumTopic, error) {
	doc, err := r.client.Collection("forums").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Forum topic", err)
		}
		return nil, errors.Internal("Failed to get forum topic", err)
	}

	var topic entity.ForumTopic
	if err := doc.DataTo(&topic); err != nil {
		return nil, errors.Internal("Failed to parse forum topic data", err)
	}

	return &topic, nil
}

func (r *firestoreForumRepository) ListTopics(ctx context.Context, sortBy string, limit, offset int) ([]*entity.ForumTopic, int64, error) {
	orderField := "createdAt"
	if sortBy == "popular" {
		orderField = "postCount"
	}

	query := r.client.Collection("forums").OrderBy(orderField, firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count forum topics", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var topics []*entity.ForumTopic

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate forum topics", err)
		}

		var topic entity.ForumTopic
		if err := doc.DataTo(&topic); err != nil {
			return nil, 0, errors.Internal("Failed to parse forum topic data", err)
		}
		topics = append(topics, &topic)
	}

	return topics, total, nil
}

func (r *firestoreForumRepository) UpdateTopic(ctx context.Context, topic *entity.ForumTopic) error {
	topic.UpdatedAt = time.Now()

	_, err := r.client.Collection("forums").Doc(topic.ID).Set(ctx, topic)
	if err != nil {
		return errors.Internal("Failed to update forum topic", err)
	}

	return nil
}

func (r *firestoreForumRepository) DeleteTopic(ctx context.Context, id string) error {
	_, err := r.client.Collection("forums").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete forum topic", err)
	}

	return nil
}

// IncrementTopicViews is a lone counter bump outside any transaction; a lost
// view is acceptable.
func (r *firestoreForumRepository) IncrementTopicViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("forums").Doc(id).Update(ctx, []firestore.Update{
		{Path: "viewCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment topic views", err)
	}

	return nil
}

// AppendPost commits the post, the topic counters/snapshot and the optional
// notification atomically, so the postCount can never disagree with the posts
// actually present.
func (r *firestoreForumRepository) AppendPost(ctx context.Context, topicID string, post *entity.ForumPost, notification *entity.Notification) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if notification != nil && notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	topicRef := r.client.Collection("forums").Doc(topicID)
	postRef := topicRef.Collection("posts").Doc(post.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(topicRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Forum topic", err)
			}
			return err
		}

		var topic entity.ForumTopic
		if err := doc.DataTo(&topic); err != nil {
			return err
		}

		now := time.Now()
		post.TopicID = topicID
		post.CreatedAt = now

		excerpt := entity.PostExcerpt(post.Content)

		if err := tx.Set(postRef, post); err != nil {
			return err
		}

		if err := tx.Update(topicRef, []firestore.Update{
			{Path: "postCount", Value: firestore.Increment(1)},
			{Path: "updatedAt", Value: now},
			{Path: "lastPost", Value: &entity.LastPostSnapshot{
				PostID:     post.ID,
				AuthorID:   post.AuthorID,
				AuthorName: post.AuthorName,
				Excerpt:    excerpt,
				At:         now,
			}},
		}); err != nil {
			return err
		}

		if notification != nil {
			notification.RefID = topicID
			notification.CreatedAt = now
			notifRef := r.client.Collection("notifications").Doc(notification.ID)
			if err := tx.Set(notifRef, notification); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return err
		}
		log.Printf("Firestore transaction failed appending post to topic %s: %v", topicID, err)
		return errors.Internal("Failed to create forum post", err)
	}

	return nil
}

func (r *firestoreForumRepository) GetPost(ctx context.Context, topicID, postID string) (*entity.ForumPost, error) {
	doc, err := r.client.Collection("forums").Doc(topicID).Collection("posts").Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Forum post", err)
		}
		return nil, errors.Internal("Failed to get forum post", err)
	}

	var post entity.ForumPost
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Internal("Failed to parse forum post data", err)
	}

	return &post, nil
}

func (r *firestoreForumRepository) ListPosts(ctx context.Context, topicID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	query := r.client.Collection("forums").Doc(topicID).Collection("posts").
		OrderBy("createdAt", firestore.Asc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting posts for topic %s: %v", topicID, err)
		return nil, 0, errors.Internal("Failed to count forum posts", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var posts []*entity.ForumPost

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate forum posts", err)
		}

		var post entity.ForumPost
		if err := doc.DataTo(&post); err != nil {
			return nil, 0, errors.Internal("Failed to parse forum post data", err)
		}
		posts = append(posts, &post)
	}

	return posts, total, nil
}
