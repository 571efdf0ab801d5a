package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	ws "playverse/internal/infrastructure/websocket"
	"playverse/pkg/errors"
)

// Points credited to the author for each forum post
const pointsPerForumPost = 5

type ForumUseCase struct {
	forumRepo        repository.ForumRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	pusher           EventPusher
}

func NewForumUseCase(
	forumRepo repository.ForumRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	pusher EventPusher,
) *ForumUseCase {
	return &ForumUseCase{
		forumRepo:        forumRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

type CreateTopicInput struct {
	Title       string
	Description string
	MediaURL    string
}

type CreatePostInput struct {
	Content       string
	ReplyToPostID string
}

func (uc *ForumUseCase) CreateTopic(ctx context.Context, userID string, input CreateTopicInput) (*entity.ForumTopic, error) {
	owner, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	topic := &entity.ForumTopic{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     userID,
		OwnerName:   owner.Username,
		MediaURL:    input.MediaURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.forumRepo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}

	// Admins review new topics; tell them one arrived. Best effort, the
	// topic is already committed.
	uc.notifyAdminsNewTopic(ctx, topic, owner)

	return topic, nil
}

func (uc *ForumUseCase) notifyAdminsNewTopic(ctx context.Context, topic *entity.ForumTopic, owner *entity.User) {
	admins, _, err := uc.userRepo.List(ctx, map[string]interface{}{"role": "admin"}, 0, 0)
	if err != nil {
		log.Printf("notifyAdminsNewTopic: Failed to list admins: %v", err)
		return
	}

	for _, admin := range admins {
		if admin.ID == owner.ID {
			continue
		}

		notification := &entity.Notification{
			Type:        entity.NotificationNewForum,
			Message:     fmt.Sprintf("%s created a new forum: %s", owner.Username, topic.Title),
			RecipientID: admin.ID,
			SenderID:    owner.ID,
			SenderName:  owner.Username,
			RefID:       topic.ID,
		}
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			log.Printf("notifyAdminsNewTopic: Failed to notify admin %s: %v", admin.ID, err)
			continue
		}
		uc.pushNotification(admin.ID, notification)
	}
}

func (uc *ForumUseCase) GetTopic(ctx context.Context, topicID string) (*entity.ForumTopic, error) {
	topic, err := uc.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	// View counter is a lone increment; losing one is fine
	if err := uc.forumRepo.IncrementTopicViews(ctx, topicID); err != nil {
		log.Printf("GetTopic: Failed to increment views for topic %s: %v", topicID, err)
	}

	return topic, nil
}

func (uc *ForumUseCase) ListTopics(ctx context.Context, sortBy string, limit, offset int) ([]*entity.ForumTopic, int64, error) {
	switch sortBy {
	case "", "latest", "popular":
	default:
		return nil, 0, errors.BadRequest("Invalid sort, use latest or popular", nil)
	}

	return uc.forumRepo.ListTopics(ctx, sortBy, limit, offset)
}

func (uc *ForumUseCase) UpdateTopic(ctx context.Context, userID, topicID string, input CreateTopicInput) (*entity.ForumTopic, error) {
	topic, err := uc.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureTopicOwnerOrAdmin(ctx, userID, topic); err != nil {
		return nil, err
	}

	if input.Title != "" {
		topic.Title = input.Title
	}
	if input.Description != "" {
		topic.Description = input.Description
	}
	if input.MediaURL != "" {
		topic.MediaURL = input.MediaURL
	}
	topic.UpdatedAt = time.Now()

	if err := uc.forumRepo.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}

	return topic, nil
}

func (uc *ForumUseCase) DeleteTopic(ctx context.Context, userID, topicID string) error {
	topic, err := uc.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if err := uc.ensureTopicOwnerOrAdmin(ctx, userID, topic); err != nil {
		return err
	}

	return uc.forumRepo.DeleteTopic(ctx, topicID)
}

func (uc *ForumUseCase) ensureTopicOwnerOrAdmin(ctx context.Context, userID string, topic *entity.ForumTopic) error {
	if topic.OwnerID == userID {
		return nil
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != "admin" {
		return errors.Forbidden("Only the topic owner or an admin can do this", nil)
	}
	return nil
}

// CreatePost writes the post, bumps the topic's post counter and notifies the
// interested party in one atomic commit, then awards the author their points.
func (uc *ForumUseCase) CreatePost(ctx context.Context, userID, topicID string, input CreatePostInput) (*entity.ForumPost, error) {
	if input.Content == "" {
		return nil, errors.BadRequest("Post content is required", nil)
	}

	topic, err := uc.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	author, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &entity.ForumPost{
		TopicID:    topicID,
		AuthorID:   userID,
		AuthorName: author.Username,
		Content:    input.Content,
	}

	// A reply notifies the replied-to author, a plain comment notifies the
	// topic owner. Nobody is notified about their own post.
	var notification *entity.Notification
	if input.ReplyToPostID != "" {
		parent, err := uc.forumRepo.GetPost(ctx, topicID, input.ReplyToPostID)
		if err != nil {
			return nil, err
		}
		post.ReplyTo = &entity.ReplyRef{
			PostID:     parent.ID,
			AuthorID:   parent.AuthorID,
			AuthorName: parent.AuthorName,
		}
		if parent.AuthorID != userID {
			notification = &entity.Notification{
				Type:        entity.NotificationForumReply,
				Message:     fmt.Sprintf("%s replied to your post in %s", author.Username, topic.Title),
				RecipientID: parent.AuthorID,
				SenderID:    userID,
				SenderName:  author.Username,
				RefID:       topicID,
			}
		}
	} else if topic.OwnerID != userID {
		notification = &entity.Notification{
			Type:        entity.NotificationForumComment,
			Message:     fmt.Sprintf("%s commented on your forum %s", author.Username, topic.Title),
			RecipientID: topic.OwnerID,
			SenderID:    userID,
			SenderName:  author.Username,
			RefID:       topicID,
		}
	}

	if err := uc.forumRepo.AppendPost(ctx, topicID, post, notification); err != nil {
		return nil, err
	}

	if notification != nil {
		uc.pushNotification(notification.RecipientID, notification)
	}

	// Points are a reward, not part of the post contract; a failed credit
	// only gets logged.
	if err := uc.userRepo.AddFidelityPoints(ctx, userID, pointsPerForumPost); err != nil {
		log.Printf("CreatePost: Failed to credit points to %s: %v", userID, err)
	}

	return post, nil
}

func (uc *ForumUseCase) ListPosts(ctx context.Context, topicID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	if _, err := uc.forumRepo.GetTopic(ctx, topicID); err != nil {
		return nil, 0, err
	}

	return uc.forumRepo.ListPosts(ctx, topicID, limit, offset)
}

func (uc *ForumUseCase) pushNotification(recipientID string, notification *entity.Notification) {
	if uc.pusher == nil {
		return
	}
	payload, err := json.Marshal(ws.WSMessage{
		Type:      ws.MessageTypeNotification,
		Data:      notification,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	uc.pusher.SendToUser(recipientID, payload)
}
