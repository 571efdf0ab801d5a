package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"playverse/internal/domain/entity"
	"playverse/pkg/errors"
)

// In-memory repositories mirroring the Firestore adapters' semantics,
// including the atomic append operations.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.User
	for _, user := range r.users {
		if role, ok := filter["role"].(string); ok && user.Role != role {
			continue
		}
		if status, ok := filter["status"].(string); ok && user.Status != status {
			continue
		}
		copied := *user
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *memUserRepo) UpdateOnlineStatus(ctx context.Context, userID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.OnlineStatus = status
		user.LastSeen = time.Now()
	}
	return nil
}

func (r *memUserRepo) AddFidelityPoints(ctx context.Context, userID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.FidelityPoints += points
	return nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createLocked(notification)
	return nil
}

func (r *memNotificationRepo) createLocked(notification *entity.Notification) {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	copied := *notification
	r.notifications = append(r.notifications, &copied)
}

func (r *memNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Notification", nil)
}

func (r *memNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			copied := *n
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *memNotificationRepo) byType(notifType entity.NotificationType) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.notifications {
		if n.Type == notifType {
			copied := *n
			result = append(result, &copied)
		}
	}
	return result
}

type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	notifications *memNotificationRepo
}

func newMemConversationRepo(notifications *memNotificationRepo) *memConversationRepo {
	return &memConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
		notifications: notifications,
	}
}

func (r *memConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	copied := *conversation
	r.conversations[conversation.ID] = &copied
	return nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return copyConversation(conv), nil
}

func (r *memConversationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			result = append(result, copyConversation(conv))
		}
	}
	return result, int64(len(result)), nil
}

func (r *memConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[conversation.ID]; !ok {
		return errors.NotFound("Conversation", nil)
	}
	r.conversations[conversation.ID] = copyConversation(conversation)
	return nil
}

func (r *memConversationRepo) AppendMessage(ctx context.Context, conversationID string, message *entity.Message, notification *entity.Notification) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	if !conv.HasParticipant(message.SenderID) {
		return nil, errors.Forbidden("Sender is not a participant", nil)
	}

	now := time.Now()
	message.ID = uuid.New().String()
	message.ConversationID = conversationID
	message.CreatedAt = now
	copied := *message
	r.messages[conversationID] = append(r.messages[conversationID], &copied)

	conv.LastMessage = message.Content
	conv.LastMessageAt = now
	conv.LastSenderID = message.SenderID
	conv.UpdatedAt = now
	recipientID := conv.OtherParticipant(message.SenderID)
	conv.UnreadCount[recipientID]++

	if notification != nil {
		r.notifications.mu.Lock()
		r.notifications.createLocked(notification)
		r.notifications.mu.Unlock()
	}

	return copyConversation(conv), nil
}

func (r *memConversationRepo) ResetUnread(ctx context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conv.UnreadCount[userID] = 0
	return nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	result := make([]*entity.Message, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func copyConversation(conv *entity.Conversation) *entity.Conversation {
	copied := *conv
	copied.Participants = append([]string(nil), conv.Participants...)
	copied.Snapshots = make(map[string]entity.ParticipantSnapshot, len(conv.Snapshots))
	for k, v := range conv.Snapshots {
		copied.Snapshots[k] = v
	}
	copied.UnreadCount = make(map[string]int, len(conv.UnreadCount))
	for k, v := range conv.UnreadCount {
		copied.UnreadCount[k] = v
	}
	return &copied
}

type memForumRepo struct {
	mu            sync.Mutex
	topics        map[string]*entity.ForumTopic
	posts         map[string][]*entity.ForumPost
	notifications *memNotificationRepo
}

func newMemForumRepo(notifications *memNotificationRepo) *memForumRepo {
	return &memForumRepo{
		topics:        make(map[string]*entity.ForumTopic),
		posts:         make(map[string][]*entity.ForumPost),
		notifications: notifications,
	}
}

func (r *memForumRepo) CreateTopic(ctx context.Context, topic *entity.ForumTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}
	copied := *topic
	r.topics[topic.ID] = &copied
	return nil
}

func (r *memForumRepo) GetTopic(ctx context.Context, id string) (*entity.ForumTopic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic, ok := r.topics[id]
	if !ok {
		return nil, errors.NotFound("Forum topic", nil)
	}
	copied := *topic
	return &copied, nil
}

func (r *memForumRepo) ListTopics(ctx context.Context, sortBy string, limit, offset int) ([]*entity.ForumTopic, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.ForumTopic
	for _, topic := range r.topics {
		copied := *topic
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if sortBy == "popular" {
			return result[i].PostCount > result[j].PostCount
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, int64(len(result)), nil
}

func (r *memForumRepo) UpdateTopic(ctx context.Context, topic *entity.ForumTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[topic.ID]; !ok {
		return errors.NotFound("Forum topic", nil)
	}
	copied := *topic
	r.topics[topic.ID] = &copied
	return nil
}

func (r *memForumRepo) DeleteTopic(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[id]; !ok {
		return errors.NotFound("Forum topic", nil)
	}
	delete(r.topics, id)
	delete(r.posts, id)
	return nil
}

func (r *memForumRepo) IncrementTopicViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic, ok := r.topics[id]; ok {
		topic.ViewCount++
	}
	return nil
}

func (r *memForumRepo) AppendPost(ctx context.Context, topicID string, post *entity.ForumPost, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.topics[topicID]
	if !ok {
		return errors.NotFound("Forum topic", nil)
	}

	now := time.Now()
	post.ID = uuid.New().String()
	post.TopicID = topicID
	post.CreatedAt = now
	copied := *post
	r.posts[topicID] = append(r.posts[topicID], &copied)

	topic.PostCount++
	topic.UpdatedAt = now
	excerpt := entity.PostExcerpt(post.Content)
	topic.LastPost = &entity.LastPostSnapshot{
		PostID:     post.ID,
		AuthorID:   post.AuthorID,
		AuthorName: post.AuthorName,
		Excerpt:    excerpt,
		At:         now,
	}

	if notification != nil {
		r.notifications.mu.Lock()
		r.notifications.createLocked(notification)
		r.notifications.mu.Unlock()
	}

	return nil
}

func (r *memForumRepo) GetPost(ctx context.Context, topicID, postID string) (*entity.ForumPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, post := range r.posts[topicID] {
		if post.ID == postID {
			copied := *post
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Forum post", nil)
}

func (r *memForumRepo) ListPosts(ctx context.Context, topicID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := r.posts[topicID]
	result := make([]*entity.ForumPost, 0, len(posts))
	for _, post := range posts {
		copied := *post
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*entity.Coupon
	users   *memUserRepo
}

func newMemCouponRepo(users *memUserRepo) *memCouponRepo {
	return &memCouponRepo{
		coupons: make(map[string]*entity.Coupon),
		users:   users,
	}
}

func (r *memCouponRepo) Redeem(ctx context.Context, userID string, coupon *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	user, ok := r.users.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if user.FidelityPoints < coupon.PointsSpent {
		return errors.BadRequest("Insufficient fidelity points", nil)
	}
	user.FidelityPoints -= coupon.PointsSpent

	coupon.ID = uuid.New().String()
	copied := *coupon
	r.coupons[coupon.ID] = &copied
	return nil
}

func (r *memCouponRepo) GetByID(ctx context.Context, id string) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return nil, errors.NotFound("Coupon", nil)
	}
	copied := *coupon
	return &copied, nil
}

func (r *memCouponRepo) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, coupon := range r.coupons {
		if coupon.Code == code {
			copied := *coupon
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Coupon", nil)
}

func (r *memCouponRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Coupon, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Coupon
	for _, coupon := range r.coupons {
		if coupon.UserID == userID {
			copied := *coupon
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memCouponRepo) Update(ctx context.Context, coupon *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return errors.NotFound("Coupon", nil)
	}
	copied := *coupon
	r.coupons[coupon.ID] = &copied
	return nil
}

// fakePusher records pushed frames instead of writing to sockets
type fakePusher struct {
	mu        sync.Mutex
	userSends map[string][][]byte
	roomSends map[string][][]byte
}

func newFakePusher() *fakePusher {
	return &fakePusher{
		userSends: make(map[string][][]byte),
		roomSends: make(map[string][][]byte),
	}
}

func (p *fakePusher) SendToUser(userID string, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userSends[userID] = append(p.userSends[userID], message)
}

func (p *fakePusher) SendToRoom(roomID string, message []byte, excludeUserID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roomSends[roomID] = append(p.roomSends[roomID], message)
}

func (p *fakePusher) sentToUser(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.userSends[userID])
}
