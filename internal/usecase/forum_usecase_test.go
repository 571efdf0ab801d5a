package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playverse/internal/domain/entity"
	"playverse/pkg/errors"
)

func newForumFixture(t *testing.T) (*ForumUseCase, *memUserRepo, *memForumRepo, *memNotificationRepo) {
	t.Helper()

	users := newMemUserRepo(
		&entity.User{ID: "alice", Username: "alice", Role: "user", Status: "active"},
		&entity.User{ID: "bob", Username: "bob", Role: "user", Status: "active"},
		&entity.User{ID: "carol", Username: "carol", Role: "user", Status: "active"},
		&entity.User{ID: "root", Username: "root", Role: "admin", Status: "active"},
	)
	notifications := newMemNotificationRepo()
	forum := newMemForumRepo(notifications)

	uc := NewForumUseCase(forum, users, notifications, newFakePusher())
	return uc, users, forum, notifications
}

func mustCreateTopic(t *testing.T, uc *ForumUseCase, ownerID, title string) *entity.ForumTopic {
	t.Helper()
	topic, err := uc.CreateTopic(context.Background(), ownerID, CreateTopicInput{
		Title:       title,
		Description: "general discussion",
	})
	require.NoError(t, err)
	return topic
}

func TestCreateTopic(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)

	topic := mustCreateTopic(t, uc, "alice", "Speedrun strategies")

	assert.NotEmpty(t, topic.ID)
	assert.Equal(t, "alice", topic.OwnerID)
	assert.Equal(t, "alice", topic.OwnerName)
	assert.Equal(t, 0, topic.PostCount)
	assert.Nil(t, topic.LastPost)
}

func TestCreateTopicNotifiesAdmins(t *testing.T) {
	uc, _, _, notifications := newForumFixture(t)

	topic := mustCreateTopic(t, uc, "alice", "New tournament bracket")

	newForum := notifications.byType(entity.NotificationNewForum)
	require.Len(t, newForum, 1)
	assert.Equal(t, "root", newForum[0].RecipientID)
	assert.Equal(t, "alice", newForum[0].SenderID)
	assert.Equal(t, topic.ID, newForum[0].RefID)
}

func TestAdminCreatedTopicDoesNotNotifySelf(t *testing.T) {
	uc, _, _, notifications := newForumFixture(t)

	mustCreateTopic(t, uc, "root", "Announcements")

	assert.Empty(t, notifications.byType(entity.NotificationNewForum))
}

func TestGetTopicBumpsViews(t *testing.T) {
	uc, _, forum, _ := newForumFixture(t)

	topic := mustCreateTopic(t, uc, "alice", "Patch notes")

	_, err := uc.GetTopic(context.Background(), topic.ID)
	require.NoError(t, err)
	_, err = uc.GetTopic(context.Background(), topic.ID)
	require.NoError(t, err)

	stored, err := forum.GetTopic(context.Background(), topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ViewCount)
}

func TestCreatePostNotifiesTopicOwner(t *testing.T) {
	uc, _, forum, notifications := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "Best co-op games")

	post, err := uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "It Takes Two, hands down"})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "bob", post.AuthorID)
	assert.Nil(t, post.ReplyTo)

	// Counter and snapshot moved with the post
	stored, err := forum.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PostCount)
	require.NotNil(t, stored.LastPost)
	assert.Equal(t, post.ID, stored.LastPost.PostID)
	assert.Equal(t, "bob", stored.LastPost.AuthorID)

	// Exactly one comment notification, addressed to the topic owner
	comments := notifications.byType(entity.NotificationForumComment)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].RecipientID)
	assert.Equal(t, "bob", comments[0].SenderID)
	assert.Equal(t, topic.ID, comments[0].RefID)
	assert.Empty(t, notifications.byType(entity.NotificationForumReply))
}

func TestCreatePostOnOwnTopicSkipsNotification(t *testing.T) {
	uc, _, forum, notifications := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "My indie game devlog")

	_, err := uc.CreatePost(ctx, "alice", topic.ID, CreatePostInput{Content: "week 1 progress"})
	require.NoError(t, err)

	stored, err := forum.GetTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PostCount)
	assert.Empty(t, notifications.byType(entity.NotificationForumComment))
}

func TestCreateReplyNotifiesParentAuthor(t *testing.T) {
	uc, _, _, notifications := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "Hardest boss fights")

	parent, err := uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "Malenia. Not close."})
	require.NoError(t, err)

	reply, err := uc.CreatePost(ctx, "carol", topic.ID, CreatePostInput{
		Content:       "Agreed, waterfowl dance broke me",
		ReplyToPostID: parent.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, parent.ID, reply.ReplyTo.PostID)
	assert.Equal(t, "bob", reply.ReplyTo.AuthorID)

	// The reply goes to the parent author, not the topic owner
	replies := notifications.byType(entity.NotificationForumReply)
	require.Len(t, replies, 1)
	assert.Equal(t, "bob", replies[0].RecipientID)
	assert.Equal(t, "carol", replies[0].SenderID)

	// Only the first post produced a comment notification
	comments := notifications.byType(entity.NotificationForumComment)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].RecipientID)
}

func TestCreateReplyToOwnPostSkipsNotification(t *testing.T) {
	uc, _, _, notifications := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "Screenshot thread")

	parent, err := uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "first"})
	require.NoError(t, err)

	_, err = uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{
		Content:       "forgot the link, here it is",
		ReplyToPostID: parent.ID,
	})
	require.NoError(t, err)

	assert.Empty(t, notifications.byType(entity.NotificationForumReply))
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)

	topic := mustCreateTopic(t, uc, "alice", "Rules")

	_, err := uc.CreatePost(context.Background(), "bob", topic.ID, CreatePostInput{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreatePostRejectsUnknownReply(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)

	topic := mustCreateTopic(t, uc, "alice", "Lore questions")

	_, err := uc.CreatePost(context.Background(), "bob", topic.ID, CreatePostInput{
		Content:       "responding to nothing",
		ReplyToPostID: "missing",
	})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCreatePostAwardsPoints(t *testing.T) {
	uc, users, _, _ := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "Weekly challenge")

	_, err := uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "done in 41:32"})
	require.NoError(t, err)
	_, err = uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "new PB 39:58"})
	require.NoError(t, err)

	bob, err := users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2*pointsPerForumPost, bob.FidelityPoints)
}

func TestDeleteTopicPermissions(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "To be removed")

	err := uc.DeleteTopic(ctx, "bob", topic.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Admin can remove anyone's topic
	require.NoError(t, uc.DeleteTopic(ctx, "root", topic.ID))

	_, err = uc.GetTopic(ctx, topic.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListTopicsSortOrder(t *testing.T) {
	uc, _, forum, _ := newForumFixture(t)
	ctx := context.Background()

	older := mustCreateTopic(t, uc, "alice", "Retro corner")
	newer := mustCreateTopic(t, uc, "bob", "Release hype")

	// Backdate so creation order is unambiguous
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, forum.UpdateTopic(ctx, older))

	// Only the older topic gets activity
	_, err := uc.CreatePost(ctx, "carol", older.ID, CreatePostInput{Content: "still playing chrono trigger"})
	require.NoError(t, err)

	latest, _, err := uc.ListTopics(ctx, "latest", 0, 0)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, newer.ID, latest[0].ID)
	assert.Equal(t, older.ID, latest[1].ID)

	popular, _, err := uc.ListTopics(ctx, "popular", 0, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, older.ID, popular[0].ID)
	assert.Equal(t, newer.ID, popular[1].ID)
}

func TestListTopicsRejectsUnknownSort(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)

	_, _, err := uc.ListTopics(context.Background(), "alphabetical", 0, 0)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListPosts(t *testing.T) {
	uc, _, _, _ := newForumFixture(t)
	ctx := context.Background()

	topic := mustCreateTopic(t, uc, "alice", "Build advice")

	_, err := uc.CreatePost(ctx, "bob", topic.ID, CreatePostInput{Content: "go int"})
	require.NoError(t, err)
	_, err = uc.CreatePost(ctx, "carol", topic.ID, CreatePostInput{Content: "dex is fine too"})
	require.NoError(t, err)

	posts, total, err := uc.ListPosts(ctx, topic.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)
}
