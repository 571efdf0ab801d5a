package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// Slightly above the client ping interval so a live connection keeps the
	// key alive
	onlineUserTTL = 90 * time.Second

	onlineUsersKey = "online:users"
)

// PresenceCache tracks which users currently hold a live connection.
// Presence is best effort: every method tolerates a nil cache and degrades
// to "offline".
type PresenceCache struct {
	redis *RedisCache
}

func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

// SetUserOnline marks the user online until the TTL lapses or they disconnect
func (p *PresenceCache) SetUserOnline(ctx context.Context, userID string) error {
	if p == nil || p.redis == nil {
		return nil
	}
	if err := p.redis.SetAdd(ctx, onlineUsersKey, userID); err != nil {
		return err
	}
	return p.redis.Set(ctx, userKey(userID), []byte("1"), onlineUserTTL)
}

// SetUserOffline removes the user from the online set
func (p *PresenceCache) SetUserOffline(ctx context.Context, userID string) error {
	if p == nil || p.redis == nil {
		return nil
	}
	if err := p.redis.SetRemove(ctx, onlineUsersKey, userID); err != nil {
		return err
	}
	return p.redis.Delete(ctx, userKey(userID))
}

// IsUserOnline checks if the user has a live connection
func (p *PresenceCache) IsUserOnline(ctx context.Context, userID string) bool {
	if p == nil || p.redis == nil {
		return false
	}
	return p.redis.Exists(ctx, userKey(userID))
}

// OnlineUsers lists every user currently marked online
func (p *PresenceCache) OnlineUsers(ctx context.Context) ([]string, error) {
	if p == nil || p.redis == nil {
		return nil, nil
	}
	return p.redis.SetMembers(ctx, onlineUsersKey)
}

func userKey(userID string) string {
	return fmt.Sprintf("online:%s", userID)
}
