package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/redis/go-redis/v9"
)

const onlineTTL = 60 * time.Second

// UserMap tracks which users have live gateway connections. Redis keys
// back the lookup across instances.
type UserMap struct {
	mu    sync.RWMutex
	users map[string][]*Client
	rdb   *redis.Client
}

// NewUserMap creates a new UserMap
func NewUserMap(rdb *redis.Client) *UserMap {
	return &UserMap{
		users: make(map[string][]*Client),
		rdb:   rdb,
	}
}

// Register registers a client
func (m *UserMap) Register(ctx context.Context, client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[client.UserId] = append(m.users[client.UserId], client)
	m.setOnline(ctx, client.UserId)
}

// Unregister unregisters a client and reports whether the user has no
// connections left
func (m *UserMap) Unregister(ctx context.Context, client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	clients, exists := m.users[client.UserId]
	if !exists {
		return false
	}

	remaining := make([]*Client, 0, len(clients))
	for _, c := range clients {
		if c.ConnId != client.ConnId {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(m.users, client.UserId)
		m.setOffline(ctx, client.UserId)
		return true
	}

	m.users[client.UserId] = remaining
	return false
}

// GetAll gets all clients for a user
func (m *UserMap) GetAll(userId string) ([]*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients, exists := m.users[userId]
	if !exists {
		return nil, false
	}

	out := make([]*Client, len(clients))
	copy(out, clients)
	return out, true
}

// HasConnection checks if the user has a connection on this instance
func (m *UserMap) HasConnection(userId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userId]) > 0
}

// OnlineUserCount returns the number of locally connected users
func (m *UserMap) OnlineUserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// IsOnline checks if the user is online on any instance
func (m *UserMap) IsOnline(ctx context.Context, userId string) bool {
	if m.HasConnection(userId) {
		return true
	}

	if m.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := m.rdb.Exists(ctx, key).Result()
		return exists > 0
	}

	return false
}

// RefreshOnlineStatus extends the online TTL while the user stays
// connected
func (m *UserMap) RefreshOnlineStatus(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}

	if m.HasConnection(userId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		m.rdb.Expire(ctx, key, onlineTTL)
	}
}

func (m *UserMap) setOnline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	m.rdb.Set(ctx, key, "1", onlineTTL)
}

func (m *UserMap) setOffline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	m.rdb.Del(ctx, key)
}
