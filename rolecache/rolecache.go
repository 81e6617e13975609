// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rolecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers whether a user holds the admin role.
type Cache interface {
	// Get returns the cached flag and whether there was an unexpired entry.
	Get(ctx context.Context, userID string) (isAdmin, ok bool, err error)
	// Set records the flag until the TTL lapses. Roles never change after
	// an account is created, so entries are not invalidated.
	Set(ctx context.Context, userID string, isAdmin bool) error
}

// Memory is an in-process Cache with a fixed TTL.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

var _ Cache = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, userID string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[userID]
	if !ok {
		return false, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, userID)
		return false, false, nil
	}
	return entry.isAdmin, true, nil
}

func (m *Memory) Set(_ context.Context, userID string, isAdmin bool) error {
	if m.ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[userID] = memoryEntry{isAdmin: isAdmin, expiresAt: now.Add(m.ttl)}
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
	return nil
}

// Redis shares the cache across server instances.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

var _ Cache = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "daily-poll:role:"}
}

func (r *Redis) key(userID string) string {
	return r.prefix + userID
}

func (r *Redis) Get(ctx context.Context, userID string) (bool, bool, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, false, nil
		}
		return false, false, fmt.Errorf("load role: %w", err)
	}
	return val == "1", true, nil
}

func (r *Redis) Set(ctx context.Context, userID string, isAdmin bool) error {
	if r.ttl <= 0 {
		return nil
	}
	val := "0"
	if isAdmin {
		val = "1"
	}
	if err := r.client.Set(ctx, r.key(userID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("persist role: %w", err)
	}
	return nil
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
