package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "entrySession:"

// RedisStore keeps sessions in Redis so an unfinished entry survives a
// process restart. A TTL bounds how long an abandoned session lingers; zero
// disables expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a Redis client as a SessionStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(adminID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(adminID, 10)
}

func (s *RedisStore) Get(ctx context.Context, adminID int64) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(adminID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch entry session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal entry session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.AdminID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save entry session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, adminID int64) error {
	return s.client.Del(ctx, sessionKey(adminID)).Err()
}
