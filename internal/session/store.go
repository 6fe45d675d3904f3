package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rasuta1125/banasukoAI/internal/quota"
)

// Session is the per-account session record. Plan and RemainingUses are a
// cache of the quota ledger, hydrated at login and kept in sync by callers
// after each successful decrement.
type Session struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	Plan          quota.Plan `json:"plan"`
	RemainingUses int        `json:"remaining_uses"`
}

// Store keeps session records in Redis for the lifetime of one browsing
// session.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(uid string) string {
	return "session:" + uid
}

// Put writes the session record and resets its TTL.
func (s *Store) Put(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.UID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Get returns the session record, or nil when none exists.
func (s *Store) Get(ctx context.Context, uid string) (*Session, error) {
	val, err := s.client.Get(ctx, sessionKey(uid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &sess, nil
}

// SyncRemainingUses updates the cached counter after a ledger decrement.
// A missing session is not an error: the authoritative count lives in the
// ledger and the cache will be rebuilt on next login.
func (s *Store) SyncRemainingUses(ctx context.Context, uid string, remaining int) error {
	sess, err := s.Get(ctx, uid)
	if err != nil || sess == nil {
		return err
	}
	sess.RemainingUses = remaining
	return s.Put(ctx, sess)
}

// Delete destroys the session record (logout: full session clear).
func (s *Store) Delete(ctx context.Context, uid string) error {
	return s.client.Del(ctx, sessionKey(uid)).Err()
}
