package diagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Slot is the staged result of scoring one pattern, held until the account
// either compares A against B or the session ends.
type Slot struct {
	Pattern  Pattern   `json:"pattern"`
	Status   Status    `json:"status"`
	Score    string    `json:"score"`
	Comment  string    `json:"comment"`
	Verdict  string    `json:"verdict,omitempty"`
	ImageURL string    `json:"image_url"`
	ScoredAt time.Time `json:"scored_at"`
}

// SlotStore keeps one slot per pattern per account in Redis, expiring with
// the session.
type SlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotStore(client *redis.Client, ttl time.Duration) *SlotStore {
	return &SlotStore{client: client, ttl: ttl}
}

func slotKey(uid string, pattern Pattern) string {
	return fmt.Sprintf("slots:%s:%s", uid, pattern)
}

// Put overwrites the pattern's slot. Re-scoring a pattern replaces the staged
// result; history lives in the diagnosis records, not here.
func (s *SlotStore) Put(ctx context.Context, uid string, slot *Slot) error {
	data, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("marshaling slot: %w", err)
	}
	if err := s.client.Set(ctx, slotKey(uid, slot.Pattern), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing slot %s: %w", slot.Pattern, err)
	}
	return nil
}

// Get returns the pattern's slot, or nil when nothing is staged.
func (s *SlotStore) Get(ctx context.Context, uid string, pattern Pattern) (*Slot, error) {
	val, err := s.client.Get(ctx, slotKey(uid, pattern)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching slot %s: %w", pattern, err)
	}

	var slot Slot
	if err := json.Unmarshal([]byte(val), &slot); err != nil {
		return nil, fmt.Errorf("unmarshaling slot %s: %w", pattern, err)
	}
	return &slot, nil
}

// Clear drops both slots. Runs on logout as part of the full session clear.
func (s *SlotStore) Clear(ctx context.Context, uid string) error {
	return s.client.Del(ctx, slotKey(uid, PatternA), slotKey(uid, PatternB)).Err()
}
