package diagnosis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSlots(t *testing.T) (*SlotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSlotStore(client, time.Hour), mr
}

func TestSlotStore_PutAndGet(t *testing.T) {
	store, _ := setupSlots(t)
	ctx := context.Background()

	err := store.Put(ctx, "uid-1", &Slot{
		Pattern:  PatternA,
		Status:   StatusScored,
		Score:    "85点",
		Comment:  "コントラストを強めてください",
		ImageURL: "https://cdn.example.com/banner_A.png",
		ScoredAt: time.Now(),
	})
	require.NoError(t, err)

	slot, err := store.Get(ctx, "uid-1", PatternA)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "85点", slot.Score)
	assert.Equal(t, StatusScored, slot.Status)
}

func TestSlotStore_GetMissing(t *testing.T) {
	store, _ := setupSlots(t)

	slot, err := store.Get(context.Background(), "uid-1", PatternB)
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestSlotStore_RescoreOverwrites(t *testing.T) {
	store, _ := setupSlots(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternA, Status: StatusScored, Score: "60点"}))
	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternA, Status: StatusScored, Score: "80点"}))

	slot, err := store.Get(ctx, "uid-1", PatternA)
	require.NoError(t, err)
	assert.Equal(t, "80点", slot.Score)
}

func TestSlotStore_SlotsAreIsolatedByAccount(t *testing.T) {
	store, _ := setupSlots(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternA, Status: StatusScored, Score: "70点"}))

	slot, err := store.Get(ctx, "uid-2", PatternA)
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestSlotStore_Clear(t *testing.T) {
	store, _ := setupSlots(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternA, Status: StatusScored}))
	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternB, Status: StatusScored}))
	require.NoError(t, store.Clear(ctx, "uid-1"))

	a, err := store.Get(ctx, "uid-1", PatternA)
	require.NoError(t, err)
	assert.Nil(t, a)
	b, err := store.Get(ctx, "uid-1", PatternB)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestSlotStore_SlotsExpireWithSession(t *testing.T) {
	store, mr := setupSlots(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uid-1", &Slot{Pattern: PatternA, Status: StatusScored}))
	mr.FastForward(2 * time.Hour)

	slot, err := store.Get(ctx, "uid-1", PatternA)
	require.NoError(t, err)
	assert.Nil(t, slot)
}
