package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasuta1125/banasukoAI/internal/quota"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStore_PutAndGet(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.Put(ctx, &Session{
		UID:           "uid-1",
		Email:         "user@example.com",
		Plan:          quota.PlanPro,
		RemainingUses: 3,
	})
	require.NoError(t, err)

	sess, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, quota.PlanPro, sess.Plan)
	assert.Equal(t, 3, sess.RemainingUses)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := setupStore(t)

	sess, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SyncRemainingUses(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{UID: "uid-1", Plan: quota.PlanPro, RemainingUses: 3}))
	require.NoError(t, store.SyncRemainingUses(ctx, "uid-1", 2))

	sess, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.RemainingUses)
}

func TestStore_SyncRemainingUsesMissingSession(t *testing.T) {
	store, _ := setupStore(t)

	// No session record: the cache is simply absent, not an error.
	err := store.SyncRemainingUses(context.Background(), "nobody", 4)
	assert.NoError(t, err)
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{UID: "uid-1", Plan: quota.PlanFree, RemainingUses: 5}))
	require.NoError(t, store.Delete(ctx, "uid-1"))

	sess, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SessionExpires(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{UID: "uid-1", Plan: quota.PlanFree, RemainingUses: 5}))
	mr.FastForward(2 * time.Hour)

	sess, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}
