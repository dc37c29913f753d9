package ussd_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

// newRedisClient skips unless TEST_REDIS_URL points at a reachable Redis.
func newRedisClient(t *testing.T) *goredis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStoreRoundtrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := ussd.NewRedisStore(newRedisClient(t), ussd.DefaultConfig())

	sid := "sid-" + uuid.NewString()
	phone := "+2547" + uuid.NewString()[:8]

	sess, created, err := store.GetOrCreate(ctx, sid, phone)
	require.NoError(t, err)
	assert.True(t, created)

	sess.EnterFlow(ussd.StateLoanApplication)
	sess.Set("loan_type", "livestock")
	require.NoError(t, store.Save(ctx, sess))

	got, created, err := store.GetOrCreate(ctx, sid, phone)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, ussd.StateLoanApplication, got.State)
	assert.Equal(t, "livestock", got.Get("loan_type"))

	require.NoError(t, store.Delete(ctx, sid))
	count, err := store.CountLiveForPhone(ctx, phone)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisStoreSaveConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := ussd.NewRedisStore(newRedisClient(t), ussd.DefaultConfig())

	sid := "sid-" + uuid.NewString()
	phone := "+2547" + uuid.NewString()[:8]

	first, _, err := store.GetOrCreate(ctx, sid, phone)
	require.NoError(t, err)
	second, _, err := store.GetOrCreate(ctx, sid, phone)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, first))
	assert.ErrorIs(t, store.Save(ctx, second), ussd.ErrConflict)

	require.NoError(t, store.Delete(ctx, sid))
}

func TestRedisStorePhoneCap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := ussd.DefaultConfig()
	cfg.MaxSessionsPerPhone = 2
	store := ussd.NewRedisStore(newRedisClient(t), cfg)

	phone := "+2547" + uuid.NewString()[:8]
	sids := make([]string, 3)
	for i := range sids {
		sids[i] = fmt.Sprintf("sid-%d-%s", i, uuid.NewString())
		_, created, err := store.GetOrCreate(ctx, sids[i], phone)
		require.NoError(t, err)
		assert.True(t, created)
		time.Sleep(5 * time.Millisecond) // distinct activity scores
	}

	count, err := store.CountLiveForPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The first session was the least recently active and is gone.
	_, created, err := store.GetOrCreate(ctx, sids[0], phone)
	require.NoError(t, err)
	assert.True(t, created)

	for _, sid := range sids {
		require.NoError(t, store.Delete(ctx, sid))
	}
}

func TestRedisStoreLanguagePreference(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := ussd.NewRedisStore(newRedisClient(t), ussd.DefaultConfig())

	phone := "+2547" + uuid.NewString()[:8]
	require.NoError(t, store.SetLanguage(ctx, phone, "sw"))

	lang, err := store.Language(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "sw", lang)

	sid := "sid-" + uuid.NewString()
	sess, _, err := store.GetOrCreate(ctx, sid, phone)
	require.NoError(t, err)
	assert.Equal(t, "sw", sess.Language)
	assert.Equal(t, ussd.StateMainMenu, sess.State)

	require.NoError(t, store.Delete(ctx, sid))
}
