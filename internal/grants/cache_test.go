package grants

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	set   GrantSet
	calls int
}

func (l *countingLoader) Load(ctx context.Context, tokenID string) (GrantSet, error) {
	l.calls++
	return l.set, nil
}

func TestCacheLoadsThroughOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{set: GrantSet{
		WeddingIDs:  []string{"wed-a"},
		Permissions: []Grant{{Resource: "tavoli", Operation: OperationRead}},
	}}
	cache := NewCache(client, time.Minute, loader)

	for i := 0; i < 3; i++ {
		set, err := cache.Load(context.Background(), "tok-1")
		require.NoError(t, err)
		require.Equal(t, []string{"wed-a"}, set.WeddingIDs)
		require.True(t, set.Allows("tavoli", OperationRead))
	}
	require.Equal(t, 1, loader.calls)
}

func TestCacheExpiryReloads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{set: GrantSet{WeddingIDs: []string{"wed-a"}}}
	cache := NewCache(client, time.Second, loader)

	_, err := cache.Load(context.Background(), "tok-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = cache.Load(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, 2, loader.calls)
}

func TestCacheInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{set: GrantSet{WeddingIDs: []string{"wed-a"}}}
	cache := NewCache(client, time.Minute, loader)

	_, err := cache.Load(context.Background(), "tok-1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), "tok-1"))

	_, err = cache.Load(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, 2, loader.calls)
}

func TestCacheWithoutClientDelegates(t *testing.T) {
	loader := &countingLoader{set: GrantSet{WeddingIDs: []string{"wed-a"}}}
	cache := NewCache(nil, time.Minute, loader)

	_, err := cache.Load(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)
}
