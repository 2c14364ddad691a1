package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/heysubinoy/solardb/pkg/kv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_Contract(t *testing.T) {
	testStoreContract(t, func(t *testing.T) kv.Store {
		s, _ := newTestRedisStore(t)
		return s
	})
}

func TestRedisStore_WritesNativeStructures(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	err := kv.Atomic(ctx, s, func(tx kv.Tx) error {
		tx.HSet("app:sites:info:1", map[string]string{"id": "1", "city": "Oakland"})
		tx.SAdd("app:sites:ids", "1")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Oakland", mr.HGet("app:sites:info:1", "city"))
	members, err := mr.Members("app:sites:ids")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)
}

func TestRedisStore_TransportErrorPropagates(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)
	mr.Close()

	_, err := s.SMembers(ctx, "app:sites:ids")
	assert.Error(t, err)
}
