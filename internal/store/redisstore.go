package store

import (
	"context"

	"github.com/heysubinoy/solardb/pkg/kv"
	"github.com/redis/go-redis/v9"
)

// RedisStore adapts a go-redis client to kv.Store. The client's lifecycle
// belongs to the caller.
type RedisStore struct {
	client redis.UniversalClient
}

var _ kv.Store = (*RedisStore)(nil)

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// HSet issues HSET key field value [field value ...].
func (s *RedisStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	return s.client.HSet(ctx, key, fields).Err()
}

// HGetAll issues HGETALL.
func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

// SAdd issues SADD.
func (s *RedisStore) SAdd(ctx context.Context, key string, members ...string) error {
	return s.client.SAdd(ctx, key, toArgs(members)...).Err()
}

// SMembers issues SMEMBERS.
func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}

// TxPipeline queues commands inside MULTI/EXEC.
func (s *RedisStore) TxPipeline() kv.Tx {
	return &redisTx{pipe: s.client.TxPipeline()}
}

type redisTx struct {
	pipe redis.Pipeliner
	done bool
}

var _ kv.Tx = (*redisTx)(nil)

func (t *redisTx) HSet(key string, fields map[string]string) {
	t.pipe.HSet(context.Background(), key, fields)
}

func (t *redisTx) SAdd(key string, members ...string) {
	t.pipe.SAdd(context.Background(), key, toArgs(members)...)
}

func (t *redisTx) Exec(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if t.pipe.Len() == 0 {
		return nil
	}
	_, err := t.pipe.Exec(ctx)
	return err
}

func (t *redisTx) Discard() {
	if t.done {
		return
	}
	t.done = true
	t.pipe.Discard()
}

func toArgs(members []string) []interface{} {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return args
}
