package store

import (
	"context"
	"testing"

	"github.com/heysubinoy/solardb/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_Contract(t *testing.T) {
	testStoreContract(t, func(t *testing.T) kv.Store { return NewInstrumentedStore(NewMemStore()) })
}

func TestInstrumentedStore_Counts(t *testing.T) {
	ctx := context.Background()
	s := NewInstrumentedStore(NewMemStore())

	require.NoError(t, s.HSet(ctx, "h", map[string]string{"a": "1"}))
	_, err := s.HGetAll(ctx, "h")
	require.NoError(t, err)
	_, err = s.HGetAll(ctx, "h")
	require.NoError(t, err)
	require.NoError(t, s.SAdd(ctx, "s", "1"))
	_, err = s.SMembers(ctx, "s")
	require.NoError(t, err)

	tx := s.TxPipeline()
	tx.SAdd("", "1")
	require.Error(t, tx.Exec(ctx))

	m := s.GetMetrics()
	assert.Equal(t, uint64(1), m.HSet.Count)
	assert.Equal(t, uint64(2), m.HGetAll.Count)
	assert.Equal(t, uint64(1), m.SAdd.Count)
	assert.Equal(t, uint64(1), m.SMembers.Count)
	assert.Equal(t, uint64(1), m.Exec.Count)
	assert.Equal(t, uint64(1), m.Exec.Errors)

	s.ResetMetrics()
	assert.Equal(t, MetricsSnapshot{}, s.GetMetrics())
}
