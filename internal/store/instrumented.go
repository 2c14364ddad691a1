package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/heysubinoy/solardb/pkg/kv"
)

// opStats holds a call counter and cumulative latency for one command.
// Uses atomic operations for thread-safe updates without locks.
type opStats struct {
	count     atomic.Uint64
	latencyNs atomic.Uint64
	errors    atomic.Uint64
}

func (o *opStats) record(start time.Time, err error) {
	o.count.Add(1)
	o.latencyNs.Add(uint64(time.Since(start).Nanoseconds()))
	if err != nil {
		o.errors.Add(1)
	}
}

func (o *opStats) snapshot() OpSnapshot {
	count := o.count.Load()
	snap := OpSnapshot{Count: count, Errors: o.errors.Load()}
	if count > 0 {
		snap.AvgLatency = time.Duration(o.latencyNs.Load() / count)
	}
	return snap
}

func (o *opStats) reset() {
	o.count.Store(0)
	o.latencyNs.Store(0)
	o.errors.Store(0)
}

// Metrics holds timing statistics for store commands.
type Metrics struct {
	HSet     opStats
	HGetAll  opStats
	SAdd     opStats
	SMembers opStats
	Exec     opStats
}

// InstrumentedStore wraps any kv.Store implementation with timing metrics.
// This pattern works for the in-memory, Raft-backed and Redis stores alike.
type InstrumentedStore struct {
	store   kv.Store
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &Metrics{},
	}
}

// HSet delegates to the wrapped store and records timing.
func (s *InstrumentedStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	start := time.Now()
	err := s.store.HSet(ctx, key, fields)
	s.metrics.HSet.record(start, err)
	return err
}

// HGetAll delegates to the wrapped store and records timing.
func (s *InstrumentedStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	start := time.Now()
	fields, err := s.store.HGetAll(ctx, key)
	s.metrics.HGetAll.record(start, err)
	return fields, err
}

// SAdd delegates to the wrapped store and records timing.
func (s *InstrumentedStore) SAdd(ctx context.Context, key string, members ...string) error {
	start := time.Now()
	err := s.store.SAdd(ctx, key, members...)
	s.metrics.SAdd.record(start, err)
	return err
}

// SMembers delegates to the wrapped store and records timing.
func (s *InstrumentedStore) SMembers(ctx context.Context, key string) ([]string, error) {
	start := time.Now()
	members, err := s.store.SMembers(ctx, key)
	s.metrics.SMembers.record(start, err)
	return members, err
}

// TxPipeline wraps the inner transaction so that Exec is timed.
func (s *InstrumentedStore) TxPipeline() kv.Tx {
	return &instrumentedTx{Tx: s.store.TxPipeline(), stats: &s.metrics.Exec}
}

type instrumentedTx struct {
	kv.Tx
	stats *opStats
}

func (t *instrumentedTx) Exec(ctx context.Context) error {
	start := time.Now()
	err := t.Tx.Exec(ctx)
	t.stats.record(start, err)
	return err
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedStore) GetMetrics() MetricsSnapshot {
	return MetricsSnapshot{
		HSet:     s.metrics.HSet.snapshot(),
		HGetAll:  s.metrics.HGetAll.snapshot(),
		SAdd:     s.metrics.SAdd.snapshot(),
		SMembers: s.metrics.SMembers.snapshot(),
		Exec:     s.metrics.Exec.snapshot(),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	s.metrics.HSet.reset()
	s.metrics.HGetAll.reset()
	s.metrics.SAdd.reset()
	s.metrics.SMembers.reset()
	s.metrics.Exec.reset()
}

// OpSnapshot is a point-in-time view of one command's metrics.
type OpSnapshot struct {
	Count      uint64        `json:"count"`
	Errors     uint64        `json:"errors"`
	AvgLatency time.Duration `json:"avg_latency"`
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	HSet     OpSnapshot `json:"hset"`
	HGetAll  OpSnapshot `json:"hgetall"`
	SAdd     OpSnapshot `json:"sadd"`
	SMembers OpSnapshot `json:"smembers"`
	Exec     OpSnapshot `json:"exec"`
}
