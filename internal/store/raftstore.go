package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/raft"
	"github.com/heysubinoy/solardb/pkg/kv"
)

// DefaultApplyTimeout bounds how long a write waits to be enqueued by Raft.
const DefaultApplyTimeout = 5 * time.Second

// raftEntry is the payload of one Raft log entry. Every command in it is
// applied by the FSM in a single step, which is what makes a Tx atomic
// across the cluster.
type raftEntry struct {
	Commands []Command `json:"commands"`
}

// RaftStore replicates writes through Raft and serves reads from the local
// MemStore. It is both the raft.FSM and the kv.Store of a node.
type RaftStore struct {
	store        *MemStore
	raft         *raft.Raft
	applyTimeout time.Duration
}

var (
	_ kv.Store = (*RaftStore)(nil)
	_ raft.FSM = (*RaftStore)(nil)
)

// NewRaftStore creates a RaftStore over store. The Raft instance is attached
// later with SetRaft, since raft.NewRaft needs the FSM first.
func NewRaftStore(store *MemStore) *RaftStore {
	return &RaftStore{store: store, applyTimeout: DefaultApplyTimeout}
}

// SetRaft attaches the Raft instance writes are submitted to.
func (rs *RaftStore) SetRaft(r *raft.Raft) {
	rs.raft = r
}

// GetRaft returns the underlying raft.Raft pointer (for API layer leader checks)
func (rs *RaftStore) GetRaft() *raft.Raft {
	return rs.raft
}

// Apply applies a Raft log entry to the local store.
func (rs *RaftStore) Apply(log *raft.Log) interface{} {
	var entry raftEntry
	if err := json.Unmarshal(log.Data, &entry); err != nil {
		return fmt.Errorf("store: decode raft entry: %w", err)
	}
	return rs.store.Apply(entry.Commands)
}

// Snapshot captures the full hash and set state.
func (rs *RaftStore) Snapshot() (raft.FSMSnapshot, error) {
	return &memSnapshot{state: rs.store.state()}, nil
}

// Restore replaces the local state with a snapshot.
func (rs *RaftStore) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var st memState
	if err := json.NewDecoder(rc).Decode(&st); err != nil {
		return fmt.Errorf("store: decode snapshot: %w", err)
	}
	rs.store.restore(st)
	return nil
}

type memSnapshot struct {
	state memState
}

func (n *memSnapshot) Persist(sink raft.SnapshotSink) error {
	if err := json.NewEncoder(sink).Encode(n.state); err != nil {
		sink.Cancel()
		return err
	}
	return sink.Close()
}

func (n *memSnapshot) Release() {}

// HSet submits a single hset command to Raft.
func (rs *RaftStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	return rs.submit(ctx, []Command{{Op: OpHSet, Key: key, Fields: fields}})
}

// SAdd submits a single sadd command to Raft.
func (rs *RaftStore) SAdd(ctx context.Context, key string, members ...string) error {
	return rs.submit(ctx, []Command{{Op: OpSAdd, Key: key, Members: members}})
}

// HGetAll reads directly from the local store.
func (rs *RaftStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return rs.store.HGetAll(ctx, key)
}

// SMembers reads directly from the local store.
func (rs *RaftStore) SMembers(ctx context.Context, key string) ([]string, error) {
	return rs.store.SMembers(ctx, key)
}

// TxPipeline returns a batch submitted to Raft as one log entry.
func (rs *RaftStore) TxPipeline() kv.Tx {
	return newBatch(rs.submit)
}

func (rs *RaftStore) submit(ctx context.Context, cmds []Command) error {
	if rs.raft == nil {
		return fmt.Errorf("store: raft not attached")
	}
	for _, c := range cmds {
		if err := c.validate(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(raftEntry{Commands: cmds})
	if err != nil {
		return fmt.Errorf("store: encode raft entry: %w", err)
	}

	timeout := rs.applyTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	f := rs.raft.Apply(data, timeout)
	if err := f.Error(); err != nil {
		return err
	}
	if err, ok := f.Response().(error); ok && err != nil {
		return err
	}
	return nil
}
