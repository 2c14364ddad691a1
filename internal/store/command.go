package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/heysubinoy/solardb/pkg/kv"
)

// Command ops.
const (
	OpHSet = "hset"
	OpSAdd = "sadd"
)

// ErrTxDone is returned by Exec on a batch that was already executed or discarded.
var ErrTxDone = errors.New("store: transaction already finished")

// Command represents one write, either queued in a batch or carried in a Raft log entry.
type Command struct {
	Op      string            `json:"op"`
	Key     string            `json:"key"`
	Fields  map[string]string `json:"fields,omitempty"`
	Members []string          `json:"members,omitempty"`
}

func (c Command) validate() error {
	switch c.Op {
	case OpHSet, OpSAdd:
	default:
		return fmt.Errorf("store: unknown op %q", c.Op)
	}
	if c.Key == "" {
		return fmt.Errorf("store: %s with empty key", c.Op)
	}
	return nil
}

// batch is a kv.Tx that buffers commands and hands them to commit on Exec.
// It is shared by every backend that can apply a command list atomically.
type batch struct {
	mu     sync.Mutex
	cmds   []Command
	done   bool
	commit func(ctx context.Context, cmds []Command) error
}

var _ kv.Tx = (*batch)(nil)

func newBatch(commit func(ctx context.Context, cmds []Command) error) *batch {
	return &batch{commit: commit}
}

func (b *batch) HSet(key string, fields map[string]string) {
	b.queue(Command{Op: OpHSet, Key: key, Fields: copyFields(fields)})
}

func (b *batch) SAdd(key string, members ...string) {
	b.queue(Command{Op: OpSAdd, Key: key, Members: append([]string(nil), members...)})
}

func (b *batch) queue(c Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.done {
		b.cmds = append(b.cmds, c)
	}
}

func (b *batch) Exec(ctx context.Context) error {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return ErrTxDone
	}
	b.done = true
	cmds := b.cmds
	b.cmds = nil
	b.mu.Unlock()

	if len(cmds) == 0 {
		return nil
	}
	return b.commit(ctx, cmds)
}

func (b *batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done = true
	b.cmds = nil
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
