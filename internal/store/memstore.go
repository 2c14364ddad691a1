package store

import (
	"context"
	"sync"

	"github.com/heysubinoy/solardb/pkg/kv"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// Hashes and sets live in maps protected by a RWMutex; a batch is applied
// under a single write lock, so readers never observe half of it.
type MemStore struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	sets   map[string]map[string]struct{}
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new MemStore instance.
func NewMemStore() *MemStore {
	return &MemStore{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]struct{}),
	}
}

// HSet overwrites the given fields of a hash.
func (s *MemStore) HSet(_ context.Context, key string, fields map[string]string) error {
	return s.Apply([]Command{{Op: OpHSet, Key: key, Fields: fields}})
}

// HGetAll returns a copy of the hash at key, or an empty map.
func (s *MemStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyFields(s.hashes[key]), nil
}

// SAdd adds members to a set.
func (s *MemStore) SAdd(_ context.Context, key string, members ...string) error {
	return s.Apply([]Command{{Op: OpSAdd, Key: key, Members: members}})
}

// SMembers lists the set at key.
func (s *MemStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

// TxPipeline returns a batch applied through Apply.
func (s *MemStore) TxPipeline() kv.Tx {
	return newBatch(func(_ context.Context, cmds []Command) error {
		return s.Apply(cmds)
	})
}

// Apply validates every command and then applies them all under one lock.
// If any command is invalid nothing is written.
func (s *MemStore) Apply(cmds []Command) error {
	for _, c := range cmds {
		if err := c.validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cmds {
		switch c.Op {
		case OpHSet:
			h, ok := s.hashes[c.Key]
			if !ok {
				h = make(map[string]string, len(c.Fields))
				s.hashes[c.Key] = h
			}
			for f, v := range c.Fields {
				h[f] = v
			}
		case OpSAdd:
			set, ok := s.sets[c.Key]
			if !ok {
				set = make(map[string]struct{}, len(c.Members))
				s.sets[c.Key] = set
			}
			for _, m := range c.Members {
				set[m] = struct{}{}
			}
		}
	}
	return nil
}

// memState is the serialisable form of a MemStore, used for Raft snapshots.
type memState struct {
	Hashes map[string]map[string]string `json:"hashes"`
	Sets   map[string][]string          `json:"sets"`
}

func (s *MemStore) state() memState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := memState{
		Hashes: make(map[string]map[string]string, len(s.hashes)),
		Sets:   make(map[string][]string, len(s.sets)),
	}
	for k, h := range s.hashes {
		st.Hashes[k] = copyFields(h)
	}
	for k, set := range s.sets {
		members := make([]string, 0, len(set))
		for m := range set {
			members = append(members, m)
		}
		st.Sets[k] = members
	}
	return st
}

func (s *MemStore) restore(st memState) {
	hashes := make(map[string]map[string]string, len(st.Hashes))
	for k, h := range st.Hashes {
		hashes[k] = copyFields(h)
	}
	sets := make(map[string]map[string]struct{}, len(st.Sets))
	for k, members := range st.Sets {
		set := make(map[string]struct{}, len(members))
		for _, m := range members {
			set[m] = struct{}{}
		}
		sets[k] = set
	}

	s.mu.Lock()
	s.hashes = hashes
	s.sets = sets
	s.mu.Unlock()
}
