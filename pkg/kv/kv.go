package kv

import "context"

// Store defines the hash and set commands the site repository needs from a
// key-value backend. Implementations can be swapped out (in-memory,
// Raft-replicated, Redis) without touching the callers.
type Store interface {
	// HSet overwrites the given fields of the hash at key, creating it if absent.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// HGetAll returns every field of the hash at key.
	// A missing hash yields an empty, non-nil map and no error.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// SAdd adds members to the set at key, creating it if absent.
	SAdd(ctx context.Context, key string, members ...string) error

	// SMembers returns the members of the set at key, in no particular order.
	// A missing set yields an empty slice and no error.
	SMembers(ctx context.Context, key string) ([]string, error)

	// TxPipeline opens a batch whose queued writes commit together.
	TxPipeline() Tx
}

// Tx queues write commands and applies them as one unit.
// A Tx must end with exactly one call to Exec or Discard.
type Tx interface {
	HSet(key string, fields map[string]string)
	SAdd(key string, members ...string)

	// Exec commits every queued command atomically, or none of them.
	Exec(ctx context.Context) error

	// Discard drops the queued commands. Calling it after Exec is a no-op.
	Discard()
}

// Atomic runs fn inside a fresh transaction on s. The queued writes are
// committed when fn returns nil and discarded when it returns an error or panics.
func Atomic(ctx context.Context, s Store, fn func(tx Tx) error) error {
	tx := s.TxPipeline()
	committed := false
	defer func() {
		if !committed {
			tx.Discard()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	committed = true
	return tx.Exec(ctx)
}
