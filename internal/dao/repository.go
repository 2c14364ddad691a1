// Package dao persists sites into a key-value store.
//
// Each site is stored as a hash at KeySchema.SiteHashKey(id), and its ID is
// added to the set at KeySchema.SiteIDsKey(). The set is the only way to
// enumerate sites, so both writes are always issued together.
package dao

import (
	"context"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/heysubinoy/solardb/internal/keyschema"
	"github.com/heysubinoy/solardb/internal/site"
	"github.com/heysubinoy/solardb/pkg/kv"
)

// SiteRepository reads and writes sites. It does not own the store.
type SiteRepository struct {
	store  kv.Store
	keys   keyschema.KeySchema
	logger hclog.Logger
}

// Option configures a SiteRepository.
type Option func(*SiteRepository)

// WithLogger sets the repository logger.
func WithLogger(logger hclog.Logger) Option {
	return func(r *SiteRepository) {
		r.logger = logger
	}
}

// New creates a repository over store using keys for key derivation.
func New(store kv.Store, keys keyschema.KeySchema, opts ...Option) *SiteRepository {
	r := &SiteRepository{
		store:  store,
		keys:   keys,
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert writes s in its own transaction: the hash and the index entry
// become visible together. Re-inserting an ID overwrites every field.
func (r *SiteRepository) Insert(ctx context.Context, s site.Site) error {
	return kv.Atomic(ctx, r.store, func(tx kv.Tx) error {
		r.upsert(tx, s)
		return nil
	})
}

// InsertTx queues the writes for s on tx. Nothing is stored until the
// caller executes tx.
func (r *SiteRepository) InsertTx(tx kv.Tx, s site.Site) {
	r.upsert(tx, s)
}

// InsertMany inserts each site in its own transaction. If one fails, the
// sites before it stay committed and the rest are not attempted.
// Use InsertManyTx for all-or-nothing semantics.
func (r *SiteRepository) InsertMany(ctx context.Context, sites ...site.Site) error {
	for _, s := range sites {
		if err := r.Insert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// InsertManyTx queues every site on tx, so they commit together.
func (r *SiteRepository) InsertManyTx(tx kv.Tx, sites ...site.Site) {
	for _, s := range sites {
		r.upsert(tx, s)
	}
}

// InsertManyAtomic inserts all sites in one transaction owned by the
// repository: either every site is stored or none is.
func (r *SiteRepository) InsertManyAtomic(ctx context.Context, sites ...site.Site) error {
	return kv.Atomic(ctx, r.store, func(tx kv.Tx) error {
		r.InsertManyTx(tx, sites...)
		return nil
	})
}

// upsert is the single place both keys of a site are written.
func (r *SiteRepository) upsert(tx kv.Tx, s site.Site) {
	tx.HSet(r.keys.SiteHashKey(s.ID), site.Dump(s))
	tx.SAdd(r.keys.SiteIDsKey(), strconv.FormatInt(s.ID, 10))
	r.logger.Debug("queued site write", "id", s.ID)
}

// FindByID loads one site. The hash alone decides existence; the index is
// not consulted.
func (r *SiteRepository) FindByID(ctx context.Context, id int64) (site.Site, error) {
	fields, err := r.store.HGetAll(ctx, r.keys.SiteHashKey(id))
	if err != nil {
		return site.Site{}, err
	}
	if len(fields) == 0 {
		return site.Site{}, &NotFoundError{ID: id}
	}
	return site.Load(fields)
}

// FindAll loads every indexed site, keyed by ID.
//
// The index is read first and each hash afterwards, without a transaction,
// so concurrent writers can be observed mid-way. An indexed ID whose hash is
// empty is reported as a *ConsistencyError rather than skipped.
func (r *SiteRepository) FindAll(ctx context.Context) (map[int64]site.Site, error) {
	members, err := r.store.SMembers(ctx, r.keys.SiteIDsKey())
	if err != nil {
		return nil, err
	}

	sites := make(map[int64]site.Site, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			r.logger.Warn("malformed site index member", "member", member)
			return nil, &ConsistencyError{Member: member}
		}

		key := r.keys.SiteHashKey(id)
		fields, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			r.logger.Warn("indexed site has no data", "id", id, "key", key)
			return nil, &ConsistencyError{Member: member, Key: key}
		}

		s, err := site.Load(fields)
		if err != nil {
			return nil, err
		}
		if s.ID != id {
			r.logger.Warn("site hash holds another id", "key", key, "id", s.ID)
			return nil, &ConsistencyError{Member: member, Key: key}
		}
		sites[id] = s
	}
	return sites, nil
}
