package wishlist

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/redis"
)

// Snapshot is the durable form of a user's wishlist: the membership keys plus
// the ordered entry list. The set is stored separately so a future membership
// seed can skip decoding the full list.
type Snapshot struct {
	Keys    []string `json:"keys"`
	Entries []Entry  `json:"entries"`
}

// SnapshotStore persists wishlist state between visits.
type SnapshotStore interface {
	Save(ctx context.Context, userKey string, snap Snapshot) error
	Load(ctx context.Context, userKey string) (Snapshot, bool, error)
	Drop(ctx context.Context, userKey string) error
}

// RedisSnapshots stores each user's wishlist under two keys, one for the
// membership set and one for the entry list.
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshots builds the snapshot store. A zero TTL keeps snapshots
// forever.
func NewRedisSnapshots(client *redis.Client, ttl time.Duration) (*RedisSnapshots, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	return &RedisSnapshots{client: client, ttl: ttl}, nil
}

// Save writes both the membership set and the entry list.
func (r *RedisSnapshots) Save(ctx context.Context, userKey string, snap Snapshot) error {
	if snap.Keys == nil {
		snap.Keys = []string{}
	}
	if snap.Entries == nil {
		snap.Entries = []Entry{}
	}

	keysPayload, err := json.Marshal(snap.Keys)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal wishlist set")
	}
	listPayload, err := json.Marshal(snap.Entries)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal wishlist list")
	}

	if err := r.client.Set(ctx, r.client.WishlistSetKey(userKey), string(keysPayload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist set")
	}
	if err := r.client.Set(ctx, r.client.WishlistListKey(userKey), string(listPayload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist list")
	}
	return nil
}

// Load reads the persisted wishlist. The second return reports whether a
// snapshot existed.
func (r *RedisSnapshots) Load(ctx context.Context, userKey string) (Snapshot, bool, error) {
	var snap Snapshot

	rawKeys, err := r.client.Get(ctx, r.client.WishlistSetKey(userKey))
	if err != nil {
		if redis.IsNil(err) {
			return snap, false, nil
		}
		return snap, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist set")
	}
	if err := json.Unmarshal([]byte(rawKeys), &snap.Keys); err != nil {
		return Snapshot{}, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode wishlist set")
	}

	rawList, err := r.client.Get(ctx, r.client.WishlistListKey(userKey))
	if err != nil {
		if redis.IsNil(err) {
			// membership set survives without the list; entries refill on
			// the next backend load
			return snap, true, nil
		}
		return Snapshot{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist list")
	}
	if err := json.Unmarshal([]byte(rawList), &snap.Entries); err != nil {
		return Snapshot{}, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode wishlist list")
	}
	return snap, true, nil
}

// Drop removes both keys for the user.
func (r *RedisSnapshots) Drop(ctx context.Context, userKey string) error {
	if err := r.client.Del(ctx, r.client.WishlistSetKey(userKey), r.client.WishlistListKey(userKey)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop wishlist snapshot")
	}
	return nil
}
