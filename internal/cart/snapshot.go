package cart

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/redis"
)

// RedisSnapshots persists cart snapshots under a session-scoped key.
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

// Save writes the full item list as the session's snapshot.
func (r *RedisSnapshots) Save(ctx context.Context, sessionID string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart snapshot")
	}
	if err := r.client.Set(ctx, r.client.CartSnapshotKey(sessionID), string(payload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Load reads the session's snapshot. A missing key returns an empty cart.
func (r *RedisSnapshots) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	raw, err := r.client.Get(ctx, r.client.CartSnapshotKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return items, nil
}
