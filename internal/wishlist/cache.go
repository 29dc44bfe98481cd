package wishlist

import (
	"context"
	"sync"

	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// CacheParams groups dependencies for the wishlist cache.
type CacheParams struct {
	Backend   Backend
	Snapshots SnapshotStore
	Logger    *logger.Logger
	Metrics   *metrics.SessionMetrics
}

// Cache is the process-wide wishlist cache. It holds the membership set and
// entry list for exactly one user key at a time; a request carrying a
// different key invalidates everything and starts over. Concurrent loads for
// the same key collapse into a single backend fetch.
type Cache struct {
	mu        sync.Mutex
	loadedFor string
	state     State
	set       map[string]struct{}
	list      []Entry

	group   singleflight.Group
	subs    map[int]func(ChangeEvent)
	nextSub int

	backend   Backend
	snapshots SnapshotStore
	logg      *logger.Logger
	metrics   *metrics.SessionMetrics
}

// NewCache builds the wishlist cache.
func NewCache(params CacheParams) (*Cache, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist backend is required")
	}
	return &Cache{
		state:     StateEmpty,
		set:       make(map[string]struct{}),
		subs:      make(map[int]func(ChangeEvent)),
		backend:   params.Backend,
		snapshots: params.Snapshots,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// State reports the current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Entries returns a copy of the cached entry list.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneEntries(c.list)
}

// SeedFromSnapshot primes the membership set from durable storage so Has can
// answer before the first backend load. A missing or failing snapshot leaves
// the cache empty.
func (c *Cache) SeedFromSnapshot(ctx context.Context, userKey string) {
	if c.snapshots == nil || userKey == "" {
		return
	}
	snap, ok, err := c.snapshots.Load(ctx, userKey)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithUserKey(ctx, userKey), "wishlist snapshot load failed, skipping seed")
		}
		return
	}
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureIdentityLocked(userKey)
	if c.state != StateEmpty {
		// a live load or loaded set outranks the snapshot
		return
	}
	c.set = make(map[string]struct{}, len(snap.Keys))
	for _, key := range snap.Keys {
		c.set[key] = struct{}{}
	}
	c.list = cloneEntries(snap.Entries)
	c.state = StateSeeded
}

// EnsureLoaded returns the user's wishlist, fetching from the backend unless
// a loaded non-empty list for the same user key is already cached. Concurrent
// callers share one in-flight fetch. Backend failure yields an empty list,
// never an error; the next call retries.
func (c *Cache) EnsureLoaded(ctx context.Context, userKey string) []Entry {
	if userKey == "" {
		return []Entry{}
	}

	c.mu.Lock()
	c.ensureIdentityLocked(userKey)
	if c.state == StateLoaded && len(c.list) > 0 {
		entries := cloneEntries(c.list)
		c.mu.Unlock()
		c.metrics.IncWishlistHit()
		return entries
	}
	if c.state != StateLoading {
		c.state = StateLoading
	}
	c.mu.Unlock()

	result, _, _ := c.group.Do(userKey, func() (any, error) {
		// one miss per load, however many callers collapsed into it
		c.metrics.IncWishlistMiss()
		c.metrics.IncWishlistLoad()
		entries, err := c.backend.FetchWishlist(ctx, userKey)
		if err != nil {
			if c.logg != nil {
				c.logg.Warn(c.logg.WithUserKey(ctx, userKey), "wishlist fetch failed, serving empty list")
			}
			entries = []Entry{}
		}
		c.install(ctx, userKey, entries)
		return entries, nil
	})

	entries, ok := result.([]Entry)
	if !ok {
		return []Entry{}
	}
	return cloneEntries(entries)
}

// install commits a fetch result, unless the cache has moved to a different
// user key while the fetch was in flight.
func (c *Cache) install(ctx context.Context, userKey string, entries []Entry) {
	c.mu.Lock()
	if c.loadedFor != userKey {
		c.mu.Unlock()
		return
	}
	c.set = make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		for _, key := range entry.memberKeys() {
			c.set[key] = struct{}{}
		}
	}
	c.list = cloneEntries(entries)
	c.state = StateLoaded
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, userKey, snap)
}

// Has reports whether the product is wishlisted, checked by slug and then by
// numeric id. It never triggers a fetch; unseeded or mismatched user keys
// answer false.
func (c *Cache) Has(userKey, slug string, id *int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadedFor != userKey || c.state == StateEmpty {
		return false
	}
	if slug != "" {
		if _, ok := c.set[slug]; ok {
			return true
		}
	}
	if id != nil {
		if _, ok := c.set[idKey(*id)]; ok {
			return true
		}
	}
	return false
}

// Add optimistically records the entry, persists the snapshot, notifies
// subscribers, then syncs with the backend. A backend failure rolls the local
// state back and re-notifies.
func (c *Cache) Add(ctx context.Context, userKey string, entry Entry) error {
	if userKey == "" || entry.Slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user key and slug are required")
	}

	c.mu.Lock()
	c.ensureIdentityLocked(userKey)
	for _, key := range entry.memberKeys() {
		c.set[key] = struct{}{}
	}
	if !containsSlug(c.list, entry.Slug) {
		c.list = append(c.list, entry)
	}
	if c.state == StateEmpty {
		c.state = StateSeeded
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, userKey, snap)
	c.broadcast(ChangeEvent{UserKey: userKey, Slug: entry.Slug, ID: entry.ID, Added: true})

	if err := c.backend.AddEntry(ctx, userKey, entry.Slug); err != nil {
		c.rollbackAdd(ctx, userKey, entry)
		return err
	}
	return nil
}

// Remove optimistically drops the entry, persists, notifies subscribers, then
// syncs with the backend. A backend failure restores the entry. The optional
// id covers the seeded-set-without-list state, where the entry is absent from
// c.list and its member keys cannot be recovered from it.
func (c *Cache) Remove(ctx context.Context, userKey, slug string, id *int64) error {
	if userKey == "" || slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user key and slug are required")
	}

	c.mu.Lock()
	c.ensureIdentityLocked(userKey)
	var removed *Entry
	kept := c.list[:0]
	for _, entry := range c.list {
		if entry.Slug == slug && removed == nil {
			dropped := entry
			removed = &dropped
			continue
		}
		kept = append(kept, entry)
	}
	c.list = kept
	if removed == nil {
		removed = &Entry{Slug: slug, ID: id}
	} else if removed.ID == nil {
		removed.ID = id
	}
	for _, key := range removed.memberKeys() {
		delete(c.set, key)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, userKey, snap)
	c.broadcast(ChangeEvent{UserKey: userKey, Slug: slug, ID: removed.ID, Added: false})

	if err := c.backend.RemoveEntry(ctx, userKey, slug); err != nil {
		c.rollbackRemove(ctx, userKey, *removed)
		return err
	}
	return nil
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners run synchronously on the mutating goroutine.
func (c *Cache) Subscribe(fn func(ChangeEvent)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// ensureIdentityLocked resets the cache when the user key changes. Callers
// hold c.mu.
func (c *Cache) ensureIdentityLocked(userKey string) {
	if c.loadedFor == userKey {
		return
	}
	c.loadedFor = userKey
	c.state = StateEmpty
	c.set = make(map[string]struct{})
	c.list = nil
}

func (c *Cache) snapshotLocked() Snapshot {
	keys := make([]string, 0, len(c.set))
	for key := range c.set {
		keys = append(keys, key)
	}
	return Snapshot{Keys: keys, Entries: cloneEntries(c.list)}
}

func (c *Cache) persist(ctx context.Context, userKey string, snap Snapshot) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(ctx, userKey, snap); err != nil && c.logg != nil {
		c.logg.Error(c.logg.WithUserKey(ctx, userKey), "wishlist snapshot save failed", err)
	}
}

func (c *Cache) broadcast(event ChangeEvent) {
	c.mu.Lock()
	listeners := make([]func(ChangeEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

func (c *Cache) rollbackAdd(ctx context.Context, userKey string, entry Entry) {
	c.mu.Lock()
	if c.loadedFor != userKey {
		c.mu.Unlock()
		return
	}
	kept := c.list[:0]
	for _, existing := range c.list {
		if existing.Slug == entry.Slug {
			continue
		}
		kept = append(kept, existing)
	}
	c.list = kept
	for _, key := range entry.memberKeys() {
		delete(c.set, key)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, userKey, snap)
	c.broadcast(ChangeEvent{UserKey: userKey, Slug: entry.Slug, ID: entry.ID, Added: false})
}

func (c *Cache) rollbackRemove(ctx context.Context, userKey string, entry Entry) {
	c.mu.Lock()
	if c.loadedFor != userKey {
		c.mu.Unlock()
		return
	}
	for _, key := range entry.memberKeys() {
		c.set[key] = struct{}{}
	}
	if !containsSlug(c.list, entry.Slug) {
		c.list = append(c.list, entry)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, userKey, snap)
	c.broadcast(ChangeEvent{UserKey: userKey, Slug: entry.Slug, ID: entry.ID, Added: true})
}

func containsSlug(entries []Entry, slug string) bool {
	for _, entry := range entries {
		if entry.Slug == slug {
			return true
		}
	}
	return false
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		clone := entry
		if entry.ID != nil {
			id := *entry.ID
			clone.ID = &id
		}
		if entry.ProductID != nil {
			pid := *entry.ProductID
			clone.ProductID = &pid
		}
		if entry.Price != nil {
			price := *entry.Price
			clone.Price = &price
		}
		out[i] = clone
	}
	return out
}
