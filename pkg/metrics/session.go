package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics records cart reconciliation and wishlist cache activity.
type SessionMetrics struct {
	reconcileDuration prometheus.Histogram
	reconcileSuccess  prometheus.Counter
	reconcileFailure  prometheus.Counter
	giftsInjected     prometheus.Counter

	wishlistHits   prometheus.Counter
	wishlistMisses prometheus.Counter
	wishlistLoads  prometheus.Counter
}

// NewSessionMetrics registers the session metrics on the provided registerer.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	if reg == nil {
		return &SessionMetrics{}
	}
	reconcileDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_reconcile_duration_seconds",
		Help:    "Duration of gift reconciliation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reconcileSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reconcile_success",
		Help: "Completed gift reconciliation passes.",
	})
	reconcileFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reconcile_failure",
		Help: "Gift reconciliation passes that fell back to no gifts.",
	})
	giftsInjected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_gifts_injected",
		Help: "Gift line items injected by reconciliation.",
	})
	wishlistHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_cache_hits",
		Help: "Wishlist loads served from the in-memory cache.",
	})
	wishlistMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_cache_misses",
		Help: "Wishlist loads that required a backend fetch.",
	})
	wishlistLoads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_backend_loads",
		Help: "Wishlist fetches issued to the commerce backend.",
	})
	reg.MustRegister(reconcileDuration, reconcileSuccess, reconcileFailure, giftsInjected, wishlistHits, wishlistMisses, wishlistLoads)
	return &SessionMetrics{
		reconcileDuration: reconcileDuration,
		reconcileSuccess:  reconcileSuccess,
		reconcileFailure:  reconcileFailure,
		giftsInjected:     giftsInjected,
		wishlistHits:      wishlistHits,
		wishlistMisses:    wishlistMisses,
		wishlistLoads:     wishlistLoads,
	}
}

// ObserveReconcile records one reconciliation pass.
func (m *SessionMetrics) ObserveReconcile(duration time.Duration, gifts int, err error) {
	if m == nil || m.reconcileDuration == nil {
		return
	}
	m.reconcileDuration.Observe(duration.Seconds())
	if err != nil {
		m.reconcileFailure.Inc()
		return
	}
	m.reconcileSuccess.Inc()
	m.giftsInjected.Add(float64(gifts))
}

// IncWishlistHit counts a cache hit.
func (m *SessionMetrics) IncWishlistHit() {
	if m == nil || m.wishlistHits == nil {
		return
	}
	m.wishlistHits.Inc()
}

// IncWishlistMiss counts a cache miss.
func (m *SessionMetrics) IncWishlistMiss() {
	if m == nil || m.wishlistMisses == nil {
		return
	}
	m.wishlistMisses.Inc()
}

// IncWishlistLoad counts a backend fetch.
func (m *SessionMetrics) IncWishlistLoad() {
	if m == nil || m.wishlistLoads == nil {
		return
	}
	m.wishlistLoads.Inc()
}
