package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReconcileCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics(reg)

	m.ObserveReconcile(50*time.Millisecond, 2, nil)
	m.ObserveReconcile(10*time.Millisecond, 0, errors.New("promo fetch failed"))

	if got := testutil.ToFloat64(m.reconcileSuccess); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.reconcileFailure); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.giftsInjected); got != 2 {
		t.Fatalf("expected 2 gifts, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewSessionMetrics(nil)
	m.ObserveReconcile(time.Millisecond, 1, nil)
	m.IncWishlistHit()
	m.IncWishlistMiss()
	m.IncWishlistLoad()

	var zero *SessionMetrics
	zero.IncWishlistHit()
}
