package worker

import (
	"context"
	"log"
	"time"
)

// CounterStore is the slice of the store the reconciler needs.
type CounterStore interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// Reconciler periodically recomputes the per-job derived counters from
// live row counts. The counters are maintained transactionally, so in
// the normal case this finds nothing; it exists to repair drift left
// by crashes or out-of-band edits.
type Reconciler struct {
	store    CounterStore
	interval time.Duration
}

// New creates a new Reconciler.
func New(store CounterStore, interval time.Duration) *Reconciler {
	return &Reconciler{store: store, interval: interval}
}

// Run starts the reconciliation loop until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	log.Printf("reconciler started, running every %s", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("reconciler shutting down")
			return
		case <-ticker.C:
			r.Reconcile(ctx)
		}
	}
}

// Reconcile runs one reconciliation pass, logging what it repaired.
func (r *Reconciler) Reconcile(ctx context.Context) {
	fixed, err := r.store.ReconcileCounters(ctx)
	if err != nil {
		log.Printf("reconcile error: %v", err)
		return
	}
	if fixed > 0 {
		log.Printf("reconciled counters on %d jobs", fixed)
	}
}
