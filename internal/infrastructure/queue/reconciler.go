package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/api/metrics"
	"github.com/campusvote/election-system/internal/core/ports"
)

const (
	triggerInterval = "interval"
	triggerQueued   = "trigger"
	triggerManual   = "manual"
)

// Reconciler runs tally reconciliation in the background: on a fixed
// interval, and whenever Trigger is called. Triggers coalesce, so a burst of
// requests while a pass is queued produces a single extra pass. Passes never
// overlap.
type Reconciler struct {
	results  ports.ResultsService
	interval time.Duration
	trigger  chan struct{}
	mu       sync.Mutex
	log      zerolog.Logger
}

// NewReconciler creates a Reconciler. interval <= 0 disables the periodic
// pass; Trigger and RunNow keep working.
func NewReconciler(results ports.ResultsService, interval time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		results:  results,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		log:      log,
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Trigger queues a pass without blocking.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
		metrics.ReconcilePending.Set(1)
	default:
	}
}

// RunNow performs a pass synchronously, waiting for any pass in flight.
func (r *Reconciler) RunNow(ctx context.Context) (*ports.ReconcileReport, error) {
	return r.pass(ctx, triggerManual)
}

func (r *Reconciler) run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_, _ = r.pass(ctx, triggerInterval)
		case <-r.trigger:
			metrics.ReconcilePending.Set(0)
			_, _ = r.pass(ctx, triggerQueued)
		}
	}
}

func (r *Reconciler) pass(ctx context.Context, trigger string) (*ports.ReconcileReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	report, err := r.results.Reconcile(ctx)
	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues(trigger, "error").Inc()
		if ctx.Err() == nil {
			r.log.Error().Err(err).Str("trigger", trigger).Msg("reconciliation failed")
		}
		return nil, err
	}

	metrics.ReconcileRunsTotal.WithLabelValues(trigger, "ok").Inc()
	metrics.ReconcileAdjustedTotal.Add(float64(report.Adjusted))
	return report, nil
}
