// Package worker runs the reconciliation side of the recalculation engine:
// it consumes deferred recalc messages and periodically sweeps every
// commitment so derived fields converge even when messages are lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/services"
)

// ReconcilerConfig holds configuration for the reconciliation worker.
type ReconcilerConfig struct {
	// SweepInterval is how often the full sweep runs (default: 5m)
	SweepInterval time.Duration

	// BatchSize caps how many commitments one sweep cycle touches (default: 50)
	BatchSize int
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		SweepInterval: 5 * time.Minute,
		BatchSize:     50,
	}
}

// RecalcConsumer is the queue side the reconciler listens on.
type RecalcConsumer interface {
	ConsumeRecalc(ctx context.Context, handler func(*amqp.RecalcMessage) error) error
}

// Reconciler heals commitment derived fields. Recalculation is idempotent,
// so sweeping a commitment that is already consistent is harmless.
type Reconciler struct {
	commitments services.CommitmentStore
	recalc      *services.Recalculator
	consumer    RecalcConsumer
	config      ReconcilerConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewReconciler(
	commitments services.CommitmentStore,
	recalc *services.Recalculator,
	consumer RecalcConsumer,
	config ReconcilerConfig,
) *Reconciler {
	return &Reconciler{
		commitments: commitments,
		recalc:      recalc,
		consumer:    consumer,
		config:      config,
	}
}

// Start launches the consumer loop and the periodic sweep. Returns an error
// if already running.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciler is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	if r.consumer != nil {
		go func() {
			if err := r.consumer.ConsumeRecalc(ctx, func(msg *amqp.RecalcMessage) error {
				return r.recalc.Recalculate(ctx, msg.CommitmentID)
			}); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Recalc consumer stopped", "error", err)
			}
		}()
	}

	slog.InfoContext(ctx, "Reconciler started",
		"sweep_interval", r.config.SweepInterval,
		"batch_size", r.config.BatchSize)

	return nil
}

// Stop gracefully stops the sweep loop and waits for completion.
func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	close(r.stopCh)

	select {
	case <-r.doneCh:
		slog.InfoContext(ctx, "Reconciler stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Reconciler stop timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	return nil
}

func (r *Reconciler) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	// Sweep immediately on startup to repair anything left over from a crash
	r.Sweep(ctx)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep recalculates commitments in batches until the id list is exhausted
// or the worker is told to stop.
func (r *Reconciler) Sweep(ctx context.Context) {
	ids, err := r.commitments.ListCommitmentIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list commitments for sweep", "error", err)
		return
	}

	var healed, failed int
	for i, id := range ids {
		if i > 0 && i%r.config.BatchSize == 0 {
			select {
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			default:
			}
		}

		if err := r.recalc.Recalculate(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Sweep recalculation failed",
				"commitment_id", id, "error", err)
			failed++
			continue
		}
		healed++
	}

	slog.InfoContext(ctx, "Reconciliation sweep completed",
		"total", len(ids),
		"recalculated", healed,
		"failed", failed)
}
