package worker

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// sweepStore implements just enough of the store interfaces for the sweep:
// the embedded interfaces cover the methods the reconciler never calls.
type sweepStore struct {
	services.CommitmentStore
	services.EventStore

	mu          sync.Mutex
	commitments map[int64]core.Commitment
	events      map[int64][]core.PaymentEvent
	recalced    []int64
}

func newSweepStore() *sweepStore {
	return &sweepStore{
		commitments: make(map[int64]core.Commitment),
		events:      make(map[int64][]core.PaymentEvent),
	}
}

func (s *sweepStore) GetCommitment(_ context.Context, id int64) (core.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commitments[id]
	if !ok {
		return core.Commitment{}, core.ErrNotFound
	}
	return c, nil
}

func (s *sweepStore) ListAllEvents(_ context.Context, commitmentID int64) ([]core.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[commitmentID], nil
}

func (s *sweepStore) UpdateDerived(_ context.Context, id int64, paid, pending int, paidAmount, balanceAmount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.commitments[id]
	c.Paid = paid
	c.Pending = pending
	c.PaidAmount = paidAmount
	c.BalanceAmount = balanceAmount
	s.commitments[id] = c
	s.recalced = append(s.recalced, id)
	return nil
}

func (s *sweepStore) ListCommitmentIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id := range s.commitments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func TestSweep_HealsCorruptedDerivedFields(t *testing.T) {
	store := newSweepStore()
	store.commitments[1] = core.Commitment{
		ID:        1,
		Category:  core.CategoryEMI,
		TotalEMI:  12,
		EMIAmount: core.Money{Cents: 100000},
		// corrupted derived state
		Paid:    7,
		Pending: 7,
	}
	store.events[1] = []core.PaymentEvent{
		{ID: 1, CommitmentID: 1, Amount: core.Money{Cents: 100000}, CurrentEMI: 1},
	}

	r := NewReconciler(store, services.NewRecalculator(store, store), nil, DefaultReconcilerConfig())
	r.Sweep(context.Background())

	got := store.commitments[1]
	if got.Paid != 1 || got.Pending != 11 {
		t.Errorf("derived fields not healed: paid=%d pending=%d", got.Paid, got.Pending)
	}
	if got.PaidAmount.Cents != 100000 || got.BalanceAmount.Cents != 1100000 {
		t.Errorf("amounts not healed: paid=%d balance=%d", got.PaidAmount.Cents, got.BalanceAmount.Cents)
	}
}

func TestStartStop(t *testing.T) {
	store := newSweepStore()
	cfg := ReconcilerConfig{SweepInterval: time.Hour, BatchSize: 10}
	r := NewReconciler(store, services.NewRecalculator(store, store), nil, cfg)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Start(ctx); err == nil {
		t.Error("second Start() expected error")
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := r.Stop(stopCtx); err != nil {
		t.Errorf("Stop() after stop error = %v", err)
	}
}
