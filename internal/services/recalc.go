package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/core"
)

// keyedMutex serializes work per commitment id. Entries are kept for the
// process lifetime; the key space is bounded by the number of commitments a
// household realistically tracks.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Recalculator derives a commitment's paid/pending/paidAmount/balanceAmount
// fields from its full payment history. The derivation is a pure function of
// ledger state, so running it twice without an intervening ledger change
// yields identical results.
//
// Recalculations for the same commitment are serialized through a keyed
// mutex: the read-aggregate/write-derived steps of two concurrent callers
// must not interleave or one update would be lost. Different commitments
// recalculate independently.
type Recalculator struct {
	commitments CommitmentStore
	events      EventStore
	locks       *keyedMutex
}

func NewRecalculator(commitments CommitmentStore, events EventStore) *Recalculator {
	return &Recalculator{
		commitments: commitments,
		events:      events,
		locks:       newKeyedMutex(),
	}
}

// Recalculate recomputes and persists the derived fields of a commitment
// from its ledger. Callers must have resolved the commitment before any
// ledger mutation, so a missing commitment here is a programming error, not
// a user-facing condition; it is still returned as a wrapped error rather
// than a panic so the reconciliation worker can log and move on.
//
// Overpayment is not clamped: pending and balanceAmount go negative when the
// ledger holds more than totalEmi payments, and the UI surfaces that.
func (r *Recalculator) Recalculate(ctx context.Context, commitmentID int64) error {
	unlock := r.locks.lock(commitmentID)
	defer unlock()

	commitment, err := r.commitments.GetCommitment(ctx, commitmentID)
	if err != nil {
		return fmt.Errorf("recalculate: load commitment %d: %w", commitmentID, err)
	}

	// Full commitments keep the fixed one-outstanding-installment shape; the
	// ledger never drives them.
	if commitment.Category == core.CategoryFull {
		if err := r.commitments.UpdateDerived(ctx, commitmentID, 0, 1, core.Money{}, commitment.EMIAmount); err != nil {
			return fmt.Errorf("persist derived fields for commitment %d: %w", commitmentID, err)
		}
		return nil
	}

	events, err := r.events.ListAllEvents(ctx, commitmentID)
	if err != nil {
		return fmt.Errorf("list events for commitment %d: %w", commitmentID, err)
	}

	paid := len(events)
	paidAmount := core.Money{}
	for _, e := range events {
		paidAmount = paidAmount.Add(e.Amount)
	}

	totalAmount := commitment.EMIAmount.MulInt(commitment.TotalEMI)
	balanceAmount := totalAmount.Sub(paidAmount)
	pending := commitment.TotalEMI - paid

	if err := r.commitments.UpdateDerived(ctx, commitmentID, paid, pending, paidAmount, balanceAmount); err != nil {
		return fmt.Errorf("persist derived fields for commitment %d: %w", commitmentID, err)
	}

	slog.DebugContext(ctx, "Commitment recalculated",
		"commitment_id", commitmentID,
		"paid", paid,
		"pending", pending,
		"paid_amount", paidAmount.String(),
		"balance_amount", balanceAmount.String())

	return nil
}
