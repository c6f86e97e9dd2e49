package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func cents(c int64) core.Money { return core.Money{Cents: c} }

func seedEMICommitment(t *testing.T, store *memStore, totalEMI int, emiAmount core.Money) core.Commitment {
	t.Helper()
	c := core.Commitment{
		PayFor:    "Car loan",
		PayType:   core.PayTypeExpense,
		Category:  core.CategoryEMI,
		TotalEMI:  totalEMI,
		EMIAmount: emiAmount,
		Status:    core.StatusOngoing,
		DueDate:   5,
		CreatedBy: 1,
	}
	c.ApplyEMIZeroShape()
	created, err := store.CreateCommitment(context.Background(), c)
	if err != nil {
		t.Fatalf("seed commitment: %v", err)
	}
	return created
}

func seedEvent(t *testing.T, store *memStore, commitmentID int64, amount core.Money, currentEMI int) core.PaymentEvent {
	t.Helper()
	created, err := store.CreateEvent(context.Background(), core.PaymentEvent{
		CommitmentID: commitmentID,
		Amount:       amount,
		CurrentEMI:   currentEMI,
		PaidDate:     time.Date(2026, time.March, currentEMI, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return created
}

func assertDerived(t *testing.T, c core.Commitment, paid, pending int, paidAmount, balanceAmount core.Money) {
	t.Helper()
	if c.Paid != paid {
		t.Errorf("paid = %d, want %d", c.Paid, paid)
	}
	if c.Pending != pending {
		t.Errorf("pending = %d, want %d", c.Pending, pending)
	}
	if c.PaidAmount != paidAmount {
		t.Errorf("paidAmount = %s, want %s", c.PaidAmount, paidAmount)
	}
	if c.BalanceAmount != balanceAmount {
		t.Errorf("balanceAmount = %s, want %s", c.BalanceAmount, balanceAmount)
	}
}

func TestRecalculate_DerivesFromLedger(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)
	c := seedEMICommitment(t, store, 12, cents(100000))

	seedEvent(t, store, c.ID, cents(100000), 1)
	seedEvent(t, store, c.ID, cents(95000), 2)

	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}

	got, _ := store.GetCommitment(context.Background(), c.ID)
	assertDerived(t, got, 2, 10, cents(195000), cents(1005000))
}

func TestRecalculate_EmptyLedger(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)
	c := seedEMICommitment(t, store, 12, cents(100000))

	// corrupt the derived fields, then recalculate from the empty ledger
	if err := store.UpdateDerived(context.Background(), c.ID, 7, 7, cents(1), cents(1)); err != nil {
		t.Fatalf("UpdateDerived() error = %v", err)
	}
	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}

	got, _ := store.GetCommitment(context.Background(), c.ID)
	assertDerived(t, got, 0, 12, cents(0), cents(1200000))
}

func TestRecalculate_Idempotent(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)
	c := seedEMICommitment(t, store, 6, cents(25050))
	seedEvent(t, store, c.ID, cents(25050), 1)

	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("first Recalculate() error = %v", err)
	}
	first, _ := store.GetCommitment(context.Background(), c.ID)

	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("second Recalculate() error = %v", err)
	}
	second, _ := store.GetCommitment(context.Background(), c.ID)

	if first.Paid != second.Paid || first.Pending != second.Pending ||
		first.PaidAmount != second.PaidAmount || first.BalanceAmount != second.BalanceAmount {
		t.Errorf("recalculation not idempotent: first %+v, second %+v", first, second)
	}
}

func TestRecalculate_OverpaymentGoesNegative(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)
	c := seedEMICommitment(t, store, 2, cents(10000))

	seedEvent(t, store, c.ID, cents(10000), 1)
	seedEvent(t, store, c.ID, cents(10000), 2)
	seedEvent(t, store, c.ID, cents(10000), 3)

	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}

	got, _ := store.GetCommitment(context.Background(), c.ID)
	assertDerived(t, got, 3, -1, cents(30000), cents(-10000))
}

func TestRecalculate_CountSumInvariants(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)
	c := seedEMICommitment(t, store, 10, cents(33333))

	for i := 1; i <= 4; i++ {
		seedEvent(t, store, c.ID, cents(33333), i)
	}
	if err := recalc.Recalculate(context.Background(), c.ID); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}

	got, _ := store.GetCommitment(context.Background(), c.ID)
	if got.Paid+got.Pending != got.TotalEMI {
		t.Errorf("paid(%d) + pending(%d) != totalEmi(%d)", got.Paid, got.Pending, got.TotalEMI)
	}
	total := got.EMIAmount.MulInt(got.TotalEMI)
	if got.PaidAmount.Add(got.BalanceAmount) != total {
		t.Errorf("paidAmount(%s) + balanceAmount(%s) != totalEmi*emiAmount(%s)",
			got.PaidAmount, got.BalanceAmount, total)
	}
}

func TestRecalculate_FullKeepsFixedShape(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)

	full := core.Commitment{
		PayFor:    "Insurance premium",
		PayType:   core.PayTypeExpense,
		Category:  core.CategoryFull,
		TotalEMI:  1,
		EMIAmount: cents(50000),
		Status:    core.StatusOngoing,
		DueDate:   15,
		CreatedBy: 1,
	}
	full.ApplyFullShape()
	created, err := store.CreateCommitment(context.Background(), full)
	if err != nil {
		t.Fatalf("seed commitment: %v", err)
	}
	seedEvent(t, store, created.ID, cents(50000), 1)

	if err := recalc.Recalculate(context.Background(), created.ID); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}

	got, _ := store.GetCommitment(context.Background(), created.ID)
	assertDerived(t, got, 0, 1, cents(0), cents(50000))
}

func TestRecalculate_MissingCommitment(t *testing.T) {
	store := newMemStore()
	recalc := NewRecalculator(store, store)

	err := recalc.Recalculate(context.Background(), 42)
	if err == nil {
		t.Fatal("Recalculate() expected error for missing commitment")
	}
}
