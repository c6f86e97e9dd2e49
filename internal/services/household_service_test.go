package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestHouseholdService_Notes(t *testing.T) {
	store := newMemStore()
	svc := NewHouseholdService(store, store)

	if _, err := svc.CreateNote(context.Background(), core.Note{Title: "  "}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("CreateNote() error = %v, want ErrInvalidInput", err)
	}

	created, err := svc.CreateNote(context.Background(), core.Note{
		Title:     "Renewal dates",
		Content:   "car insurance in October",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}

	updated, err := svc.UpdateNote(context.Background(), created.ID, core.Note{
		Title:   "Renewal dates",
		Content: "car insurance in November",
		Color:   "yellow",
	})
	if err != nil {
		t.Fatalf("UpdateNote() error = %v", err)
	}
	if updated.Content != "car insurance in November" || updated.Color != "yellow" {
		t.Errorf("UpdateNote() = %+v", updated)
	}

	if err := svc.DeleteNote(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteNote() error = %v", err)
	}
	if _, err := svc.GetNote(context.Background(), created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetNote() after delete error = %v, want ErrNotFound", err)
	}
}

func TestHouseholdService_HouseSavings(t *testing.T) {
	store := newMemStore()
	svc := NewHouseholdService(store, store)

	if _, err := svc.AddHouseSaving(context.Background(), core.HouseSaving{
		Amount:     cents(5000),
		Date:       time.Now(),
		SavingType: "lottery",
	}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("AddHouseSaving() error = %v, want ErrInvalidInput for unknown type", err)
	}

	for _, amount := range []int64{500000, 250000} {
		if _, err := svc.AddHouseSaving(context.Background(), core.HouseSaving{
			Amount:     cents(amount),
			Date:       time.Now(),
			SavingType: "bank transfer",
			CreatedBy:  1,
		}); err != nil {
			t.Fatalf("AddHouseSaving() error = %v", err)
		}
	}

	items, total, err := svc.ListHouseSavings(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListHouseSavings() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("deposit count = %d, want 2", len(items))
	}
	if total.Cents != 750000 {
		t.Errorf("running total = %d, want 750000", total.Cents)
	}
}
