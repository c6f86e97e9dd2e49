package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// HouseholdService covers the small satellite features: free-form notes and
// house fund deposits.
type HouseholdService struct {
	notes   NoteStore
	savings HouseSavingStore
}

func NewHouseholdService(notes NoteStore, savings HouseSavingStore) *HouseholdService {
	return &HouseholdService{notes: notes, savings: savings}
}

func (s *HouseholdService) CreateNote(ctx context.Context, n core.Note) (core.Note, error) {
	if err := n.Validate(); err != nil {
		return core.Note{}, err
	}
	created, err := s.notes.CreateNote(ctx, n)
	if err != nil {
		return core.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

func (s *HouseholdService) UpdateNote(ctx context.Context, id int64, def core.Note) (core.Note, error) {
	existing, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return core.Note{}, fmt.Errorf("resolve note %d: %w", id, err)
	}

	existing.Title = def.Title
	existing.Content = def.Content
	existing.Color = def.Color
	if def.Attachment != "" {
		existing.Attachment = def.Attachment
	}

	if err := existing.Validate(); err != nil {
		return core.Note{}, err
	}
	if err := s.notes.UpdateNote(ctx, existing); err != nil {
		return core.Note{}, fmt.Errorf("update note %d: %w", id, err)
	}
	return existing, nil
}

func (s *HouseholdService) DeleteNote(ctx context.Context, id int64) error {
	if err := s.notes.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

func (s *HouseholdService) GetNote(ctx context.Context, id int64) (core.Note, error) {
	n, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return core.Note{}, fmt.Errorf("resolve note %d: %w", id, err)
	}
	return n, nil
}

func (s *HouseholdService) ListNotes(ctx context.Context, ownerID int64) ([]core.Note, error) {
	items, err := s.notes.ListNotes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return items, nil
}

func (s *HouseholdService) AddHouseSaving(ctx context.Context, h core.HouseSaving) (core.HouseSaving, error) {
	if err := h.Validate(); err != nil {
		return core.HouseSaving{}, err
	}
	created, err := s.savings.CreateHouseSaving(ctx, h)
	if err != nil {
		return core.HouseSaving{}, fmt.Errorf("create house saving: %w", err)
	}
	return created, nil
}

func (s *HouseholdService) DeleteHouseSaving(ctx context.Context, id int64) error {
	if err := s.savings.DeleteHouseSaving(ctx, id); err != nil {
		return fmt.Errorf("delete house saving %d: %w", id, err)
	}
	return nil
}

// ListHouseSavings returns all deposits for a user and their running total.
func (s *HouseholdService) ListHouseSavings(ctx context.Context, ownerID int64) ([]core.HouseSaving, core.Money, error) {
	items, total, err := s.savings.ListHouseSavings(ctx, ownerID)
	if err != nil {
		return nil, core.Money{}, fmt.Errorf("list house savings: %w", err)
	}
	return items, total, nil
}
