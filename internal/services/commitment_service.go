package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// CommitmentService owns the commitment lifecycle. Definition edits never
// re-derive from the ledger; only ledger mutations do. Full-category
// commitments always carry the fixed one-outstanding-installment shape.
type CommitmentService struct {
	commitments CommitmentStore
	events      EventStore
	users       UserStore
}

func NewCommitmentService(commitments CommitmentStore, events EventStore, users UserStore) *CommitmentService {
	return &CommitmentService{
		commitments: commitments,
		events:      events,
		users:       users,
	}
}

// Create validates the definition and seeds the derived fields: the fixed
// shape for Full commitments, the recalculation-consistent empty-ledger
// state for EMI commitments. Client-supplied derived values are ignored.
func (s *CommitmentService) Create(ctx context.Context, c core.Commitment) (core.Commitment, error) {
	if err := c.Validate(); err != nil {
		return core.Commitment{}, err
	}

	if c.Category == core.CategoryFull {
		c.ApplyFullShape()
	} else {
		c.ApplyEMIZeroShape()
	}

	created, err := s.commitments.CreateCommitment(ctx, c)
	if err != nil {
		return core.Commitment{}, fmt.Errorf("create commitment: %w", err)
	}

	slog.InfoContext(ctx, "Commitment created",
		"commitment_id", created.ID,
		"pay_for", created.PayFor,
		"category", int(created.Category),
		"total_emi", created.TotalEMI)

	return created, nil
}

// Update overwrites the definition fields of an existing commitment. When
// the (possibly changed) category is Full the fixed shape is re-applied;
// otherwise the existing derived fields are preserved untouched. A plain
// definition edit must not re-run recalculation.
func (s *CommitmentService) Update(ctx context.Context, id int64, def core.Commitment) (core.Commitment, error) {
	existing, err := s.commitments.GetCommitment(ctx, id)
	if err != nil {
		return core.Commitment{}, fmt.Errorf("resolve commitment %d: %w", id, err)
	}

	existing.PayFor = def.PayFor
	existing.PayType = def.PayType
	existing.Category = def.Category
	existing.TotalEMI = def.TotalEMI
	existing.EMIAmount = def.EMIAmount
	existing.Status = def.Status
	existing.DueDate = def.DueDate
	existing.Remarks = def.Remarks
	if def.Attachments != nil {
		existing.Attachments = def.Attachments
	}

	if err := existing.Validate(); err != nil {
		return core.Commitment{}, err
	}

	if existing.Category == core.CategoryFull {
		existing.ApplyFullShape()
	}

	if err := s.commitments.UpdateCommitment(ctx, existing); err != nil {
		return core.Commitment{}, fmt.Errorf("update commitment %d: %w", id, err)
	}

	return existing, nil
}

// Delete removes a commitment and cascades to its ledger events. Only users
// holding the admin role may delete; everyone else gets core.ErrForbidden.
func (s *CommitmentService) Delete(ctx context.Context, id, requestingUserID int64) error {
	user, err := s.users.GetUser(ctx, requestingUserID)
	if err != nil || user.Role != core.RoleAdmin {
		return core.ErrForbidden
	}

	if _, err := s.commitments.GetCommitment(ctx, id); err != nil {
		return fmt.Errorf("resolve commitment %d: %w", id, err)
	}

	removed, err := s.events.DeleteEventsByCommitment(ctx, id)
	if err != nil {
		return fmt.Errorf("cascade delete events for commitment %d: %w", id, err)
	}

	if err := s.commitments.DeleteCommitment(ctx, id); err != nil {
		return fmt.Errorf("delete commitment %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Commitment deleted",
		"commitment_id", id,
		"events_removed", removed,
		"requested_by", requestingUserID)

	return nil
}

// Get fetches a single commitment by id.
func (s *CommitmentService) Get(ctx context.Context, id int64) (core.Commitment, error) {
	c, err := s.commitments.GetCommitment(ctx, id)
	if err != nil {
		return core.Commitment{}, fmt.Errorf("resolve commitment %d: %w", id, err)
	}
	return c, nil
}

// List returns one page of a user's commitments plus the total count.
func (s *CommitmentService) List(ctx context.Context, ownerID int64, page, pageSize int) ([]core.Commitment, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	items, total, err := s.commitments.ListCommitments(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list commitments: %w", err)
	}
	return items, total, nil
}
