package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// EventPatch carries the fields of an edit-event request. Nil pointers leave
// the stored value unchanged.
type EventPatch struct {
	Amount      *core.Money
	CurrentEMI  *int
	PaidDate    *time.Time
	Remarks     *string
	Attachments []string
}

// LedgerService owns payment history mutations. Every successful mutation
// recalculates the owning commitment synchronously before returning, so the
// caller always observes a consistent commitment. If recalculation fails the
// ledger write stands (events are the source of truth, derived fields are a
// cache) and a recalc message is enqueued for the reconciliation worker.
type LedgerService struct {
	events      EventStore
	commitments CommitmentStore
	recalc      *Recalculator
	publisher   RecalcPublisher // optional
}

func NewLedgerService(events EventStore, commitments CommitmentStore, recalc *Recalculator, publisher RecalcPublisher) *LedgerService {
	return &LedgerService{
		events:      events,
		commitments: commitments,
		recalc:      recalc,
		publisher:   publisher,
	}
}

// AddEvent records a payment against a commitment. The commitment must
// exist (core.ErrNotFound otherwise) and the amount must be positive
// (core.ErrInvalidAmount). PaidDate defaults to now when zero.
func (s *LedgerService) AddEvent(ctx context.Context, e core.PaymentEvent) (core.PaymentEvent, error) {
	if e.PaidDate.IsZero() {
		e.PaidDate = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.PaymentEvent{}, err
	}

	if _, err := s.commitments.GetCommitment(ctx, e.CommitmentID); err != nil {
		return core.PaymentEvent{}, fmt.Errorf("resolve commitment %d: %w", e.CommitmentID, err)
	}

	created, err := s.events.CreateEvent(ctx, e)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("create payment event: %w", err)
	}

	if err := s.recalculateOrEnqueue(ctx, created.CommitmentID); err != nil {
		return created, err
	}

	slog.InfoContext(ctx, "Payment event recorded",
		"event_id", created.ID,
		"commitment_id", created.CommitmentID,
		"amount", created.Amount.String(),
		"current_emi", created.CurrentEMI)

	return created, nil
}

// EditEvent overwrites the provided fields of an existing event and
// recalculates the owning commitment.
func (s *LedgerService) EditEvent(ctx context.Context, eventID int64, patch EventPatch) (core.PaymentEvent, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("resolve event %d: %w", eventID, err)
	}

	if patch.Amount != nil {
		event.Amount = *patch.Amount
	}
	if patch.CurrentEMI != nil {
		event.CurrentEMI = *patch.CurrentEMI
	}
	if patch.PaidDate != nil {
		event.PaidDate = *patch.PaidDate
	}
	if patch.Remarks != nil {
		event.Remarks = *patch.Remarks
	}
	if patch.Attachments != nil {
		event.Attachments = patch.Attachments
	}

	if err := event.Validate(); err != nil {
		return core.PaymentEvent{}, err
	}

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return core.PaymentEvent{}, fmt.Errorf("update payment event %d: %w", eventID, err)
	}

	if err := s.recalculateOrEnqueue(ctx, event.CommitmentID); err != nil {
		return event, err
	}

	return event, nil
}

// DeleteEvent removes an event and recalculates the commitment it belonged
// to. The commitment id is captured before deletion.
func (s *LedgerService) DeleteEvent(ctx context.Context, eventID int64) (core.PaymentEvent, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("resolve event %d: %w", eventID, err)
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return core.PaymentEvent{}, fmt.Errorf("delete payment event %d: %w", eventID, err)
	}

	if err := s.recalculateOrEnqueue(ctx, event.CommitmentID); err != nil {
		return event, err
	}

	slog.InfoContext(ctx, "Payment event deleted",
		"event_id", event.ID,
		"commitment_id", event.CommitmentID)

	return event, nil
}

// ListEvents returns one page of a commitment's history, most recent
// installment number first, plus the total count. Page numbers start at 1.
func (s *LedgerService) ListEvents(ctx context.Context, commitmentID int64, page, pageSize int) ([]core.PaymentEvent, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	items, total, err := s.events.ListEvents(ctx, commitmentID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list events for commitment %d: %w", commitmentID, err)
	}
	return items, total, nil
}

// GetEvent fetches a single event by id.
func (s *LedgerService) GetEvent(ctx context.Context, eventID int64) (core.PaymentEvent, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("resolve event %d: %w", eventID, err)
	}
	return event, nil
}

// recalculateOrEnqueue runs the synchronous recalculation; on failure it
// hands the commitment id to the reconciliation queue and reports the error.
// The ledger write is never rolled back to compensate.
func (s *LedgerService) recalculateOrEnqueue(ctx context.Context, commitmentID int64) error {
	err := s.recalc.Recalculate(ctx, commitmentID)
	if err == nil {
		return nil
	}

	slog.ErrorContext(ctx, "Synchronous recalculation failed, enqueueing reconciliation",
		"commitment_id", commitmentID, "error", err)

	if s.publisher != nil {
		if pubErr := s.publisher.PublishRecalc(ctx, commitmentID); pubErr != nil {
			slog.ErrorContext(ctx, "Failed to enqueue recalculation",
				"commitment_id", commitmentID, "error", pubErr)
		}
	}

	return fmt.Errorf("recalculate commitment %d: %w", commitmentID, err)
}
