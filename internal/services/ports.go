// Package services implements the commitment ledger core: payment history
// mutations, recalculation of derived commitment fields, commitment
// lifecycle rules and the dashboard aggregator. Storage is consumed through
// the narrow interfaces below so the engine stays independent of the SQLite
// layer.
package services

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// CommitmentStore provides persistence for commitment records.
// Implementations return core.ErrNotFound (possibly wrapped) when an id does
// not resolve.
type CommitmentStore interface {
	CreateCommitment(ctx context.Context, c core.Commitment) (core.Commitment, error)
	GetCommitment(ctx context.Context, id int64) (core.Commitment, error)
	UpdateCommitment(ctx context.Context, c core.Commitment) error
	// UpdateDerived persists only the four recalculated fields in a single
	// statement so concurrent definition edits cannot be clobbered.
	UpdateDerived(ctx context.Context, id int64, paid, pending int, paidAmount, balanceAmount core.Money) error
	DeleteCommitment(ctx context.Context, id int64) error
	ListCommitments(ctx context.Context, ownerID int64, page, pageSize int) ([]core.Commitment, int, error)
	ListCommitmentsByOwner(ctx context.Context, ownerID int64) ([]core.Commitment, error)
	// ListCommitmentIDs returns every commitment id; used by the
	// reconciliation sweep.
	ListCommitmentIDs(ctx context.Context) ([]int64, error)
}

// EventStore provides persistence for payment history events.
type EventStore interface {
	CreateEvent(ctx context.Context, e core.PaymentEvent) (core.PaymentEvent, error)
	GetEvent(ctx context.Context, id int64) (core.PaymentEvent, error)
	UpdateEvent(ctx context.Context, e core.PaymentEvent) error
	DeleteEvent(ctx context.Context, id int64) error
	// ListEvents returns one page ordered by currentEmi descending with id
	// ascending as tiebreak, plus the total event count for the commitment.
	ListEvents(ctx context.Context, commitmentID int64, page, pageSize int) ([]core.PaymentEvent, int, error)
	// ListAllEvents returns the full ledger for a commitment; recalculation
	// always works on the complete set.
	ListAllEvents(ctx context.Context, commitmentID int64) ([]core.PaymentEvent, error)
	DeleteEventsByCommitment(ctx context.Context, commitmentID int64) (int64, error)
	// CommitmentIDsWithEventsBetween reports which commitments have at least
	// one event with paidDate in [from, to].
	CommitmentIDsWithEventsBetween(ctx context.Context, from, to time.Time) (map[int64]bool, error)
}

// ExpenseStore provides persistence for expense records. The dashboard only
// needs ListExpensesBetween; the rest backs the CRUD handlers.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
	ListExpensesBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]core.Expense, error)
}

// ExpenseFilter narrows an expense listing. Zero values mean "no filter".
type ExpenseFilter struct {
	OwnerID    int64
	CategoryID int
	From       time.Time
	To         time.Time
}

// NoteStore provides persistence for user notes.
type NoteStore interface {
	CreateNote(ctx context.Context, n core.Note) (core.Note, error)
	GetNote(ctx context.Context, id int64) (core.Note, error)
	UpdateNote(ctx context.Context, n core.Note) error
	DeleteNote(ctx context.Context, id int64) error
	ListNotes(ctx context.Context, ownerID int64) ([]core.Note, error)
}

// HouseSavingStore provides persistence for house fund deposits. ListHouseSavings
// also returns the running total.
type HouseSavingStore interface {
	CreateHouseSaving(ctx context.Context, h core.HouseSaving) (core.HouseSaving, error)
	DeleteHouseSaving(ctx context.Context, id int64) error
	ListHouseSavings(ctx context.Context, ownerID int64) ([]core.HouseSaving, core.Money, error)
}

// UserStore resolves user records; the commitment-delete authorization check
// only reads the role flag.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	CreateUser(ctx context.Context, u core.User) (core.User, error)
}

// RecalcPublisher enqueues a deferred recalculation for a commitment. Used
// as the reconciliation safety net when the synchronous recalculation after
// a ledger write fails: the ledger write is never rolled back, the derived
// fields are healed later by the worker.
type RecalcPublisher interface {
	PublishRecalc(ctx context.Context, commitmentID int64) error
}
