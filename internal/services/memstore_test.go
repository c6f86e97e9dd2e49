package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

// memStore is an in-memory implementation of the store interfaces used by
// the service tests.
type memStore struct {
	mu sync.Mutex

	commitments map[int64]core.Commitment
	events      map[int64]core.PaymentEvent
	expenses    map[int64]core.Expense
	users       map[int64]core.User
	notes       map[int64]core.Note
	savings     map[int64]core.HouseSaving
	nextID      int64

	// failDerived makes UpdateDerived fail; used to exercise the
	// reconciliation path.
	failDerived bool
}

func newMemStore() *memStore {
	return &memStore{
		commitments: make(map[int64]core.Commitment),
		events:      make(map[int64]core.PaymentEvent),
		expenses:    make(map[int64]core.Expense),
		users:       make(map[int64]core.User),
		notes:       make(map[int64]core.Note),
		savings:     make(map[int64]core.HouseSaving),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateCommitment(_ context.Context, c core.Commitment) (core.Commitment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.commitments[c.ID] = c
	return c, nil
}

func (m *memStore) GetCommitment(_ context.Context, id int64) (core.Commitment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commitments[id]
	if !ok {
		return core.Commitment{}, fmt.Errorf("commitment %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (m *memStore) UpdateCommitment(_ context.Context, c core.Commitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commitments[c.ID]; !ok {
		return core.ErrNotFound
	}
	m.commitments[c.ID] = c
	return nil
}

func (m *memStore) UpdateDerived(_ context.Context, id int64, paid, pending int, paidAmount, balanceAmount core.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDerived {
		return errors.New("storage unavailable")
	}
	c, ok := m.commitments[id]
	if !ok {
		return core.ErrNotFound
	}
	c.Paid = paid
	c.Pending = pending
	c.PaidAmount = paidAmount
	c.BalanceAmount = balanceAmount
	m.commitments[id] = c
	return nil
}

func (m *memStore) DeleteCommitment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commitments[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.commitments, id)
	return nil
}

func (m *memStore) ListCommitments(_ context.Context, ownerID int64, page, pageSize int) ([]core.Commitment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.ownerCommitmentsLocked(ownerID)
	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *memStore) ListCommitmentsByOwner(_ context.Context, ownerID int64) ([]core.Commitment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ownerCommitmentsLocked(ownerID), nil
}

func (m *memStore) ownerCommitmentsLocked(ownerID int64) []core.Commitment {
	var all []core.Commitment
	for _, c := range m.commitments {
		if ownerID == 0 || c.CreatedBy == ownerID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (m *memStore) ListCommitmentIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id := range m.commitments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) CreateEvent(_ context.Context, e core.PaymentEvent) (core.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	m.events[e.ID] = e
	return e, nil
}

func (m *memStore) GetEvent(_ context.Context, id int64) (core.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return core.PaymentEvent{}, fmt.Errorf("event %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (m *memStore) UpdateEvent(_ context.Context, e core.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return core.ErrNotFound
	}
	m.events[e.ID] = e
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, commitmentID int64, page, pageSize int) ([]core.PaymentEvent, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.commitmentEventsLocked(commitmentID)
	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *memStore) ListAllEvents(_ context.Context, commitmentID int64) ([]core.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitmentEventsLocked(commitmentID), nil
}

func (m *memStore) commitmentEventsLocked(commitmentID int64) []core.PaymentEvent {
	var all []core.PaymentEvent
	for _, e := range m.events {
		if e.CommitmentID == commitmentID {
			all = append(all, e)
		}
	}
	// currentEmi descending, id ascending tiebreak (matches SQLite ordering)
	sort.Slice(all, func(i, j int) bool {
		if all[i].CurrentEMI != all[j].CurrentEMI {
			return all[i].CurrentEMI > all[j].CurrentEMI
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (m *memStore) DeleteEventsByCommitment(_ context.Context, commitmentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, e := range m.events {
		if e.CommitmentID == commitmentID {
			delete(m.events, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memStore) CommitmentIDsWithEventsBetween(_ context.Context, from, to time.Time) (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[int64]bool)
	for _, e := range m.events {
		if !e.PaidDate.Before(from) && !e.PaidDate.After(to) {
			ids[e.CommitmentID] = true
		}
	}
	return ids, nil
}

func (m *memStore) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memStore) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (m *memStore) UpdateExpense(_ context.Context, e core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[e.ID]; !ok {
		return core.ErrNotFound
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *memStore) DeleteExpense(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *memStore) ListExpenses(_ context.Context, f ExpenseFilter) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []core.Expense
	for _, e := range m.expenses {
		if f.OwnerID != 0 && e.CreatedBy != f.OwnerID {
			continue
		}
		if f.CategoryID != 0 && e.CategoryID != f.CategoryID {
			continue
		}
		if !f.From.IsZero() && e.PaidOn.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.PaidOn.After(f.To) {
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *memStore) ListExpensesBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]core.Expense, error) {
	return m.ListExpenses(ctx, ExpenseFilter{OwnerID: ownerID, From: from, To: to})
}

func (m *memStore) GetUser(_ context.Context, id int64) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
}

func (m *memStore) CreateUser(_ context.Context, u core.User) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) CreateNote(_ context.Context, n core.Note) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = m.id()
	m.notes[n.ID] = n
	return n, nil
}

func (m *memStore) GetNote(_ context.Context, id int64) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return core.Note{}, fmt.Errorf("note %d: %w", id, core.ErrNotFound)
	}
	return n, nil
}

func (m *memStore) UpdateNote(_ context.Context, n core.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[n.ID]; !ok {
		return core.ErrNotFound
	}
	m.notes[n.ID] = n
	return nil
}

func (m *memStore) DeleteNote(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memStore) ListNotes(_ context.Context, ownerID int64) ([]core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []core.Note
	for _, n := range m.notes {
		if ownerID == 0 || n.CreatedBy == ownerID {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *memStore) CreateHouseSaving(_ context.Context, h core.HouseSaving) (core.HouseSaving, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.id()
	m.savings[h.ID] = h
	return h, nil
}

func (m *memStore) DeleteHouseSaving(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.savings[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.savings, id)
	return nil
}

func (m *memStore) ListHouseSavings(_ context.Context, ownerID int64) ([]core.HouseSaving, core.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var (
		all   []core.HouseSaving
		total core.Money
	)
	for _, h := range m.savings {
		if ownerID == 0 || h.CreatedBy == ownerID {
			all = append(all, h)
			total = total.Add(h.Amount)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, total, nil
}

// recalcRecorder captures reconciliation publishes.
type recalcRecorder struct {
	mu  sync.Mutex
	ids []int64
}

func (r *recalcRecorder) PublishRecalc(_ context.Context, commitmentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, commitmentID)
	return nil
}
