package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// DashboardService is the read-only reporting layer. It aggregates over
// committed state with float64 arithmetic; precision loss is acceptable here
// because the dashboard is a view, never a source of truth.
type DashboardService struct {
	expenses    ExpenseStore
	commitments CommitmentStore
	events      EventStore

	// now is injectable for tests.
	now func() time.Time
}

func NewDashboardService(expenses ExpenseStore, commitments CommitmentStore, events EventStore) *DashboardService {
	return &DashboardService{
		expenses:    expenses,
		commitments: commitments,
		events:      events,
		now:         time.Now,
	}
}

// Summarize builds the dashboard for one user. The window defaults to the
// current calendar month up to now and is clamped so it never extends into
// the future. The three storage reads run concurrently.
func (s *DashboardService) Summarize(ctx context.Context, userID int64, window core.DateRange) (core.DashboardSummary, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	from := window.From
	if from.IsZero() {
		from = startOfMonth
	}
	to := window.To
	if to.IsZero() || to.After(now) {
		to = now
	}

	var (
		yearExpenses  []core.Expense
		commitments   []core.Commitment
		paidThisMonth map[int64]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		yearExpenses, err = s.expenses.ListExpensesBetween(gctx, userID, startOfYear, now)
		if err != nil {
			return fmt.Errorf("list year expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		commitments, err = s.commitments.ListCommitmentsByOwner(gctx, userID)
		if err != nil {
			return fmt.Errorf("list commitments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		paidThisMonth, err = s.events.CommitmentIDsWithEventsBetween(gctx, startOfMonth, now)
		if err != nil {
			return fmt.Errorf("list commitments paid this month: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, err
	}

	summary := core.DashboardSummary{
		DailyExpenses: make([]float64, to.Day()),
	}

	categoryTotals := map[int]float64{}
	for _, e := range yearExpenses {
		if e.PaidOn.Year() == now.Year() {
			summary.MonthlyExpenses[int(e.PaidOn.Month())-1] += e.Amount.Float64()
		}
		if e.PaidOn.Before(from) || e.PaidOn.After(to) {
			continue
		}
		categoryTotals[e.CategoryID] += e.Amount.Float64()
		if e.PaidOn.Year() == to.Year() && e.PaidOn.Month() == to.Month() {
			summary.DailyExpenses[e.PaidOn.Day()-1] += e.Amount.Float64()
		}
	}

	for id, total := range categoryTotals {
		summary.ByCategory = append(summary.ByCategory, core.CategoryTotal{CategoryID: id, Total: total})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].CategoryID < summary.ByCategory[j].CategoryID
	})

	summary.CommitmentTotals = groupCommitmentTotals(commitments)
	summary.TotalSavings = totalSavings(commitments)
	summary.Upcoming = upcomingPayments(commitments, paidThisMonth, now)

	return summary, nil
}

// groupCommitmentTotals sums paid and outstanding amounts per payFor label
// across commitments that still have pending installments.
func groupCommitmentTotals(commitments []core.Commitment) []core.CommitmentTotal {
	byLabel := map[string]*core.CommitmentTotal{}
	for _, c := range commitments {
		if c.Pending <= 0 {
			continue
		}
		t, ok := byLabel[c.PayFor]
		if !ok {
			t = &core.CommitmentTotal{PayFor: c.PayFor}
			byLabel[c.PayFor] = t
		}
		t.PaidAmount += c.PaidAmount.Float64()
		t.BalanceAmount += c.BalanceAmount.Float64()
	}

	totals := make([]core.CommitmentTotal, 0, len(byLabel))
	for _, t := range byLabel {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].PayFor < totals[j].PayFor })
	return totals
}

// totalSavings sums paidAmount over ongoing saving-type commitments.
func totalSavings(commitments []core.Commitment) float64 {
	var total float64
	for _, c := range commitments {
		if c.PayType == core.PayTypeSaving && c.Status == core.StatusOngoing {
			total += c.PaidAmount.Float64()
		}
	}
	return total
}

// upcomingPayments lists ongoing EMI commitments with no payment recorded in
// the current calendar month, closest due day first. DaysUntilDue goes
// negative once the due day has passed.
func upcomingPayments(commitments []core.Commitment, paidThisMonth map[int64]bool, now time.Time) []core.UpcomingPayment {
	var upcoming []core.UpcomingPayment
	for _, c := range commitments {
		if c.Status != core.StatusOngoing || c.Category != core.CategoryEMI {
			continue
		}
		if paidThisMonth[c.ID] {
			continue
		}
		upcoming = append(upcoming, core.UpcomingPayment{
			CommitmentID:  c.ID,
			PayFor:        c.PayFor,
			DueDate:       c.DueDate,
			DaysUntilDue:  c.DueDate - now.Day(),
			EMIAmount:     c.EMIAmount.Float64(),
			BalanceAmount: c.BalanceAmount.Float64(),
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysUntilDue < upcoming[j].DaysUntilDue
	})
	return upcoming
}
