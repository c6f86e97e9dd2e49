package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// ExpenseService owns one-off expense records. Expenses live outside the
// commitment ledger and never trigger recalculation.
type ExpenseService struct {
	expenses ExpenseStore
}

func NewExpenseService(expenses ExpenseStore) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.PaidOn.IsZero() {
		e.PaidOn = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.expenses.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", created.ID,
		"name", created.Name,
		"amount", created.Amount.String())

	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, def core.Expense) (core.Expense, error) {
	existing, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("resolve expense %d: %w", id, err)
	}

	existing.Name = def.Name
	existing.Amount = def.Amount
	existing.CategoryID = def.CategoryID
	existing.PaidOn = def.PaidOn
	existing.Remarks = def.Remarks
	if def.Attachment != "" {
		existing.Attachment = def.Attachment
	}

	if err := existing.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.expenses.UpdateExpense(ctx, existing); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return existing, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.expenses.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("resolve expense %d: %w", id, err)
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, f ExpenseFilter) ([]core.Expense, error) {
	items, err := s.expenses.ListExpenses(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}
