package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const expenseColumns = `id, name, amount_cents, category_id, paid_on,
	remarks, attachment, created_by, created_at, updated_at`

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	err := row.Scan(
		&e.ID, &e.Name, &e.Amount.Cents, &e.CategoryID, &e.PaidOn,
		&e.Remarks, &e.Attachment, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (
			name, amount_cents, category_id, paid_on,
			remarks, attachment, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Amount.Cents, e.CategoryID, e.PaidOn.UTC(),
		e.Remarks, e.Attachment, e.CreatedBy, now, now,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, mapNotFound(err))
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET
			name = ?, amount_cents = ?, category_id = ?, paid_on = ?,
			remarks = ?, attachment = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Amount.Cents, e.CategoryID, e.PaidOn.UTC(),
		e.Remarks, e.Attachment, time.Now().UTC(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return requireRow(res, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, f services.ExpenseFilter) ([]core.Expense, error) {
	conds := []string{"1 = 1"}
	args := []any{}
	if f.OwnerID != 0 {
		conds = append(conds, "created_by = ?")
		args = append(args, f.OwnerID)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if !f.From.IsZero() {
		conds = append(conds, "paid_on >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "paid_on <= ?")
		args = append(args, f.To.UTC())
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY paid_on ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var items []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) ListExpensesBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]core.Expense, error) {
	return r.ListExpenses(ctx, services.ExpenseFilter{OwnerID: ownerID, From: from, To: to})
}
