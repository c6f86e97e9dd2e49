package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

const commitmentColumns = `id, pay_for, pay_type, category, total_emi, emi_amount_cents,
	status, due_date, remarks, attachments, created_by,
	paid, pending, paid_amount_cents, balance_amount_cents, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommitment(row rowScanner) (core.Commitment, error) {
	var (
		c           core.Commitment
		attachments string
	)
	err := row.Scan(
		&c.ID, &c.PayFor, &c.PayType, &c.Category, &c.TotalEMI, &c.EMIAmount.Cents,
		&c.Status, &c.DueDate, &c.Remarks, &attachments, &c.CreatedBy,
		&c.Paid, &c.Pending, &c.PaidAmount.Cents, &c.BalanceAmount.Cents,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return core.Commitment{}, err
	}
	c.Attachments, err = decodeAttachments(attachments)
	if err != nil {
		return core.Commitment{}, err
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCommitment(ctx context.Context, c core.Commitment) (core.Commitment, error) {
	attachments, err := encodeAttachments(c.Attachments)
	if err != nil {
		return core.Commitment{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO commitments (
			pay_for, pay_type, category, total_emi, emi_amount_cents,
			status, due_date, remarks, attachments, created_by,
			paid, pending, paid_amount_cents, balance_amount_cents, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.PayFor, c.PayType, c.Category, c.TotalEMI, c.EMIAmount.Cents,
		c.Status, c.DueDate, c.Remarks, attachments, c.CreatedBy,
		c.Paid, c.Pending, c.PaidAmount.Cents, c.BalanceAmount.Cents, now, now,
	)
	if err != nil {
		return core.Commitment{}, fmt.Errorf("insert commitment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Commitment{}, fmt.Errorf("commitment insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *SQLiteRepository) GetCommitment(ctx context.Context, id int64) (core.Commitment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commitmentColumns+` FROM commitments WHERE id = ?`, id)
	c, err := scanCommitment(row)
	if err != nil {
		return core.Commitment{}, fmt.Errorf("get commitment %d: %w", id, mapNotFound(err))
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCommitment(ctx context.Context, c core.Commitment) error {
	attachments, err := encodeAttachments(c.Attachments)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE commitments SET
			pay_for = ?, pay_type = ?, category = ?, total_emi = ?, emi_amount_cents = ?,
			status = ?, due_date = ?, remarks = ?, attachments = ?,
			paid = ?, pending = ?, paid_amount_cents = ?, balance_amount_cents = ?,
			updated_at = ?
		WHERE id = ?`,
		c.PayFor, c.PayType, c.Category, c.TotalEMI, c.EMIAmount.Cents,
		c.Status, c.DueDate, c.Remarks, attachments,
		c.Paid, c.Pending, c.PaidAmount.Cents, c.BalanceAmount.Cents,
		time.Now().UTC(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update commitment %d: %w", c.ID, err)
	}
	return requireRow(res, c.ID)
}

// UpdateDerived writes only the recalculated fields; a concurrent definition
// edit cannot be clobbered by it.
func (r *SQLiteRepository) UpdateDerived(ctx context.Context, id int64, paid, pending int, paidAmount, balanceAmount core.Money) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE commitments SET
			paid = ?, pending = ?, paid_amount_cents = ?, balance_amount_cents = ?, updated_at = ?
		WHERE id = ?`,
		paid, pending, paidAmount.Cents, balanceAmount.Cents, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update derived fields for commitment %d: %w", id, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) DeleteCommitment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commitments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete commitment %d: %w", id, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListCommitments(ctx context.Context, ownerID int64, page, pageSize int) ([]core.Commitment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM commitments WHERE created_by = ?`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count commitments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commitmentColumns+`
		FROM commitments
		WHERE created_by = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		ownerID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list commitments: %w", err)
	}
	defer rows.Close()

	var items []core.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan commitment: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate commitments: %w", err)
	}
	return items, total, nil
}

func (r *SQLiteRepository) ListCommitmentsByOwner(ctx context.Context, ownerID int64) ([]core.Commitment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commitmentColumns+`
		FROM commitments
		WHERE created_by = ?
		ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list commitments by owner: %w", err)
	}
	defer rows.Close()

	var items []core.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commitment: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commitments: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) ListCommitmentIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM commitments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list commitment ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan commitment id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commitment ids: %w", err)
	}
	return ids, nil
}

// requireRow maps a zero-row update or delete to core.ErrNotFound.
func requireRow(res interface{ RowsAffected() (int64, error) }, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, core.ErrNotFound)
	}
	return nil
}
