package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/internal/core"
)

const eventColumns = `id, commitment_id, amount_cents, current_emi, paid_date,
	remarks, attachments, created_at, updated_at`

func scanEvent(row rowScanner) (core.PaymentEvent, error) {
	var (
		e           core.PaymentEvent
		attachments string
	)
	err := row.Scan(
		&e.ID, &e.CommitmentID, &e.Amount.Cents, &e.CurrentEMI, &e.PaidDate,
		&e.Remarks, &attachments, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return core.PaymentEvent{}, err
	}
	e.Attachments, err = decodeAttachments(attachments)
	if err != nil {
		return core.PaymentEvent{}, err
	}
	return e, nil
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, e core.PaymentEvent) (core.PaymentEvent, error) {
	attachments, err := encodeAttachments(e.Attachments)
	if err != nil {
		return core.PaymentEvent{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO commitment_events (
			commitment_id, amount_cents, current_emi, paid_date,
			remarks, attachments, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CommitmentID, e.Amount.Cents, e.CurrentEMI, e.PaidDate.UTC(),
		e.Remarks, attachments, now, now,
	)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("insert payment event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("payment event insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id int64) (core.PaymentEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM commitment_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		return core.PaymentEvent{}, fmt.Errorf("get payment event %d: %w", id, mapNotFound(err))
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, e core.PaymentEvent) error {
	attachments, err := encodeAttachments(e.Attachments)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE commitment_events SET
			amount_cents = ?, current_emi = ?, paid_date = ?,
			remarks = ?, attachments = ?, updated_at = ?
		WHERE id = ?`,
		e.Amount.Cents, e.CurrentEMI, e.PaidDate.UTC(),
		e.Remarks, attachments, time.Now().UTC(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment event %d: %w", e.ID, err)
	}
	return requireRow(res, e.ID)
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commitment_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment event %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ListEvents returns one page of a commitment's ledger, newest installment
// number first; equal installment numbers keep insertion order.
func (r *SQLiteRepository) ListEvents(ctx context.Context, commitmentID int64, page, pageSize int) ([]core.PaymentEvent, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM commitment_events WHERE commitment_id = ?`, commitmentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payment events: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM commitment_events
		WHERE commitment_id = ?
		ORDER BY current_emi DESC, id ASC
		LIMIT ? OFFSET ?`,
		commitmentID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list payment events: %w", err)
	}
	defer rows.Close()

	items, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *SQLiteRepository) ListAllEvents(ctx context.Context, commitmentID int64) ([]core.PaymentEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM commitment_events
		WHERE commitment_id = ?
		ORDER BY current_emi DESC, id ASC`, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("list all payment events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *SQLiteRepository) DeleteEventsByCommitment(ctx context.Context, commitmentID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM commitment_events WHERE commitment_id = ?`, commitmentID)
	if err != nil {
		return 0, fmt.Errorf("delete events for commitment %d: %w", commitmentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CommitmentIDsWithEventsBetween(ctx context.Context, from, to time.Time) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT commitment_id
		FROM commitment_events
		WHERE paid_date >= ? AND paid_date <= ?`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list commitments with events: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan commitment id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commitment ids: %w", err)
	}
	return ids, nil
}

func collectEvents(rows *sql.Rows) ([]core.PaymentEvent, error) {
	var items []core.PaymentEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment event: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment events: %w", err)
	}
	return items, nil
}
