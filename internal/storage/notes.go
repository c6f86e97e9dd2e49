package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

func (r *SQLiteRepository) CreateNote(ctx context.Context, n core.Note) (core.Note, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (title, content, color, attachment, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.Title, n.Content, n.Color, n.Attachment, n.CreatedBy, now, now,
	)
	if err != nil {
		return core.Note{}, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Note{}, fmt.Errorf("note insert id: %w", err)
	}
	n.ID = id
	n.CreatedAt = now
	n.UpdatedAt = now
	return n, nil
}

func (r *SQLiteRepository) GetNote(ctx context.Context, id int64) (core.Note, error) {
	var n core.Note
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, color, attachment, created_by, created_at, updated_at
		FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.Color, &n.Attachment, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return core.Note{}, fmt.Errorf("get note %d: %w", id, mapNotFound(err))
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, n core.Note) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, color = ?, attachment = ?, updated_at = ?
		WHERE id = ?`,
		n.Title, n.Content, n.Color, n.Attachment, time.Now().UTC(), n.ID,
	)
	if err != nil {
		return fmt.Errorf("update note %d: %w", n.ID, err)
	}
	return requireRow(res, n.ID)
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListNotes(ctx context.Context, ownerID int64) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, color, attachment, created_by, created_at, updated_at
		FROM notes WHERE created_by = ? ORDER BY updated_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var items []core.Note
	for rows.Next() {
		var n core.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Color, &n.Attachment,
			&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) CreateHouseSaving(ctx context.Context, h core.HouseSaving) (core.HouseSaving, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO house_savings (amount_cents, date, saving_type, remarks, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.Amount.Cents, h.Date.UTC(), h.SavingType, h.Remarks, h.CreatedBy, now,
	)
	if err != nil {
		return core.HouseSaving{}, fmt.Errorf("insert house saving: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.HouseSaving{}, fmt.Errorf("house saving insert id: %w", err)
	}
	h.ID = id
	h.CreatedAt = now
	return h, nil
}

func (r *SQLiteRepository) DeleteHouseSaving(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM house_savings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete house saving %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ListHouseSavings returns all deposits, newest first, plus the running total.
func (r *SQLiteRepository) ListHouseSavings(ctx context.Context, ownerID int64) ([]core.HouseSaving, core.Money, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, date, saving_type, remarks, created_by, created_at
		FROM house_savings WHERE created_by = ? ORDER BY date DESC, id DESC`, ownerID)
	if err != nil {
		return nil, core.Money{}, fmt.Errorf("list house savings: %w", err)
	}
	defer rows.Close()

	var (
		items []core.HouseSaving
		total core.Money
	)
	for rows.Next() {
		var h core.HouseSaving
		if err := rows.Scan(&h.ID, &h.Amount.Cents, &h.Date, &h.SavingType,
			&h.Remarks, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, core.Money{}, fmt.Errorf("scan house saving: %w", err)
		}
		total = total.Add(h.Amount)
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Money{}, fmt.Errorf("iterate house savings: %w", err)
	}
	return items, total, nil
}
