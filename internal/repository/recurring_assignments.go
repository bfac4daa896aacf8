package repository

import (
	"context"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

const recurringColumns = `
	officer_id, shift_type_id, day_of_week, position, unit_number,
	effective_start, effective_end, partnership, partner_id, created_at, version
`

// ListRecurring returns the shift's recurring assignments whose effective
// range intersects [start, end].
func (r *Repository) ListRecurring(ctx context.Context, shiftTypeID int64, start, end time.Time) ([]*domain.RecurringAssignment, error) {
	query := `
		SELECT id, ` + recurringColumns + `
		FROM recurring_assignments
		WHERE shift_type_id = $1
		  AND effective_start <= $3
		  AND (effective_end IS NULL OR effective_end >= $2)
		ORDER BY id
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shiftTypeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ras := make([]*domain.RecurringAssignment, 0)
	for rows.Next() {
		ra := &domain.RecurringAssignment{}
		dst := []any{
			&ra.ID,
			&ra.OfficerID,
			&ra.ShiftTypeID,
			&ra.DayOfWeek,
			&ra.Position,
			&ra.UnitNumber,
			&ra.EffectiveStart,
			&ra.EffectiveEnd,
			&ra.Partnership,
			&ra.PartnerID,
			&ra.CreatedAt,
			&ra.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		ras = append(ras, ra)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ras, nil
}

func (r *Repository) GetRecurringAssignment(ctx context.Context, id int64) (*domain.RecurringAssignment, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_assignments WHERE id = $1`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	ra := &domain.RecurringAssignment{
		ID: id,
	}
	dst := []any{
		&ra.OfficerID,
		&ra.ShiftTypeID,
		&ra.DayOfWeek,
		&ra.Position,
		&ra.UnitNumber,
		&ra.EffectiveStart,
		&ra.EffectiveEnd,
		&ra.Partnership,
		&ra.PartnerID,
		&ra.CreatedAt,
		&ra.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return ra, nil
}

func (r *Repository) CreateRecurringAssignment(ctx context.Context, ra *domain.RecurringAssignment) error {
	query := `
		INSERT INTO recurring_assignments (
			officer_id, shift_type_id, day_of_week, position, unit_number,
			effective_start, effective_end, partnership, partner_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{
		ra.OfficerID,
		ra.ShiftTypeID,
		ra.DayOfWeek,
		ra.Position,
		ra.UnitNumber,
		ra.EffectiveStart,
		ra.EffectiveEnd,
		ra.Partnership,
		ra.PartnerID,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ra.ID, &ra.CreatedAt, &ra.Version); err != nil {
		return err
	}

	return nil
}

// CreateRecurringBatch inserts a set of recurring rows atomically, so a
// weekly pattern never half-applies.
func (r *Repository) CreateRecurringBatch(ctx context.Context, ras []*domain.RecurringAssignment) error {
	ctx, cancel := r.txCtx(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO recurring_assignments (
			officer_id, shift_type_id, day_of_week, position, unit_number,
			effective_start, effective_end, partnership, partner_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	for _, ra := range ras {
		args := []any{
			ra.OfficerID,
			ra.ShiftTypeID,
			ra.DayOfWeek,
			ra.Position,
			ra.UnitNumber,
			ra.EffectiveStart,
			ra.EffectiveEnd,
			ra.Partnership,
			ra.PartnerID,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&ra.ID, &ra.CreatedAt, &ra.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateRecurringAssignment(ctx context.Context, ra *domain.RecurringAssignment) error {
	query := `
		UPDATE recurring_assignments
		SET
			position = $1,
			unit_number = $2,
			day_of_week = $3,
			effective_start = $4,
			effective_end = $5,
			partnership = $6,
			partner_id = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{
		ra.Position,
		ra.UnitNumber,
		ra.DayOfWeek,
		ra.EffectiveStart,
		ra.EffectiveEnd,
		ra.Partnership,
		ra.PartnerID,
		ra.ID,
		ra.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ra.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRecurringAssignment(ctx context.Context, id int64) error {
	query := `
		DELETE FROM recurring_assignments WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
