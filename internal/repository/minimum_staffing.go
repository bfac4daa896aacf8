package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// GetMinimumStaffing returns nil when no row is configured for the
// (weekday, shift); callers fall back to the staffing defaults.
func (r *Repository) GetMinimumStaffing(ctx context.Context, dayOfWeek int32, shiftTypeID int64) (*domain.MinimumStaffing, error) {
	query := `
		SELECT id, min_officers, min_supervisors, created_at, version
		FROM minimum_staffing
		WHERE day_of_week = $1 AND shift_type_id = $2
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	ms := &domain.MinimumStaffing{
		DayOfWeek:   dayOfWeek,
		ShiftTypeID: shiftTypeID,
	}
	dst := []any{&ms.ID, &ms.MinOfficers, &ms.MinSupervisors, &ms.CreatedAt, &ms.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, dayOfWeek, shiftTypeID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return ms, nil
}

func (r *Repository) GetAllMinimumStaffing(ctx context.Context) ([]*domain.MinimumStaffing, error) {
	query := `
		SELECT id, day_of_week, shift_type_id, min_officers, min_supervisors, created_at, version
		FROM minimum_staffing
		ORDER BY shift_type_id, day_of_week
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mss := make([]*domain.MinimumStaffing, 0)
	for rows.Next() {
		ms := &domain.MinimumStaffing{}
		dst := []any{&ms.ID, &ms.DayOfWeek, &ms.ShiftTypeID, &ms.MinOfficers, &ms.MinSupervisors, &ms.CreatedAt, &ms.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		mss = append(mss, ms)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mss, nil
}

func (r *Repository) UpsertMinimumStaffing(ctx context.Context, ms *domain.MinimumStaffing) error {
	query := `
		INSERT INTO minimum_staffing (day_of_week, shift_type_id, min_officers, min_supervisors)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week, shift_type_id) DO UPDATE SET
			min_officers = EXCLUDED.min_officers,
			min_supervisors = EXCLUDED.min_supervisors,
			version = minimum_staffing.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{ms.DayOfWeek, ms.ShiftTypeID, ms.MinOfficers, ms.MinSupervisors}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ms.ID, &ms.CreatedAt, &ms.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteMinimumStaffing(ctx context.Context, id int64) error {
	query := `
		DELETE FROM minimum_staffing WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
