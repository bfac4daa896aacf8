package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

const exceptionColumns = `
	officer_id, date, shift_type_id, position, unit_number, notes,
	custom_start_time, custom_end_time, is_off, leave_reason,
	partnership, partner_id, partnership_suspended, suspension_reason,
	source, created_at, version
`

func scanExceptionDst(exc *domain.ScheduleException) []any {
	return []any{
		&exc.OfficerID,
		&exc.Date,
		&exc.ShiftTypeID,
		&exc.Position,
		&exc.UnitNumber,
		&exc.Notes,
		&exc.CustomStartTime,
		&exc.CustomEndTime,
		&exc.IsOff,
		&exc.LeaveReason,
		&exc.Partnership,
		&exc.PartnerID,
		&exc.PartnershipSuspended,
		&exc.SuspensionReason,
		&exc.Source,
		&exc.CreatedAt,
		&exc.Version,
	}
}

func (r *Repository) listExceptions(ctx context.Context, query string, args ...any) ([]*domain.ScheduleException, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	excs := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		exc := &domain.ScheduleException{}
		dst := append([]any{&exc.ID}, scanExceptionDst(exc)...)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		excs = append(excs, exc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return excs, nil
}

func (r *Repository) ListExceptions(ctx context.Context, date time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error) {
	query := `
		SELECT id, ` + exceptionColumns + `
		FROM schedule_exceptions
		WHERE date = $1 AND shift_type_id = $2
		ORDER BY id
	`
	return r.listExceptions(ctx, query, date, shiftTypeID)
}

func (r *Repository) ListExceptionsInRange(ctx context.Context, start, end time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error) {
	query := `
		SELECT id, ` + exceptionColumns + `
		FROM schedule_exceptions
		WHERE date >= $1 AND date <= $2 AND shift_type_id = $3
		ORDER BY date, id
	`
	return r.listExceptions(ctx, query, start, end, shiftTypeID)
}

func (r *Repository) GetException(ctx context.Context, id int64) (*domain.ScheduleException, error) {
	query := `SELECT ` + exceptionColumns + ` FROM schedule_exceptions WHERE id = $1`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	exc := &domain.ScheduleException{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(scanExceptionDst(exc)...); err != nil {
		return nil, err
	}

	return exc, nil
}

func (r *Repository) getExceptionByKey(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64, isOff bool) (*domain.ScheduleException, error) {
	query := `
		SELECT id, ` + exceptionColumns + `
		FROM schedule_exceptions
		WHERE officer_id = $1 AND date = $2 AND shift_type_id = $3 AND is_off = $4
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	exc := &domain.ScheduleException{}
	dst := append([]any{&exc.ID}, scanExceptionDst(exc)...)
	if err := r.dbpool.QueryRowContext(ctx, query, officerID, date, shiftTypeID, isOff).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return exc, nil
}

func (r *Repository) GetWorkingException(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error) {
	return r.getExceptionByKey(ctx, officerID, date, shiftTypeID, false)
}

func (r *Repository) GetLeaveException(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error) {
	return r.getExceptionByKey(ctx, officerID, date, shiftTypeID, true)
}

// UpsertException inserts or replaces the row keyed by (officer, date,
// shift, is_off). A unique index on that key enforces the at-most-one
// working and at-most-one leave row per key invariant.
func (r *Repository) UpsertException(ctx context.Context, exc *domain.ScheduleException) error {
	query := `
		INSERT INTO schedule_exceptions (
			officer_id, date, shift_type_id, position, unit_number, notes,
			custom_start_time, custom_end_time, is_off, leave_reason,
			partnership, partner_id, partnership_suspended, suspension_reason, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (officer_id, date, shift_type_id, is_off) DO UPDATE SET
			position = EXCLUDED.position,
			unit_number = EXCLUDED.unit_number,
			notes = EXCLUDED.notes,
			custom_start_time = EXCLUDED.custom_start_time,
			custom_end_time = EXCLUDED.custom_end_time,
			leave_reason = EXCLUDED.leave_reason,
			partnership = EXCLUDED.partnership,
			partner_id = EXCLUDED.partner_id,
			partnership_suspended = EXCLUDED.partnership_suspended,
			suspension_reason = EXCLUDED.suspension_reason,
			source = EXCLUDED.source,
			version = schedule_exceptions.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{
		exc.OfficerID,
		exc.Date,
		exc.ShiftTypeID,
		exc.Position,
		exc.UnitNumber,
		exc.Notes,
		exc.CustomStartTime,
		exc.CustomEndTime,
		exc.IsOff,
		exc.LeaveReason,
		exc.Partnership,
		exc.PartnerID,
		exc.PartnershipSuspended,
		exc.SuspensionReason,
		exc.Source,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &exc.CreatedAt, &exc.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteException(ctx context.Context, id int64) error {
	query := `
		DELETE FROM schedule_exceptions WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
