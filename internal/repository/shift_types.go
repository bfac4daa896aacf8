package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/roster"
)

func (r *Repository) GetShiftType(ctx context.Context, id int64) (*domain.ShiftType, error) {
	query := `
		SELECT name, start_time, end_time, created_at, version
		FROM shift_types WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	st := &domain.ShiftType{
		ID: id,
	}

	dst := []any{&st.Name, &st.StartTime, &st.EndTime, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.ErrShiftNotFound
		}
		return nil, err
	}

	return st, nil
}

func (r *Repository) GetAllShiftTypes(ctx context.Context) ([]*domain.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, created_at, version
		FROM shift_types ORDER BY start_time
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sts := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st := &domain.ShiftType{}
		dst := []any{&st.ID, &st.Name, &st.StartTime, &st.EndTime, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		sts = append(sts, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sts, nil
}

func (r *Repository) CreateShiftType(ctx context.Context, st *domain.ShiftType) error {
	query := `
		INSERT INTO shift_types (name, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftType(ctx context.Context, st *domain.ShiftType) error {
	query := `
		UPDATE shift_types
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftType(ctx context.Context, id int64) error {
	query := `
		DELETE FROM shift_types WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
