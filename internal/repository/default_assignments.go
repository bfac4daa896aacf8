package repository

import (
	"context"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func (r *Repository) ListDefaultAssignments(ctx context.Context, date time.Time) ([]*domain.DefaultAssignment, error) {
	query := `
		SELECT id, officer_id, position, unit_number, effective_start, effective_end, created_at, version
		FROM default_assignments
		WHERE effective_start <= $1 AND (effective_end IS NULL OR effective_end >= $1)
		ORDER BY id
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	das := make([]*domain.DefaultAssignment, 0)
	for rows.Next() {
		da := &domain.DefaultAssignment{}
		dst := []any{&da.ID, &da.OfficerID, &da.Position, &da.UnitNumber, &da.EffectiveStart, &da.EffectiveEnd, &da.CreatedAt, &da.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		das = append(das, da)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return das, nil
}

func (r *Repository) CreateDefaultAssignment(ctx context.Context, da *domain.DefaultAssignment) error {
	query := `
		INSERT INTO default_assignments (officer_id, position, unit_number, effective_start, effective_end)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{da.OfficerID, da.Position, da.UnitNumber, da.EffectiveStart, da.EffectiveEnd}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&da.ID, &da.CreatedAt, &da.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteDefaultAssignment(ctx context.Context, id int64) error {
	query := `
		DELETE FROM default_assignments WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
