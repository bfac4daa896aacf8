package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

const officerColumns = `
	first_name, last_name, badge_number, rank, hire_date,
	sergeant_promotion_date, lieutenant_promotion_date,
	service_credit_override, is_active, created_at, version
`

// int64Array renders ids as a Postgres array literal for ANY($1::bigint[]).
func int64Array(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (r *Repository) GetOfficer(ctx context.Context, id int64) (*domain.OfficerProfile, error) {
	query := `SELECT ` + officerColumns + ` FROM officer_profiles WHERE id = $1`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	officer := &domain.OfficerProfile{
		ID: id,
	}
	dst := []any{
		&officer.FirstName,
		&officer.LastName,
		&officer.BadgeNumber,
		&officer.Rank,
		&officer.HireDate,
		&officer.SergeantPromotionDate,
		&officer.LieutenantPromotionDate,
		&officer.ServiceCreditOverride,
		&officer.IsActive,
		&officer.CreatedAt,
		&officer.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return officer, nil
}

func (r *Repository) ListOfficers(ctx context.Context, ids []int64) ([]*domain.OfficerProfile, error) {
	if len(ids) == 0 {
		return []*domain.OfficerProfile{}, nil
	}

	query := `SELECT id, ` + officerColumns + ` FROM officer_profiles WHERE id = ANY($1::bigint[])`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	officers := make([]*domain.OfficerProfile, 0, len(ids))
	for rows.Next() {
		officer := &domain.OfficerProfile{}
		dst := []any{
			&officer.ID,
			&officer.FirstName,
			&officer.LastName,
			&officer.BadgeNumber,
			&officer.Rank,
			&officer.HireDate,
			&officer.SergeantPromotionDate,
			&officer.LieutenantPromotionDate,
			&officer.ServiceCreditOverride,
			&officer.IsActive,
			&officer.CreatedAt,
			&officer.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return officers, nil
}

func (r *Repository) GetAllOfficers(ctx context.Context) ([]*domain.OfficerProfile, error) {
	query := `SELECT id, ` + officerColumns + ` FROM officer_profiles ORDER BY last_name, first_name`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	officers := make([]*domain.OfficerProfile, 0)
	for rows.Next() {
		officer := &domain.OfficerProfile{}
		dst := []any{
			&officer.ID,
			&officer.FirstName,
			&officer.LastName,
			&officer.BadgeNumber,
			&officer.Rank,
			&officer.HireDate,
			&officer.SergeantPromotionDate,
			&officer.LieutenantPromotionDate,
			&officer.ServiceCreditOverride,
			&officer.IsActive,
			&officer.CreatedAt,
			&officer.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return officers, nil
}

func (r *Repository) CreateOfficer(ctx context.Context, officer *domain.OfficerProfile) error {
	query := `
		INSERT INTO officer_profiles (
			first_name, last_name, badge_number, rank, hire_date,
			sergeant_promotion_date, lieutenant_promotion_date, service_credit_override
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{
		officer.FirstName,
		officer.LastName,
		officer.BadgeNumber,
		officer.Rank,
		officer.HireDate,
		officer.SergeantPromotionDate,
		officer.LieutenantPromotionDate,
		officer.ServiceCreditOverride,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&officer.ID, &officer.IsActive, &officer.CreatedAt, &officer.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOfficer(ctx context.Context, officer *domain.OfficerProfile) error {
	query := `
		UPDATE officer_profiles
		SET
			first_name = $1,
			last_name = $2,
			badge_number = $3,
			rank = $4,
			hire_date = $5,
			sergeant_promotion_date = $6,
			lieutenant_promotion_date = $7,
			service_credit_override = $8,
			is_active = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{
		officer.FirstName,
		officer.LastName,
		officer.BadgeNumber,
		officer.Rank,
		officer.HireDate,
		officer.SergeantPromotionDate,
		officer.LieutenantPromotionDate,
		officer.ServiceCreditOverride,
		officer.IsActive,
		officer.ID,
		officer.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&officer.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteOfficer(ctx context.Context, id int64) error {
	query := `
		DELETE FROM officer_profiles WHERE id = $1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
