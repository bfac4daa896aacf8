package repository

import (
	"context"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func (r *Repository) InsertPartnershipAudit(ctx context.Context, entry *domain.PartnershipAudit) error {
	query := `
		INSERT INTO partnership_audits (officer_id, partner_id, date, shift_type_id, action, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	args := []any{entry.OfficerID, entry.PartnerID, entry.Date, entry.ShiftTypeID, entry.Action, entry.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	return nil
}

// ResolveSuspensionAudits closes open suspension entries for the pair in
// either direction.
func (r *Repository) ResolveSuspensionAudits(ctx context.Context, officerID, partnerID int64, date time.Time, shiftTypeID int64) error {
	query := `
		UPDATE partnership_audits
		SET resolved_at = now()
		WHERE date = $1 AND shift_type_id = $2
		  AND action = $3
		  AND resolved_at IS NULL
		  AND ((officer_id = $4 AND partner_id = $5) OR (officer_id = $5 AND partner_id = $4))
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, date, shiftTypeID, domain.PartnershipAuditSuspended, officerID, partnerID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListPartnershipAudits(ctx context.Context, date time.Time, shiftTypeID int64) ([]*domain.PartnershipAudit, error) {
	query := `
		SELECT id, officer_id, partner_id, date, shift_type_id, action, reason, resolved_at, created_at
		FROM partnership_audits
		WHERE date = $1 AND shift_type_id = $2
		ORDER BY created_at, id
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date, shiftTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.PartnershipAudit, 0)
	for rows.Next() {
		entry := &domain.PartnershipAudit{}
		dst := []any{&entry.ID, &entry.OfficerID, &entry.PartnerID, &entry.Date, &entry.ShiftTypeID, &entry.Action, &entry.Reason, &entry.ResolvedAt, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
