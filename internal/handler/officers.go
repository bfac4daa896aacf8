package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", *raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) GetAllOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.repository.GetAllOfficers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "officers fetched", officers)
}

func (h *Handler) GetOfficer(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerCtx).(*domain.OfficerProfile)
	h.successResponse(w, r, "officer fetched", officer)
}

func (h *Handler) CreateOfficer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName               string   `json:"firstName" validate:"required"`
		LastName                string   `json:"lastName" validate:"required"`
		BadgeNumber             string   `json:"badgeNumber" validate:"required"`
		Rank                    string   `json:"rank" validate:"required"`
		HireDate                string   `json:"hireDate" validate:"required,datetime=2006-01-02"`
		SergeantPromotionDate   *string  `json:"sergeantPromotionDate" validate:"omitempty,datetime=2006-01-02"`
		LieutenantPromotionDate *string  `json:"lieutenantPromotionDate" validate:"omitempty,datetime=2006-01-02"`
		ServiceCreditOverride   *float64 `json:"serviceCreditOverride"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hireDate, err := time.ParseInLocation("2006-01-02", req.HireDate, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid hire date")
		return
	}
	sgtDate, err := parseOptionalDate(req.SergeantPromotionDate)
	if err != nil {
		h.errorResponse(w, r, "invalid sergeant promotion date")
		return
	}
	ltDate, err := parseOptionalDate(req.LieutenantPromotionDate)
	if err != nil {
		h.errorResponse(w, r, "invalid lieutenant promotion date")
		return
	}

	officer := &domain.OfficerProfile{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		BadgeNumber:             req.BadgeNumber,
		Rank:                    domain.Rank(req.Rank),
		HireDate:                hireDate,
		SergeantPromotionDate:   sgtDate,
		LieutenantPromotionDate: ltDate,
		ServiceCreditOverride:   req.ServiceCreditOverride,
	}

	if err := h.repository.CreateOfficer(r.Context(), officer); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "officers_badge_number_key":
			h.badRequest(w, r, errors.New("badge number already exists"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "officer created", officer)
}

func (h *Handler) UpdateOfficer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName               *string  `json:"firstName"`
		LastName                *string  `json:"lastName"`
		BadgeNumber             *string  `json:"badgeNumber"`
		Rank                    *string  `json:"rank"`
		SergeantPromotionDate   *string  `json:"sergeantPromotionDate" validate:"omitempty,datetime=2006-01-02"`
		LieutenantPromotionDate *string  `json:"lieutenantPromotionDate" validate:"omitempty,datetime=2006-01-02"`
		ServiceCreditOverride   *float64 `json:"serviceCreditOverride"`
		IsActive                *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	officer := r.Context().Value(OfficerCtx).(*domain.OfficerProfile)

	if req.FirstName != nil {
		officer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		officer.LastName = *req.LastName
	}
	if req.BadgeNumber != nil {
		officer.BadgeNumber = *req.BadgeNumber
	}
	if req.Rank != nil {
		officer.Rank = domain.Rank(*req.Rank)
	}
	if req.SergeantPromotionDate != nil {
		sgtDate, err := parseOptionalDate(req.SergeantPromotionDate)
		if err != nil {
			h.errorResponse(w, r, "invalid sergeant promotion date")
			return
		}
		officer.SergeantPromotionDate = sgtDate
	}
	if req.LieutenantPromotionDate != nil {
		ltDate, err := parseOptionalDate(req.LieutenantPromotionDate)
		if err != nil {
			h.errorResponse(w, r, "invalid lieutenant promotion date")
			return
		}
		officer.LieutenantPromotionDate = ltDate
	}
	if req.ServiceCreditOverride != nil {
		officer.ServiceCreditOverride = req.ServiceCreditOverride
	}
	if req.IsActive != nil {
		officer.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateOfficer(r.Context(), officer); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "officers_badge_number_key":
			h.badRequest(w, r, errors.New("badge number already exists"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "officer was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "officer updated", officer)
}

func (h *Handler) DeleteOfficer(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerCtx).(*domain.OfficerProfile)

	if err := h.repository.DeleteOfficer(r.Context(), officer.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "officer deleted", nil)
}
