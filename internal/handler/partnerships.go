package handler

import (
	"net/http"
	"time"
)

func (h *Handler) CreatePartnership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfficerID   int64  `json:"officerID" validate:"required"`
		PartnerID   int64  `json:"partnerID" validate:"required"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		ShiftTypeID int64  `json:"shiftTypeID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	if err := h.partnerships.Create(r.Context(), req.OfficerID, req.PartnerID, date, req.ShiftTypeID); err != nil {
		h.partnershipError(w, r, err)
		return
	}

	h.successResponse(w, r, "partnership created", nil)
}

func (h *Handler) RemovePartnership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfficerID   int64  `json:"officerID" validate:"required"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		ShiftTypeID int64  `json:"shiftTypeID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	if err := h.partnerships.Remove(r.Context(), req.OfficerID, date, req.ShiftTypeID); err != nil {
		h.partnershipError(w, r, err)
		return
	}

	h.successResponse(w, r, "partnership removed", nil)
}

// GetPartnershipAudits returns the mutation trail for a (date, shift), open
// suspensions included.
func (h *Handler) GetPartnershipAudits(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	shiftTypeID, err := parseShiftParam(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	audits, err := h.repository.ListPartnershipAudits(r.Context(), date, shiftTypeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "partnership audits retrieved", audits)
}
