package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func (h *Handler) CreateDefaultAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfficerID      int64   `json:"officerID" validate:"required"`
		Position       string  `json:"position"`
		UnitNumber     string  `json:"unitNumber"`
		EffectiveStart string  `json:"effectiveStart" validate:"required,datetime=2006-01-02"`
		EffectiveEnd   *string `json:"effectiveEnd" validate:"omitempty,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Position == "" && req.UnitNumber == "" {
		h.errorResponse(w, r, "a default assignment needs a position or a unit number")
		return
	}

	effectiveStart, err := time.ParseInLocation("2006-01-02", req.EffectiveStart, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid effective start date")
		return
	}
	effectiveEnd, err := parseOptionalDate(req.EffectiveEnd)
	if err != nil {
		h.errorResponse(w, r, "invalid effective end date")
		return
	}
	if effectiveEnd != nil && effectiveEnd.Before(effectiveStart) {
		h.errorResponse(w, r, "effective end precedes effective start")
		return
	}

	da := &domain.DefaultAssignment{
		OfficerID:      req.OfficerID,
		Position:       req.Position,
		UnitNumber:     req.UnitNumber,
		EffectiveStart: effectiveStart,
		EffectiveEnd:   effectiveEnd,
	}

	if err := h.repository.CreateDefaultAssignment(r.Context(), da); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "default assignment created", da)
}

func (h *Handler) DeleteDefaultAssignment(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid default assignment id")
		return
	}

	if err := h.repository.DeleteDefaultAssignment(r.Context(), id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "default assignment deleted", nil)
}
