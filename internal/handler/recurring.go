package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func (h *Handler) GetRecurringAssignments(w http.ResponseWriter, r *http.Request) {
	shiftTypeID, err := parseShiftParam(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	start, err := parseDateParam(r, "start")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	assignments, err := h.repository.ListRecurring(r.Context(), shiftTypeID, start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "recurring assignments fetched", assignments)
}

func (h *Handler) CreateRecurringAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfficerID      int64   `json:"officerID" validate:"required"`
		ShiftTypeID    int64   `json:"shiftTypeID" validate:"required"`
		DayOfWeek      *int32  `json:"dayOfWeek" validate:"required,gte=0,lte=6"`
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

	if _, err := h.repository.GetShiftType(r.Context(), req.ShiftTypeID); err != nil {
		h.resolveError(w, r, err)
		return
	}

	ra := &domain.RecurringAssignment{
		OfficerID:      req.OfficerID,
		ShiftTypeID:    req.ShiftTypeID,
		DayOfWeek:      *req.DayOfWeek,
		Position:       req.Position,
		UnitNumber:     req.UnitNumber,
		EffectiveStart: effectiveStart,
		EffectiveEnd:   effectiveEnd,
	}

	if err := h.repository.CreateRecurringAssignment(r.Context(), ra); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "recurring assignment created", ra)
}

func (h *Handler) UpdateRecurringAssignment(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid recurring assignment id")
		return
	}

	ra, err := h.repository.GetRecurringAssignment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "recurring assignment not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var req struct {
		Position     *string `json:"position"`
		UnitNumber   *string `json:"unitNumber"`
		DayOfWeek    *int32  `json:"dayOfWeek" validate:"omitempty,gte=0,lte=6"`
		EffectiveEnd *string `json:"effectiveEnd" validate:"omitempty,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Position != nil {
		ra.Position = *req.Position
	}
	if req.UnitNumber != nil {
		ra.UnitNumber = *req.UnitNumber
	}
	if req.DayOfWeek != nil {
		ra.DayOfWeek = *req.DayOfWeek
	}
	if req.EffectiveEnd != nil {
		effectiveEnd, err := parseOptionalDate(req.EffectiveEnd)
		if err != nil {
			h.errorResponse(w, r, "invalid effective end date")
			return
		}
		ra.EffectiveEnd = effectiveEnd
	}

	if err := h.repository.UpdateRecurringAssignment(r.Context(), ra); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "recurring assignment was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "recurring assignment updated", ra)
}

func (h *Handler) DeleteRecurringAssignment(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid recurring assignment id")
		return
	}

	if err := h.repository.DeleteRecurringAssignment(r.Context(), id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "recurring assignment deleted", nil)
}
