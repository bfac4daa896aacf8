package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func (h *Handler) GetAllMinimumStaffing(w http.ResponseWriter, r *http.Request) {
	minimums, err := h.repository.GetAllMinimumStaffing(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "minimum staffing fetched", minimums)
}

func (h *Handler) UpsertMinimumStaffing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek      *int32 `json:"dayOfWeek" validate:"required,gte=0,lte=6"`
		ShiftTypeID    int64  `json:"shiftTypeID" validate:"required"`
		MinOfficers    *int32 `json:"minOfficers" validate:"required,gte=0"`
		MinSupervisors *int32 `json:"minSupervisors" validate:"required,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetShiftType(r.Context(), req.ShiftTypeID); err != nil {
		h.resolveError(w, r, err)
		return
	}

	ms := &domain.MinimumStaffing{
		DayOfWeek:      *req.DayOfWeek,
		ShiftTypeID:    req.ShiftTypeID,
		MinOfficers:    *req.MinOfficers,
		MinSupervisors: *req.MinSupervisors,
	}

	if err := h.repository.UpsertMinimumStaffing(r.Context(), ms); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "minimum staffing saved", ms)
}

func (h *Handler) DeleteMinimumStaffing(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid minimum staffing id")
		return
	}

	if err := h.repository.DeleteMinimumStaffing(r.Context(), id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "minimum staffing deleted", nil)
}
