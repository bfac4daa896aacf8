package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/roster"
)

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, errors.New("missing " + name + " parameter")
	}
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

func parseShiftParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("shift")
	if raw == "" {
		return 0, errors.New("missing shift parameter")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (h *Handler) resolveError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *roster.ValidationError
	switch {
	case errors.Is(err, roster.ErrShiftNotFound):
		h.errorResponse(w, r, "shift type not found")
	case errors.As(err, &validationErr):
		h.errorResponse(w, r, validationErr.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) GetDailyRoster(w http.ResponseWriter, r *http.Request) {
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

	day, err := h.engine.ResolveDay(r.Context(), date, shiftTypeID, roster.SortRoster)
	if err != nil {
		h.resolveError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster resolved", day)
}

func (h *Handler) GetRosterRange(w http.ResponseWriter, r *http.Request) {
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
	shiftTypeID, err := parseShiftParam(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// the weekly grid view asks for its district-first ordering explicitly
	sortCtx := roster.SortRoster
	if r.URL.Query().Get("view") == "weekly" {
		sortCtx = roster.SortWeeklyGrid
	}

	days, err := h.engine.ResolveRange(r.Context(), start, end, shiftTypeID, sortCtx)
	if err != nil {
		h.resolveError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster resolved", days)
}

// GetForceList returns the day's roster ordered ascending by service credit,
// the order used when drafting officers for mandatory overtime.
func (h *Handler) GetForceList(w http.ResponseWriter, r *http.Request) {
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

	day, err := h.engine.ResolveDay(r.Context(), date, shiftTypeID, roster.SortForceList)
	if err != nil {
		h.resolveError(w, r, err)
		return
	}

	h.successResponse(w, r, "force list resolved", day)
}
