package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/roster"
)

func (h *Handler) partnershipError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *roster.ValidationError
		consistencyErr *roster.ConsistencyError
		partialErr     *roster.PartialWriteError
	)
	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(w, r, validationErr.Error())
	case errors.As(err, &consistencyErr):
		h.errorResponse(w, r, consistencyErr.Error())
	case errors.As(err, &partialErr):
		// one side is written and could not be rolled back cleanly, so the
		// caller must know rather than retry blindly
		h.logInternalServerError(r, partialErr)
		h.errorResponse(w, r, "partnership records are partially written, please review both officers")
	case errors.Is(err, roster.ErrMissingPartnerReference):
		h.errorResponse(w, r, "no partner could be determined for this officer")
	case errors.Is(err, roster.ErrNoSuspendedPartnership):
		h.errorResponse(w, r, "no suspended partnership found")
	case errors.Is(err, roster.ErrShiftNotFound):
		h.errorResponse(w, r, "shift type not found")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfficerID       int64   `json:"officerID" validate:"required"`
		Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
		ShiftTypeID     int64   `json:"shiftTypeID" validate:"required"`
		IsOff           bool    `json:"isOff"`
		Position        string  `json:"position"`
		UnitNumber      string  `json:"unitNumber"`
		Notes           string  `json:"notes"`
		CustomStartTime *string `json:"customStartTime" validate:"omitempty,datetime=15:04:05"`
		CustomEndTime   *string `json:"customEndTime" validate:"omitempty,datetime=15:04:05"`
		LeaveReason     string  `json:"leaveReason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.IsOff && req.LeaveReason == "" {
		h.errorResponse(w, r, "a leave exception requires a reason")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	if _, err := h.repository.GetShiftType(r.Context(), req.ShiftTypeID); err != nil {
		h.resolveError(w, r, err)
		return
	}

	exc := &domain.ScheduleException{
		OfficerID:       req.OfficerID,
		Date:            date,
		ShiftTypeID:     req.ShiftTypeID,
		IsOff:           req.IsOff,
		Position:        req.Position,
		UnitNumber:      req.UnitNumber,
		Notes:           req.Notes,
		CustomStartTime: req.CustomStartTime,
		CustomEndTime:   req.CustomEndTime,
		LeaveReason:     req.LeaveReason,
		Source:          domain.ExceptionSourceManual,
	}

	// an edit of an existing row must not wipe its partnership state
	var prior *domain.ScheduleException
	if req.IsOff {
		prior, err = h.repository.GetLeaveException(r.Context(), req.OfficerID, date, req.ShiftTypeID)
	} else {
		prior, err = h.repository.GetWorkingException(r.Context(), req.OfficerID, date, req.ShiftTypeID)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	roster.CarryPartnershipState(prior, exc)

	if err := h.repository.UpsertException(r.Context(), exc); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// a new full-day leave sidelines the officer's partner for the day
	if exc.FullDayLeave() {
		reason := fmt.Sprintf("partner on leave (%s)", exc.LeaveReason)
		if err := h.partnerships.Suspend(r.Context(), exc.OfficerID, date, exc.ShiftTypeID, reason); err != nil {
			h.partnershipError(w, r, err)
			return
		}
	}

	h.checkUnderstaffing(r.Context(), date, exc.ShiftTypeID)

	h.successResponse(w, r, "exception created", exc)
}

func (h *Handler) DeleteException(w http.ResponseWriter, r *http.Request) {
	exc := r.Context().Value(ExceptionCtx).(*domain.ScheduleException)

	if err := h.repository.DeleteException(r.Context(), exc.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// lifting a leave that suspended a partnership restores both sides
	if exc.IsOff && exc.PartnershipSuspended {
		err := h.partnerships.Restore(r.Context(), exc.OfficerID, exc.Date, exc.ShiftTypeID)
		if err != nil && !errors.Is(err, roster.ErrNoSuspendedPartnership) {
			h.partnershipError(w, r, err)
			return
		}
	}

	h.checkUnderstaffing(r.Context(), exc.Date, exc.ShiftTypeID)

	h.successResponse(w, r, "exception deleted", nil)
}
