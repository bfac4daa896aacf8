package roster

import (
	"fmt"
	"strings"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// CheckPTOLabel is emitted when a partial leave window cannot be reconciled
// with the shift window. Inconsistent data degrades to this label instead of
// failing the resolution.
const CheckPTOLabel = "Check PTO"

// NormalizeLeaveType maps a free-text leave reason onto the fixed vocabulary.
// Unmatched reasons count as generic PTO for staffing; the verbatim string is
// kept separately for display.
func NormalizeLeaveType(reason string) LeaveType {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "vacation", "annual leave":
		return LeaveVacation
	case "holiday":
		return LeaveHoliday
	case "sick", "sick leave":
		return LeaveSick
	case "comp", "comp time", "compensatory":
		return LeaveCompensatory
	default:
		return LeavePTO
	}
}

// PTOResolver annotates a resolved assignment with its leave state.
type PTOResolver struct{}

// Resolve builds the leave annotation for one officer from the leave
// exception, if any. A leave with no custom window is a full-day leave; a
// leave with a custom window is partial, and its human-readable working-time
// remainder is computed against the shift's full window.
func (PTOResolver) Resolve(shift *domain.ShiftType, leave *domain.ScheduleException) *LeaveStatus {
	if leave == nil || !leave.IsOff {
		return nil
	}

	status := &LeaveStatus{
		Reason: leave.LeaveReason,
		Type:   NormalizeLeaveType(leave.LeaveReason),
	}

	if leave.FullDayLeave() {
		status.FullDay = true
		return status
	}

	status.Partial = true
	if leave.CustomStartTime == nil || leave.CustomEndTime == nil {
		// half-specified window, nothing to reconcile against
		status.WorkingWindow = CheckPTOLabel
		return status
	}
	status.WorkingWindow = workingRemainder(shift, *leave.CustomStartTime, *leave.CustomEndTime)
	return status
}

// workingRemainder describes when the officer still works around a partial
// leave window:
//
//	leave starts at shift start  -> working [leaveEnd, shiftEnd]
//	leave ends at shift end      -> working [shiftStart, leaveStart]
//	leave strictly interior      -> two disjoint working segments
//	anything else                -> "Check PTO" (inconsistent data)
func workingRemainder(shift *domain.ShiftType, leaveStart, leaveEnd string) string {
	shiftStart, err := parseClock(shift.StartTime)
	if err != nil {
		return CheckPTOLabel
	}
	shiftEnd, err := parseClock(shift.EndTime)
	if err != nil {
		return CheckPTOLabel
	}
	ls, err := parseClock(leaveStart)
	if err != nil {
		return CheckPTOLabel
	}
	le, err := parseClock(leaveEnd)
	if err != nil {
		return CheckPTOLabel
	}

	// normalize a shift that crosses midnight onto a single axis, and lift
	// the leave window onto the same axis
	if shiftEnd <= shiftStart {
		shiftEnd += 24 * 60
	}
	if ls < shiftStart {
		ls += 24 * 60
	}
	if le < ls {
		le += 24 * 60
	}

	switch {
	case ls == shiftStart && le < shiftEnd:
		return workingLabel(le, shiftEnd)
	case le == shiftEnd && ls > shiftStart:
		return workingLabel(shiftStart, ls)
	case ls == shiftStart && le == shiftEnd:
		// leave covers the whole shift; nothing left to work
		return CheckPTOLabel
	case ls > shiftStart && le < shiftEnd:
		return workingLabel(shiftStart, ls) + " / " + workingLabel(le, shiftEnd)
	default:
		return CheckPTOLabel
	}
}

func workingLabel(start, end int) string {
	return fmt.Sprintf("Working %s - %s", formatClock(start), formatClock(end))
}
