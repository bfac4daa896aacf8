package domain

import "time"

// ShiftType is immutable reference data. Start and end times are "HH:MM:SS"
// clock strings; a shift may cross midnight (end before start).
type ShiftType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// RecurringAssignment is a standing weekly pattern: the officer works this
// shift every week on DayOfWeek (0 = Sunday) while the effective range
// contains the date. Exceptions supersede it per date; it is never deleted
// by resolution.
type RecurringAssignment struct {
	ID             int64      `json:"id"`
	OfficerID      int64      `json:"officerID"`
	ShiftTypeID    int64      `json:"shiftTypeID"`
	DayOfWeek      int32      `json:"dayOfWeek"`
	Position       string     `json:"position"`
	UnitNumber     string     `json:"unitNumber"`
	EffectiveStart time.Time  `json:"effectiveStart"`
	EffectiveEnd   *time.Time `json:"effectiveEnd"`
	Partnership    bool       `json:"partnership"`
	PartnerID      *int64     `json:"partnerID"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int32      `json:"-"`
}

// Contains reports whether the assignment's effective range covers date.
func (ra *RecurringAssignment) Contains(date time.Time) bool {
	if date.Before(ra.EffectiveStart) {
		return false
	}
	if ra.EffectiveEnd != nil && date.After(*ra.EffectiveEnd) {
		return false
	}
	return true
}

// Exception provenance tags.
const (
	ExceptionSourceManual            = "manual"
	ExceptionSourceExtraShift        = "extra shift"
	ExceptionSourceManualPartnership = "manual partnership"
	ExceptionSourceLeaveSuspension   = "leave partner-suspension"
)

// ScheduleException is a date-specific override or addition for one
// (officer, date, shift). At most one working exception and at most one
// leave exception may coexist per key; a working exception overrides the
// recurring row for the same key.
type ScheduleException struct {
	ID                   int64      `json:"id"`
	OfficerID            int64      `json:"officerID"`
	Date                 time.Time  `json:"date"`
	ShiftTypeID          int64      `json:"shiftTypeID"`
	Position             string     `json:"position"`
	UnitNumber           string     `json:"unitNumber"`
	Notes                string     `json:"notes"`
	CustomStartTime      *string    `json:"customStartTime"`
	CustomEndTime        *string    `json:"customEndTime"`
	IsOff                bool       `json:"isOff"`
	LeaveReason          string     `json:"leaveReason"`
	Partnership          bool       `json:"partnership"`
	PartnerID            *int64     `json:"partnerID"`
	PartnershipSuspended bool       `json:"partnershipSuspended"`
	SuspensionReason     string     `json:"suspensionReason"`
	Source               string     `json:"source"`
	CreatedAt            time.Time  `json:"createdAt"`
	Version              int32      `json:"-"`
}

// FullDayLeave reports whether the exception takes the officer off the whole
// shift: a leave row with no custom window. A leave carrying any custom time
// is partial.
func (e *ScheduleException) FullDayLeave() bool {
	return e.IsOff && e.CustomStartTime == nil && e.CustomEndTime == nil
}

// DefaultAssignment supplies a fallback position/unit when neither the
// recurring row nor a working exception carries one.
type DefaultAssignment struct {
	ID             int64      `json:"id"`
	OfficerID      int64      `json:"officerID"`
	Position       string     `json:"position"`
	UnitNumber     string     `json:"unitNumber"`
	EffectiveStart time.Time  `json:"effectiveStart"`
	EffectiveEnd   *time.Time `json:"effectiveEnd"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int32      `json:"-"`
}

func (da *DefaultAssignment) Contains(date time.Time) bool {
	if date.Before(da.EffectiveStart) {
		return false
	}
	if da.EffectiveEnd != nil && date.After(*da.EffectiveEnd) {
		return false
	}
	return true
}

// MinimumStaffing configures the required headcount per (day-of-week, shift).
type MinimumStaffing struct {
	ID             int64     `json:"id"`
	DayOfWeek      int32     `json:"dayOfWeek"`
	ShiftTypeID    int64     `json:"shiftTypeID"`
	MinOfficers    int32     `json:"minOfficers"`
	MinSupervisors int32     `json:"minSupervisors"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

// Partnership audit actions.
const (
	PartnershipAuditCreated   = "created"
	PartnershipAuditRemoved   = "removed"
	PartnershipAuditSuspended = "suspended"
	PartnershipAuditRestored  = "restored"
)

// PartnershipAudit records every partnership mutation. Suspension entries
// stay open (ResolvedAt nil) until the pairing is restored.
type PartnershipAudit struct {
	ID          int64      `json:"id"`
	OfficerID   int64      `json:"officerID"`
	PartnerID   int64      `json:"partnerID"`
	Date        time.Time  `json:"date"`
	ShiftTypeID int64      `json:"shiftTypeID"`
	Action      string     `json:"action"`
	Reason      string     `json:"reason"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}
