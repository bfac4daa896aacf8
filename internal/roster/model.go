package roster

import (
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// LeaveType is the normalized leave vocabulary used for staffing decisions.
// Unrecognized reasons display verbatim but count as generic PTO.
type LeaveType string

const (
	LeaveVacation     LeaveType = "Vacation"
	LeaveHoliday      LeaveType = "Holiday"
	LeaveSick         LeaveType = "Sick"
	LeaveCompensatory LeaveType = "Compensatory"
	LeavePTO          LeaveType = "PTO"
)

type LeaveStatus struct {
	FullDay       bool      `json:"fullDay"`
	Partial       bool      `json:"partial"`
	Reason        string    `json:"reason"` // verbatim, for display
	Type          LeaveType `json:"type"`
	WorkingWindow string    `json:"workingWindow,omitempty"` // only for partial leave
}

type PartnershipStatus struct {
	Partnered        bool   `json:"partnered"`
	PartnerID        int64  `json:"partnerID,omitempty"`
	Suspended        bool   `json:"suspended"`
	SuspensionReason string `json:"suspensionReason,omitempty"`
	// Broken marks a one-sided pairing detected at read time. The officer is
	// treated as unpartnered.
	Broken bool `json:"broken,omitempty"`
}

// ResolvedAssignment is the merged view of one (officer, date, shift). It is
// computed output and never persisted.
type ResolvedAssignment struct {
	OfficerID   int64                  `json:"officerID"`
	Officer     *domain.OfficerProfile `json:"officer"`
	Date        time.Time              `json:"date"`
	ShiftTypeID int64                  `json:"shiftTypeID"`
	Position    string                 `json:"position"`
	UnitNumber  string                 `json:"unitNumber"`
	Notes       string                 `json:"notes"`
	StartTime   string                 `json:"startTime"`
	EndTime     string                 `json:"endTime"`

	IsRegularRecurringDay bool `json:"isRegularRecurringDay"`
	IsExtraShift          bool `json:"isExtraShift"`

	ServiceCredit float64            `json:"serviceCredit"`
	Leave         *LeaveStatus       `json:"leave,omitempty"`
	Partnership   *PartnershipStatus `json:"partnership,omitempty"`
	Source        string             `json:"source,omitempty"`
}

// Categorized partitions a day's assignments per the classification rules.
// Officers on full-day leave land in Officers with their leave annotation;
// they are excluded from every staffing count.
type Categorized struct {
	Supervisors       []*ResolvedAssignment `json:"supervisors"`
	Officers          []*ResolvedAssignment `json:"officers"`
	Probationary      []*ResolvedAssignment `json:"probationary"`
	SpecialAssignment []*ResolvedAssignment `json:"specialAssignment"`
}

type StaffingReport struct {
	EffectiveOfficers    int32 `json:"effectiveOfficers"`
	EffectiveSupervisors int32 `json:"effectiveSupervisors"`
	MinOfficers          int32 `json:"minOfficers"`
	MinSupervisors       int32 `json:"minSupervisors"`
	Understaffed         bool  `json:"understaffed"`
}

// ResolvedDay is the full output for one (date, shift).
type ResolvedDay struct {
	Date        time.Time             `json:"date"`
	Shift       *domain.ShiftType     `json:"shift"`
	Assignments []*ResolvedAssignment `json:"assignments"`
	Categories  Categorized           `json:"categories"`
	Staffing    StaffingReport        `json:"staffing"`
}
