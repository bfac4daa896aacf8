package roster

import "github.com/millbrook-pd/roster/backend/internal/domain"

// StaffingRole selects which minimum a count compares against.
type StaffingRole int

const (
	StaffingSupervisors StaffingRole = iota
	StaffingOfficers
)

// Defaults applied when no MinimumStaffing row exists for a (weekday, shift).
const (
	DefaultMinOfficers    int32 = 0
	DefaultMinSupervisors int32 = 1
)

// StaffingCalculator counts the officers who actually cover a shift.
type StaffingCalculator struct{}

// CountEffective counts assignments toward the given role. Full-day leave
// and special assignments never count; probationary officers do not count
// toward the officer minimum.
func (StaffingCalculator) CountEffective(assignments []*ResolvedAssignment, role StaffingRole) int32 {
	var n int32
	for _, a := range assignments {
		if isFullDayLeave(a) || isSpecialAssignment(a) {
			continue
		}

		switch role {
		case StaffingSupervisors:
			if isSupervisorAssignment(a) {
				n++
			}
		case StaffingOfficers:
			if isSupervisorAssignment(a) || isProbationaryAssignment(a) {
				continue
			}
			n++
		}
	}
	return n
}

// Evaluate compares the effective counts against the configured minimums.
// minimum may be nil, in which case the defaults apply.
func (c StaffingCalculator) Evaluate(assignments []*ResolvedAssignment, minimum *domain.MinimumStaffing) StaffingReport {
	report := StaffingReport{
		EffectiveSupervisors: c.CountEffective(assignments, StaffingSupervisors),
		EffectiveOfficers:    c.CountEffective(assignments, StaffingOfficers),
		MinOfficers:          DefaultMinOfficers,
		MinSupervisors:       DefaultMinSupervisors,
	}

	if minimum != nil {
		report.MinOfficers = minimum.MinOfficers
		report.MinSupervisors = minimum.MinSupervisors
	}

	report.Understaffed = report.EffectiveSupervisors < report.MinSupervisors ||
		report.EffectiveOfficers < report.MinOfficers

	return report
}
