package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func TestCountEffectiveExclusions(t *testing.T) {
	var calc StaffingCalculator

	onLeave := asn("Sullivan", domain.RankOfficer, "District 3", 8)
	onLeave.Leave = &LeaveStatus{FullDay: true, Type: LeaveSick}
	partial := asn("Brooks", domain.RankOfficer, "District 2", 7)
	partial.Leave = &LeaveStatus{Partial: true, Type: LeaveSick, WorkingWindow: "Working 07:00 - 11:00"}

	assignments := []*ResolvedAssignment{
		asn("Whitfield", domain.RankLieutenant, "Watch Supervisor", 6),
		asn("Reyes", domain.RankSergeant, "Supervisor", 11),
		asn("Delgado", domain.RankOfficer, "District 1", 12),
		partial,
		onLeave,
		asn("Torres", domain.RankProbationary, "Riding Partner (Probationary)", 0.5),
		asn("Ingram", domain.RankOfficer, "Community Liaison", 5),
	}

	// supervisors: the Lieutenant and the Sergeant
	assert.Equal(t, int32(2), calc.CountEffective(assignments, StaffingSupervisors))
	// officers: Delgado and the partial leave; full-day leave, the
	// probationary officer and the special assignment never count
	assert.Equal(t, int32(2), calc.CountEffective(assignments, StaffingOfficers))
}

func TestEvaluateDefaultsWhenUnconfigured(t *testing.T) {
	var calc StaffingCalculator

	report := calc.Evaluate([]*ResolvedAssignment{
		asn("Delgado", domain.RankOfficer, "District 1", 12),
	}, nil)

	assert.Equal(t, DefaultMinOfficers, report.MinOfficers)
	assert.Equal(t, DefaultMinSupervisors, report.MinSupervisors)
	// the default supervisor minimum is unmet
	assert.True(t, report.Understaffed)
}

func TestEvaluateAgainstConfiguredMinimums(t *testing.T) {
	var calc StaffingCalculator
	minimum := &domain.MinimumStaffing{MinOfficers: 2, MinSupervisors: 1}

	staffed := calc.Evaluate([]*ResolvedAssignment{
		asn("Reyes", domain.RankSergeant, "Supervisor", 11),
		asn("Delgado", domain.RankOfficer, "District 1", 12),
		asn("Brooks", domain.RankOfficer, "District 2", 7),
	}, minimum)
	assert.False(t, staffed.Understaffed)
	assert.Equal(t, int32(2), staffed.EffectiveOfficers)
	assert.Equal(t, int32(1), staffed.EffectiveSupervisors)

	short := calc.Evaluate([]*ResolvedAssignment{
		asn("Reyes", domain.RankSergeant, "Supervisor", 11),
		asn("Delgado", domain.RankOfficer, "District 1", 12),
	}, minimum)
	assert.True(t, short.Understaffed)
}
