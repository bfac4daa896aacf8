package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func TestNormalizeLeaveType(t *testing.T) {
	tests := []struct {
		reason string
		want   LeaveType
	}{
		{"Vacation", LeaveVacation},
		{"annual leave", LeaveVacation},
		{"Holiday", LeaveHoliday},
		{"sick", LeaveSick},
		{"Sick Leave", LeaveSick},
		{"Comp Time", LeaveCompensatory},
		{"compensatory", LeaveCompensatory},
		{"  vacation  ", LeaveVacation},
		{"bereavement", LeavePTO},
		{"", LeavePTO},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLeaveType(tt.reason))
		})
	}
}

func TestResolveLeaveAbsent(t *testing.T) {
	var resolver PTOResolver
	shift := &domain.ShiftType{StartTime: "07:00:00", EndTime: "15:00:00"}

	assert.Nil(t, resolver.Resolve(shift, nil))
	assert.Nil(t, resolver.Resolve(shift, &domain.ScheduleException{IsOff: false}))
}

func TestResolveFullDayLeave(t *testing.T) {
	var resolver PTOResolver
	shift := &domain.ShiftType{StartTime: "07:00:00", EndTime: "15:00:00"}

	status := resolver.Resolve(shift, &domain.ScheduleException{IsOff: true, LeaveReason: "Vacation"})
	require.NotNil(t, status)
	assert.True(t, status.FullDay)
	assert.False(t, status.Partial)
	assert.Equal(t, "Vacation", status.Reason)
	assert.Equal(t, LeaveVacation, status.Type)
	assert.Empty(t, status.WorkingWindow)
}

func TestResolveHalfSpecifiedLeaveWindow(t *testing.T) {
	var resolver PTOResolver
	shift := &domain.ShiftType{StartTime: "07:00:00", EndTime: "15:00:00"}
	start := "11:00:00"

	status := resolver.Resolve(shift, &domain.ScheduleException{
		IsOff:           true,
		LeaveReason:     "Sick",
		CustomStartTime: &start,
	})
	require.NotNil(t, status)
	// any custom time makes the leave partial, never full-day
	assert.False(t, status.FullDay)
	assert.True(t, status.Partial)
	assert.Equal(t, CheckPTOLabel, status.WorkingWindow)
}

func TestResolvePartialLeaveWindows(t *testing.T) {
	day := &domain.ShiftType{StartTime: "07:00:00", EndTime: "15:00:00"}
	night := &domain.ShiftType{StartTime: "23:00:00", EndTime: "07:00:00"}

	tests := []struct {
		name       string
		shift      *domain.ShiftType
		start, end string
		want       string
	}{
		{"leading leave", day, "07:00:00", "11:00:00", "Working 11:00 - 15:00"},
		{"trailing leave", day, "11:00:00", "15:00:00", "Working 07:00 - 11:00"},
		{"interior leave", day, "09:00:00", "11:00:00", "Working 07:00 - 09:00 / Working 11:00 - 15:00"},
		{"whole shift covered", day, "07:00:00", "15:00:00", CheckPTOLabel},
		{"starts before shift", day, "06:00:00", "11:00:00", CheckPTOLabel},
		{"unparseable window", day, "late", "later", CheckPTOLabel},
		{"overnight interior", night, "01:00:00", "03:00:00", "Working 23:00 - 01:00 / Working 03:00 - 07:00"},
		{"overnight leading", night, "23:00:00", "02:00:00", "Working 02:00 - 07:00"},
		{"overnight trailing", night, "04:00:00", "07:00:00", "Working 23:00 - 04:00"},
	}

	var resolver PTOResolver
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := resolver.Resolve(tt.shift, &domain.ScheduleException{
				IsOff:           true,
				LeaveReason:     "Sick",
				CustomStartTime: &tt.start,
				CustomEndTime:   &tt.end,
			})
			require.NotNil(t, status)
			assert.True(t, status.Partial)
			assert.False(t, status.FullDay)
			assert.Equal(t, tt.want, status.WorkingWindow)
		})
	}
}
