package roster

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

var _ Store = (*memStore)(nil)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monday is 2025-06-09, used throughout the engine tests.
var monday = testDate(2025, time.June, 9)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore() *memStore {
	s := newMemStore()
	s.shifts[1] = &domain.ShiftType{ID: 1, Name: "Day", StartTime: "07:00:00", EndTime: "15:00:00"}
	return s
}

func addOfficer(s *memStore, id int64, lastName string, rank domain.Rank, hired time.Time) {
	s.officers[id] = &domain.OfficerProfile{
		ID:       id,
		LastName: lastName,
		Rank:     rank,
		HireDate: hired,
		IsActive: true,
	}
}

func addRecurring(s *memStore, officerID int64, dayOfWeek int32, position, unit string) *domain.RecurringAssignment {
	ra := &domain.RecurringAssignment{
		ID:             int64(len(s.recurring) + 1),
		OfficerID:      officerID,
		ShiftTypeID:    1,
		DayOfWeek:      dayOfWeek,
		Position:       position,
		UnitNumber:     unit,
		EffectiveStart: testDate(2025, time.January, 1),
	}
	s.recurring = append(s.recurring, ra)
	return ra
}

func assignmentFor(t *testing.T, day *ResolvedDay, officerID int64) *ResolvedAssignment {
	t.Helper()
	for _, a := range day.Assignments {
		if a.OfficerID == officerID {
			return a
		}
	}
	t.Fatalf("no assignment for officer %d", officerID)
	return nil
}

func TestResolveDayUnknownShift(t *testing.T) {
	engine := NewEngine(newTestStore(), testLogger())

	_, err := engine.ResolveDay(context.Background(), monday, 99, SortRoster)
	require.ErrorIs(t, err, ErrShiftNotFound)
}

func TestResolveDayRecurringOnly(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 10, "Delgado", domain.RankOfficer, testDate(2013, time.May, 6))
	addRecurring(s, 10, 1, "District 1", "201")
	addRecurring(s, 10, 2, "District 1", "201") // Tuesday, must not appear

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	require.Len(t, day.Assignments, 1)
	a := day.Assignments[0]
	assert.Equal(t, int64(10), a.OfficerID)
	assert.Equal(t, "District 1", a.Position)
	assert.Equal(t, "201", a.UnitNumber)
	assert.Equal(t, "07:00:00", a.StartTime)
	assert.Equal(t, "15:00:00", a.EndTime)
	assert.True(t, a.IsRegularRecurringDay)
	assert.False(t, a.IsExtraShift)
	assert.Nil(t, a.Leave)
}

func TestResolveDayWorkingExceptionOverridesRecurring(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 10, "Delgado", domain.RankOfficer, testDate(2013, time.May, 6))
	addRecurring(s, 10, 1, "District 1", "201")

	start := "09:00:00"
	require.NoError(t, s.UpsertException(context.Background(), &domain.ScheduleException{
		OfficerID:       10,
		Date:            monday,
		ShiftTypeID:     1,
		Position:        "District 3",
		Notes:           "court appearance in the morning",
		CustomStartTime: &start,
		Source:          domain.ExceptionSourceManual,
	}))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	require.Len(t, day.Assignments, 1)
	a := day.Assignments[0]
	assert.Equal(t, "District 3", a.Position)
	// the exception carries no unit, the recurring one survives
	assert.Equal(t, "201", a.UnitNumber)
	assert.Equal(t, "09:00:00", a.StartTime)
	assert.Equal(t, "15:00:00", a.EndTime)
	assert.Equal(t, "court appearance in the morning", a.Notes)
	assert.True(t, a.IsRegularRecurringDay)
	assert.False(t, a.IsExtraShift)
}

func TestResolveDayExtraShift(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 11, "Brooks", domain.RankOfficer, testDate(2015, time.August, 24))

	require.NoError(t, s.UpsertException(context.Background(), &domain.ScheduleException{
		OfficerID:   11,
		Date:        monday,
		ShiftTypeID: 1,
		Position:    "Patrol",
		Source:      domain.ExceptionSourceExtraShift,
	}))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 11)
	assert.True(t, a.IsExtraShift)
	assert.False(t, a.IsRegularRecurringDay)
}

func TestResolveDayFullDayLeaveSuppressesExtraShift(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 11, "Brooks", domain.RankOfficer, testDate(2015, time.August, 24))

	ctx := context.Background()
	require.NoError(t, s.UpsertException(ctx, &domain.ScheduleException{
		OfficerID: 11, Date: monday, ShiftTypeID: 1,
		Position: "Patrol",
		Source:   domain.ExceptionSourceManual,
	}))
	require.NoError(t, s.UpsertException(ctx, &domain.ScheduleException{
		OfficerID: 11, Date: monday, ShiftTypeID: 1,
		IsOff:       true,
		LeaveReason: "Sick",
		Source:      domain.ExceptionSourceManual,
	}))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(ctx, monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 11)
	assert.False(t, a.IsExtraShift)
	require.NotNil(t, a.Leave)
	assert.True(t, a.Leave.FullDay)
	assert.Equal(t, LeaveSick, a.Leave.Type)
}

func TestResolveDayHalfSpecifiedLeaveStaysExtraShift(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 11, "Brooks", domain.RankOfficer, testDate(2015, time.August, 24))

	ctx := context.Background()
	require.NoError(t, s.UpsertException(ctx, &domain.ScheduleException{
		OfficerID: 11, Date: monday, ShiftTypeID: 1,
		Position: "Patrol",
		Source:   domain.ExceptionSourceManual,
	}))
	start := "11:00:00"
	require.NoError(t, s.UpsertException(ctx, &domain.ScheduleException{
		OfficerID: 11, Date: monday, ShiftTypeID: 1,
		IsOff:           true,
		LeaveReason:     "Sick",
		CustomStartTime: &start,
	}))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(ctx, monday, 1, SortRoster)
	require.NoError(t, err)

	// the extra-shift flag and the leave annotation agree: partial, not full-day
	a := assignmentFor(t, day, 11)
	assert.True(t, a.IsExtraShift)
	require.NotNil(t, a.Leave)
	assert.False(t, a.Leave.FullDay)
	assert.True(t, a.Leave.Partial)
}

func TestResolveDayLeaveOnlyOfficerAppears(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 12, "Sullivan", domain.RankOfficer, testDate(2017, time.February, 13))

	require.NoError(t, s.UpsertException(context.Background(), &domain.ScheduleException{
		OfficerID: 12, Date: monday, ShiftTypeID: 1,
		IsOff:       true,
		LeaveReason: "Vacation",
		Source:      domain.ExceptionSourceManual,
	}))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 12)
	require.NotNil(t, a.Leave)
	assert.True(t, a.Leave.FullDay)
	assert.Equal(t, LeaveVacation, a.Leave.Type)
	assert.False(t, a.IsExtraShift)
	assert.False(t, a.IsRegularRecurringDay)
	// full-day leave officers stay visible but never count toward staffing
	assert.Equal(t, int32(0), day.Staffing.EffectiveOfficers)
}

func TestResolveDayDefaultAssignmentFallback(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 13, "Ingram", domain.RankOfficer, testDate(2020, time.June, 29))
	addOfficer(s, 14, "Torres", domain.RankOfficer, testDate(2021, time.March, 3))
	addRecurring(s, 13, 1, "", "")
	addRecurring(s, 14, 1, "District 2", "")
	s.defaults = append(s.defaults,
		&domain.DefaultAssignment{OfficerID: 13, Position: "Station", EffectiveStart: testDate(2025, time.January, 1)},
		&domain.DefaultAssignment{OfficerID: 14, Position: "Station", EffectiveStart: testDate(2025, time.January, 1)},
	)

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	// no position and no unit: the default fills in
	assert.Equal(t, "Station", assignmentFor(t, day, 13).Position)
	// a position of its own: the default must not override
	assert.Equal(t, "District 2", assignmentFor(t, day, 14).Position)
}

func TestResolveDayMissingProfileDegrades(t *testing.T) {
	s := newTestStore()
	addRecurring(s, 77, 1, "Patrol", "")

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 77)
	require.NotNil(t, a.Officer)
	assert.Equal(t, "Unknown", a.Officer.LastName)
}

func TestResolveDayPartnershipAnnotation(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 20, "Sullivan", domain.RankOfficer, testDate(2017, time.February, 13))
	addOfficer(s, 21, "Novak", domain.RankOfficer, testDate(2018, time.November, 5))
	ra1 := addRecurring(s, 20, 1, "District 3", "203")
	ra2 := addRecurring(s, 21, 1, "District 3", "203")
	partner1, partner2 := int64(21), int64(20)
	ra1.Partnership, ra1.PartnerID = true, &partner1
	ra2.Partnership, ra2.PartnerID = true, &partner2

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 20)
	require.NotNil(t, a.Partnership)
	assert.True(t, a.Partnership.Partnered)
	assert.Equal(t, int64(21), a.Partnership.PartnerID)
	assert.False(t, a.Partnership.Broken)
}

func TestResolveDayBrokenPartnershipDegrades(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 20, "Sullivan", domain.RankOfficer, testDate(2017, time.February, 13))
	addOfficer(s, 21, "Novak", domain.RankOfficer, testDate(2018, time.November, 5))
	ra1 := addRecurring(s, 20, 1, "District 3", "203")
	addRecurring(s, 21, 1, "District 3", "203")
	partner1 := int64(21)
	ra1.Partnership, ra1.PartnerID = true, &partner1 // one-sided on purpose

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	a := assignmentFor(t, day, 20)
	require.NotNil(t, a.Partnership)
	assert.False(t, a.Partnership.Partnered)
	assert.True(t, a.Partnership.Broken)
}

func TestResolveRange(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 10, "Delgado", domain.RankOfficer, testDate(2013, time.May, 6))
	addRecurring(s, 10, 1, "District 1", "201") // Mondays only
	s.minimums[minimumKey(1, 1)] = &domain.MinimumStaffing{DayOfWeek: 1, ShiftTypeID: 1, MinOfficers: 2, MinSupervisors: 1}

	engine := NewEngine(s, testLogger())
	days, err := engine.ResolveRange(context.Background(), monday, monday.AddDate(0, 0, 6), 1, SortRoster)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Len(t, days[0].Assignments, 1)
	for _, day := range days[1:] {
		assert.Empty(t, day.Assignments, "only Monday carries the pattern")
	}

	// the configured minimum applies on Monday, defaults elsewhere
	assert.Equal(t, int32(2), days[0].Staffing.MinOfficers)
	assert.True(t, days[0].Staffing.Understaffed)
	assert.Equal(t, DefaultMinOfficers, days[1].Staffing.MinOfficers)
	assert.Equal(t, DefaultMinSupervisors, days[1].Staffing.MinSupervisors)
}

func TestResolveRangeRejectsInvertedRange(t *testing.T) {
	engine := NewEngine(newTestStore(), testLogger())

	_, err := engine.ResolveRange(context.Background(), monday, monday.AddDate(0, 0, -1), 1, SortRoster)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestResolveDayRecurringEffectiveRange(t *testing.T) {
	s := newTestStore()
	addOfficer(s, 10, "Delgado", domain.RankOfficer, testDate(2013, time.May, 6))
	ra := addRecurring(s, 10, 1, "District 1", "201")
	end := monday.AddDate(0, 0, -7)
	ra.EffectiveEnd = &end // pattern expired the week before

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(context.Background(), monday, 1, SortRoster)
	require.NoError(t, err)

	assert.Empty(t, day.Assignments)
}
