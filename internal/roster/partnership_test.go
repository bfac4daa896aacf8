package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

func newPartnershipFixture() (*memStore, *PartnershipResolver) {
	s := newTestStore()
	addOfficer(s, 1, "Sullivan", domain.RankOfficer, testDate(2017, time.February, 13))
	addOfficer(s, 2, "Torres", domain.RankProbationary, testDate(2024, time.September, 2))
	addOfficer(s, 3, "Novak", domain.RankOfficer, testDate(2018, time.November, 5))
	return s, NewPartnershipResolver(s, testLogger())
}

func workingRow(t *testing.T, s *memStore, officerID int64) *domain.ScheduleException {
	t.Helper()
	exc, err := s.GetWorkingException(context.Background(), officerID, monday, 1)
	require.NoError(t, err)
	return exc
}

func leaveRow(t *testing.T, s *memStore, officerID int64) *domain.ScheduleException {
	t.Helper()
	exc, err := s.GetLeaveException(context.Background(), officerID, monday, 1)
	require.NoError(t, err)
	return exc
}

func putFullDayLeave(t *testing.T, s *memStore, officerID int64, reason string) {
	t.Helper()
	require.NoError(t, s.UpsertException(context.Background(), &domain.ScheduleException{
		OfficerID:   officerID,
		Date:        monday,
		ShiftTypeID: 1,
		IsOff:       true,
		LeaveReason: reason,
		Source:      domain.ExceptionSourceManual,
	}))
}

func TestPartnershipCreateValidation(t *testing.T) {
	_, resolver := newPartnershipFixture()
	ctx := context.Background()

	var validationErr *ValidationError
	err := resolver.Create(ctx, 1, 1, monday, 1)
	require.ErrorAs(t, err, &validationErr)

	err = resolver.Create(ctx, 0, 2, monday, 1)
	require.ErrorAs(t, err, &validationErr)

	err = resolver.Create(ctx, 1, 2, monday, 99)
	require.ErrorIs(t, err, ErrShiftNotFound)
}

func TestPartnershipCreateRejectsFullDayLeave(t *testing.T) {
	s, resolver := newPartnershipFixture()
	putFullDayLeave(t, s, 2, "Vacation")

	var consistencyErr *ConsistencyError
	err := resolver.Create(context.Background(), 1, 2, monday, 1)
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, int64(2), consistencyErr.OfficerID)
}

func TestPartnershipCreateRejectsActivePartnership(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))

	var consistencyErr *ConsistencyError
	err := resolver.Create(ctx, 3, 1, monday, 1)
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, int64(1), consistencyErr.OfficerID)

	// the failed attempt must not have touched officer 3
	assert.Nil(t, workingRow(t, s, 3))
}

func TestPartnershipCreateWritesBothSides(t *testing.T) {
	s, resolver := newPartnershipFixture()
	require.NoError(t, resolver.Create(context.Background(), 1, 2, monday, 1))

	a := workingRow(t, s, 1)
	require.NotNil(t, a)
	assert.True(t, a.Partnership)
	require.NotNil(t, a.PartnerID)
	assert.Equal(t, int64(2), *a.PartnerID)
	assert.Equal(t, PositionRidingPartner, a.Position)
	assert.Equal(t, domain.ExceptionSourceManualPartnership, a.Source)

	b := workingRow(t, s, 2)
	require.NotNil(t, b)
	assert.True(t, b.Partnership)
	require.NotNil(t, b.PartnerID)
	assert.Equal(t, int64(1), *b.PartnerID)
	// probationary officers get the probationary label
	assert.Equal(t, PositionRidingPartnerProbationary, b.Position)

	require.Len(t, s.audits, 1)
	assert.Equal(t, domain.PartnershipAuditCreated, s.audits[0].Action)
}

func TestPartnershipCreateKeepsRecurringPosition(t *testing.T) {
	s, resolver := newPartnershipFixture()
	addRecurring(s, 1, 1, "District 3", "203")

	require.NoError(t, resolver.Create(context.Background(), 1, 2, monday, 1))

	assert.Equal(t, "District 3", workingRow(t, s, 1).Position)
	assert.Equal(t, PositionRidingPartnerProbationary, workingRow(t, s, 2).Position)
}

func TestPartnershipRemoveDeletesPartnershipOnlyRows(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))

	require.NoError(t, resolver.Remove(ctx, 1, monday, 1))

	assert.Nil(t, workingRow(t, s, 1))
	assert.Nil(t, workingRow(t, s, 2))
	require.Len(t, s.audits, 2)
	assert.Equal(t, domain.PartnershipAuditRemoved, s.audits[1].Action)
}

func TestPartnershipRemoveKeepsOtherContent(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, s.UpsertException(ctx, &domain.ScheduleException{
		OfficerID:   1,
		Date:        monday,
		ShiftTypeID: 1,
		Position:    "Desk",
		Notes:       "light duty",
		Source:      domain.ExceptionSourceManual,
	}))
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))

	require.NoError(t, resolver.Remove(ctx, 1, monday, 1))

	a := workingRow(t, s, 1)
	require.NotNil(t, a)
	assert.False(t, a.Partnership)
	assert.Nil(t, a.PartnerID)
	assert.Equal(t, "Desk", a.Position)
	assert.Equal(t, "light duty", a.Notes)
}

func TestPartnershipRemoveMaterializesRecurringOverride(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ra1 := addRecurring(s, 1, 1, "District 3", "203")
	ra2 := addRecurring(s, 3, 1, "District 3", "203")
	partner1, partner3 := int64(3), int64(1)
	ra1.Partnership, ra1.PartnerID = true, &partner1
	ra2.Partnership, ra2.PartnerID = true, &partner3

	require.NoError(t, resolver.Remove(context.Background(), 1, monday, 1))

	// the pattern stays untouched, the date gets override rows
	assert.True(t, ra1.Partnership)
	a := workingRow(t, s, 1)
	require.NotNil(t, a)
	assert.False(t, a.Partnership)
	assert.Equal(t, "District 3", a.Position)
	assert.Equal(t, "203", a.UnitNumber)
	b := workingRow(t, s, 3)
	require.NotNil(t, b)
	assert.False(t, b.Partnership)
}

func TestPartnershipRemoveWithoutPartnerReference(t *testing.T) {
	_, resolver := newPartnershipFixture()

	err := resolver.Remove(context.Background(), 1, monday, 1)
	require.ErrorIs(t, err, ErrMissingPartnerReference)
}

func TestPartnershipSuspendRequiresLeave(t *testing.T) {
	_, resolver := newPartnershipFixture()

	err := resolver.Suspend(context.Background(), 1, monday, 1, "partner on leave (Vacation)")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestPartnershipSuspendUnpartneredIsNoop(t *testing.T) {
	s, resolver := newPartnershipFixture()
	putFullDayLeave(t, s, 1, "Vacation")

	require.NoError(t, resolver.Suspend(context.Background(), 1, monday, 1, "partner on leave (Vacation)"))
	assert.Empty(t, s.audits)
}

func TestPartnershipSuspendParksBothSides(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Vacation")

	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Vacation)"))

	aLeave := leaveRow(t, s, 1)
	require.NotNil(t, aLeave)
	assert.False(t, aLeave.Partnership)
	assert.True(t, aLeave.PartnershipSuspended)
	assert.Equal(t, "partner on leave (Vacation)", aLeave.SuspensionReason)
	require.NotNil(t, aLeave.PartnerID)
	assert.Equal(t, int64(2), *aLeave.PartnerID)
	assert.Equal(t, domain.ExceptionSourceLeaveSuspension, aLeave.Source)

	aWorking := workingRow(t, s, 1)
	require.NotNil(t, aWorking)
	assert.False(t, aWorking.Partnership)
	assert.True(t, aWorking.PartnershipSuspended)

	b := workingRow(t, s, 2)
	require.NotNil(t, b)
	assert.False(t, b.Partnership)
	assert.True(t, b.PartnershipSuspended)
	require.NotNil(t, b.PartnerID)
	assert.Equal(t, int64(1), *b.PartnerID)
	// no recurring position of their own to fall back to
	assert.Equal(t, PositionAvailableForReassignment, b.Position)

	suspended := s.audits[len(s.audits)-1]
	assert.Equal(t, domain.PartnershipAuditSuspended, suspended.Action)
	assert.Nil(t, suspended.ResolvedAt)
}

func TestPartnershipSuspendKeepsPartnerRecurringPosition(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	addRecurring(s, 2, 1, "District 2", "202")
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Sick")

	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Sick)"))

	assert.Equal(t, "District 2", workingRow(t, s, 2).Position)
}

func TestPartnershipRestoreRoundTrip(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Vacation")
	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Vacation)"))

	// the leave ends; its row goes away before the restore
	aLeave := leaveRow(t, s, 1)
	require.NotNil(t, aLeave)
	require.NoError(t, s.DeleteException(ctx, aLeave.ID))

	require.NoError(t, resolver.Restore(ctx, 1, monday, 1))

	a := workingRow(t, s, 1)
	require.NotNil(t, a)
	assert.True(t, a.Partnership)
	assert.False(t, a.PartnershipSuspended)
	require.NotNil(t, a.PartnerID)
	assert.Equal(t, int64(2), *a.PartnerID)

	assert.Equal(t, PositionRidingPartner, a.Position)

	b := workingRow(t, s, 2)
	require.NotNil(t, b)
	assert.True(t, b.Partnership)
	assert.False(t, b.PartnershipSuspended)
	// the restore discards the reassignment label left by the suspension
	assert.Equal(t, PositionRidingPartnerProbationary, b.Position)

	var suspendedEntry *domain.PartnershipAudit
	for _, entry := range s.audits {
		if entry.Action == domain.PartnershipAuditSuspended {
			suspendedEntry = entry
		}
	}
	require.NotNil(t, suspendedEntry)
	assert.NotNil(t, suspendedEntry.ResolvedAt)
	assert.Equal(t, domain.PartnershipAuditRestored, s.audits[len(s.audits)-1].Action)
}

func TestPartnershipRestoreWhileStillOnLeave(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Vacation")
	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Vacation)"))

	var consistencyErr *ConsistencyError
	err := resolver.Restore(ctx, 1, monday, 1)
	require.ErrorAs(t, err, &consistencyErr)
}

func TestPartnershipRestoreFromPartnerSide(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Vacation")
	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Vacation)"))
	aLeave := leaveRow(t, s, 1)
	require.NoError(t, s.DeleteException(ctx, aLeave.ID))

	// restoring via officer 2 finds the suspended record pointing back at 1
	require.NoError(t, resolver.Restore(ctx, 2, monday, 1))
	assert.True(t, workingRow(t, s, 1).Partnership)
	assert.True(t, workingRow(t, s, 2).Partnership)
}

func TestPartnershipRestoreWithoutSuspension(t *testing.T) {
	_, resolver := newPartnershipFixture()

	err := resolver.Restore(context.Background(), 1, monday, 1)
	require.ErrorIs(t, err, ErrNoSuspendedPartnership)
}

func TestRestoreReturnsPartnerToRecurringPosition(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	addRecurring(s, 2, 1, "District 2", "202")
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))
	putFullDayLeave(t, s, 1, "Vacation")
	require.NoError(t, resolver.Suspend(ctx, 1, monday, 1, "partner on leave (Vacation)"))
	aLeave := leaveRow(t, s, 1)
	require.NoError(t, s.DeleteException(ctx, aLeave.ID))

	require.NoError(t, resolver.Restore(ctx, 1, monday, 1))

	assert.Equal(t, "District 2", workingRow(t, s, 2).Position)
}

func TestExceptionEditPreservesPartnership(t *testing.T) {
	s, resolver := newPartnershipFixture()
	ctx := context.Background()
	require.NoError(t, resolver.Create(ctx, 1, 2, monday, 1))

	// a position edit rebuilt from request input, prior state carried over
	prior, err := s.GetWorkingException(ctx, 1, monday, 1)
	require.NoError(t, err)
	edit := &domain.ScheduleException{
		OfficerID:   1,
		Date:        monday,
		ShiftTypeID: 1,
		Position:    "District 4",
		Source:      domain.ExceptionSourceManual,
	}
	CarryPartnershipState(prior, edit)
	require.NoError(t, s.UpsertException(ctx, edit))

	engine := NewEngine(s, testLogger())
	day, err := engine.ResolveDay(ctx, monday, 1, SortRoster)
	require.NoError(t, err)

	for _, id := range []int64{1, 2} {
		status := assignmentFor(t, day, id).Partnership
		require.NotNil(t, status)
		assert.True(t, status.Partnered)
		assert.False(t, status.Broken)
	}
	assert.Equal(t, "District 4", assignmentFor(t, day, 1).Position)
}

// failingStore fails every exception write for one officer.
type failingStore struct {
	*memStore
	failFor int64
}

var errStoreDown = errors.New("store write refused")

func (s *failingStore) UpsertException(ctx context.Context, exc *domain.ScheduleException) error {
	if exc.OfficerID == s.failFor {
		return errStoreDown
	}
	return s.memStore.UpsertException(ctx, exc)
}

func TestPartnershipCreatePartialWriteRollsBack(t *testing.T) {
	mem, _ := newPartnershipFixture()
	failing := &failingStore{memStore: mem, failFor: 2}
	resolver := NewPartnershipResolver(failing, testLogger())

	err := resolver.Create(context.Background(), 1, 2, monday, 1)

	var partialErr *PartialWriteError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, int64(1), partialErr.WrittenOfficer)
	assert.Equal(t, int64(2), partialErr.FailedOfficer)
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, partialErr.CompensationErr)

	// side A's write was compensated away
	assert.Nil(t, workingRow(t, mem, 1))
	assert.Nil(t, workingRow(t, mem, 2))
}
