package roster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// Position labels written by partnership mutations when the officer has no
// position of their own.
const (
	PositionRidingPartner             = "Riding Partner"
	PositionRidingPartnerProbationary = "Riding Partner (Probationary)"
	PositionAvailableForReassignment  = "Available for Reassignment"
)

// PartnershipResolver manages the symmetric pairing of two officers riding
// together on a (date, shift). Every mutation touches both officers'
// exception rows; because the Store only guarantees single-row writes, each
// operation runs a compensating-write protocol: write side A, verify, write
// side B, verify, and roll side A back when side B fails.
//
// State machine per pairing: Unpartnered -> Partnered -> Suspended ->
// Partnered (restored) or Unpartnered (removed).
type PartnershipResolver struct {
	store  Store
	logger *slog.Logger
}

func NewPartnershipResolver(store Store, logger *slog.Logger) *PartnershipResolver {
	return &PartnershipResolver{store: store, logger: logger}
}

// effectivePairing is the partnership state of one officer for a (date,
// shift), with the working exception winning over the leave exception, which
// wins over the recurring row.
type effectivePairing struct {
	partnered bool
	suspended bool
	partnerID *int64
}

func (r *PartnershipResolver) effectivePairing(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*effectivePairing, error) {
	working, err := r.store.GetWorkingException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return nil, err
	}
	if working != nil {
		return &effectivePairing{partnered: working.Partnership, suspended: working.PartnershipSuspended, partnerID: working.PartnerID}, nil
	}

	leave, err := r.store.GetLeaveException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return nil, err
	}
	if leave != nil && (leave.Partnership || leave.PartnershipSuspended) {
		return &effectivePairing{partnered: leave.Partnership, suspended: leave.PartnershipSuspended, partnerID: leave.PartnerID}, nil
	}

	recurring, err := r.recurringFor(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return nil, err
	}
	if recurring != nil {
		return &effectivePairing{partnered: recurring.Partnership, partnerID: recurring.PartnerID}, nil
	}

	return &effectivePairing{}, nil
}

func (r *PartnershipResolver) recurringFor(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.RecurringAssignment, error) {
	rows, err := r.store.ListRecurring(ctx, shiftTypeID, date, date)
	if err != nil {
		return nil, err
	}
	weekday := int32(date.Weekday())
	for _, row := range rows {
		if row.OfficerID == officerID && row.DayOfWeek == weekday && row.Contains(date) {
			return row, nil
		}
	}
	return nil, nil
}

func (r *PartnershipResolver) fullDayLeave(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (bool, error) {
	leave, err := r.store.GetLeaveException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return false, err
	}
	return leave != nil && leave.FullDayLeave(), nil
}

func ridingPartnerPosition(officer *domain.OfficerProfile) string {
	if officer != nil && officer.Rank.IsProbationary() {
		return PositionRidingPartnerProbationary
	}
	return PositionRidingPartner
}

// Create pairs officerA with officerB. Preconditions: distinct officers,
// neither on full-day leave, neither already actively partnered.
func (r *PartnershipResolver) Create(ctx context.Context, officerA, officerB int64, date time.Time, shiftTypeID int64) error {
	if officerA == 0 || officerB == 0 {
		return &ValidationError{Field: "officerID", Reason: "both officers are required"}
	}
	if officerA == officerB {
		return &ValidationError{Field: "partnerID", Reason: "an officer cannot partner with themselves"}
	}
	if _, err := r.store.GetShiftType(ctx, shiftTypeID); err != nil {
		return err
	}

	for _, id := range []int64{officerA, officerB} {
		off, err := r.fullDayLeave(ctx, id, date, shiftTypeID)
		if err != nil {
			return err
		}
		if off {
			return &ConsistencyError{OfficerID: id, Reason: "on full-day leave for this shift"}
		}

		pairing, err := r.effectivePairing(ctx, id, date, shiftTypeID)
		if err != nil {
			return err
		}
		if pairing.partnered {
			return &ConsistencyError{OfficerID: id, Reason: "already has an active partnership for this shift"}
		}
	}

	profiles, err := r.profileMap(ctx, officerA, officerB)
	if err != nil {
		return err
	}

	sideA, err := r.partneredSide(ctx, officerA, officerB, date, shiftTypeID, profiles[officerA])
	if err != nil {
		return err
	}
	sideB, err := r.partneredSide(ctx, officerB, officerA, date, shiftTypeID, profiles[officerB])
	if err != nil {
		return err
	}

	if err := r.writeBothSides(ctx, "partnership create", sideA, sideB); err != nil {
		return err
	}

	if err := r.store.InsertPartnershipAudit(ctx, &domain.PartnershipAudit{
		OfficerID:   officerA,
		PartnerID:   officerB,
		Date:        date,
		ShiftTypeID: shiftTypeID,
		Action:      domain.PartnershipAuditCreated,
	}); err != nil {
		r.logger.Warn("partnership audit write failed", "action", domain.PartnershipAuditCreated, "officerID", officerA, "partnerID", officerB, "error", err)
	}

	r.checkSymmetry(ctx, officerA, officerB, date, shiftTypeID)
	return nil
}

// partneredSide prepares the working-exception write that marks one officer
// as partnered with the other.
func (r *PartnershipResolver) partneredSide(ctx context.Context, officerID, partnerID int64, date time.Time, shiftTypeID int64, profile *domain.OfficerProfile) (*sideWrite, error) {
	prior, err := r.store.GetWorkingException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return nil, err
	}

	next := cloneOrNewException(prior, officerID, date, shiftTypeID)
	next.Partnership = true
	next.PartnerID = &partnerID
	next.PartnershipSuspended = false
	next.SuspensionReason = ""
	if next.Source == "" {
		next.Source = domain.ExceptionSourceManualPartnership
	}
	// the reassignment label is suspension residue, not a real position
	if next.Position == "" || next.Position == PositionAvailableForReassignment {
		recurring, err := r.recurringFor(ctx, officerID, date, shiftTypeID)
		if err != nil {
			return nil, err
		}
		if recurring != nil && recurring.Position != "" {
			next.Position = recurring.Position
		} else {
			next.Position = ridingPartnerPosition(profile)
		}
	}

	return r.workingSide(officerID, date, shiftTypeID, prior, next), nil
}

// Remove dissolves the pairing for both officers. The partner id is resolved
// from officerA's current records; when it cannot be determined at all the
// operation fails with ErrMissingPartnerReference rather than clearing one
// side silently.
func (r *PartnershipResolver) Remove(ctx context.Context, officerA int64, date time.Time, shiftTypeID int64) error {
	if officerA == 0 {
		return &ValidationError{Field: "officerID", Reason: "officer is required"}
	}

	pairing, err := r.effectivePairing(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}
	if pairing.partnerID == nil {
		return ErrMissingPartnerReference
	}
	officerB := *pairing.partnerID

	sideA, err := r.clearedSide(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}
	sideB, err := r.clearedSide(ctx, officerB, date, shiftTypeID)
	if err != nil {
		return err
	}

	if err := r.writeBothSides(ctx, "partnership remove", sideA, sideB); err != nil {
		return err
	}

	if err := r.store.InsertPartnershipAudit(ctx, &domain.PartnershipAudit{
		OfficerID:   officerA,
		PartnerID:   officerB,
		Date:        date,
		ShiftTypeID: shiftTypeID,
		Action:      domain.PartnershipAuditRemoved,
	}); err != nil {
		r.logger.Warn("partnership audit write failed", "action", domain.PartnershipAuditRemoved, "officerID", officerA, "partnerID", officerB, "error", err)
	}

	return nil
}

// clearedSide prepares the write that removes all partnership state from one
// officer's working record for the date. A row that exists only to carry the
// partnership is deleted; a row with other content keeps its content and
// loses the flags. An officer whose pairing came from the recurring pattern
// gets an override row so the pattern stays untouched.
func (r *PartnershipResolver) clearedSide(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*sideWrite, error) {
	prior, err := r.store.GetWorkingException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return nil, err
	}

	var next *domain.ScheduleException
	switch {
	case prior != nil && isPartnershipOnlyRow(prior):
		next = nil // delete
	case prior != nil:
		next = cloneException(prior)
		next.Partnership = false
		next.PartnerID = nil
		next.PartnershipSuspended = false
		next.SuspensionReason = ""
	default:
		// recurring-based pairing: materialize an override for this date
		recurring, err := r.recurringFor(ctx, officerID, date, shiftTypeID)
		if err != nil {
			return nil, err
		}
		next = &domain.ScheduleException{
			OfficerID:   officerID,
			Date:        date,
			ShiftTypeID: shiftTypeID,
			Source:      domain.ExceptionSourceManualPartnership,
		}
		if recurring != nil {
			next.Position = recurring.Position
			next.UnitNumber = recurring.UnitNumber
		}
	}

	return r.workingSide(officerID, date, shiftTypeID, prior, next), nil
}

// Suspend parks the pairing while officerA is on leave: A keeps the partner
// reference on the leave row, B keeps working and becomes available for
// reassignment. Called after the leave exception has been written.
func (r *PartnershipResolver) Suspend(ctx context.Context, officerA int64, date time.Time, shiftTypeID int64, reason string) error {
	leave, err := r.store.GetLeaveException(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}
	if leave == nil {
		return &ValidationError{Field: "leave", Reason: "no leave exception exists for this officer, date and shift"}
	}

	pairing, err := r.effectivePairing(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}
	if !pairing.partnered {
		// not partnered, nothing to suspend
		return nil
	}
	if pairing.partnerID == nil {
		return ErrMissingPartnerReference
	}
	officerB := *pairing.partnerID

	// side A: suspension flags live on the leave row, partner id retained
	nextLeave := cloneException(leave)
	nextLeave.Partnership = false
	nextLeave.PartnershipSuspended = true
	nextLeave.SuspensionReason = reason
	nextLeave.PartnerID = &officerB
	nextLeave.Source = domain.ExceptionSourceLeaveSuspension
	sideA := r.leaveSide(officerA, date, shiftTypeID, leave, nextLeave)

	// side B: keeps working, suspended, pointing back at A
	priorB, err := r.store.GetWorkingException(ctx, officerB, date, shiftTypeID)
	if err != nil {
		return err
	}
	nextB := cloneOrNewException(priorB, officerB, date, shiftTypeID)
	nextB.Partnership = false
	nextB.PartnershipSuspended = true
	nextB.SuspensionReason = reason
	nextB.PartnerID = &officerA
	nextB.IsOff = false
	nextB.Source = domain.ExceptionSourceLeaveSuspension
	if nextB.Position == "" || isRidingPartnerPosition(nextB.Position) {
		recurring, err := r.recurringFor(ctx, officerB, date, shiftTypeID)
		if err != nil {
			return err
		}
		if recurring != nil && recurring.Position != "" {
			nextB.Position = recurring.Position
		} else {
			nextB.Position = PositionAvailableForReassignment
		}
	}
	sideB := r.workingSide(officerB, date, shiftTypeID, priorB, nextB)

	if err := r.writeBothSides(ctx, "partnership suspend", sideA, sideB); err != nil {
		return err
	}

	// also clear any partnership flags left on A's own working row
	if err := r.clearSuspendedWorkingRow(ctx, officerA, officerB, date, shiftTypeID, reason); err != nil {
		r.logger.Warn("could not update suspended officer's working row", "officerID", officerA, "error", err)
	}

	if err := r.store.InsertPartnershipAudit(ctx, &domain.PartnershipAudit{
		OfficerID:   officerA,
		PartnerID:   officerB,
		Date:        date,
		ShiftTypeID: shiftTypeID,
		Action:      domain.PartnershipAuditSuspended,
		Reason:      reason,
	}); err != nil {
		r.logger.Warn("partnership audit write failed", "action", domain.PartnershipAuditSuspended, "officerID", officerA, "partnerID", officerB, "error", err)
	}

	return nil
}

func (r *PartnershipResolver) clearSuspendedWorkingRow(ctx context.Context, officerID, partnerID int64, date time.Time, shiftTypeID int64, reason string) error {
	working, err := r.store.GetWorkingException(ctx, officerID, date, shiftTypeID)
	if err != nil {
		return err
	}
	if working == nil || (!working.Partnership && !working.PartnershipSuspended) {
		return nil
	}

	next := cloneException(working)
	next.Partnership = false
	next.PartnershipSuspended = true
	next.SuspensionReason = reason
	next.PartnerID = &partnerID
	return r.store.UpsertException(ctx, next)
}

// Restore re-activates a suspended pairing once the leave that caused it is
// gone. Both sides return to partnership = true and the open suspension
// audit entries are marked resolved.
func (r *PartnershipResolver) Restore(ctx context.Context, officerA int64, date time.Time, shiftTypeID int64) error {
	officerB, err := r.findSuspendedPartner(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}

	stillOff, err := r.fullDayLeave(ctx, officerA, date, shiftTypeID)
	if err != nil {
		return err
	}
	if stillOff {
		return &ConsistencyError{OfficerID: officerA, Reason: "still on full-day leave; delete the leave before restoring"}
	}

	profiles, err := r.profileMap(ctx, officerA, officerB)
	if err != nil {
		return err
	}

	sideA, err := r.partneredSide(ctx, officerA, officerB, date, shiftTypeID, profiles[officerA])
	if err != nil {
		return err
	}
	sideB, err := r.partneredSide(ctx, officerB, officerA, date, shiftTypeID, profiles[officerB])
	if err != nil {
		return err
	}

	if err := r.writeBothSides(ctx, "partnership restore", sideA, sideB); err != nil {
		return err
	}

	if err := r.store.ResolveSuspensionAudits(ctx, officerA, officerB, date, shiftTypeID); err != nil {
		r.logger.Warn("could not resolve suspension audit entries", "officerID", officerA, "partnerID", officerB, "error", err)
	}
	if err := r.store.InsertPartnershipAudit(ctx, &domain.PartnershipAudit{
		OfficerID:   officerA,
		PartnerID:   officerB,
		Date:        date,
		ShiftTypeID: shiftTypeID,
		Action:      domain.PartnershipAuditRestored,
	}); err != nil {
		r.logger.Warn("partnership audit write failed", "action", domain.PartnershipAuditRestored, "officerID", officerA, "partnerID", officerB, "error", err)
	}

	r.checkSymmetry(ctx, officerA, officerB, date, shiftTypeID)
	return nil
}

// findSuspendedPartner locates the partner of a suspended pairing involving
// the officer, from either side's suspended record.
func (r *PartnershipResolver) findSuspendedPartner(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (int64, error) {
	excs, err := r.store.ListExceptions(ctx, date, shiftTypeID)
	if err != nil {
		return 0, err
	}

	for _, exc := range excs {
		if !exc.PartnershipSuspended || exc.PartnerID == nil {
			continue
		}
		if exc.OfficerID == officerID {
			return *exc.PartnerID, nil
		}
		if *exc.PartnerID == officerID {
			return exc.OfficerID, nil
		}
	}

	return 0, ErrNoSuspendedPartnership
}

func (r *PartnershipResolver) profileMap(ctx context.Context, ids ...int64) (map[int64]*domain.OfficerProfile, error) {
	profiles, err := r.store.ListOfficers(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*domain.OfficerProfile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return m, nil
}

// checkSymmetry verifies the two-sided invariant after a mutation. A
// violation is logged, never returned: read-time resolution degrades broken
// pairings to unpartnered.
func (r *PartnershipResolver) checkSymmetry(ctx context.Context, officerA, officerB int64, date time.Time, shiftTypeID int64) {
	a, errA := r.effectivePairing(ctx, officerA, date, shiftTypeID)
	b, errB := r.effectivePairing(ctx, officerB, date, shiftTypeID)
	if errA != nil || errB != nil {
		return
	}

	if a.partnered != b.partnered ||
		(a.partnered && (a.partnerID == nil || *a.partnerID != officerB)) ||
		(b.partnered && (b.partnerID == nil || *b.partnerID != officerA)) {
		r.logger.Warn("asymmetric partnership detected",
			"officerA", officerA, "officerB", officerB,
			"date", date.Format("2006-01-02"), "shiftTypeID", shiftTypeID)
	}
}

/**********************************************
 * compensating-write protocol
 **********************************************/

// sideWrite is one officer's half of a two-sided mutation: the prior row
// for rollback, the desired row (nil meaning delete), and which exception
// kind (working or leave) the write targets.
type sideWrite struct {
	officerID   int64
	date        time.Time
	shiftTypeID int64
	prior       *domain.ScheduleException
	next        *domain.ScheduleException
	isOff       bool
}

func (r *PartnershipResolver) workingSide(officerID int64, date time.Time, shiftTypeID int64, prior, next *domain.ScheduleException) *sideWrite {
	return &sideWrite{officerID: officerID, date: date, shiftTypeID: shiftTypeID, prior: prior, next: next, isOff: false}
}

func (r *PartnershipResolver) leaveSide(officerID int64, date time.Time, shiftTypeID int64, prior, next *domain.ScheduleException) *sideWrite {
	return &sideWrite{officerID: officerID, date: date, shiftTypeID: shiftTypeID, prior: prior, next: next, isOff: true}
}

func (r *PartnershipResolver) applySide(ctx context.Context, s *sideWrite) error {
	if s.next == nil {
		if s.prior != nil {
			return r.store.DeleteException(ctx, s.prior.ID)
		}
		return nil
	}
	return r.store.UpsertException(ctx, s.next)
}

func (r *PartnershipResolver) verifySide(ctx context.Context, s *sideWrite) error {
	var current *domain.ScheduleException
	var err error
	if s.isOff {
		current, err = r.store.GetLeaveException(ctx, s.officerID, s.date, s.shiftTypeID)
	} else {
		current, err = r.store.GetWorkingException(ctx, s.officerID, s.date, s.shiftTypeID)
	}
	if err != nil {
		return err
	}

	if s.next == nil {
		if current != nil && (current.Partnership || current.PartnershipSuspended) {
			return fmt.Errorf("officer %d still carries partnership flags: %w", s.officerID, ErrVerificationFailed)
		}
		return nil
	}

	if current == nil ||
		current.Partnership != s.next.Partnership ||
		current.PartnershipSuspended != s.next.PartnershipSuspended ||
		!partnerIDEqual(current.PartnerID, s.next.PartnerID) {
		return fmt.Errorf("officer %d record does not match written state: %w", s.officerID, ErrVerificationFailed)
	}
	return nil
}

func (r *PartnershipResolver) rollbackSide(ctx context.Context, s *sideWrite) error {
	if s.prior != nil {
		return r.store.UpsertException(ctx, cloneException(s.prior))
	}
	if s.next != nil && s.next.ID != 0 {
		return r.store.DeleteException(ctx, s.next.ID)
	}
	return nil
}

// writeBothSides runs the protocol. A failure on side A leaves nothing to
// compensate; a failure on side B triggers a rollback of side A and returns
// a PartialWriteError either way so the caller can distinguish it from the
// precondition failures.
func (r *PartnershipResolver) writeBothSides(ctx context.Context, op string, a, b *sideWrite) error {
	if err := r.applySide(ctx, a); err != nil {
		return fmt.Errorf("%s: officer %d: %w", op, a.officerID, err)
	}
	if err := r.verifySide(ctx, a); err != nil {
		if rbErr := r.rollbackSide(ctx, a); rbErr != nil {
			return &PartialWriteError{Op: op, WrittenOfficer: a.officerID, FailedOfficer: a.officerID, Err: err, CompensationErr: rbErr}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.applySide(ctx, b); err != nil {
		pw := &PartialWriteError{Op: op, WrittenOfficer: a.officerID, FailedOfficer: b.officerID, Err: err}
		if rbErr := r.rollbackSide(ctx, a); rbErr != nil {
			pw.CompensationErr = rbErr
		}
		r.logger.Error("two-sided partnership write failed", "op", op, "writtenOfficer", a.officerID, "failedOfficer", b.officerID, "error", err)
		return pw
	}
	if err := r.verifySide(ctx, b); err != nil {
		pw := &PartialWriteError{Op: op, WrittenOfficer: a.officerID, FailedOfficer: b.officerID, Err: err}
		if rbErr := r.rollbackSide(ctx, b); rbErr != nil {
			pw.CompensationErr = rbErr
		} else if rbErr := r.rollbackSide(ctx, a); rbErr != nil {
			pw.CompensationErr = rbErr
		}
		r.logger.Error("two-sided partnership verification failed", "op", op, "writtenOfficer", a.officerID, "failedOfficer", b.officerID, "error", err)
		return pw
	}

	return nil
}

/**********************************************
 * row helpers
 **********************************************/

// CarryPartnershipState copies the partnership fields of prior onto next.
// Callers that rebuild an exception row from request input must use it so a
// routine edit cannot half-clear an active pairing. prior may be nil.
func CarryPartnershipState(prior, next *domain.ScheduleException) {
	if prior == nil {
		return
	}
	next.Partnership = prior.Partnership
	next.PartnershipSuspended = prior.PartnershipSuspended
	next.SuspensionReason = prior.SuspensionReason
	if prior.PartnerID != nil {
		id := *prior.PartnerID
		next.PartnerID = &id
	}
}

func cloneException(exc *domain.ScheduleException) *domain.ScheduleException {
	c := *exc
	if exc.PartnerID != nil {
		id := *exc.PartnerID
		c.PartnerID = &id
	}
	if exc.CustomStartTime != nil {
		s := *exc.CustomStartTime
		c.CustomStartTime = &s
	}
	if exc.CustomEndTime != nil {
		s := *exc.CustomEndTime
		c.CustomEndTime = &s
	}
	return &c
}

func cloneOrNewException(prior *domain.ScheduleException, officerID int64, date time.Time, shiftTypeID int64) *domain.ScheduleException {
	if prior != nil {
		return cloneException(prior)
	}
	return &domain.ScheduleException{
		OfficerID:   officerID,
		Date:        date,
		ShiftTypeID: shiftTypeID,
	}
}

// isPartnershipOnlyRow reports whether the exception exists solely to carry
// partnership state and can be deleted outright when the pairing dissolves.
func isPartnershipOnlyRow(exc *domain.ScheduleException) bool {
	return exc.Source == domain.ExceptionSourceManualPartnership &&
		!exc.IsOff &&
		exc.CustomStartTime == nil && exc.CustomEndTime == nil &&
		exc.Notes == ""
}

func partnerIDEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func isRidingPartnerPosition(position string) bool {
	return position == PositionRidingPartner || position == PositionRidingPartnerProbationary
}
