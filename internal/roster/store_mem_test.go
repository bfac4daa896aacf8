package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	shifts     map[int64]*domain.ShiftType
	recurring  []*domain.RecurringAssignment
	exceptions map[int64]*domain.ScheduleException
	officers   map[int64]*domain.OfficerProfile
	defaults   []*domain.DefaultAssignment
	minimums   map[string]*domain.MinimumStaffing
	audits     []*domain.PartnershipAudit

	nextExceptionID int64
}

func newMemStore() *memStore {
	return &memStore{
		shifts:     make(map[int64]*domain.ShiftType),
		exceptions: make(map[int64]*domain.ScheduleException),
		officers:   make(map[int64]*domain.OfficerProfile),
		minimums:   make(map[string]*domain.MinimumStaffing),
	}
}

func minimumKey(dayOfWeek int32, shiftTypeID int64) string {
	return fmt.Sprintf("%d/%d", dayOfWeek, shiftTypeID)
}

func (s *memStore) GetShiftType(_ context.Context, id int64) (*domain.ShiftType, error) {
	st, ok := s.shifts[id]
	if !ok {
		return nil, ErrShiftNotFound
	}
	return st, nil
}

func (s *memStore) ListRecurring(_ context.Context, shiftTypeID int64, start, end time.Time) ([]*domain.RecurringAssignment, error) {
	out := make([]*domain.RecurringAssignment, 0)
	for _, ra := range s.recurring {
		if ra.ShiftTypeID != shiftTypeID {
			continue
		}
		if ra.EffectiveEnd != nil && ra.EffectiveEnd.Before(start) {
			continue
		}
		if ra.EffectiveStart.After(end) {
			continue
		}
		out = append(out, ra)
	}
	return out, nil
}

func (s *memStore) ListExceptions(_ context.Context, date time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error) {
	out := make([]*domain.ScheduleException, 0)
	for _, exc := range s.exceptions {
		if exc.ShiftTypeID == shiftTypeID && exc.Date.Equal(date) {
			out = append(out, cloneException(exc))
		}
	}
	return out, nil
}

func (s *memStore) ListExceptionsInRange(_ context.Context, start, end time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error) {
	out := make([]*domain.ScheduleException, 0)
	for _, exc := range s.exceptions {
		if exc.ShiftTypeID != shiftTypeID || exc.Date.Before(start) || exc.Date.After(end) {
			continue
		}
		out = append(out, cloneException(exc))
	}
	return out, nil
}

func (s *memStore) getByKey(officerID int64, date time.Time, shiftTypeID int64, isOff bool) *domain.ScheduleException {
	for _, exc := range s.exceptions {
		if exc.OfficerID == officerID && exc.ShiftTypeID == shiftTypeID && exc.IsOff == isOff && exc.Date.Equal(date) {
			return exc
		}
	}
	return nil
}

func (s *memStore) GetWorkingException(_ context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error) {
	if exc := s.getByKey(officerID, date, shiftTypeID, false); exc != nil {
		return cloneException(exc), nil
	}
	return nil, nil
}

func (s *memStore) GetLeaveException(_ context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error) {
	if exc := s.getByKey(officerID, date, shiftTypeID, true); exc != nil {
		return cloneException(exc), nil
	}
	return nil, nil
}

func (s *memStore) UpsertException(_ context.Context, exc *domain.ScheduleException) error {
	if existing := s.getByKey(exc.OfficerID, exc.Date, exc.ShiftTypeID, exc.IsOff); existing != nil {
		exc.ID = existing.ID
		exc.Version = existing.Version + 1
	} else {
		s.nextExceptionID++
		exc.ID = s.nextExceptionID
		exc.Version = 1
	}
	s.exceptions[exc.ID] = cloneException(exc)
	return nil
}

func (s *memStore) DeleteException(_ context.Context, id int64) error {
	delete(s.exceptions, id)
	return nil
}

func (s *memStore) ListOfficers(_ context.Context, ids []int64) ([]*domain.OfficerProfile, error) {
	out := make([]*domain.OfficerProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.officers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) ListDefaultAssignments(_ context.Context, date time.Time) ([]*domain.DefaultAssignment, error) {
	out := make([]*domain.DefaultAssignment, 0)
	for _, da := range s.defaults {
		if da.Contains(date) {
			out = append(out, da)
		}
	}
	return out, nil
}

func (s *memStore) GetMinimumStaffing(_ context.Context, dayOfWeek int32, shiftTypeID int64) (*domain.MinimumStaffing, error) {
	return s.minimums[minimumKey(dayOfWeek, shiftTypeID)], nil
}

func (s *memStore) InsertPartnershipAudit(_ context.Context, entry *domain.PartnershipAudit) error {
	entry.ID = int64(len(s.audits) + 1)
	s.audits = append(s.audits, entry)
	return nil
}

func (s *memStore) ResolveSuspensionAudits(_ context.Context, officerID, partnerID int64, date time.Time, shiftTypeID int64) error {
	now := time.Now()
	for _, a := range s.audits {
		if a.Action != domain.PartnershipAuditSuspended || a.ResolvedAt != nil {
			continue
		}
		if !a.Date.Equal(date) || a.ShiftTypeID != shiftTypeID {
			continue
		}
		if (a.OfficerID == officerID && a.PartnerID == partnerID) || (a.OfficerID == partnerID && a.PartnerID == officerID) {
			a.ResolvedAt = &now
		}
	}
	return nil
}
