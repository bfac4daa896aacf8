package roster

import (
	"context"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

// Store is the repository contract the engine and resolvers consume. It is
// plain CRUD; implementations decide the storage engine. Lookups that find
// nothing return (nil, nil) except GetShiftType, which returns
// ErrShiftNotFound so that a whole resolution can fail on a bad shift id.
//
// Implementations do not need multi-row atomicity: the PartnershipResolver
// runs a compensating-write protocol on top of single-row operations.
type Store interface {
	GetShiftType(ctx context.Context, id int64) (*domain.ShiftType, error)

	// ListRecurring returns recurring assignments for the shift whose
	// effective range intersects [start, end], any weekday.
	ListRecurring(ctx context.Context, shiftTypeID int64, start, end time.Time) ([]*domain.RecurringAssignment, error)

	ListExceptions(ctx context.Context, date time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error)
	ListExceptionsInRange(ctx context.Context, start, end time.Time, shiftTypeID int64) ([]*domain.ScheduleException, error)

	// GetWorkingException and GetLeaveException return the single working
	// (is_off = false) or leave (is_off = true) row for the key, or nil.
	GetWorkingException(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error)
	GetLeaveException(ctx context.Context, officerID int64, date time.Time, shiftTypeID int64) (*domain.ScheduleException, error)

	// UpsertException inserts or replaces the row keyed by
	// (officer, date, shift, is_off) and fills in the row id.
	UpsertException(ctx context.Context, exc *domain.ScheduleException) error
	DeleteException(ctx context.Context, id int64) error

	ListOfficers(ctx context.Context, ids []int64) ([]*domain.OfficerProfile, error)
	ListDefaultAssignments(ctx context.Context, date time.Time) ([]*domain.DefaultAssignment, error)

	// GetMinimumStaffing returns nil when no row is configured for the
	// (weekday, shift); the calculator then applies its defaults.
	GetMinimumStaffing(ctx context.Context, dayOfWeek int32, shiftTypeID int64) (*domain.MinimumStaffing, error)

	InsertPartnershipAudit(ctx context.Context, entry *domain.PartnershipAudit) error

	// ResolveSuspensionAudits closes any open suspension entries for the
	// officer pair on the date and shift.
	ResolveSuspensionAudits(ctx context.Context, officerID, partnerID int64, date time.Time, shiftTypeID int64) error
}
