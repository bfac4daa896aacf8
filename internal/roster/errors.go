package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrShiftNotFound is returned when a resolution or mutation references
	// a shift type that does not exist. It is the only condition that fails
	// a whole day's resolution.
	ErrShiftNotFound = errors.New("shift type not found")

	// ErrMissingPartnerReference is returned when a partnership mutation
	// cannot determine the partner's id from any record. The operation must
	// not clear a single side silently.
	ErrMissingPartnerReference = errors.New("partner reference cannot be determined")

	// ErrNoSuspendedPartnership is returned by Restore when no suspended
	// pairing exists for the officer on that date and shift.
	ErrNoSuspendedPartnership = errors.New("no suspended partnership found")

	// ErrVerificationFailed wraps a post-write read-back that did not show
	// the state just written.
	ErrVerificationFailed = errors.New("post-write verification failed")
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConsistencyError rejects a write that would conflict with another
// officer's current state. OfficerID names the conflicting officer.
type ConsistencyError struct {
	OfficerID int64
	Reason    string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("officer %d: %s", e.OfficerID, e.Reason)
}

// PartialWriteError reports a two-sided mutation that succeeded on one
// officer's record but failed on the other. CompensationErr is non-nil when
// the rollback of the succeeded side also failed, in which case the stored
// state needs manual reconciliation.
type PartialWriteError struct {
	Op              string
	WrittenOfficer  int64
	FailedOfficer   int64
	Err             error
	CompensationErr error
}

func (e *PartialWriteError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("%s: wrote officer %d but failed on officer %d (%v); rollback also failed (%v)",
			e.Op, e.WrittenOfficer, e.FailedOfficer, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("%s: wrote officer %d but failed on officer %d (%v); rolled back",
		e.Op, e.WrittenOfficer, e.FailedOfficer, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
