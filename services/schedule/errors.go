package schedule

import (
	"errors"
	"fmt"
)

// Error codes, grouped by kind. Validation codes are caller errors and never
// retried; contention codes are expected under concurrency and resolved by a
// fresh availability read; infrastructure failures pass through unwrapped.
const (
	// Validation.
	CodeInvalidRange      = "invalidRange"
	CodeOutOfWorkingHours = "outOfWorkingHours"
	CodeOverlap           = "overlap"
	CodeInvalidTransition = "invalidTransition"
	CodeNotFound          = "notFound"

	// Contention.
	CodeSlotNoLongerAvailable = "slotNoLongerAvailable"
	CodeDailyCapacityReached  = "dailyCapacityReached"

	// Booking-time unavailability.
	CodeDoctorOnLeave = "doctorOnLeave"
)

// Error is a coded service error. The code is machine-readable for the
// presentation layer; the message is for logs, not end users.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a coded error.
func NewError(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the service error code, or "" for infrastructure errors.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsContention reports whether the error should be resolved by re-reading
// availability and retrying, rather than treated as a caller bug.
func IsContention(err error) bool {
	switch CodeOf(err) {
	case CodeSlotNoLongerAvailable, CodeDailyCapacityReached:
		return true
	}
	return false
}
