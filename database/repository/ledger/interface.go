package ledgerRepo

import (
	"context"
	"errors"

	"medibook/models"
)

var (
	// ErrNotFound is returned when no appointment matches the given id.
	ErrNotFound = errors.New("appointment not found")
	// ErrSlotTaken is returned by InsertIfFree when the requested window
	// overlaps an active appointment.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrCapacityReached is returned by InsertIfFree when the doctor's daily
	// appointment cap is already met.
	ErrCapacityReached = errors.New("daily capacity reached")
)

// LedgerRepository is the system of record for committed appointments. The
// scheduling engine only reads it; all writes go through the booking
// coordinator.
type LedgerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// GetByRequestToken supports idempotent booking retries: a retry with the
	// same token finds the appointment the interrupted attempt created.
	GetByRequestToken(ctx context.Context, doctorID, token string) (*models.Appointment, error)
	ListForDay(ctx context.Context, doctorID string, date models.CalendarDate) ([]models.Appointment, error)
	// ListRange enumerates history for the export/report collaborator,
	// inclusive on both ends.
	ListRange(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.Appointment, error)
	// InsertIfFree appends the appointment only if its window overlaps no
	// active entry and the daily cap (0 = uncapped) is not yet met. The check
	// and the insert are one atomic step.
	InsertIfFree(ctx context.Context, appt *models.Appointment, dailyCap int) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}
