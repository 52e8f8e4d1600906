package schedule

import (
	"context"

	"medibook/models"
)

// AvailabilityService computes bookable slots on demand. Slots are never
// stored; every answer is derived from the template, breaks, leaves and the
// ledger at call time (with a short cache in front).
type AvailabilityService interface {
	DayAvailability(ctx context.Context, doctorID string, date models.CalendarDate) (*models.DayAvailability, error)
	// RangeAvailability generates each day independently, inclusive ends.
	RangeAvailability(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.DayAvailability, error)
}

// BookingService is the only writer of the appointment ledger.
type BookingService interface {
	Book(ctx context.Context, req models.BookSlotRequest) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID string, to models.AppointmentStatus) (*models.Appointment, error)
	History(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.Appointment, error)
}

// ScheduleService manages the inputs to slot generation: the weekly
// template, the break registry and the slot settings.
type ScheduleService interface {
	ReplaceTemplate(ctx context.Context, doctorID string, rules []models.WorkingDayRule) error
	AddBreak(ctx context.Context, doctorID string, req models.AddBreakRequest) (*models.BreakInterval, error)
	RemoveBreak(ctx context.Context, doctorID, breakID string) error
	UpdateSlotSettings(ctx context.Context, doctorID string, slotMinutes, dailyCap int) error
}

// LeaveService manages explicit unavailable date ranges.
type LeaveService interface {
	AddRange(ctx context.Context, doctorID string, req models.AddLeaveRequest) (*models.LeaveRange, error)
	Remove(ctx context.Context, doctorID, leaveID string) error
	BulkRemove(ctx context.Context, doctorID string, leaveIDs []string) (*models.BulkRemoveResult, error)
	List(ctx context.Context, doctorID string) ([]models.LeaveRange, error)
	Summarize(ctx context.Context, doctorID string, asOf models.CalendarDate) (*models.LeaveSummary, error)
}
