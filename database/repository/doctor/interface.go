package doctorRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrNotFound is returned when no doctor matches the given id.
var ErrNotFound = errors.New("doctor not found")

// DoctorRepository is the profile-store boundary: it supplies the weekly
// template, slot settings and break registry for a doctor, and accepts
// whole-value updates (bulk template replace, never per-field patches).
type DoctorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	Create(ctx context.Context, doc *models.Doctor) error
	// ReplaceWeeklyTemplate swaps the entire recurring template in one write.
	ReplaceWeeklyTemplate(ctx context.Context, doctorID string, template models.WeeklyTemplate) error
	AddBreak(ctx context.Context, doctorID string, br models.BreakInterval) error
	RemoveBreak(ctx context.Context, doctorID, breakID string) error
	UpdateSlotSettings(ctx context.Context, doctorID string, slotMinutes, dailyCap int) error
}
