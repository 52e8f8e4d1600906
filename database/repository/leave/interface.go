package leaveRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrNotFound is returned when no leave range matches the given id.
var ErrNotFound = errors.New("leave range not found")

// LeaveRepository stores explicit unavailable date ranges. Ranges are
// immutable: there is no update method, only insert and delete.
type LeaveRepository interface {
	Insert(ctx context.Context, lr *models.LeaveRange) error
	GetByID(ctx context.Context, id string) (*models.LeaveRange, error)
	Delete(ctx context.Context, id string) error
	// ListForDoctor returns the full history, past ranges included.
	ListForDoctor(ctx context.Context, doctorID string) ([]models.LeaveRange, error)
	// ListCovering returns the ranges that include the given date.
	ListCovering(ctx context.Context, doctorID string, date models.CalendarDate) ([]models.LeaveRange, error)
}
