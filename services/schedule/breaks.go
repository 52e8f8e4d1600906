package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/utils"
)

// AddBreak validates and registers a break interval. A break must be a valid
// span, fall inside the working hours of its target day, and not overlap an
// existing break with the same scope.
func (s *DefaultScheduleService) AddBreak(ctx context.Context, doctorID string, req models.AddBreakRequest) (*models.BreakInterval, error) {
	start, err := models.ParseClock(req.Start)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}
	end, err := models.ParseClock(req.End)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}
	if start >= end {
		return nil, NewError(CodeInvalidRange, "break %s-%s is not a valid span", start.Clock(), end.Clock())
	}

	br := models.BreakInterval{
		ID:      uuid.New().String(),
		Weekday: req.Weekday,
		Start:   start,
		End:     end,
		Label:   req.Label,
	}
	if req.Date != "" {
		date, err := models.ParseCalendarDate(req.Date)
		if err != nil {
			return nil, NewError(CodeInvalidRange, "%v", err)
		}
		br.Date = date
		br.Weekday = date.Weekday()
	}

	doc, err := s.Doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "doctor %s not found", doctorID)
		}
		return nil, fmt.Errorf("fetch doctor for break: %w", err)
	}

	rule := doc.WeeklyTemplate.RuleFor(br.Weekday)
	if !rule.IsWorking {
		return nil, NewError(CodeOutOfWorkingHours, "%s is not a working day", br.Weekday)
	}
	if start < rule.Start || end > rule.End {
		return nil, NewError(CodeOutOfWorkingHours, "break %s-%s falls outside working hours %s-%s",
			start.Clock(), end.Clock(), rule.Start.Clock(), rule.End.Clock())
	}

	for _, other := range doc.Breaks {
		if !sameScope(br, other) {
			continue
		}
		if start < other.End && other.Start < end {
			return nil, NewError(CodeOverlap, "break %s-%s overlaps existing break %q (%s-%s)",
				start.Clock(), end.Clock(), other.Label, other.Start.Clock(), other.End.Clock())
		}
	}

	if err := s.Doctors.AddBreak(ctx, doctorID, br); err != nil {
		return nil, fmt.Errorf("store break: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("break added",
		zap.String("doctorId", doctorID),
		zap.String("breakId", br.ID),
		zap.String("label", br.Label))
	return &br, nil
}

// sameScope reports whether two breaks can ever apply to the same day: both
// on one weekday, both on one date, or a date-scoped break landing on the
// other's weekday.
func sameScope(a, b models.BreakInterval) bool {
	switch {
	case a.Date.IsZero() && b.Date.IsZero():
		return a.Weekday == b.Weekday
	case !a.Date.IsZero() && !b.Date.IsZero():
		return a.Date.Equal(b.Date)
	case a.Date.IsZero():
		return a.Weekday == b.Date.Weekday()
	default:
		return a.Date.Weekday() == b.Weekday
	}
}

func (s *DefaultScheduleService) RemoveBreak(ctx context.Context, doctorID, breakID string) error {
	if err := s.Doctors.RemoveBreak(ctx, doctorID, breakID); err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return NewError(CodeNotFound, "break %s not found for doctor %s", breakID, doctorID)
		}
		return fmt.Errorf("remove break: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("break removed",
		zap.String("doctorId", doctorID),
		zap.String("breakId", breakID))
	return nil
}
