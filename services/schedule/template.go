package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/utils"
)

const minutesPerDay = 24 * 60

// DefaultScheduleService manages the weekly template, break registry and
// slot settings. Every successful mutation invalidates the doctor's cached
// availability.
type DefaultScheduleService struct {
	Doctors doctorRepo.DoctorRepository
	Cache   SlotCache
}

func NewScheduleService(doctors doctorRepo.DoctorRepository, cache SlotCache) *DefaultScheduleService {
	return &DefaultScheduleService{Doctors: doctors, Cache: cache}
}

// ValidateTemplate checks the whole-template invariants: at most one rule
// per weekday, and a valid working span where IsWorking is set. Every path
// that stores a template (doctor creation included) goes through this.
func ValidateTemplate(rules []models.WorkingDayRule) error {
	seen := map[time.Weekday]bool{}
	for _, r := range rules {
		if seen[r.Weekday] {
			return NewError(CodeInvalidRange, "duplicate rule for %s", r.Weekday)
		}
		seen[r.Weekday] = true
		if !r.IsWorking {
			continue
		}
		if r.Start < 0 || r.End > minutesPerDay || r.Start >= r.End {
			return NewError(CodeInvalidRange, "%s working hours %s-%s are not a valid span",
				r.Weekday, r.Start.Clock(), r.End.Clock())
		}
	}
	return nil
}

// ReplaceTemplate swaps the whole recurring template in one write. Partial
// edits are not supported; callers send all seven days (or fewer, leaving
// the missing weekdays non-working).
func (s *DefaultScheduleService) ReplaceTemplate(ctx context.Context, doctorID string, rules []models.WorkingDayRule) error {
	if err := ValidateTemplate(rules); err != nil {
		return err
	}

	if err := s.Doctors.ReplaceWeeklyTemplate(ctx, doctorID, models.WeeklyTemplate(rules)); err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return NewError(CodeNotFound, "doctor %s not found", doctorID)
		}
		return fmt.Errorf("replace weekly template: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("weekly template replaced",
		zap.String("doctorId", doctorID),
		zap.Int("rules", len(rules)))
	return nil
}

func (s *DefaultScheduleService) UpdateSlotSettings(ctx context.Context, doctorID string, slotMinutes, dailyCap int) error {
	if slotMinutes <= 0 || slotMinutes > minutesPerDay {
		return NewError(CodeInvalidRange, "slot duration %d minutes is not valid", slotMinutes)
	}
	if dailyCap < 0 {
		return NewError(CodeInvalidRange, "daily cap must be zero (uncapped) or positive")
	}

	if err := s.Doctors.UpdateSlotSettings(ctx, doctorID, slotMinutes, dailyCap); err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return NewError(CodeNotFound, "doctor %s not found", doctorID)
		}
		return fmt.Errorf("update slot settings: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("slot settings updated",
		zap.String("doctorId", doctorID),
		zap.Int("slotMinutes", slotMinutes),
		zap.Int("dailyCap", dailyCap))
	return nil
}
