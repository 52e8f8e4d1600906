package schedule

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	doctorRepo "medibook/database/repository/doctor"
	leaveRepo "medibook/database/repository/leave"
	ledgerRepo "medibook/database/repository/ledger"
	"medibook/models"
	"medibook/utils"
)

// DefaultAvailabilityService derives slots from the doctor record, the leave
// store and the ledger. Cache may be nil; results are then always recomputed.
type DefaultAvailabilityService struct {
	Doctors doctorRepo.DoctorRepository
	Leaves  leaveRepo.LeaveRepository
	Ledger  ledgerRepo.LedgerRepository
	Cache   SlotCache
}

func NewAvailabilityService(doctors doctorRepo.DoctorRepository, leaves leaveRepo.LeaveRepository, ledger ledgerRepo.LedgerRepository, cache SlotCache) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{Doctors: doctors, Leaves: leaves, Ledger: ledger, Cache: cache}
}

func (s *DefaultAvailabilityService) DayAvailability(ctx context.Context, doctorID string, date models.CalendarDate) (*models.DayAvailability, error) {
	logger := utils.GetLogger().With(zap.String("doctorId", doctorID), zap.String("date", date.String()))

	if s.Cache != nil {
		if day, ok := s.Cache.GetDay(ctx, doctorID, date); ok {
			return day, nil
		}
	}

	doc, err := s.Doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "doctor %s not found", doctorID)
		}
		return nil, fmt.Errorf("fetch doctor for availability: %w", err)
	}

	leaves, err := s.Leaves.ListCovering(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch covering leaves: %w", err)
	}

	appts, err := s.Ledger.ListForDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch day appointments: %w", err)
	}

	day := GenerateSlots(doc, date, leaves, appts)
	logger.Debug("generated availability",
		zap.Int("slots", len(day.Slots)),
		zap.String("reason", string(day.Reason)))

	if s.Cache != nil {
		s.Cache.SetDay(ctx, day)
	}
	return day, nil
}

func (s *DefaultAvailabilityService) RangeAvailability(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.DayAvailability, error) {
	if to.Before(from) {
		return nil, NewError(CodeInvalidRange, "range end %s precedes start %s", to, from)
	}

	var days []models.DayAvailability
	for d := from; !d.After(to); d = d.AddDays(1) {
		day, err := s.DayAvailability(ctx, doctorID, d)
		if err != nil {
			return nil, err
		}
		days = append(days, *day)
	}
	return days, nil
}

// GenerateSlots is the pure core of the engine: same inputs, same slots.
// Precedence per day is working rule, then leave, then daily cap, then
// breaks, then already-booked windows. All interval math is half-open, so
// a slot ending 10:00 and one starting 10:00 never conflict.
func GenerateSlots(doc *models.Doctor, date models.CalendarDate, leaves []models.LeaveRange, appts []models.Appointment) *models.DayAvailability {
	day := &models.DayAvailability{
		DoctorID: doc.ID,
		Date:     date,
		Slots:    []models.AvailableSlot{},
	}

	// An invalid stored span (legacy data that predates template validation)
	// is treated as a non-working day, never as leave.
	rule := doc.WeeklyTemplate.RuleFor(date.Weekday())
	if !rule.IsWorking || rule.Start >= rule.End {
		day.Reason = models.ReasonNotAWorkingDay
		return day
	}

	start, end := rule.Start, rule.End
	mid := rule.Midpoint()
	for _, l := range leaves {
		if !l.Covers(date) {
			continue
		}
		switch l.Granularity {
		case models.LeaveFullDay:
			day.Reason = models.ReasonOnLeave
			return day
		case models.LeaveMorningOnly, models.LeaveHalfDay:
			if start < mid {
				start = mid
			}
		case models.LeaveAfternoonOnly:
			if end > mid {
				end = mid
			}
		}
	}
	if start >= end {
		// Opposing half-day leaves shrank the span to nothing.
		day.Reason = models.ReasonOnLeave
		return day
	}

	active := 0
	for _, a := range appts {
		if a.Active() {
			active++
		}
	}
	remaining := -1
	if doc.MaxAppointmentsPerDay > 0 {
		remaining = doc.MaxAppointmentsPerDay - active
		if remaining <= 0 {
			day.Reason = models.ReasonDailyCapacityReached
			return day
		}
	}

	spans := subtractBreaks(start, end, breaksFor(doc.Breaks, date))

	dur := models.MinuteOfDay(doc.SlotDurationMinutes)
	if dur <= 0 {
		dur = 30
	}
	for _, sp := range spans {
		// Only whole slots; a trailing partial window is dropped.
		for at := sp.start; at+dur <= sp.end; at += dur {
			if bookedOver(appts, at, at+dur) {
				continue
			}
			day.Slots = append(day.Slots, models.AvailableSlot{
				DoctorID:          doc.ID,
				Date:              date,
				Start:             at,
				End:               at + dur,
				CapacityRemaining: remaining,
			})
		}
	}
	return day
}

type span struct {
	start, end models.MinuteOfDay
}

func breaksFor(breaks []models.BreakInterval, date models.CalendarDate) []models.BreakInterval {
	var out []models.BreakInterval
	for _, b := range breaks {
		if b.AppliesTo(date) {
			out = append(out, b)
		}
	}
	return out
}

// subtractBreaks removes each break window from the working span, yielding
// the ordered bookable sub-spans. Breaks may overlap each other.
func subtractBreaks(start, end models.MinuteOfDay, breaks []models.BreakInterval) []span {
	spans := []span{{start, end}}
	for _, b := range breaks {
		var next []span
		for _, sp := range spans {
			if b.Start >= sp.end || b.End <= sp.start {
				next = append(next, sp)
				continue
			}
			if b.Start > sp.start {
				next = append(next, span{sp.start, b.Start})
			}
			if b.End < sp.end {
				next = append(next, span{b.End, sp.end})
			}
		}
		spans = next
	}
	return spans
}

func bookedOver(appts []models.Appointment, start, end models.MinuteOfDay) bool {
	for _, a := range appts {
		if a.Active() && a.Overlaps(start, end) {
			return true
		}
	}
	return false
}
