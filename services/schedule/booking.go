package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medibook/config"
	doctorRepo "medibook/database/repository/doctor"
	leaveRepo "medibook/database/repository/leave"
	ledgerRepo "medibook/database/repository/ledger"
	"medibook/models"
	"medibook/utils"
)

// DefaultBookingService serializes bookings per doctor in-process and
// delegates the final overlap check to the ledger's atomic InsertIfFree, so
// a race lost inside this process and one lost to another instance surface
// as the same coded error.
type DefaultBookingService struct {
	Doctors   doctorRepo.DoctorRepository
	Leaves    leaveRepo.LeaveRepository
	Ledger    ledgerRepo.LedgerRepository
	Cache     SlotCache
	Reminders ReminderScheduler

	locks sync.Map // doctorID -> *sync.Mutex
}

func NewBookingService(doctors doctorRepo.DoctorRepository, leaves leaveRepo.LeaveRepository, ledger ledgerRepo.LedgerRepository, cache SlotCache, reminders ReminderScheduler) *DefaultBookingService {
	return &DefaultBookingService{Doctors: doctors, Leaves: leaves, Ledger: ledger, Cache: cache, Reminders: reminders}
}

func (s *DefaultBookingService) lockFor(doctorID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(doctorID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *DefaultBookingService) Book(ctx context.Context, req models.BookSlotRequest) (*models.Appointment, error) {
	logger := utils.GetLogger().With(
		zap.String("doctorId", req.DoctorID),
		zap.String("patientId", req.PatientID))

	date, err := models.ParseCalendarDate(req.Date)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}
	start, err := models.ParseClock(req.Start)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}

	// Bound the whole attempt. A caller that times out retries with the same
	// request token and is answered by the idempotency lookup below.
	if secs := config.AppConfig.BookingTimeoutSeconds; secs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}

	// A retry after an unknown outcome must find the appointment the first
	// attempt may have committed, not create a second one.
	if req.RequestToken != "" {
		existing, err := s.Ledger.GetByRequestToken(ctx, req.DoctorID, req.RequestToken)
		if err != nil && !errors.Is(err, ledgerRepo.ErrNotFound) {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
		if existing != nil {
			logger.Info("booking retry matched request token", zap.String("appointmentId", existing.ID))
			return existing, nil
		}
	}

	mu := s.lockFor(req.DoctorID)
	mu.Lock()
	defer mu.Unlock()

	doc, err := s.Doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "doctor %s not found", req.DoctorID)
		}
		return nil, fmt.Errorf("fetch doctor for booking: %w", err)
	}

	// Re-derive availability under the lock from fresh reads. Whatever a
	// caller saw earlier does not matter; only this view counts.
	leaves, err := s.Leaves.ListCovering(ctx, req.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch covering leaves: %w", err)
	}
	appts, err := s.Ledger.ListForDay(ctx, req.DoctorID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch day appointments: %w", err)
	}

	day := GenerateSlots(doc, date, leaves, appts)
	switch day.Reason {
	case models.ReasonOnLeave:
		return nil, NewError(CodeDoctorOnLeave, "doctor %s is on leave on %s", req.DoctorID, date)
	case models.ReasonDailyCapacityReached:
		return nil, NewError(CodeDailyCapacityReached, "doctor %s has no capacity left on %s", req.DoctorID, date)
	case models.ReasonNotAWorkingDay:
		// From the booker's side this is the same outcome as losing a race:
		// the slot they held is simply not offered anymore.
		return nil, NewError(CodeSlotNoLongerAvailable, "%s is not a working day for doctor %s", date, req.DoctorID)
	}

	var slot *models.AvailableSlot
	for i := range day.Slots {
		if day.Slots[i].Start == start {
			slot = &day.Slots[i]
			break
		}
	}
	if slot == nil {
		return nil, NewError(CodeSlotNoLongerAvailable, "slot %s on %s is no longer available", start.Clock(), date)
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:            uuid.New().String(),
		DoctorID:      req.DoctorID,
		PatientID:     req.PatientID,
		Date:          date,
		Start:         slot.Start,
		End:           slot.End,
		Status:        models.StatusScheduled,
		PaymentStatus: models.PaymentPending,
		RequestToken:  req.RequestToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Ledger.InsertIfFree(ctx, appt, doc.MaxAppointmentsPerDay); err != nil {
		switch {
		case errors.Is(err, ledgerRepo.ErrSlotTaken):
			return nil, NewError(CodeSlotNoLongerAvailable, "slot %s on %s was taken concurrently", start.Clock(), date)
		case errors.Is(err, ledgerRepo.ErrCapacityReached):
			return nil, NewError(CodeDailyCapacityReached, "doctor %s has no capacity left on %s", req.DoctorID, date)
		}
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, req.DoctorID)
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, appt, doc.Location()); err != nil {
			logger.Warn("reminder scheduling failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	logger.Info("slot booked",
		zap.String("appointmentId", appt.ID),
		zap.String("date", date.String()),
		zap.String("start", slot.Start.Clock()))
	return appt, nil
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, appointmentID string, to models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.Ledger.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrNotFound) {
			return nil, NewError(CodeNotFound, "appointment %s not found", appointmentID)
		}
		return nil, fmt.Errorf("fetch appointment: %w", err)
	}

	if !CanTransition(appt.Status, to) {
		return nil, NewError(CodeInvalidTransition, "cannot move appointment %s from %s to %s", appointmentID, appt.Status, to)
	}

	if err := s.Ledger.UpdateStatus(ctx, appointmentID, to); err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	appt.Status = to
	appt.UpdatedAt = time.Now()

	// Cancelled and no-show entries free their window for regeneration.
	if !appt.Active() && s.Cache != nil {
		s.Cache.Invalidate(ctx, appt.DoctorID)
	}

	utils.GetLogger().Info("appointment status updated",
		zap.String("appointmentId", appointmentID),
		zap.String("status", string(to)))
	return appt, nil
}

func (s *DefaultBookingService) History(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.Appointment, error) {
	if to.Before(from) {
		return nil, NewError(CodeInvalidRange, "range end %s precedes start %s", to, from)
	}
	appts, err := s.Ledger.ListRange(ctx, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointment history: %w", err)
	}
	return appts, nil
}
