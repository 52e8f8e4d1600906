package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

// TypeAppointmentReminder is the asynq task type consumed by the reminder
// worker in cron/worker.go.
const TypeAppointmentReminder = "appointment:reminder"

// ReminderPayload carries only the appointment id; the worker re-reads the
// ledger at delivery time so a cancelled appointment never fires a reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
}

// NewReminderTask builds the asynq task for an appointment reminder.
func NewReminderTask(appointmentID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReminderPayload{AppointmentID: appointmentID})
	if err != nil {
		return nil, fmt.Errorf("marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeAppointmentReminder, payload), nil
}

// ReminderScheduler enqueues a future reminder for a booked appointment.
// Scheduling is best effort: the booking never fails because of it.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt *models.Appointment, loc *time.Location) error
}

// AsynqReminderScheduler enqueues reminders lead minutes before the
// appointment start, in the doctor's timezone.
type AsynqReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

func NewAsynqReminderScheduler(client *asynq.Client, lead time.Duration) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{client: client, lead: lead}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, appt *models.Appointment, loc *time.Location) error {
	fireAt := appt.StartAt(loc).Add(-s.lead)
	if !fireAt.After(time.Now()) {
		// Booked inside the lead window; nothing to remind about.
		return nil
	}

	task, err := NewReminderTask(appt.ID)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	utils.GetLogger().Debug("reminder scheduled",
		zap.String("appointmentId", appt.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
