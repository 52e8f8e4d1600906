package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/config"
	ledgerRepo "medibook/database/repository/ledger"
	"medibook/services/schedule"
	"medibook/utils"
)

// InitReminderWorker runs the appointment reminder worker in the background.
// Tasks are enqueued at booking time; delivery re-reads the ledger so a
// reminder for a cancelled or no-show appointment is silently dropped.
func InitReminderWorker(ledger ledgerRepo.LedgerRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(schedule.TypeAppointmentReminder, handleReminderTask(ledger))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting reminder worker")

		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("reminder worker exhausted start attempts")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func handleReminderTask(ledger ledgerRepo.LedgerRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p schedule.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			// Retrying cannot fix a malformed payload.
			return nil
		}

		appt, err := ledger.GetByID(ctx, p.AppointmentID)
		if errors.Is(err, ledgerRepo.ErrNotFound) {
			logger.Warn("reminder for unknown appointment", zap.String("appointmentId", p.AppointmentID))
			return nil
		}
		if err != nil {
			// Transient read failure; let asynq retry.
			return err
		}
		if !appt.Active() {
			logger.Debug("skipping reminder for inactive appointment",
				zap.String("appointmentId", appt.ID),
				zap.String("status", string(appt.Status)))
			return nil
		}

		// Delivery (push, SMS) is a downstream collaborator; the worker's job
		// ends at the hand-off.
		logger.Info("appointment reminder due",
			zap.String("appointmentId", appt.ID),
			zap.String("doctorId", appt.DoctorID),
			zap.String("patientId", appt.PatientID),
			zap.String("date", appt.Date.String()),
			zap.String("start", appt.Start.Clock()))
		return nil
	}
}
