package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	doctorRepoPkg "medibook/database/repository/doctor"
	leaveRepoPkg "medibook/database/repository/leave"
	ledgerRepoPkg "medibook/database/repository/ledger"
	"medibook/handlers"
	"medibook/routes"
	"medibook/services/schedule"
	"medibook/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	doctorRepo := doctorRepoPkg.NewMongoDoctorRepo()
	leaveRepo := leaveRepoPkg.NewMongoLeaveRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoLedgerRepo()

	// reminder queue client, shared by the booking service.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	// services.
	slotCache := schedule.NewRedisSlotCache(utils.GetCacheClient())
	reminders := schedule.NewAsynqReminderScheduler(
		asynqClient,
		time.Duration(config.AppConfig.ReminderLeadMinutes)*time.Minute,
	)

	availabilityService := schedule.NewAvailabilityService(doctorRepo, leaveRepo, ledgerRepo, slotCache)
	bookingService := schedule.NewBookingService(doctorRepo, leaveRepo, ledgerRepo, slotCache, reminders)
	scheduleService := schedule.NewScheduleService(doctorRepo, slotCache)
	leaveService := schedule.NewLeaveService(leaveRepo, slotCache)

	// Background workers.
	cron.InitReminderWorker(ledgerRepo)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Doctors:      doctorRepo,
		Availability: availabilityService,
		Booking:      bookingService,
		Schedule:     scheduleService,
		Leave:        leaveService,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
