package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agendo/config"
	"agendo/cron"
	"agendo/database"
	appointmentRepo "agendo/database/repository/appointment"
	customerRepo "agendo/database/repository/customer"
	tenantRepo "agendo/database/repository/tenant"
	"agendo/handlers"
	"agendo/middleware"
	"agendo/routes"
	"agendo/services/booking"
	"agendo/services/calendar"
	"agendo/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	db := database.DB()

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	tenRepo := tenantRepo.NewMongoTenantRepo(db)
	custRepo := customerRepo.NewMongoCustomerRepo(db)

	// external calendar.
	calendarTimeout := time.Duration(config.AppConfig.CalendarTimeoutSec) * time.Second
	calendarProvider, err := calendar.NewGoogleProvider(context.Background(),
		config.AppConfig.GoogleCredentialsFile, calendarTimeout)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar provider: %v", err)
	}

	// services.
	holdManager := &booking.HoldManager{
		Repo:         apptRepo,
		DefaultHold:  time.Duration(config.AppConfig.HoldMinutes) * time.Minute,
		MaxHoldTotal: time.Duration(config.AppConfig.MaxHoldTotalMinutes) * time.Minute,
	}
	bookingService := &booking.DefaultBookingService{
		Appointments:     apptRepo,
		Tenants:          tenRepo,
		Customers:        custRepo,
		Calendar:         calendarProvider,
		Holds:            holdManager,
		DirectHold:       time.Duration(config.AppConfig.DirectHoldMinutes) * time.Minute,
		AlternativeSlots: config.AppConfig.AlternativeSlots,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Background hold-expiration sweep.
	stopSweep := cron.InitSweepWorker(holdManager)

	utils.StartHealthMonitor(utils.GetQueueClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, bookingHandler)

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

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
