package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinichub/clinic-booking/internal/app"
	"github.com/clinichub/clinic-booking/internal/config"
	"github.com/clinichub/clinic-booking/internal/controller"
	"github.com/clinichub/clinic-booking/internal/repository"
	"github.com/clinichub/clinic-booking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting clinic booking server",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.HTTPPort),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := app.ConnectDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	clinicRepo := repository.NewClinicRepository(pool)
	medicalServiceRepo := repository.NewMedicalServiceRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	requestChangeRepo := repository.NewRequestChangeRepository(pool)
	leaveRepo := repository.NewLeaveRepository(pool)
	consultationRepo := repository.NewConsultationRepository(pool)
	healthRecordRepo := repository.NewHealthRecordRepository(pool)
	historyLogRepo := repository.NewHistoryLogRepository(pool)

	auditService := service.NewAuditService(historyLogRepo, logger)
	userService := service.NewUserService(userRepo, healthRecordRepo, auditService, cfg.JWTSecret, cfg.JWTExpiry, logger)
	clinicService := service.NewClinicService(clinicRepo, medicalServiceRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, requestChangeRepo, clinicRepo, userRepo, auditService, logger)
	leaveService := service.NewLeaveService(leaveRepo, scheduleRepo, userRepo, auditService, logger)
	bookingService := service.NewBookingService(consultationRepo, scheduleRepo, userRepo, leaveRepo, auditService, cfg.DefaultPageSize, logger)
	healthRecordService := service.NewHealthRecordService(healthRecordRepo, auditService, logger)

	scheduler := app.NewScheduler(scheduleService, cfg.ScheduleApplyTick, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := controller.NewRouter(userService, clinicService, scheduleService, leaveService, bookingService, healthRecordService, auditService)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
