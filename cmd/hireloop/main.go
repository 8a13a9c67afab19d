package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/auth"
	"github.com/hireloop-dev/hireloop/internal/broadcast"
	"github.com/hireloop-dev/hireloop/internal/config"
	"github.com/hireloop-dev/hireloop/internal/events"
	"github.com/hireloop-dev/hireloop/internal/handlers"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/mailer"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/pipeline"
	"github.com/hireloop-dev/hireloop/internal/router"
	"github.com/hireloop-dev/hireloop/internal/scheduler"
	"github.com/hireloop-dev/hireloop/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hub := broadcast.NewHub(log)
	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	dispatcher := notify.NewDispatcher(store.Notifications{}, hub, smtp, notify.Config{
		MailMaxAttempts: cfg.MailMaxAttempts,
		MailBackoff:     cfg.MailBackoff,
		MailTimeout:     cfg.MailTimeout,
	}, log)

	pool := notify.NewPool(dispatcher, cfg.DispatchWorkers, cfg.DispatchQueueSize, log)
	defer pool.Close()

	pipelineService := pipeline.NewService(store.Applications{}, store.Managers{}, pool, log)
	eventService := events.NewService(store.Events{}, pool, log)

	sched := scheduler.New(store.Sweeps{}, store.Managers{}, pool, log, cfg.CronSpecReminders, cfg.CronSpecJobExpiry)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := router.NewRouter(router.Handlers{
		Auth:          handlers.NewAuthHandler(pool),
		Jobs:          handlers.NewJobHandler(store.Stages{}, pool),
		Stages:        handlers.NewStageHandler(store.Stages{}),
		Applications:  handlers.NewApplicationHandler(pipelineService, pool),
		Events:        handlers.NewEventHandler(eventService),
		Offers:        handlers.NewOfferHandler(pipelineService, pool),
		Companies:     handlers.NewCompanyHandler(pool),
		Notifications: handlers.NewNotificationHandler(store.Notifications{}),
		Hub:           hub,
	})

	errs := make(chan error, 1)
	go func() {
		errs <- r.Run(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		log.Fatalf("Failed to start server: %v", err)
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}
}
