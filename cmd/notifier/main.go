package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	handler "stock-alert-service/app/handler/api"
	"stock-alert-service/app/handler/consumer"
	"stock-alert-service/app/middleware"
	"stock-alert-service/app/repository/broker"
	"stock-alert-service/app/repository/db"
	"stock-alert-service/app/repository/mailer"
	"stock-alert-service/app/usecase"
	"stock-alert-service/config"
	"stock-alert-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	slogfiber "github.com/samber/slog-fiber"
)

func main() {
	// init logger
	logger.InitLogger()

	ctx := context.Background()
	// init config
	cfg, err := config.InitConfig(ctx)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		return
	}

	// init database
	dbConn, err := db.NewPostgres(cfg.Db)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		return
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn, cfg.Db.MigrationsDir); err != nil {
		slog.Error("DB migration failed", "error", err)
		return
	}

	// init alert channel
	eventBroker, brokerShutdown, err := broker.New(ctx, cfg.Broker)
	if err != nil {
		slog.Error("broker init failed", "error", err)
		return
	}
	defer brokerShutdown()

	// init email dispatcher
	dispatcher, err := mailer.New(cfg.Email)
	if err != nil {
		slog.Error("mailer init failed", "error", err)
		return
	}

	reqValidator := validator.New()
	notificationRepo := db.NewNotificationRepository(dbConn)
	notificationUsecase := usecase.NewNotificationUsecase(notificationRepo, dispatcher, eventBroker, cfg.Email.AdminEmail)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase, reqValidator)

	// start the alert consumer
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	eventConsumer := consumer.New(eventBroker, notificationUsecase, cfg.Consumer)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := eventConsumer.Run(consumerCtx); err != nil {
			slog.Error("consumer stopped", "error", err)
		}
	}()

	// Initialize HTTP web framework
	app := fiber.New()
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/live",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return dbConn.PingContext(c.Context()) == nil
		},
		ReadinessEndpoint: "/ready",
	}))
	webLogger := slog.New(&logger.RequestIDHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})})
	app.Use(slogfiber.New(webLogger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RequestIDMiddleware())

	handler.SetupNotifierRouter(app, notificationHandler, cfg)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Failed to listen", "port", cfg.Port)
			return
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("Gracefully shutdown")
	case <-consumerDone:
		slog.Error("consumer exited unexpectedly, shutting down")
	}

	// Stop taking new messages, let in-flight ones drain, then close the
	// HTTP side. The broker and database close via the defers above.
	cancelConsumer()
	<-consumerDone
	err = app.Shutdown()
	if err != nil {
		slog.Warn("Unfortunately the shutdown wasn't smooth", "err", err)
	}
}
