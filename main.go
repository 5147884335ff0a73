package main

import (
	"log"

	"hotel-pms/config"
	"hotel-pms/internal/consumer"
	"hotel-pms/internal/handler"
	"hotel-pms/internal/middleware"
	"hotel-pms/internal/repository"
	"hotel-pms/internal/service"
	"hotel-pms/internal/transport"
	"hotel-pms/pkg/database"
	"hotel-pms/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ consumer: channel reservations from the channel-manager feed
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	// RabbitMQ publisher: conflict alerts for the notification dispatcher
	alerts, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to create RabbitMQ publisher: %v", err)
	}
	defer alerts.Close()

	// Repositories
	planRepo := repository.NewRatePlanRepository(db)
	offerRepo := repository.NewSpecialOfferRepository(db)
	queueRepo := repository.NewOfflineQueueRepository(db)
	channelRepo := repository.NewChannelBufferRepository(db)
	conflictRepo := repository.NewConflictRepository(db)
	logRepo := repository.NewSyncLogRepository(db)

	channelConsumer := consumer.NewChannelConsumer(channelRepo)
	channelConsumer.Start(msgs)

	// Services
	rateSvc := service.NewRateService(planRepo, offerRepo, service.DefaultBaseRates, service.DefaultBaseRate)
	submitter := transport.NewSimulatedChannel(cfg.SyncMinDelay, cfg.SyncMaxDelay, cfg.SyncFailureRate)
	syncSvc := service.NewSyncService(queueRepo, channelRepo, conflictRepo, logRepo, submitter, alerts, cfg.SyncTimeout)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "hotel-pms"})
	})

	handler.NewRateHandler(rateSvc, planRepo, offerRepo).RegisterRoutes(e)
	handler.NewSyncHandler(syncSvc, queueRepo, channelRepo, conflictRepo, logRepo).RegisterRoutes(e)

	log.Printf("Hotel PMS starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
