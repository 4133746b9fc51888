package app

import (
	"context"
	"errors"

	"go-employees/internal/config"
	"go-employees/internal/messaging/kafka"
	"go-employees/internal/messaging/kafka/producer"
	"go-employees/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	brokers := cfg.Kafka.BrokerList()
	if len(brokers) == 0 {
		return errors.New("EMPLOYEES_KAFKA__BROKERS is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(brokers, cfg.Database.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		producer.WorkerConfig{
			PollInterval: cfg.Kafka.PollInterval,
			BatchSize:    cfg.Kafka.BatchSize,
		},
	)

	log.Info("worker shutting down")
	return nil
}
