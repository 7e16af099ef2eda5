package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-zampay/internal/audit"
	"go-zampay/internal/disciplinary"
	"go-zampay/internal/employee"
	"go-zampay/internal/hraction"
	"go-zampay/internal/messaging/kafka"
	"go-zampay/internal/messaging/kafka/producer"
	"go-zampay/internal/shared/connection"

	"go.uber.org/zap"
)

const disciplinaryExpiryInterval = 1 * time.Hour

// RunWorker starts the background jobs: the outbox relay that publishes
// staged events to Kafka, and the periodic sweep that lapses expired
// disciplinary records.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	auditor := audit.NewRecorder(audit.NewRepository(gormDB))
	disciplinaryService := disciplinary.NewService(
		sqlDB,
		disciplinary.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		hraction.NewRepository(gormDB),
		auditor,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go expireDisciplinaryRecords(ctx, disciplinaryService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func expireDisciplinaryRecords(
	ctx context.Context,
	svc disciplinary.Service,
	logger *zap.Logger,
) {
	log := logger.Named("disciplinary.expiry")
	ticker := time.NewTicker(disciplinaryExpiryInterval)
	defer ticker.Stop()

	// One sweep at startup so a restarted worker does not wait a full interval.
	runDisciplinarySweep(ctx, svc, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("disciplinary expiry job stopped")
			return
		case <-ticker.C:
			runDisciplinarySweep(ctx, svc, log)
		}
	}
}

func runDisciplinarySweep(ctx context.Context, svc disciplinary.Service, log *zap.Logger) {
	expired, err := svc.ExpireLapsed(ctx)
	if err != nil {
		log.Error("expire lapsed disciplinary records failed", zap.Error(err))
		return
	}
	if expired > 0 {
		log.Info("disciplinary records lapsed", zap.Int("count", expired))
	}
}
