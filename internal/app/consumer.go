package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-zampay/internal/audit"
	"go-zampay/internal/employee"
	"go-zampay/internal/events"
	"go-zampay/internal/hraction"
	"go-zampay/internal/messaging/kafka"
	"go-zampay/internal/messaging/kafka/consumer"
	"go-zampay/internal/paycalc"
	"go-zampay/internal/payroll"
	"go-zampay/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer starts the Kafka consumers: payslip fan-out for processed
// payroll runs and employee option cache invalidation across instances.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	engine, err := paycalc.NewEngine(paycalc.ZambianTaxBands2024)
	if err != nil {
		return err
	}

	auditor := audit.NewRecorder(audit.NewRepository(gormDB))
	payrollService := payroll.NewService(
		sqlDB,
		payroll.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		hraction.NewRepository(gormDB),
		auditor,
		kafka.NewOutboxRepository(sqlDB),
		rdb,
		engine,
	)

	payrollReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollProcessedTopic,
		GroupID:        "go-zampay-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer payrollReader.Close()

	employeeReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        "go-zampay-employee-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer employeeReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollProcessed(ctx, payrollReader, payrollService, logger)
	go consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, rdb, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
