package consumer

import (
	"context"
	"encoding/json"

	"go-zampay/internal/events"
	"go-zampay/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const payslipPageSize = 100

// ConsumePayrollProcessed fans a processed payroll run out into one payslip
// issue per payroll record. A poison message is committed and skipped so it
// cannot wedge the partition.
func ConsumePayrollProcessed(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslip")
	log.Info("payroll payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll payslip consumer stopped")
				return
			}
			log.Error("fetch payroll processed message failed", zap.Error(err))
			continue
		}

		var event events.PayrollProcessedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll_processed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		issued, err := issuePayslipsForPeriod(ctx, payrollService, event, log)
		if err != nil {
			log.Error("issue payslips failed",
				zap.String("company_id", event.CompanyID),
				zap.String("period", event.Period),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll processed message failed", zap.Error(err))
			continue
		}

		log.Info("payslips issued for payroll run",
			zap.String("company_id", event.CompanyID),
			zap.String("period", event.Period),
			zap.Int("issued", issued),
		)
	}
}

func issuePayslipsForPeriod(
	ctx context.Context,
	payrollService payroll.Service,
	event events.PayrollProcessedEvent,
	log *zap.Logger,
) (int, error) {
	issued := 0

	for page := 1; ; page++ {
		records, total, err := payrollService.GetByPeriod(ctx, event.CompanyID, event.Period, page, payslipPageSize)
		if err != nil {
			return issued, err
		}

		for _, record := range records {
			log.Info("payslip issued",
				zap.String("payroll_id", record.ID),
				zap.String("employee_id", record.EmployeeID),
				zap.String("period", record.Period),
				zap.String("net_salary", record.NetSalary),
			)
			issued++
		}

		if int64(page*payslipPageSize) >= total || len(records) == 0 {
			return issued, nil
		}
	}
}
