package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-zampay/internal/audit"
	"go-zampay/internal/employee"
	"go-zampay/internal/events"
	"go-zampay/internal/hraction"
	"go-zampay/internal/messaging/kafka"
	"go-zampay/internal/paycalc"
	payrollerrors "go-zampay/internal/payroll/errors"
	"go-zampay/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const statisticsCacheTTL = 10 * time.Minute

const statisticsKeyPrefix = "payroll:stats:"

func GetStatisticsKey(companyID, period string) string {
	return statisticsKeyPrefix + companyID + ":" + period
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Process(ctx context.Context, companyID string, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	MarkPaid(ctx context.Context, companyID, recordID string, req MarkPaidRequest) (PayrollRecordResponse, error)
	GetByPeriod(ctx context.Context, companyID, period string, page, pageSize int) ([]PayrollRecordResponse, int64, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string, page, pageSize int) ([]PayrollRecordResponse, int64, error)
	GetStatistics(ctx context.Context, companyID, period string) (Statistics, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	actions   hraction.Repository
	auditor   audit.Recorder
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	engine    *paycalc.Engine
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	actionRepo hraction.Repository,
	auditor audit.Recorder,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	engine *paycalc.Engine,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employeeRepo,
		actions:   actionRepo,
		auditor:   auditor,
		outbox:    outboxRepo,
		rdb:       rdb,
		engine:    engine,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Process(ctx context.Context, companyID string, req ProcessPayrollRequest) (ProcessPayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("process payroll requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("period", req.Period),
	)

	periodStart, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return ProcessPayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process payroll begin tx failed", zap.Error(err))
		return ProcessPayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.ExistsForPeriod(ctx, companyID, req.Period)
	if err != nil {
		return ProcessPayrollResponse{}, err
	}
	if exists {
		return ProcessPayrollResponse{}, payrollerrors.ErrPeriodAlreadyProcessed
	}

	empls, err := s.employees.WithTx(tx).FindActiveByCompany(ctx, companyID)
	if err != nil {
		return ProcessPayrollResponse{}, err
	}
	if len(empls) == 0 {
		return ProcessPayrollResponse{}, payrollerrors.ErrNoActiveEmployees
	}

	actorID := contextutil.GetActorID(ctx)
	actionRepo := s.actions.WithTx(tx)
	auditor := s.auditor.WithTx(tx)

	totalGross := decimal.Zero
	totalNet := decimal.Zero
	for i := range empls {
		empl := &empls[i]

		record, err := s.buildRecord(empl, req.Period, actorID)
		if err != nil {
			s.logger.Error("payroll calculation failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return ProcessPayrollResponse{}, err
		}
		if err := qtx.Create(ctx, record); err != nil {
			s.logger.Error("payroll record persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return ProcessPayrollResponse{}, err
		}

		if err := auditor.Record(ctx, "PayrollRecord", record.ID.String(), audit.ActionCreated,
			nil, record.AuditSnapshot(), actorID, nil); err != nil {
			return ProcessPayrollResponse{}, err
		}

		details, err := json.Marshal(map[string]any{
			"period":     req.Period,
			"gross_pay":  record.GrossPay.StringFixed(2),
			"net_salary": record.NetSalary.StringFixed(2),
		})
		if err != nil {
			return ProcessPayrollResponse{}, err
		}
		action := &hraction.HRAction{
			ID:            uuid.New(),
			CompanyID:     empl.CompanyID,
			EmployeeID:    empl.ID,
			ActionType:    hraction.ActionPayroll,
			ActionDate:    time.Now(),
			EffectiveDate: periodStart,
			PerformedBy:   actorID,
			Details:       datatypes.JSON(details),
			Summary:       "Payroll processed for " + req.Period,
			Status:        hraction.StatusCompleted,
		}
		if err := actionRepo.Create(ctx, action); err != nil {
			return ProcessPayrollResponse{}, err
		}

		totalGross = totalGross.Add(record.GrossPay)
		totalNet = totalNet.Add(record.NetSalary)
	}

	if s.outbox != nil {
		event := events.PayrollProcessedEvent{
			EventType:     "payroll_processed",
			RequestID:     rid,
			CompanyID:     companyID,
			Period:        req.Period,
			EmployeeCount: len(empls),
			OccurredAt:    time.Now().UTC(),
		}
		if actorID != nil {
			event.ProcessedBy = actorID.String()
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return ProcessPayrollResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll",
			AggregateID:   companyID + ":" + req.Period,
			EventType:     event.EventType,
			Topic:         events.PayrollProcessedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("process payroll outbox persist failed", zap.Error(err))
			return ProcessPayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process payroll commit failed", zap.Error(err))
		return ProcessPayrollResponse{}, err
	}

	s.invalidateStatisticsCache(ctx, companyID, req.Period)

	s.logger.Info("payroll processed",
		zap.String("request_id", rid),
		zap.String("period", req.Period),
		zap.Int("employees", len(empls)),
		zap.String("total_net", totalNet.StringFixed(2)),
	)
	return ProcessPayrollResponse{
		Period:        req.Period,
		EmployeeCount: len(empls),
		TotalGross:    totalGross.StringFixed(2),
		TotalNet:      totalNet.StringFixed(2),
	}, nil
}

func (s *service) buildRecord(empl *employee.Employee, period string, actorID *uuid.UUID) (*PayrollRecord, error) {
	allowances, err := parseAllowances(empl.Allowances)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Calculate(paycalc.Input{
		BasicSalary:    empl.Salary,
		Allowances:     allowances,
		Classification: empl.Classification(),
	})
	if err != nil {
		return nil, err
	}

	allowancesJSON, err := json.Marshal(result.Allowances)
	if err != nil {
		return nil, err
	}
	deductionsJSON, err := json.Marshal(result.Deductions)
	if err != nil {
		return nil, err
	}
	contributionsJSON, err := json.Marshal(result.EmployerContributions)
	if err != nil {
		return nil, err
	}

	return &PayrollRecord{
		ID:                    uuid.New(),
		CompanyID:             empl.CompanyID,
		EmployeeID:            empl.ID,
		Period:                period,
		BasicSalary:           result.BasicSalary,
		Allowances:            datatypes.JSON(allowancesJSON),
		TotalAllowances:       result.TotalAllowances,
		GrossPay:              result.GrossPay,
		Deductions:            datatypes.JSON(deductionsJSON),
		TotalDeductions:       result.TotalDeductions,
		NetSalary:             result.NetSalary,
		EmployerContributions: datatypes.JSON(contributionsJSON),
		Status:                StatusProcessed,
		ProcessedBy:           actorID,
	}, nil
}

func (s *service) MarkPaid(ctx context.Context, companyID, recordID string, req MarkPaidRequest) (PayrollRecordResponse, error) {
	s.logger.Debug("mark payroll record paid requested",
		zap.String("company_id", companyID),
		zap.String("record_id", recordID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	record, err := qtx.FindByIDForUpdate(ctx, companyID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollRecordResponse{}, payrollerrors.ErrRecordNotFound
		}
		return PayrollRecordResponse{}, err
	}
	if record.Status != StatusProcessed {
		return PayrollRecordResponse{}, payrollerrors.ErrNotProcessed
	}

	before := record.AuditSnapshot()
	now := time.Now()
	record.Status = StatusPaid
	record.PaymentReference = &req.PaymentReference
	record.PaidAt = &now

	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("mark paid persist failed", zap.Error(err))
		return PayrollRecordResponse{}, err
	}

	if err := s.auditor.WithTx(tx).Record(ctx, "PayrollRecord", record.ID.String(), audit.ActionUpdated,
		before, record.AuditSnapshot(), contextutil.GetActorID(ctx), nil); err != nil {
		return PayrollRecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollRecordResponse{}, err
	}

	s.invalidateStatisticsCache(ctx, companyID, record.Period)

	s.logger.Info("payroll record marked paid",
		zap.String("record_id", recordID),
		zap.String("period", record.Period),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetByPeriod(ctx context.Context, companyID, period string, page, pageSize int) ([]PayrollRecordResponse, int64, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, 0, payrollerrors.ErrInvalidPeriod
	}
	limit, offset := pageBounds(page, pageSize)

	records, total, err := s.repo.FindByPeriod(ctx, companyID, period, limit, offset)
	if err != nil {
		s.logger.Error("list payroll by period failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(records), total, nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string, page, pageSize int) ([]PayrollRecordResponse, int64, error) {
	limit, offset := pageBounds(page, pageSize)

	records, total, err := s.repo.FindByEmployee(ctx, companyID, employeeID, limit, offset)
	if err != nil {
		s.logger.Error("list payroll by employee failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(records), total, nil
}

func (s *service) GetStatistics(ctx context.Context, companyID, period string) (Statistics, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return Statistics{}, payrollerrors.ErrInvalidPeriod
	}

	cacheKey := GetStatisticsKey(companyID, period)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var stats Statistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("payroll statistics cache read failed", zap.Error(err))
		}
	}

	value, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		stats, err := s.repo.Aggregate(ctx, companyID, period)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(stats); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, statisticsCacheTTL).Err(); err != nil {
					s.logger.Warn("payroll statistics cache write failed", zap.Error(err))
				}
			}
		}
		return stats, nil
	})
	if err != nil {
		s.logger.Error("payroll statistics aggregate failed", zap.Error(err))
		return Statistics{}, err
	}
	return *value.(*Statistics), nil
}

func (s *service) invalidateStatisticsCache(ctx context.Context, companyID, period string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, GetStatisticsKey(companyID, period)).Err(); err != nil {
		s.logger.Warn("payroll statistics cache invalidation failed",
			zap.String("company_id", companyID),
			zap.String("period", period),
			zap.Error(err),
		)
	}
}

func parseAllowances(raw datatypes.JSON) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var named map[string]string
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, err
	}
	allowances := make(map[string]decimal.Decimal, len(named))
	for name, amount := range named {
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		allowances[name] = parsed
	}
	return allowances, nil
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}

func mapToResponse(record PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:                    record.ID.String(),
		EmployeeID:            record.EmployeeID.String(),
		Period:                record.Period,
		BasicSalary:           record.BasicSalary.StringFixed(2),
		Allowances:            json.RawMessage(record.Allowances),
		TotalAllowances:       record.TotalAllowances.StringFixed(2),
		GrossPay:              record.GrossPay.StringFixed(2),
		Deductions:            json.RawMessage(record.Deductions),
		TotalDeductions:       record.TotalDeductions.StringFixed(2),
		NetSalary:             record.NetSalary.StringFixed(2),
		EmployerContributions: json.RawMessage(record.EmployerContributions),
		Status:                record.Status,
		PaymentReference:      record.PaymentReference,
	}
	if record.PaidAt != nil {
		paidAt := record.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

func mapToListResponse(records []PayrollRecord) []PayrollRecordResponse {
	res := make([]PayrollRecordResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res
}
