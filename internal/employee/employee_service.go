package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-zampay/internal/audit"
	employeeerrors "go-zampay/internal/employee/errors"
	"go-zampay/internal/events"
	"go-zampay/internal/messaging/kafka"
	"go-zampay/internal/shared/contextutil"
	"go-zampay/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	auditor audit.Recorder
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	auditor audit.Recorder,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		auditor: auditor,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	salary, err := parseSalary(req.Salary)
	if err != nil {
		s.logger.Warn("create employee invalid salary",
			zap.String("salary", req.Salary), zap.Error(err))
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		s.logger.Warn("create employee invalid start_date",
			zap.String("start_date", req.StartDate), zap.Error(err))
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}
	probationEnd, err := parseDatePtr(req.ProbationEndDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}
	contractEnd, err := parseDatePtr(req.ContractEndDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDateFormat
	}

	allowances, err := marshalAllowances(req.Allowances)
	if err != nil {
		s.logger.Warn("create employee invalid allowances", zap.Error(err))
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.SupervisorID != nil {
		exists, err := qtx.ExistsByIDAndCompany(ctx, companyID, *req.SupervisorID)
		if err != nil {
			s.logger.Error("create employee supervisor lookup failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if !exists {
			s.logger.Warn("create employee supervisor not found",
				zap.String("supervisor_id", *req.SupervisorID))
			return EmployeeResponse{}, employeeerrors.ErrSupervisorNotFound
		}
	}

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	status := StatusActive
	if req.EmploymentType == EmploymentTypeProbation {
		status = StatusProbation
	}

	actorID := contextutil.GetActorID(ctx)
	empl := &Employee{
		ID:                    uuid.New(),
		CompanyID:             companyUUID,
		EmployeeNumber:        req.EmployeeNumber,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		NationalID:            req.NationalID,
		NapsaNumber:           req.NapsaNumber,
		NhimaNumber:           req.NhimaNumber,
		Tpin:                  req.Tpin,
		Department:            req.Department,
		Position:              req.Position,
		SupervisorID:          uuidPtr(req.SupervisorID),
		WorkLocation:          req.WorkLocation,
		EmploymentType:        req.EmploymentType,
		EmploymentStatus:      status,
		StartDate:             startDate,
		ProbationEndDate:      probationEnd,
		ContractEndDate:       contractEnd,
		Salary:                salary,
		SalaryCurrency:        "ZMW",
		Allowances:            allowances,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		CreatedBy:             actorID,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionCreated,
		nil, empl.AuditSnapshot(), actorID, nil); err != nil {
		s.logger.Error("create employee audit write failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			CompanyID:  companyID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeOptionResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses a stampede of concurrent misses into one query.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOptionResponse{
				ID:             e.ID.String(),
				EmployeeNumber: e.EmployeeNumber,
				FullName:       e.FullName(),
				Department:     e.Department,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	before := empl.AuditSnapshot()

	if req.SupervisorID != nil {
		exists, err := qtx.ExistsByIDAndCompany(ctx, companyID, *req.SupervisorID)
		if err != nil {
			s.logger.Error("update employee supervisor lookup failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrSupervisorNotFound
		}
	}

	actorID := contextutil.GetActorID(ctx)
	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Email = req.Email
	empl.Phone = req.Phone
	empl.NationalID = req.NationalID
	empl.NapsaNumber = req.NapsaNumber
	empl.NhimaNumber = req.NhimaNumber
	empl.Tpin = req.Tpin
	empl.Department = req.Department
	empl.Position = req.Position
	empl.SupervisorID = uuidPtr(req.SupervisorID)
	empl.WorkLocation = req.WorkLocation
	empl.EmergencyContactName = req.EmergencyContactName
	empl.EmergencyContactPhone = req.EmergencyContactPhone
	empl.UpdatedBy = actorID

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil); err != nil {
		s.logger.Error("update employee audit write failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("delete employee fetch existing failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	actorID := contextutil.GetActorID(ctx)
	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", id, audit.ActionDeleted,
		empl.AuditSnapshot(), nil, actorID, nil); err != nil {
		s.logger.Error("delete employee audit write failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                  empl.ID.String(),
		CompanyID:           empl.CompanyID.String(),
		EmployeeNumber:      empl.EmployeeNumber,
		FirstName:           empl.FirstName,
		LastName:            empl.LastName,
		FullName:            empl.FullName(),
		Email:               empl.Email,
		Phone:               empl.Phone,
		NationalID:          empl.NationalID,
		NapsaNumber:         empl.NapsaNumber,
		NhimaNumber:         empl.NhimaNumber,
		Tpin:                empl.Tpin,
		Department:          empl.Department,
		Position:            empl.Position,
		SupervisorID:        uuidToString(empl.SupervisorID),
		WorkLocation:        empl.WorkLocation,
		EmploymentType:      empl.EmploymentType,
		EmploymentStatus:    empl.EmploymentStatus,
		StartDate:           empl.StartDate.Format("2006-01-02"),
		EndDate:             formatDatePtr(empl.EndDate),
		ProbationEndDate:    formatDatePtr(empl.ProbationEndDate),
		ContractEndDate:     formatDatePtr(empl.ContractEndDate),
		Salary:              empl.Salary.StringFixed(2),
		SalaryCurrency:      empl.SalaryCurrency,
		HasLiveDisciplinary: empl.HasLiveDisciplinary,
	}
	if allowances, err := unmarshalAllowances(empl.Allowances); err == nil {
		resp.Allowances = allowances
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func parseSalary(raw string) (decimal.Decimal, error) {
	salary, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if salary.IsNegative() {
		return decimal.Zero, fmt.Errorf("salary must not be negative")
	}
	return salary, nil
}

func marshalAllowances(allowances map[string]string) (datatypes.JSON, error) {
	if len(allowances) == 0 {
		return nil, nil
	}
	for name, raw := range allowances {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("allowance %q: %w", name, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("allowance %q must not be negative", name)
		}
	}
	data, err := json.Marshal(allowances)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func unmarshalAllowances(data datatypes.JSON) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var allowances map[string]string
	if err := json.Unmarshal(data, &allowances); err != nil {
		return nil, err
	}
	return allowances, nil
}

func parseDatePtr(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func uuidPtr(v *string) *uuid.UUID {
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil
	}
	return &id
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
