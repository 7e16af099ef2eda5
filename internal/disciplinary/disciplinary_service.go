package disciplinary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-zampay/internal/audit"
	disciplinaryerrors "go-zampay/internal/disciplinary/errors"
	"go-zampay/internal/employee"
	employeeerrors "go-zampay/internal/employee/errors"
	"go-zampay/internal/hraction"
	"go-zampay/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=disciplinary_service.go -destination=mock/disciplinary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateDisciplinaryRequest) (DisciplinaryRecordResponse, error)
	Deactivate(ctx context.Context, companyID, recordID string, req DeactivateDisciplinaryRequest) (DisciplinaryRecordResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string, activeOnly bool, page, pageSize int) ([]DisciplinaryRecordResponse, int64, error)
	// ExpireLapsed deactivates records past valid_until and clears the live
	// flag on employees left with nothing active. Run from the worker.
	ExpireLapsed(ctx context.Context) (int, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	actions   hraction.Repository
	auditor   audit.Recorder
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	actionRepo hraction.Repository,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("disciplinary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("disciplinary.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employeeRepo,
		actions:   actionRepo,
		auditor:   auditor,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateDisciplinaryRequest) (DisciplinaryRecordResponse, error) {
	s.logger.Debug("create disciplinary record requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("action_type", req.ActionType),
	)

	if !ValidType(req.ActionType) {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrInvalidType
	}
	severity := req.Severity
	if severity == "" {
		severity = SeverityMedium
	}
	if !ValidSeverity(severity) {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrInvalidSeverity
	}

	issuedDate, err := time.Parse("2006-01-02", req.IssuedDate)
	if err != nil {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrInvalidDateFormat
	}
	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrInvalidDateFormat
	}
	if !validUntil.After(issuedDate) {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrInvalidValidUntil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create disciplinary begin tx failed", zap.Error(err))
		return DisciplinaryRecordResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DisciplinaryRecordResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return DisciplinaryRecordResponse{}, err
	}

	qtx := s.repo.WithTx(tx)

	// A final warning is an escalation, not an opener.
	if req.ActionType == TypeFinalWarning {
		written, err := qtx.CountActiveByType(ctx, companyID, req.EmployeeID, TypeWrittenWarning)
		if err != nil {
			return DisciplinaryRecordResponse{}, err
		}
		if written == 0 {
			s.logger.Warn("final warning without active written warning",
				zap.String("employee_id", req.EmployeeID),
			)
			return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrFinalWarningRequiresWrittenWarning
		}
	}

	actorID := contextutil.GetActorID(ctx)

	details, err := json.Marshal(map[string]any{
		"disciplinary_type": req.ActionType,
		"reason":            req.Reason,
		"severity":          severity,
		"valid_until":       validUntil.Format("2006-01-02"),
	})
	if err != nil {
		return DisciplinaryRecordResponse{}, err
	}
	action := &hraction.HRAction{
		ID:            uuid.New(),
		CompanyID:     empl.CompanyID,
		EmployeeID:    empl.ID,
		ActionType:    hraction.ActionDisciplinary,
		ActionDate:    time.Now(),
		EffectiveDate: issuedDate,
		PerformedBy:   actorID,
		Details:       datatypes.JSON(details),
		Summary:       "Disciplinary action issued: " + req.ActionType,
		Status:        hraction.StatusCompleted,
		Comments:      req.Comments,
	}
	if err := s.actions.WithTx(tx).Create(ctx, action); err != nil {
		s.logger.Error("create disciplinary hr action failed", zap.Error(err))
		return DisciplinaryRecordResponse{}, err
	}

	record := &DisciplinaryRecord{
		ID:          uuid.New(),
		CompanyID:   empl.CompanyID,
		EmployeeID:  empl.ID,
		HRActionID:  &action.ID,
		ActionType:  req.ActionType,
		Reason:      req.Reason,
		Severity:    severity,
		IssuedDate:  issuedDate,
		ValidUntil:  validUntil,
		IsActive:    true,
		IssuedBy:    actorID,
		DocumentURL: req.DocumentURL,
		Comments:    req.Comments,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create disciplinary record failed", zap.Error(err))
		return DisciplinaryRecordResponse{}, err
	}

	if !empl.HasLiveDisciplinary {
		before := empl.AuditSnapshot()
		empl.HasLiveDisciplinary = true
		if err := emplRepo.Update(ctx, empl); err != nil {
			return DisciplinaryRecordResponse{}, err
		}
		if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
			before, empl.AuditSnapshot(), actorID, nil); err != nil {
			return DisciplinaryRecordResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create disciplinary commit failed", zap.Error(err))
		return DisciplinaryRecordResponse{}, err
	}

	s.logger.Info("disciplinary record created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("action_type", req.ActionType),
		zap.String("severity", severity),
	)
	return mapToResponse(*record), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, recordID string, req DeactivateDisciplinaryRequest) (DisciplinaryRecordResponse, error) {
	s.logger.Debug("deactivate disciplinary record requested",
		zap.String("company_id", companyID),
		zap.String("record_id", recordID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DisciplinaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	record, err := qtx.FindByIDForUpdate(ctx, companyID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrRecordNotFound
		}
		return DisciplinaryRecordResponse{}, err
	}
	if !record.IsActive {
		return DisciplinaryRecordResponse{}, disciplinaryerrors.ErrRecordNotActive
	}

	record.IsActive = false
	comment := req.Reason
	record.Comments = &comment
	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("deactivate disciplinary persist failed", zap.Error(err))
		return DisciplinaryRecordResponse{}, err
	}

	if err := s.clearLiveFlagIfNoneActive(ctx, tx, qtx, companyID, record.EmployeeID.String()); err != nil {
		return DisciplinaryRecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DisciplinaryRecordResponse{}, err
	}

	s.logger.Info("disciplinary record deactivated", zap.String("record_id", recordID))
	return mapToResponse(*record), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string, activeOnly bool, page, pageSize int) ([]DisciplinaryRecordResponse, int64, error) {
	if _, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, employeeerrors.ErrEmployeeNotFound
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	records, total, err := s.repo.FindByEmployee(ctx, companyID, employeeID, activeOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("list disciplinary records failed", zap.Error(err))
		return nil, 0, err
	}

	res := make([]DisciplinaryRecordResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res, total, nil
}

func (s *service) ExpireLapsed(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	refs, err := qtx.DeactivateExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("expire lapsed records failed", zap.Error(err))
		return 0, err
	}

	for _, ref := range refs {
		if err := s.clearLiveFlagIfNoneActive(ctx, tx, qtx, ref.CompanyID, ref.EmployeeID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if len(refs) > 0 {
		s.logger.Info("lapsed disciplinary records expired", zap.Int("employees", len(refs)))
	}
	return len(refs), nil
}

func (s *service) clearLiveFlagIfNoneActive(ctx context.Context, tx *sql.Tx, qtx Repository, companyID, employeeID string) error {
	active, err := qtx.CountActive(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	if !empl.HasLiveDisciplinary {
		return nil
	}

	before := empl.AuditSnapshot()
	empl.HasLiveDisciplinary = false
	if err := emplRepo.Update(ctx, empl); err != nil {
		return err
	}
	return s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), contextutil.GetActorID(ctx), nil)
}

func mapToResponse(record DisciplinaryRecord) DisciplinaryRecordResponse {
	resp := DisciplinaryRecordResponse{
		ID:          record.ID.String(),
		EmployeeID:  record.EmployeeID.String(),
		ActionType:  record.ActionType,
		Reason:      record.Reason,
		Severity:    record.Severity,
		IssuedDate:  record.IssuedDate.Format("2006-01-02"),
		ValidUntil:  record.ValidUntil.Format("2006-01-02"),
		IsActive:    record.IsActive,
		DocumentURL: record.DocumentURL,
		Comments:    record.Comments,
	}
	if record.HRActionID != nil {
		id := record.HRActionID.String()
		resp.HRActionID = &id
	}
	if record.IssuedBy != nil {
		id := record.IssuedBy.String()
		resp.IssuedBy = &id
	}
	return resp
}
