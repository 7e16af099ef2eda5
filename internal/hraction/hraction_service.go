package hraction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"go-zampay/internal/audit"
	"go-zampay/internal/employee"
	employeeerrors "go-zampay/internal/employee/errors"
	hractionerrors "go-zampay/internal/hraction/errors"
	"go-zampay/internal/leave"
	"go-zampay/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// approvalThresholdPercent is the salary change magnitude above which the
// change is held for director approval instead of being applied directly.
var approvalThresholdPercent = decimal.NewFromInt(10)

var daysPerMonth = decimal.NewFromInt(30)

//go:generate mockgen -source=hraction_service.go -destination=mock/hraction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateHRActionRequest) (HRActionResponse, error)
	UpdateProfile(ctx context.Context, companyID string, req UpdateProfileRequest) (HRActionResponse, error)
	ChangeStatus(ctx context.Context, companyID string, req ChangeStatusRequest) (HRActionResponse, error)
	UpdateContract(ctx context.Context, companyID string, req UpdateContractRequest) (HRActionResponse, error)
	ChangeSalary(ctx context.Context, companyID string, req ChangeSalaryRequest) (HRActionResponse, error)
	RecordLeave(ctx context.Context, companyID string, req RecordLeaveRequest) (HRActionResponse, error)
	CommuteLeave(ctx context.Context, companyID string, req CommuteLeaveRequest) (HRActionResponse, error)
	RecordUnauthorizedAbsence(ctx context.Context, companyID string, req UnauthorizedAbsenceRequest) (HRActionResponse, error)
	ProcessExit(ctx context.Context, companyID string, req ProcessExitRequest) (HRActionResponse, error)

	Approve(ctx context.Context, companyID, actionID string, req ApprovalRequest) (HRActionResponse, error)
	Reject(ctx context.Context, companyID, actionID string, req ApprovalRequest) (HRActionResponse, error)

	GetByEmployee(ctx context.Context, companyID, employeeID string, filter ListFilter) ([]HRActionResponse, int64, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) ([]HRActionResponse, int64, error)
	GetPendingApprovals(ctx context.Context, companyID string, filter ListFilter) ([]HRActionResponse, int64, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	leaves    leave.Repository
	auditor   audit.Recorder
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	leaveRepo leave.Repository,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("hraction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hraction.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employeeRepo,
		leaves:    leaveRepo,
		auditor:   auditor,
		logger:    l,
	}
}

// Create appends a record-keeping action (compliance updates and the like)
// for types that have no dedicated workflow operation.
func (s *service) Create(ctx context.Context, companyID string, req CreateHRActionRequest) (HRActionResponse, error) {
	s.logger.Debug("create hr action requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("action_type", req.ActionType),
	)

	if !ValidActionType(req.ActionType) {
		return HRActionResponse{}, hractionerrors.ErrInvalidActionType
	}
	if WorkflowOwnedActionType(req.ActionType) {
		return HRActionResponse{}, hractionerrors.ErrActionTypeHasWorkflow
	}

	status := req.Status
	if status == "" {
		status = StatusCompleted
	}
	switch status {
	case StatusPending, StatusCompleted, StatusInProgress:
	default:
		return HRActionResponse{}, hractionerrors.ErrInvalidActionStatus
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create hr action begin tx failed", zap.Error(err))
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.employees.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}

	details := req.Details
	if details == nil {
		details = map[string]any{}
	}

	action, err := s.appendAction(ctx, tx, empl, req.ActionType, effectiveDate,
		details, req.Summary, status, req.RequiresApproval, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create hr action commit failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	s.logger.Info("hr action created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("action_type", req.ActionType),
	)
	return mapToResponse(*action), nil
}

func (s *service) UpdateProfile(ctx context.Context, companyID string, req UpdateProfileRequest) (HRActionResponse, error) {
	s.logger.Debug("update profile requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("update_type", req.UpdateType),
	)

	allowed, ok := profileFieldGroups[req.UpdateType]
	if !ok {
		return HRActionResponse{}, hractionerrors.ErrInvalidUpdateType
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.Error(err))
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}
	before := empl.AuditSnapshot()

	var changes []map[string]any
	for field, newValue := range req.Changes {
		if !allowed[field] {
			continue
		}
		oldValue := profileFieldGet(empl, field)
		profileFieldSet(empl, field, newValue)
		changes = append(changes, map[string]any{
			"field":     field,
			"old_value": oldValue,
			"new_value": newValue,
		})
	}

	if err := emplRepo.Update(ctx, empl); err != nil {
		s.logger.Error("update profile persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil); err != nil {
		return HRActionResponse{}, err
	}

	action, err := s.appendAction(ctx, tx, empl, ActionProfileUpdate, effectiveDate, map[string]any{
		"update_type": req.UpdateType,
		"changes":     changes,
	}, "Updated "+req.UpdateType+" information", StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	s.logger.Info("update profile success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("changes", len(changes)),
	)
	return mapToResponse(*action), nil
}

func (s *service) ChangeStatus(ctx context.Context, companyID string, req ChangeStatusRequest) (HRActionResponse, error) {
	s.logger.Debug("change status requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("new_status", req.NewStatus),
	)

	if !validEmploymentStatus(req.NewStatus) {
		return HRActionResponse{}, hractionerrors.ErrInvalidStatus
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}
	finalWorkDate, err := parseDatePtr(req.FinalWorkDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}
	before := empl.AuditSnapshot()
	previousStatus := empl.EmploymentStatus

	noticePeriodDays := req.NoticePeriodDays
	if noticePeriodDays == nil && isExitStatus(req.NewStatus) {
		days := 30
		if empl.EmploymentType == employee.EmploymentTypeProbation {
			days = 1
		}
		noticePeriodDays = &days
	}

	empl.EmploymentStatus = req.NewStatus
	if isEndDateStatus(req.NewStatus) {
		endDate := effectiveDate
		if finalWorkDate != nil {
			endDate = *finalWorkDate
		}
		empl.EndDate = &endDate
	}

	if err := emplRepo.Update(ctx, empl); err != nil {
		s.logger.Error("change status persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil); err != nil {
		return HRActionResponse{}, err
	}

	details := map[string]any{
		"previous_status":    previousStatus,
		"new_status":         req.NewStatus,
		"reason":             req.Reason,
		"notice_period_days": noticePeriodDays,
		"final_work_date":    formatDatePtr(finalWorkDate),
	}
	summary := "Employment status changed from " + previousStatus + " to " + req.NewStatus
	action, err := s.appendAction(ctx, tx, empl, ActionStatusChange, effectiveDate, details, summary, StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("change status success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("previous_status", previousStatus),
		zap.String("new_status", req.NewStatus),
	)
	return mapToResponse(*action), nil
}

func (s *service) UpdateContract(ctx context.Context, companyID string, req UpdateContractRequest) (HRActionResponse, error) {
	s.logger.Debug("update contract requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}
	before := empl.AuditSnapshot()

	var changes []map[string]any
	for field, newValue := range req.Changes {
		oldValue, applied, err := s.applyContractField(ctx, emplRepo, companyID, empl, field, newValue)
		if err != nil {
			return HRActionResponse{}, err
		}
		if !applied {
			continue
		}
		changes = append(changes, map[string]any{
			"field":     field,
			"old_value": oldValue,
			"new_value": newValue,
		})
	}

	if err := emplRepo.Update(ctx, empl); err != nil {
		s.logger.Error("update contract persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil); err != nil {
		return HRActionResponse{}, err
	}

	summary := "Contract updated with " + itoa(len(changes)) + " changes"
	action, err := s.appendAction(ctx, tx, empl, ActionContractUpdate, effectiveDate, map[string]any{
		"changes": changes,
	}, summary, StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("update contract success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("changes", len(changes)),
	)
	return mapToResponse(*action), nil
}

func (s *service) ChangeSalary(ctx context.Context, companyID string, req ChangeSalaryRequest) (HRActionResponse, error) {
	s.logger.Debug("change salary requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	newSalary, err := decimal.NewFromString(req.NewSalary)
	if err != nil || newSalary.IsNegative() {
		return HRActionResponse{}, hractionerrors.ErrInvalidAmount
	}
	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	// Row lock so two concurrent changes cannot both read the same previous
	// salary.
	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}

	previousSalary := empl.Salary
	salaryChange := newSalary.Sub(previousSalary)
	changePercentage := decimal.NewFromInt(100)
	if previousSalary.IsPositive() {
		changePercentage = salaryChange.Div(previousSalary).Mul(decimal.NewFromInt(100)).Round(2)
	}

	requiresApproval := req.RequiresDirectorApproval ||
		changePercentage.Abs().GreaterThan(approvalThresholdPercent)

	status := StatusCompleted
	if requiresApproval {
		status = StatusPendingApproval
	} else {
		before := empl.AuditSnapshot()
		empl.Salary = newSalary
		if err := emplRepo.Update(ctx, empl); err != nil {
			s.logger.Error("change salary persist failed", zap.Error(err))
			return HRActionResponse{}, err
		}
		if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
			before, empl.AuditSnapshot(), contextutil.GetActorID(ctx), nil); err != nil {
			return HRActionResponse{}, err
		}
	}

	details := map[string]any{
		"previous_salary":            previousSalary.StringFixed(2),
		"new_salary":                 newSalary.StringFixed(2),
		"salary_change":              salaryChange.StringFixed(2),
		"change_percentage":          changePercentage.String(),
		"reason":                     req.Reason,
		"requires_director_approval": requiresApproval,
		"effective_date":             effectiveDate.Format("2006-01-02"),
	}
	summary := "Salary change: " + previousSalary.StringFixed(2) + " to " + newSalary.StringFixed(2) +
		" (" + changePercentage.String() + "%)"

	action, err := s.appendAction(ctx, tx, empl, ActionSalaryChange, effectiveDate, details, summary, status, requiresApproval, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("change salary success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("status", status),
		zap.Bool("requires_approval", requiresApproval),
	)
	return mapToResponse(*action), nil
}

func (s *service) RecordLeave(ctx context.Context, companyID string, req RecordLeaveRequest) (HRActionResponse, error) {
	s.logger.Debug("record leave requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	if !leave.ValidRecordableType(req.LeaveType) {
		return HRActionResponse{}, hractionerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateRange
	}
	leaveDays := int(endDate.Sub(startDate).Hours()/24) + 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}

	actorID := contextutil.GetActorID(ctx)
	details := map[string]any{
		"leave_type": req.LeaveType,
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
		"days_count": leaveDays,
		"reason":     req.Reason,
	}
	summary := titleCase(req.LeaveType) + " leave recorded for " + itoa(leaveDays) + " days"

	action, err := s.appendAction(ctx, tx, empl, ActionLeaveRecord, startDate, details, summary, StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	record := &leave.LeaveRecord{
		CompanyID:     empl.CompanyID,
		EmployeeID:    empl.ID,
		HRActionID:    &action.ID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysCount:     leaveDays,
		Status:        leave.StatusApproved,
		ApprovedBy:    actorID,
		DoctorNoteURL: req.DoctorNoteURL,
		Comments:      req.Comments,
	}
	if err := s.leaves.WithTx(tx).Create(ctx, record); err != nil {
		s.logger.Error("record leave persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("record leave success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", leaveDays),
	)
	return mapToResponse(*action), nil
}

func (s *service) CommuteLeave(ctx context.Context, companyID string, req CommuteLeaveRequest) (HRActionResponse, error) {
	s.logger.Debug("commute leave requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	dailyValue, err := decimal.NewFromString(req.DailyValue)
	if err != nil || dailyValue.IsNegative() {
		return HRActionResponse{}, hractionerrors.ErrInvalidAmount
	}
	totalValue, err := decimal.NewFromString(req.TotalValue)
	if err != nil || totalValue.IsNegative() {
		return HRActionResponse{}, hractionerrors.ErrInvalidAmount
	}
	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}
	paymentDate, err := parseDatePtr(req.PaymentDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}

	dailyRate := empl.Salary.Div(daysPerMonth).Round(2)
	calculatedValue := dailyRate.Mul(decimal.NewFromInt(int64(req.LeaveDays))).Round(2)

	// 10% tolerance against the salary-derived value.
	tolerance := calculatedValue.Mul(decimal.NewFromFloat(0.1))
	if totalValue.Sub(calculatedValue).Abs().GreaterThan(tolerance) {
		s.logger.Warn("commute value out of tolerance",
			zap.String("employee_id", req.EmployeeID),
			zap.String("total_value", totalValue.StringFixed(2)),
			zap.String("calculated_value", calculatedValue.StringFixed(2)),
		)
		return HRActionResponse{}, hractionerrors.ErrCommuteValueOutOfTolerance
	}

	payrollTiming := "Next payroll run"
	if paymentDate != nil {
		payrollTiming = "Scheduled for " + paymentDate.Format("2006-01-02")
	}

	details := map[string]any{
		"leave_days_commuted":    req.LeaveDays,
		"daily_commute_value":    dailyValue.StringFixed(2),
		"total_commute_value":    totalValue.StringFixed(2),
		"calculated_daily_rate":  dailyRate.StringFixed(2),
		"calculated_total_value": calculatedValue.StringFixed(2),
		"payment_date":           formatDatePtr(paymentDate),
		"payroll_timing":         payrollTiming,
	}
	summary := "Commuted " + itoa(req.LeaveDays) + " leave days for ZMW " + totalValue.StringFixed(2)

	action, err := s.appendAction(ctx, tx, empl, ActionLeaveCommute, effectiveDate, details, summary, StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	record := &leave.LeaveRecord{
		CompanyID:         empl.CompanyID,
		EmployeeID:        empl.ID,
		HRActionID:        &action.ID,
		LeaveType:         leave.TypeCommuted,
		StartDate:         effectiveDate,
		EndDate:           effectiveDate,
		DaysCount:         req.LeaveDays,
		Status:            leave.StatusApproved,
		ApprovedBy:        actorID,
		CommuteValue:      &dailyValue,
		TotalCommuteValue: &totalValue,
		Comments:          req.Comments,
	}
	if err := s.leaves.WithTx(tx).Create(ctx, record); err != nil {
		s.logger.Error("commute leave persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("commute leave success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", req.LeaveDays),
	)
	return mapToResponse(*action), nil
}

func (s *service) RecordUnauthorizedAbsence(ctx context.Context, companyID string, req UnauthorizedAbsenceRequest) (HRActionResponse, error) {
	s.logger.Debug("record unauthorized absence requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	if len(req.AbsenceDates) == 0 {
		return HRActionResponse{}, hractionerrors.ErrNoAbsenceDates
	}
	if !leave.ValidDeductionType(req.DeductionType) {
		return HRActionResponse{}, hractionerrors.ErrInvalidDeductionType
	}

	absenceDates := make([]time.Time, 0, len(req.AbsenceDates))
	for _, raw := range req.AbsenceDates {
		d, err := parseDate(raw)
		if err != nil {
			return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
		}
		absenceDates = append(absenceDates, d)
	}
	sort.Slice(absenceDates, func(i, j int) bool { return absenceDates[i].Before(absenceDates[j]) })
	absenceDays := len(absenceDates)

	var deductionAmount *decimal.Decimal
	if req.DeductionAmount != nil {
		parsed, err := decimal.NewFromString(*req.DeductionAmount)
		if err != nil || parsed.IsNegative() {
			return HRActionResponse{}, hractionerrors.ErrInvalidAmount
		}
		deductionAmount = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}

	dailyRate := empl.Salary.Div(daysPerMonth).Round(2)
	if deductionAmount == nil && (req.DeductionType == leave.DeductionSalary || req.DeductionType == leave.DeductionBoth) {
		amount := dailyRate.Mul(decimal.NewFromInt(int64(absenceDays))).Round(2)
		deductionAmount = &amount
	}
	leaveDaysDeducted := req.LeaveDaysDeducted
	if leaveDaysDeducted == nil && (req.DeductionType == leave.DeductionLeave || req.DeductionType == leave.DeductionBoth) {
		leaveDaysDeducted = &absenceDays
	}

	dateStrings := make([]string, len(absenceDates))
	for i, d := range absenceDates {
		dateStrings[i] = d.Format("2006-01-02")
	}

	details := map[string]any{
		"absence_dates":       dateStrings,
		"absence_days":        absenceDays,
		"reason":              req.Reason,
		"deduction_type":      req.DeductionType,
		"deduction_amount":    decimalStringPtr(deductionAmount),
		"leave_days_deducted": leaveDaysDeducted,
		"daily_salary_rate":   dailyRate.StringFixed(2),
	}
	summary := "Unauthorized absence: " + itoa(absenceDays) + " days with " + req.DeductionType + " deductions"

	action, err := s.appendAction(ctx, tx, empl, ActionAbsenceUnauthorized, absenceDates[0], details, summary, StatusCompleted, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	deductionType := req.DeductionType
	record := &leave.LeaveRecord{
		CompanyID:         empl.CompanyID,
		EmployeeID:        empl.ID,
		HRActionID:        &action.ID,
		LeaveType:         leave.TypeUnauthorized,
		StartDate:         absenceDates[0],
		EndDate:           absenceDates[len(absenceDates)-1],
		DaysCount:         absenceDays,
		Status:            leave.StatusRecorded,
		ApprovedBy:        actorID,
		DeductionType:     &deductionType,
		DeductionAmount:   deductionAmount,
		LeaveDaysDeducted: leaveDaysDeducted,
		Comments:          req.Comments,
	}
	if err := s.leaves.WithTx(tx).Create(ctx, record); err != nil {
		s.logger.Error("record unauthorized absence persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("record unauthorized absence success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", absenceDays),
	)
	return mapToResponse(*action), nil
}

func (s *service) ProcessExit(ctx context.Context, companyID string, req ProcessExitRequest) (HRActionResponse, error) {
	s.logger.Debug("process exit requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("exit_type", req.ExitType),
	)

	exitDate, err := parseDate(req.ExitDate)
	if err != nil {
		return HRActionResponse{}, hractionerrors.ErrInvalidDateFormat
	}
	deductions := decimal.Zero
	if req.Deductions != nil {
		deductions, err = decimal.NewFromString(*req.Deductions)
		if err != nil || deductions.IsNegative() {
			return HRActionResponse{}, hractionerrors.ErrInvalidAmount
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, req.EmployeeID)
	if err != nil {
		return HRActionResponse{}, mapEmployeeError(err)
	}
	before := empl.AuditSnapshot()
	previousStatus := empl.EmploymentStatus

	// Settlement: outstanding leave encashed at the salary-derived daily rate.
	dailyRate := empl.Salary.Div(daysPerMonth).Round(2)
	leaveEncashment := dailyRate.Mul(decimal.NewFromInt(int64(req.OutstandingLeaveDays))).Round(2)
	finalPay := empl.Salary.Add(leaveEncashment).Round(2)
	netPay := finalPay.Sub(deductions).Round(2)

	empl.EmploymentStatus = employee.StatusInactive
	empl.EndDate = &exitDate
	empl.HasLiveDisciplinary = false

	if err := emplRepo.Update(ctx, empl); err != nil {
		s.logger.Error("process exit persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	actorID := contextutil.GetActorID(ctx)
	if err := s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil); err != nil {
		return HRActionResponse{}, err
	}

	details := map[string]any{
		"exit_type":       req.ExitType,
		"reason":          req.Reason,
		"previous_status": previousStatus,
		"notice_served":   req.NoticeServed,
		"final_settlement": map[string]any{
			"basic_salary":           empl.Salary.StringFixed(2),
			"outstanding_leave_days": req.OutstandingLeaveDays,
			"leave_encashment":       leaveEncashment.StringFixed(2),
			"final_pay":              finalPay.StringFixed(2),
			"deductions":             deductions.StringFixed(2),
			"net_pay":                netPay.StringFixed(2),
		},
	}
	summary := "Exit process initiated: " + req.ExitType

	action, err := s.appendAction(ctx, tx, empl, ActionExitProcessing, exitDate, details, summary, StatusInProgress, false, req.Comments)
	if err != nil {
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("process exit success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("exit_type", req.ExitType),
	)
	return mapToResponse(*action), nil
}

func (s *service) Approve(ctx context.Context, companyID, actionID string, req ApprovalRequest) (HRActionResponse, error) {
	s.logger.Debug("approve hr action requested",
		zap.String("company_id", companyID),
		zap.String("action_id", actionID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	action, err := qtx.FindByIDForUpdate(ctx, companyID, actionID)
	if err != nil {
		return HRActionResponse{}, mapActionError(err)
	}
	if action.Status != StatusPendingApproval {
		return HRActionResponse{}, hractionerrors.ErrNotPendingApproval
	}

	actorID := contextutil.GetActorID(ctx)
	now := time.Now()
	action.Status = StatusCompleted
	action.ApprovedBy = actorID
	action.ApprovalDate = &now
	if req.Comments != nil {
		action.Comments = req.Comments
	}

	if err := qtx.UpdateApproval(ctx, action); err != nil {
		s.logger.Error("approve hr action persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	// Apply the held change.
	if action.ActionType == ActionSalaryChange {
		if err := s.applyHeldSalary(ctx, tx, companyID, action, actorID); err != nil {
			return HRActionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("hr action approved",
		zap.String("action_id", actionID),
		zap.String("action_type", action.ActionType),
	)
	return mapToResponse(*action), nil
}

func (s *service) Reject(ctx context.Context, companyID, actionID string, req ApprovalRequest) (HRActionResponse, error) {
	s.logger.Debug("reject hr action requested",
		zap.String("company_id", companyID),
		zap.String("action_id", actionID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HRActionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	action, err := qtx.FindByIDForUpdate(ctx, companyID, actionID)
	if err != nil {
		return HRActionResponse{}, mapActionError(err)
	}
	if action.Status != StatusPendingApproval {
		return HRActionResponse{}, hractionerrors.ErrNotPendingApproval
	}

	// Terminal: the held change is never applied.
	action.Status = StatusCancelled
	if req.Comments != nil {
		action.Comments = req.Comments
	}

	if err := qtx.UpdateApproval(ctx, action); err != nil {
		s.logger.Error("reject hr action persist failed", zap.Error(err))
		return HRActionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HRActionResponse{}, err
	}

	s.logger.Info("hr action rejected", zap.String("action_id", actionID))
	return mapToResponse(*action), nil
}

func (s *service) applyHeldSalary(ctx context.Context, tx *sql.Tx, companyID string, action *HRAction, actorID *uuid.UUID) error {
	var held struct {
		NewSalary string `json:"new_salary"`
	}
	if err := json.Unmarshal(action.Details, &held); err != nil {
		return err
	}
	newSalary, err := decimal.NewFromString(held.NewSalary)
	if err != nil {
		return err
	}

	emplRepo := s.employees.WithTx(tx)
	empl, err := emplRepo.FindByIDForUpdate(ctx, companyID, action.EmployeeID.String())
	if err != nil {
		return mapEmployeeError(err)
	}
	before := empl.AuditSnapshot()
	empl.Salary = newSalary
	if err := emplRepo.Update(ctx, empl); err != nil {
		return err
	}
	return s.auditor.WithTx(tx).Record(ctx, "Employee", empl.ID.String(), audit.ActionUpdated,
		before, empl.AuditSnapshot(), actorID, nil)
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string, filter ListFilter) ([]HRActionResponse, int64, error) {
	if _, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID); err != nil {
		return nil, 0, mapEmployeeError(err)
	}

	actions, total, err := s.repo.FindByEmployee(ctx, companyID, employeeID, filter)
	if err != nil {
		s.logger.Error("list hr actions by employee failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(actions), total, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) ([]HRActionResponse, int64, error) {
	actions, total, err := s.repo.FindAll(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list hr actions failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(actions), total, nil
}

func (s *service) GetPendingApprovals(ctx context.Context, companyID string, filter ListFilter) ([]HRActionResponse, int64, error) {
	actions, total, err := s.repo.FindPendingApprovals(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list pending approvals failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(actions), total, nil
}

// appendAction builds and persists the single HRAction row for a workflow
// operation inside the caller's transaction.
func (s *service) appendAction(
	ctx context.Context,
	tx *sql.Tx,
	empl *employee.Employee,
	actionType string,
	effectiveDate time.Time,
	details map[string]any,
	summary string,
	status string,
	requiresApproval bool,
	comments *string,
) (*HRAction, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	action := &HRAction{
		ID:               uuid.New(),
		CompanyID:        empl.CompanyID,
		EmployeeID:       empl.ID,
		ActionType:       actionType,
		ActionDate:       time.Now(),
		EffectiveDate:    effectiveDate,
		PerformedBy:      contextutil.GetActorID(ctx),
		Details:          datatypes.JSON(payload),
		Summary:          summary,
		Status:           status,
		RequiresApproval: requiresApproval,
		Comments:         comments,
	}

	if err := s.repo.WithTx(tx).Create(ctx, action); err != nil {
		s.logger.Error("append hr action failed",
			zap.String("action_type", actionType),
			zap.Error(err),
		)
		return nil, err
	}
	return action, nil
}

func (s *service) applyContractField(
	ctx context.Context,
	emplRepo employee.Repository,
	companyID string,
	empl *employee.Employee,
	field, newValue string,
) (oldValue any, applied bool, err error) {
	switch field {
	case "position":
		oldValue = empl.Position
		empl.Position = newValue
	case "department":
		oldValue = empl.Department
		empl.Department = newValue
	case "work_location":
		oldValue = strPtrValue(empl.WorkLocation)
		empl.WorkLocation = &newValue
	case "employment_type":
		if !validEmploymentType(newValue) {
			return nil, false, hractionerrors.ErrInvalidStatus
		}
		oldValue = empl.EmploymentType
		empl.EmploymentType = newValue
	case "supervisor_id":
		supervisorID, parseErr := uuid.Parse(newValue)
		if parseErr != nil {
			return nil, false, employeeerrors.ErrSupervisorNotFound
		}
		exists, lookupErr := emplRepo.ExistsByIDAndCompany(ctx, companyID, newValue)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		if !exists {
			return nil, false, employeeerrors.ErrSupervisorNotFound
		}
		oldValue = uuidPtrString(empl.SupervisorID)
		empl.SupervisorID = &supervisorID
	case "contract_end_date":
		parsed, parseErr := parseDate(newValue)
		if parseErr != nil {
			return nil, false, hractionerrors.ErrInvalidDateFormat
		}
		oldValue = formatDatePtr(empl.ContractEndDate)
		empl.ContractEndDate = &parsed
	case "probation_end_date":
		parsed, parseErr := parseDate(newValue)
		if parseErr != nil {
			return nil, false, hractionerrors.ErrInvalidDateFormat
		}
		oldValue = formatDatePtr(empl.ProbationEndDate)
		empl.ProbationEndDate = &parsed
	default:
		// Fields outside the contract whitelist are skipped, not rejected.
		return nil, false, nil
	}
	return oldValue, true, nil
}

func mapEmployeeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}

func mapActionError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return hractionerrors.ErrActionNotFound
	}
	return err
}

func mapToResponse(action HRAction) HRActionResponse {
	resp := HRActionResponse{
		ID:               action.ID.String(),
		EmployeeID:       action.EmployeeID.String(),
		ActionType:       action.ActionType,
		ActionDate:       action.ActionDate.Format(time.RFC3339),
		EffectiveDate:    action.EffectiveDate.Format("2006-01-02"),
		Details:          json.RawMessage(action.Details),
		Summary:          action.Summary,
		Status:           action.Status,
		RequiresApproval: action.RequiresApproval,
		Comments:         action.Comments,
	}
	if action.PerformedBy != nil {
		id := action.PerformedBy.String()
		resp.PerformedBy = &id
	}
	if action.ApprovedBy != nil {
		id := action.ApprovedBy.String()
		resp.ApprovedBy = &id
	}
	if action.ApprovalDate != nil {
		d := action.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &d
	}
	return resp
}

func mapToListResponse(actions []HRAction) []HRActionResponse {
	res := make([]HRActionResponse, len(actions))
	for i, a := range actions {
		res[i] = mapToResponse(a)
	}
	return res
}
