package hraction_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-zampay/internal/audit"
	"go-zampay/internal/employee"
	employeeerrors "go-zampay/internal/employee/errors"
	"go-zampay/internal/hraction"
	hractionerrors "go-zampay/internal/hraction/errors"
	"go-zampay/internal/leave"
	"go-zampay/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeActionRepo struct {
	created         []*hraction.HRAction
	approvalUpdates []*hraction.HRAction
	findForUpdateFn func(ctx context.Context, companyID, id string) (*hraction.HRAction, error)
	findByEmplFn    func(ctx context.Context, companyID, employeeID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error)
	findAllFn       func(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error)
	findPendingFn   func(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error)
	createErr       error
}

func (f *fakeActionRepo) WithTx(tx *sql.Tx) hraction.Repository { return f }

func (f *fakeActionRepo) Create(ctx context.Context, action *hraction.HRAction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, action)
	return nil
}

func (f *fakeActionRepo) FindByIDForUpdate(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeActionRepo) FindByID(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
	return f.FindByIDForUpdate(ctx, companyID, id)
}

func (f *fakeActionRepo) UpdateApproval(ctx context.Context, action *hraction.HRAction) error {
	f.approvalUpdates = append(f.approvalUpdates, action)
	return nil
}

func (f *fakeActionRepo) FindByEmployee(ctx context.Context, companyID, employeeID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	if f.findByEmplFn != nil {
		return f.findByEmplFn(ctx, companyID, employeeID, filter)
	}
	return nil, 0, nil
}

func (f *fakeActionRepo) FindAll(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, filter)
	}
	return nil, 0, nil
}

func (f *fakeActionRepo) FindPendingApprovals(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	if f.findPendingFn != nil {
		return f.findPendingFn(ctx, companyID, filter)
	}
	return nil, 0, nil
}

type fakeEmployeeRepo struct {
	empl    *employee.Employee
	exists  bool
	updated []*employee.Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.empl == nil || f.empl.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.empl, nil
}

func (f *fakeEmployeeRepo) FindByIDForUpdate(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.FindByIDAndCompany(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) ExistsByIDAndCompany(ctx context.Context, companyID, id string) (bool, error) {
	return f.exists, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error {
	f.updated = append(f.updated, e)
	return nil
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeLeaveRepo struct {
	created []*leave.LeaveRecord
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepo) Create(ctx context.Context, record *leave.LeaveRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeLeaveRepo) FindByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]leave.LeaveRecord, int64, error) {
	return nil, 0, nil
}

func (f *fakeLeaveRepo) FindAllByCompany(ctx context.Context, companyID string, leaveType string, limit, offset int) ([]leave.LeaveRecord, int64, error) {
	return nil, 0, nil
}

type auditCall struct {
	entityType string
	entityID   string
	action     string
	before     map[string]any
	after      map[string]any
}

type fakeRecorder struct {
	calls []auditCall
	err   error
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entityType, entityID, action string, before, after map[string]any, performedBy *uuid.UUID, comment *string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, auditCall{
		entityType: entityType,
		entityID:   entityID,
		action:     action,
		before:     before,
		after:      after,
	})
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service hraction.Service
	repo    *fakeActionRepo
	empls   *fakeEmployeeRepo
	leaves  *fakeLeaveRepo
	auditor *fakeRecorder

	companyID uuid.UUID
	empl      *employee.Employee
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	companyID := uuid.New()
	empl := &employee.Employee{
		ID:               uuid.New(),
		CompanyID:        companyID,
		EmployeeNumber:   "EMP-000042",
		FirstName:        "Chanda",
		LastName:         "Banda",
		Email:            "chanda.banda@example.co.zm",
		Department:       "Operations",
		Position:         "Supervisor",
		EmploymentType:   employee.EmploymentTypePermanent,
		EmploymentStatus: employee.StatusActive,
		StartDate:        time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Salary:           decimal.NewFromInt(12000),
		SalaryCurrency:   "ZMW",
	}

	repo := &fakeActionRepo{}
	empls := &fakeEmployeeRepo{empl: empl, exists: true}
	leaves := &fakeLeaveRepo{}
	auditor := &fakeRecorder{}

	svc := hraction.NewService(db, repo, empls, leaves, auditor)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		empls:     empls,
		leaves:    leaves,
		auditor:   auditor,
		companyID: companyID,
		empl:      empl,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func detailsMap(t *testing.T, resp hraction.HRActionResponse) map[string]any {
	t.Helper()
	var m map[string]any
	assert.NoError(t, json.Unmarshal(resp.Details, &m))
	return m
}

func TestHRActionService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies whitelisted fields and skips the rest", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateProfile(ctx, deps.companyID.String(), hraction.UpdateProfileRequest{
			EmployeeID: deps.empl.ID.String(),
			UpdateType: "contact",
			Changes: map[string]string{
				"email":  "c.banda@example.co.zm",
				"phone":  "+260979876543",
				"salary": "999999", // not a contact field
			},
			EffectiveDate: "2026-06-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionProfileUpdate, resp.ActionType)
		assert.Equal(t, hraction.StatusCompleted, resp.Status)
		assert.Equal(t, "c.banda@example.co.zm", deps.empl.Email)
		assert.Equal(t, "+260979876543", deps.empl.Phone)
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(12000)))

		details := detailsMap(t, resp)
		assert.Equal(t, "contact", details["update_type"])
		changes := details["changes"].([]any)
		assert.Len(t, changes, 2)

		assert.Len(t, deps.repo.created, 1)
		assert.Len(t, deps.auditor.calls, 1)
		assert.Equal(t, "Employee", deps.auditor.calls[0].entityType)
		assert.Equal(t, audit.ActionUpdated, deps.auditor.calls[0].action)
	})

	t.Run("unknown update type rejected before any write", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.UpdateProfile(ctx, deps.companyID.String(), hraction.UpdateProfileRequest{
			EmployeeID:    deps.empl.ID.String(),
			UpdateType:    "banking",
			Changes:       map[string]string{"email": "x@example.com"},
			EffectiveDate: "2026-06-01",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidUpdateType)
		assert.Empty(t, deps.repo.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.UpdateProfile(ctx, deps.companyID.String(), hraction.UpdateProfileRequest{
			EmployeeID:    uuid.New().String(),
			UpdateType:    "personal",
			Changes:       map[string]string{"first_name": "Mary"},
			EffectiveDate: "2026-06-01",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestHRActionService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("resignation defaults notice period and closes record", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		finalWorkDate := "2026-07-31"
		resp, err := deps.service.ChangeStatus(ctx, deps.companyID.String(), hraction.ChangeStatusRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewStatus:     employee.StatusResigned,
			Reason:        "relocation",
			EffectiveDate: "2026-07-01",
			FinalWorkDate: &finalWorkDate,
		})

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusResigned, deps.empl.EmploymentStatus)
		assert.NotNil(t, deps.empl.EndDate)
		assert.Equal(t, "2026-07-31", deps.empl.EndDate.Format("2006-01-02"))
		assert.Equal(t, "Employment status changed from Active to Resigned", resp.Summary)

		details := detailsMap(t, resp)
		assert.Equal(t, float64(30), details["notice_period_days"])
		assert.Equal(t, "Active", details["previous_status"])
		assert.Len(t, deps.auditor.calls, 1)
	})

	t.Run("probation staff get one day notice", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empl.EmploymentType = employee.EmploymentTypeProbation
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeStatus(ctx, deps.companyID.String(), hraction.ChangeStatusRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewStatus:     employee.StatusTerminated,
			Reason:        "failed probation",
			EffectiveDate: "2026-07-01",
		})

		assert.NoError(t, err)
		details := detailsMap(t, resp)
		assert.Equal(t, float64(1), details["notice_period_days"])
		// no final work date given, effective date closes the record
		assert.Equal(t, "2026-07-01", deps.empl.EndDate.Format("2006-01-02"))
	})

	t.Run("invalid status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ChangeStatus(ctx, deps.companyID.String(), hraction.ChangeStatusRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewStatus:     "retired",
			Reason:        "x",
			EffectiveDate: "2026-07-01",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidStatus)
		assert.Empty(t, deps.repo.created)
	})
}

func TestHRActionService_UpdateContract(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateContract(ctx, deps.companyID.String(), hraction.UpdateContractRequest{
			EmployeeID: deps.empl.ID.String(),
			Changes: map[string]string{
				"position":          "Senior Supervisor",
				"contract_end_date": "2027-04-30",
			},
			EffectiveDate: "2026-05-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Senior Supervisor", deps.empl.Position)
		assert.NotNil(t, deps.empl.ContractEndDate)
		assert.Equal(t, "Contract updated with 2 changes", resp.Summary)
		assert.Len(t, deps.auditor.calls, 1)
	})

	t.Run("unknown supervisor rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empls.exists = false
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.UpdateContract(ctx, deps.companyID.String(), hraction.UpdateContractRequest{
			EmployeeID:    deps.empl.ID.String(),
			Changes:       map[string]string{"supervisor_id": uuid.New().String()},
			EffectiveDate: "2026-05-01",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrSupervisorNotFound)
		assert.Empty(t, deps.repo.created)
	})
}

func TestHRActionService_ChangeSalary(t *testing.T) {
	ctx := context.Background()

	t.Run("large raise held for approval without applying", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeSalary(ctx, deps.companyID.String(), hraction.ChangeSalaryRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewSalary:     "13800",
			Reason:        "promotion",
			EffectiveDate: "2026-08-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.StatusPendingApproval, resp.Status)
		assert.True(t, resp.RequiresApproval)
		// salary stays until a director approves
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(12000)))
		assert.Empty(t, deps.empls.updated)
		assert.Empty(t, deps.auditor.calls)

		details := detailsMap(t, resp)
		assert.Equal(t, "13800.00", details["new_salary"])
		assert.Equal(t, "15", details["change_percentage"])
		assert.Len(t, deps.repo.created, 1)
	})

	t.Run("small raise applied immediately", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeSalary(ctx, deps.companyID.String(), hraction.ChangeSalaryRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewSalary:     "12600",
			Reason:        "annual increment",
			EffectiveDate: "2026-08-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.StatusCompleted, resp.Status)
		assert.False(t, resp.RequiresApproval)
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(12600)))
		assert.Len(t, deps.empls.updated, 1)
		assert.Len(t, deps.auditor.calls, 1)
	})

	t.Run("director flag forces approval even for small changes", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeSalary(ctx, deps.companyID.String(), hraction.ChangeSalaryRequest{
			EmployeeID:               deps.empl.ID.String(),
			NewSalary:                "12100",
			Reason:                   "adjustment",
			EffectiveDate:            "2026-08-01",
			RequiresDirectorApproval: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.StatusPendingApproval, resp.Status)
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("invalid amount", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ChangeSalary(ctx, deps.companyID.String(), hraction.ChangeSalaryRequest{
			EmployeeID:    deps.empl.ID.String(),
			NewSalary:     "-100",
			Reason:        "x",
			EffectiveDate: "2026-08-01",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidAmount)
	})
}

func TestHRActionService_Approve(t *testing.T) {
	ctx := context.Background()

	pendingSalaryAction := func(deps *serviceDeps) *hraction.HRAction {
		details, _ := json.Marshal(map[string]any{
			"previous_salary": "12000.00",
			"new_salary":      "13800.00",
		})
		return &hraction.HRAction{
			ID:               uuid.New(),
			CompanyID:        deps.companyID,
			EmployeeID:       deps.empl.ID,
			ActionType:       hraction.ActionSalaryChange,
			ActionDate:       time.Now(),
			EffectiveDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Details:          datatypes.JSON(details),
			Status:           hraction.StatusPendingApproval,
			RequiresApproval: true,
		}
	}

	t.Run("approval applies the held salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		action := pendingSalaryAction(deps)
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
			return action, nil
		}
		expectTx(t, deps.sqlMock, true)

		approver := uuid.New()
		ctx := contextutil.WithActorID(ctx, approver)

		resp, err := deps.service.Approve(ctx, deps.companyID.String(), action.ID.String(), hraction.ApprovalRequest{})

		assert.NoError(t, err)
		assert.Equal(t, hraction.StatusCompleted, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approver.String(), *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovalDate)
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(13800)))
		assert.Len(t, deps.empls.updated, 1)
		assert.Len(t, deps.auditor.calls, 1)
		assert.Len(t, deps.repo.approvalUpdates, 1)
	})

	t.Run("only pending actions can transition", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		action := pendingSalaryAction(deps)
		action.Status = hraction.StatusCompleted
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
			return action, nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, deps.companyID.String(), action.ID.String(), hraction.ApprovalRequest{})

		assert.ErrorIs(t, err, hractionerrors.ErrNotPendingApproval)
		assert.Empty(t, deps.repo.approvalUpdates)
	})

	t.Run("rejection cancels without applying", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		action := pendingSalaryAction(deps)
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
			return action, nil
		}
		expectTx(t, deps.sqlMock, true)

		comment := "budget freeze"
		resp, err := deps.service.Reject(ctx, deps.companyID.String(), action.ID.String(), hraction.ApprovalRequest{
			Comments: &comment,
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.StatusCancelled, resp.Status)
		assert.True(t, deps.empl.Salary.Equal(decimal.NewFromInt(12000)))
		assert.Empty(t, deps.empls.updated)
		assert.Empty(t, deps.auditor.calls)
	})

	t.Run("unknown action", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, deps.companyID.String(), uuid.New().String(), hraction.ApprovalRequest{})

		assert.ErrorIs(t, err, hractionerrors.ErrActionNotFound)
	})
}

func TestHRActionService_RecordLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("success - inclusive day count", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		actor := uuid.New()
		ctx := contextutil.WithActorID(ctx, actor)

		resp, err := deps.service.RecordLeave(ctx, deps.companyID.String(), hraction.RecordLeaveRequest{
			EmployeeID: deps.empl.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
			Reason:     "family visit",
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionLeaveRecord, resp.ActionType)
		assert.Equal(t, "Annual leave recorded for 5 days", resp.Summary)
		assert.Equal(t, "2026-03-02", resp.EffectiveDate)

		assert.Len(t, deps.leaves.created, 1)
		record := deps.leaves.created[0]
		assert.Equal(t, 5, record.DaysCount)
		assert.Equal(t, leave.StatusApproved, record.Status)
		assert.NotNil(t, record.HRActionID)
		assert.Equal(t, resp.ID, record.HRActionID.String())
		assert.NotNil(t, record.ApprovedBy)
		assert.Equal(t, actor, *record.ApprovedBy)
	})

	t.Run("commuted leave cannot be recorded directly", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RecordLeave(ctx, deps.companyID.String(), hraction.RecordLeaveRequest{
			EmployeeID: deps.empl.ID.String(),
			LeaveType:  leave.TypeCommuted,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidLeaveType)
		assert.Empty(t, deps.leaves.created)
	})

	t.Run("end before start", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RecordLeave(ctx, deps.companyID.String(), hraction.RecordLeaveRequest{
			EmployeeID: deps.empl.ID.String(),
			LeaveType:  leave.TypeSick,
			StartDate:  "2026-03-06",
			EndDate:    "2026-03-02",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidDateRange)
	})
}

func TestHRActionService_CommuteLeave(t *testing.T) {
	ctx := context.Background()

	// salary 12000 gives a 400.00 daily rate, so ten days calculate to 4000.00
	t.Run("value within tolerance accepted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CommuteLeave(ctx, deps.companyID.String(), hraction.CommuteLeaveRequest{
			EmployeeID:    deps.empl.ID.String(),
			LeaveDays:     10,
			DailyValue:    "410",
			TotalValue:    "4100",
			EffectiveDate: "2026-09-15",
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionLeaveCommute, resp.ActionType)

		details := detailsMap(t, resp)
		assert.Equal(t, "400.00", details["calculated_daily_rate"])
		assert.Equal(t, "4000.00", details["calculated_total_value"])
		assert.Equal(t, "Next payroll run", details["payroll_timing"])

		assert.Len(t, deps.leaves.created, 1)
		record := deps.leaves.created[0]
		assert.Equal(t, leave.TypeCommuted, record.LeaveType)
		assert.Equal(t, record.StartDate, record.EndDate)
		assert.Equal(t, 10, record.DaysCount)
	})

	t.Run("value outside tolerance rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CommuteLeave(ctx, deps.companyID.String(), hraction.CommuteLeaveRequest{
			EmployeeID:    deps.empl.ID.String(),
			LeaveDays:     10,
			DailyValue:    "450",
			TotalValue:    "4500",
			EffectiveDate: "2026-09-15",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrCommuteValueOutOfTolerance)
		assert.Empty(t, deps.repo.created)
		assert.Empty(t, deps.leaves.created)
	})

	t.Run("scheduled payment date noted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		paymentDate := "2026-10-25"
		resp, err := deps.service.CommuteLeave(ctx, deps.companyID.String(), hraction.CommuteLeaveRequest{
			EmployeeID:    deps.empl.ID.String(),
			LeaveDays:     5,
			DailyValue:    "400",
			TotalValue:    "2000",
			EffectiveDate: "2026-09-15",
			PaymentDate:   &paymentDate,
		})

		assert.NoError(t, err)
		details := detailsMap(t, resp)
		assert.Equal(t, "Scheduled for 2026-10-25", details["payroll_timing"])
	})
}

func TestHRActionService_RecordUnauthorizedAbsence(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-calculates salary deduction over sorted dates", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RecordUnauthorizedAbsence(ctx, deps.companyID.String(), hraction.UnauthorizedAbsenceRequest{
			EmployeeID:    deps.empl.ID.String(),
			AbsenceDates:  []string{"2026-04-03", "2026-04-01", "2026-04-02"},
			Reason:        "no show",
			DeductionType: leave.DeductionBoth,
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionAbsenceUnauthorized, resp.ActionType)
		assert.Equal(t, "2026-04-01", resp.EffectiveDate)
		assert.Equal(t, "Unauthorized absence: 3 days with both deductions", resp.Summary)

		details := detailsMap(t, resp)
		assert.Equal(t, "1200.00", details["deduction_amount"])
		assert.Equal(t, float64(3), details["leave_days_deducted"])

		assert.Len(t, deps.leaves.created, 1)
		record := deps.leaves.created[0]
		assert.Equal(t, leave.TypeUnauthorized, record.LeaveType)
		assert.Equal(t, leave.StatusRecorded, record.Status)
		assert.Equal(t, "2026-04-01", record.StartDate.Format("2006-01-02"))
		assert.Equal(t, "2026-04-03", record.EndDate.Format("2006-01-02"))
		assert.NotNil(t, record.DeductionAmount)
		assert.Equal(t, "1200.00", record.DeductionAmount.StringFixed(2))
	})

	t.Run("no dates rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RecordUnauthorizedAbsence(ctx, deps.companyID.String(), hraction.UnauthorizedAbsenceRequest{
			EmployeeID:    deps.empl.ID.String(),
			Reason:        "x",
			DeductionType: leave.DeductionSalary,
		})

		assert.ErrorIs(t, err, hractionerrors.ErrNoAbsenceDates)
	})

	t.Run("unknown deduction type rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RecordUnauthorizedAbsence(ctx, deps.companyID.String(), hraction.UnauthorizedAbsenceRequest{
			EmployeeID:    deps.empl.ID.String(),
			AbsenceDates:  []string{"2026-04-01"},
			Reason:        "x",
			DeductionType: "pension",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidDeductionType)
	})
}

func TestHRActionService_ProcessExit(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement math and employee close-out", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empl.HasLiveDisciplinary = true
		expectTx(t, deps.sqlMock, true)

		deductions := "1400"
		resp, err := deps.service.ProcessExit(ctx, deps.companyID.String(), hraction.ProcessExitRequest{
			EmployeeID:           deps.empl.ID.String(),
			ExitType:             "resignation",
			Reason:               "new opportunity",
			ExitDate:             "2026-10-31",
			OutstandingLeaveDays: 6,
			Deductions:           &deductions,
			NoticeServed:         true,
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionExitProcessing, resp.ActionType)
		assert.Equal(t, hraction.StatusInProgress, resp.Status)

		assert.Equal(t, employee.StatusInactive, deps.empl.EmploymentStatus)
		assert.False(t, deps.empl.HasLiveDisciplinary)
		assert.Equal(t, "2026-10-31", deps.empl.EndDate.Format("2006-01-02"))

		details := detailsMap(t, resp)
		settlement := details["final_settlement"].(map[string]any)
		assert.Equal(t, "2400.00", settlement["leave_encashment"])
		assert.Equal(t, "14400.00", settlement["final_pay"])
		assert.Equal(t, "13000.00", settlement["net_pay"])
		assert.Len(t, deps.auditor.calls, 1)
	})

	t.Run("negative deductions rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deductions := "-50"
		_, err := deps.service.ProcessExit(ctx, deps.companyID.String(), hraction.ProcessExitRequest{
			EmployeeID: deps.empl.ID.String(),
			ExitType:   "resignation",
			Reason:     "x",
			ExitDate:   "2026-10-31",
			Deductions: &deductions,
		})

		assert.ErrorIs(t, err, hractionerrors.ErrInvalidAmount)
	})
}

func TestHRActionService_Listings(t *testing.T) {
	ctx := context.Background()

	t.Run("by employee verifies the employee first", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, _, err := deps.service.GetByEmployee(ctx, deps.companyID.String(), uuid.New().String(), hraction.ListFilter{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("pending approvals mapped", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.repo.findPendingFn = func(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
			details, _ := json.Marshal(map[string]any{"new_salary": "13800.00"})
			return []hraction.HRAction{{
				ID:               uuid.New(),
				CompanyID:        deps.companyID,
				EmployeeID:       deps.empl.ID,
				ActionType:       hraction.ActionSalaryChange,
				ActionDate:       time.Now(),
				EffectiveDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				Details:          datatypes.JSON(details),
				Status:           hraction.StatusPendingApproval,
				RequiresApproval: true,
			}}, 1, nil
		}

		resp, total, err := deps.service.GetPendingApprovals(ctx, deps.companyID.String(), hraction.ListFilter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
		assert.Equal(t, hraction.StatusPendingApproval, resp[0].Status)
	})
}

func TestHRActionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a compliance action with completed default", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, deps.companyID.String(), hraction.CreateHRActionRequest{
			EmployeeID:    deps.empl.ID.String(),
			ActionType:    hraction.ActionComplianceUpdate,
			EffectiveDate: "2026-09-01",
			Summary:       "NAPSA registration number verified",
			Details:       map[string]any{"napsa_number": "NP4455667"},
		})

		assert.NoError(t, err)
		assert.Equal(t, hraction.ActionComplianceUpdate, resp.ActionType)
		assert.Equal(t, hraction.StatusCompleted, resp.Status)
		assert.Equal(t, "NAPSA registration number verified", resp.Summary)
		assert.Len(t, deps.repo.created, 1)
		assert.Empty(t, deps.empls.updated)
		assert.Empty(t, deps.auditor.calls)

		details := detailsMap(t, resp)
		assert.Equal(t, "NP4455667", details["napsa_number"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects workflow-owned types before any write", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, deps.companyID.String(), hraction.CreateHRActionRequest{
			EmployeeID:    deps.empl.ID.String(),
			ActionType:    hraction.ActionSalaryChange,
			EffectiveDate: "2026-09-01",
			Summary:       "Backdoor raise",
		})

		assert.ErrorIs(t, err, hractionerrors.ErrActionTypeHasWorkflow)
		assert.Empty(t, deps.repo.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects unknown action type and status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, deps.companyID.String(), hraction.CreateHRActionRequest{
			EmployeeID:    deps.empl.ID.String(),
			ActionType:    "promotion",
			EffectiveDate: "2026-09-01",
			Summary:       "x",
		})
		assert.ErrorIs(t, err, hractionerrors.ErrInvalidActionType)

		_, err = deps.service.Create(ctx, deps.companyID.String(), hraction.CreateHRActionRequest{
			EmployeeID:    deps.empl.ID.String(),
			ActionType:    hraction.ActionComplianceUpdate,
			EffectiveDate: "2026-09-01",
			Summary:       "x",
			Status:        "archived",
		})
		assert.ErrorIs(t, err, hractionerrors.ErrInvalidActionStatus)
		assert.Empty(t, deps.repo.created)
	})

	t.Run("unknown employee rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, deps.companyID.String(), hraction.CreateHRActionRequest{
			EmployeeID:    uuid.New().String(),
			ActionType:    hraction.ActionComplianceUpdate,
			EffectiveDate: "2026-09-01",
			Summary:       "x",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Empty(t, deps.repo.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
