package disciplinary_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-zampay/internal/audit"
	"go-zampay/internal/disciplinary"
	disciplinaryerrors "go-zampay/internal/disciplinary/errors"
	"go-zampay/internal/employee"
	"go-zampay/internal/hraction"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	created         []*disciplinary.DisciplinaryRecord
	updated         []*disciplinary.DisciplinaryRecord
	activeByType    map[string]int64
	activeCount     int64
	expired         []disciplinary.ExpiredRef
	findForUpdateFn func(ctx context.Context, companyID, id string) (*disciplinary.DisciplinaryRecord, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) disciplinary.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, record *disciplinary.DisciplinaryRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, companyID, id string) (*disciplinary.DisciplinaryRecord, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployee(ctx context.Context, companyID, employeeID string, activeOnly bool, limit, offset int) ([]disciplinary.DisciplinaryRecord, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(ctx context.Context, record *disciplinary.DisciplinaryRecord) error {
	f.updated = append(f.updated, record)
	return nil
}

func (f *fakeRepo) CountActive(ctx context.Context, companyID, employeeID string) (int64, error) {
	return f.activeCount, nil
}

func (f *fakeRepo) CountActiveByType(ctx context.Context, companyID, employeeID, actionType string) (int64, error) {
	return f.activeByType[actionType], nil
}

func (f *fakeRepo) DeactivateExpired(ctx context.Context, asOf time.Time) ([]disciplinary.ExpiredRef, error) {
	return f.expired, nil
}

type fakeEmployeeRepo struct {
	empl    *employee.Employee
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
	return f.empl != nil && f.empl.ID.String() == id, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error {
	f.updated = append(f.updated, e)
	return nil
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeActionRepo struct {
	created []*hraction.HRAction
}

func (f *fakeActionRepo) WithTx(tx *sql.Tx) hraction.Repository { return f }

func (f *fakeActionRepo) Create(ctx context.Context, action *hraction.HRAction) error {
	f.created = append(f.created, action)
	return nil
}

func (f *fakeActionRepo) FindByIDForUpdate(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeActionRepo) FindByID(ctx context.Context, companyID, id string) (*hraction.HRAction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeActionRepo) UpdateApproval(ctx context.Context, action *hraction.HRAction) error {
	return nil
}

func (f *fakeActionRepo) FindByEmployee(ctx context.Context, companyID, employeeID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	return nil, 0, nil
}

func (f *fakeActionRepo) FindAll(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	return nil, 0, nil
}

func (f *fakeActionRepo) FindPendingApprovals(ctx context.Context, companyID string, filter hraction.ListFilter) ([]hraction.HRAction, int64, error) {
	return nil, 0, nil
}

type fakeRecorder struct {
	calls int
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entityType, entityID, action string, before, after map[string]any, performedBy *uuid.UUID, comment *string) error {
	f.calls++
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service disciplinary.Service
	repo    *fakeRepo
	empls   *fakeEmployeeRepo
	actions *fakeActionRepo
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
		EmployeeNumber:   "EMP-000007",
		FirstName:        "Mutale",
		LastName:         "Phiri",
		EmploymentType:   employee.EmploymentTypePermanent,
		EmploymentStatus: employee.StatusActive,
		Salary:           decimal.NewFromInt(8000),
	}

	repo := &fakeRepo{activeByType: map[string]int64{}}
	empls := &fakeEmployeeRepo{empl: empl}
	actions := &fakeActionRepo{}
	auditor := &fakeRecorder{}

	svc := disciplinary.NewService(db, repo, empls, actions, auditor)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		empls:     empls,
		actions:   actions,
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

func TestDisciplinaryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("written warning flags the employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, deps.companyID.String(), disciplinary.CreateDisciplinaryRequest{
			EmployeeID: deps.empl.ID.String(),
			ActionType: disciplinary.TypeWrittenWarning,
			Reason:     "repeated lateness",
			IssuedDate: "2026-05-10",
			ValidUntil: "2026-11-10",
		})

		assert.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, disciplinary.SeverityMedium, resp.Severity)
		assert.True(t, deps.empl.HasLiveDisciplinary)
		assert.Len(t, deps.empls.updated, 1)
		assert.Equal(t, 1, deps.auditor.calls)

		assert.Len(t, deps.actions.created, 1)
		assert.Equal(t, hraction.ActionDisciplinary, deps.actions.created[0].ActionType)
		assert.Equal(t, hraction.StatusCompleted, deps.actions.created[0].Status)

		assert.Len(t, deps.repo.created, 1)
		assert.NotNil(t, deps.repo.created[0].HRActionID)
		assert.Equal(t, deps.actions.created[0].ID, *deps.repo.created[0].HRActionID)
	})

	t.Run("final warning without active written warning leaves nothing behind", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, deps.companyID.String(), disciplinary.CreateDisciplinaryRequest{
			EmployeeID: deps.empl.ID.String(),
			ActionType: disciplinary.TypeFinalWarning,
			Reason:     "gross misconduct",
			IssuedDate: "2026-05-10",
			ValidUntil: "2026-11-10",
		})

		assert.ErrorIs(t, err, disciplinaryerrors.ErrFinalWarningRequiresWrittenWarning)
		assert.Empty(t, deps.repo.created)
		assert.Empty(t, deps.actions.created)
		assert.Empty(t, deps.empls.updated)
		assert.False(t, deps.empl.HasLiveDisciplinary)
	})

	t.Run("final warning escalates over an active written warning", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.repo.activeByType[disciplinary.TypeWrittenWarning] = 1
		deps.empl.HasLiveDisciplinary = true
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, deps.companyID.String(), disciplinary.CreateDisciplinaryRequest{
			EmployeeID: deps.empl.ID.String(),
			ActionType: disciplinary.TypeFinalWarning,
			Reason:     "gross misconduct",
			Severity:   disciplinary.SeverityHigh,
			IssuedDate: "2026-05-10",
			ValidUntil: "2026-11-10",
		})

		assert.NoError(t, err)
		assert.Equal(t, disciplinary.TypeFinalWarning, resp.ActionType)
		// flag already set, no extra employee write
		assert.Empty(t, deps.empls.updated)
		assert.Equal(t, 0, deps.auditor.calls)
	})

	t.Run("valid_until must be after issued date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, deps.companyID.String(), disciplinary.CreateDisciplinaryRequest{
			EmployeeID: deps.empl.ID.String(),
			ActionType: disciplinary.TypeVerbalWarning,
			Reason:     "x",
			IssuedDate: "2026-05-10",
			ValidUntil: "2026-05-10",
		})

		assert.ErrorIs(t, err, disciplinaryerrors.ErrInvalidValidUntil)
		assert.Empty(t, deps.repo.created)
	})

	t.Run("unknown type", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, deps.companyID.String(), disciplinary.CreateDisciplinaryRequest{
			EmployeeID: deps.empl.ID.String(),
			ActionType: "demotion",
			Reason:     "x",
			IssuedDate: "2026-05-10",
			ValidUntil: "2026-11-10",
		})

		assert.ErrorIs(t, err, disciplinaryerrors.ErrInvalidType)
	})
}

func TestDisciplinaryService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("last active record clears the employee flag", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empl.HasLiveDisciplinary = true

		record := &disciplinary.DisciplinaryRecord{
			ID:         uuid.New(),
			CompanyID:  deps.companyID,
			EmployeeID: deps.empl.ID,
			ActionType: disciplinary.TypeWrittenWarning,
			Reason:     "repeated lateness",
			Severity:   disciplinary.SeverityMedium,
			IssuedDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			ValidUntil: time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		}
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*disciplinary.DisciplinaryRecord, error) {
			return record, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Deactivate(ctx, deps.companyID.String(), record.ID.String(), disciplinary.DeactivateDisciplinaryRequest{
			Reason: "appeal upheld",
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.Len(t, deps.repo.updated, 1)
		assert.False(t, deps.empl.HasLiveDisciplinary)
		assert.Len(t, deps.empls.updated, 1)
		assert.Equal(t, 1, deps.auditor.calls)
	})

	t.Run("flag stays while another record is active", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empl.HasLiveDisciplinary = true
		deps.repo.activeCount = 1

		record := &disciplinary.DisciplinaryRecord{
			ID:         uuid.New(),
			CompanyID:  deps.companyID,
			EmployeeID: deps.empl.ID,
			ActionType: disciplinary.TypeVerbalWarning,
			Reason:     "x",
			IsActive:   true,
			IssuedDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			ValidUntil: time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
		}
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*disciplinary.DisciplinaryRecord, error) {
			return record, nil
		}
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Deactivate(ctx, deps.companyID.String(), record.ID.String(), disciplinary.DeactivateDisciplinaryRequest{
			Reason: "downgraded",
		})

		assert.NoError(t, err)
		assert.True(t, deps.empl.HasLiveDisciplinary)
		assert.Empty(t, deps.empls.updated)
	})

	t.Run("already inactive", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		record := &disciplinary.DisciplinaryRecord{
			ID:         uuid.New(),
			CompanyID:  deps.companyID,
			EmployeeID: deps.empl.ID,
			IsActive:   false,
			IssuedDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			ValidUntil: time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
		}
		deps.repo.findForUpdateFn = func(ctx context.Context, companyID, id string) (*disciplinary.DisciplinaryRecord, error) {
			return record, nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Deactivate(ctx, deps.companyID.String(), record.ID.String(), disciplinary.DeactivateDisciplinaryRequest{
			Reason: "x",
		})

		assert.ErrorIs(t, err, disciplinaryerrors.ErrRecordNotActive)
	})
}

func TestDisciplinaryService_ExpireLapsed(t *testing.T) {
	ctx := context.Background()

	t.Run("clears flags for employees with nothing left active", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.empl.HasLiveDisciplinary = true
		deps.repo.expired = []disciplinary.ExpiredRef{{
			CompanyID:  deps.companyID.String(),
			EmployeeID: deps.empl.ID.String(),
		}}
		expectTx(t, deps.sqlMock, true)

		n, err := deps.service.ExpireLapsed(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.False(t, deps.empl.HasLiveDisciplinary)
		assert.Equal(t, 1, deps.auditor.calls)
	})

	t.Run("nothing to expire", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		n, err := deps.service.ExpireLapsed(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0, deps.auditor.calls)
	})
}
