package company_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-zampay/internal/audit"
	"go-zampay/internal/company"
	companyerrors "go-zampay/internal/company/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepository struct {
	companies     map[uuid.UUID]*company.Company
	registrations []company.CompanyRegistration
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{companies: map[uuid.UUID]*company.Company{}}
}

func (f *fakeRepository) WithTx(tx *sql.Tx) company.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, c *company.Company) error {
	f.companies[c.ID] = c
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetByEmail(ctx context.Context, email string) (*company.Company, error) {
	for _, c := range f.companies {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, c *company.Company) error {
	f.companies[c.ID] = c
	return nil
}

func (f *fakeRepository) UpsertRegistration(ctx context.Context, reg *company.CompanyRegistration) error {
	for i, r := range f.registrations {
		if r.CompanyID == reg.CompanyID && r.Type == reg.Type {
			f.registrations[i].Number = reg.Number
			return nil
		}
	}
	f.registrations = append(f.registrations, *reg)
	return nil
}

func (f *fakeRepository) GetRegistrationsByCompanyID(ctx context.Context, companyID uuid.UUID) ([]company.CompanyRegistration, error) {
	var regs []company.CompanyRegistration
	for _, r := range f.registrations {
		if r.CompanyID == companyID {
			regs = append(regs, r)
		}
	}
	return regs, nil
}

func (f *fakeRepository) DeleteRegistration(ctx context.Context, companyID uuid.UUID, regType company.RegistrationType) error {
	for i, r := range f.registrations {
		if r.CompanyID == companyID && r.Type == regType {
			f.registrations = append(f.registrations[:i], f.registrations[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeRecorder struct {
	actions []string
	err     error
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entityType, entityID, action string, before, after map[string]any, performedBy *uuid.UUID, comment *string) error {
	if f.err != nil {
		return f.err
	}
	f.actions = append(f.actions, action)
	return nil
}

func newServiceTest(t *testing.T) (company.Service, *fakeRepository, *fakeRecorder, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	repo := newFakeRepository()
	recorder := &fakeRecorder{}
	return company.NewService(db, repo, recorder), repo, recorder, mock, db
}

func TestCompanyService_Update(t *testing.T) {
	svc, repo, recorder, mock, db := newServiceTest(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	comp := &company.Company{ID: uuid.New(), Name: "Lusaka Copperworks Ltd", IsActive: true}
	repo.companies[comp.ID] = comp

	resp, err := svc.Update(context.Background(), comp.ID.String(), company.UpdateCompanyRequest{
		Name:  "Lusaka Copperworks PLC",
		Phone: "+260211123456",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Lusaka Copperworks PLC", resp.Name)
	assert.Equal(t, "+260211123456", resp.Phone)
	assert.Equal(t, []string{audit.ActionUpdated}, recorder.actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyService_Update_NotFound(t *testing.T) {
	svc, _, _, mock, db := newServiceTest(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), uuid.New().String(), company.UpdateCompanyRequest{Name: "X"})

	assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyService_Update_AuditFailureRollsBack(t *testing.T) {
	svc, repo, recorder, mock, db := newServiceTest(t)
	defer db.Close()
	recorder.err = errors.New("audit insert failed")
	mock.ExpectBegin()
	mock.ExpectRollback()

	comp := &company.Company{ID: uuid.New(), Name: "Ndola Mills Ltd", IsActive: true}
	repo.companies[comp.ID] = comp

	_, err := svc.Update(context.Background(), comp.ID.String(), company.UpdateCompanyRequest{Name: "Ndola Mills PLC"})

	assert.ErrorIs(t, err, recorder.err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyService_Registrations(t *testing.T) {
	svc, _, _, _, db := newServiceTest(t)
	defer db.Close()
	companyID := uuid.New().String()

	t.Run("rejects unknown type", func(t *testing.T) {
		err := svc.UpsertRegistration(context.Background(), companyID, company.UpsertCompanyRegistrationRequest{
			Type:   "vat",
			Number: "123",
		})
		assert.ErrorIs(t, err, companyerrors.ErrInvalidRegistrationType)
	})

	t.Run("rejects blank number", func(t *testing.T) {
		err := svc.UpsertRegistration(context.Background(), companyID, company.UpsertCompanyRegistrationRequest{
			Type:   company.RegistrationNapsa,
			Number: "   ",
		})
		assert.ErrorIs(t, err, companyerrors.ErrMissingRequiredFields)
	})

	t.Run("upsert then list then delete", func(t *testing.T) {
		err := svc.UpsertRegistration(context.Background(), companyID, company.UpsertCompanyRegistrationRequest{
			Type:   company.RegistrationNapsa,
			Number: "NAPSA-889900",
		})
		assert.NoError(t, err)

		regs, err := svc.ListRegistrations(context.Background(), companyID)
		assert.NoError(t, err)
		assert.Len(t, regs, 1)
		assert.Equal(t, "NAPSA-889900", regs[0].Number)

		assert.NoError(t, svc.DeleteRegistration(context.Background(), companyID, company.RegistrationNapsa))

		err = svc.DeleteRegistration(context.Background(), companyID, company.RegistrationNapsa)
		assert.ErrorIs(t, err, companyerrors.ErrRegistrationNotFound)
	})
}
