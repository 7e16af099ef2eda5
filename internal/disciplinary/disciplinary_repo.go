package disciplinary

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=disciplinary_repo.go -destination=mock/disciplinary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *DisciplinaryRecord) error
	// FindByIDForUpdate takes a row lock and must run inside a transaction.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*DisciplinaryRecord, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string, activeOnly bool, limit, offset int) ([]DisciplinaryRecord, int64, error)
	Update(ctx context.Context, record *DisciplinaryRecord) error
	// CountActive counts records still in force: is_active and not yet past
	// valid_until.
	CountActive(ctx context.Context, companyID, employeeID string) (int64, error)
	CountActiveByType(ctx context.Context, companyID, employeeID, actionType string) (int64, error)
	// DeactivateExpired flips is_active off for lapsed records and returns the
	// employees that were touched.
	DeactivateExpired(ctx context.Context, asOf time.Time) ([]ExpiredRef, error)
}

// ExpiredRef identifies an employee whose lapsed records were deactivated.
type ExpiredRef struct {
	CompanyID  string
	EmployeeID string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	txdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{})
	if err != nil {
		// A session that escaped the transaction would break the workflow's
		// all-or-nothing guarantee; opening over an existing Conn cannot fail.
		panic(err)
	}
	return &repository{db: txdb}
}

func (r *repository) Create(ctx context.Context, record *DisciplinaryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*DisciplinaryRecord, error) {
	var record DisciplinaryRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string, activeOnly bool, limit, offset int) ([]DisciplinaryRecord, int64, error) {
	var records []DisciplinaryRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&DisciplinaryRecord{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID)
	if activeOnly {
		query = query.Where("is_active = ?", true).
			Where("valid_until >= ?", time.Now())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("issued_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

func (r *repository) Update(ctx context.Context, record *DisciplinaryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) CountActive(ctx context.Context, companyID, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DisciplinaryRecord{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("is_active = ?", true).
		Where("valid_until >= ?", time.Now()).
		Count(&count).Error
	return count, err
}

func (r *repository) CountActiveByType(ctx context.Context, companyID, employeeID, actionType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DisciplinaryRecord{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("action_type = ?", actionType).
		Where("is_active = ?", true).
		Where("valid_until >= ?", time.Now()).
		Count(&count).Error
	return count, err
}

func (r *repository) DeactivateExpired(ctx context.Context, asOf time.Time) ([]ExpiredRef, error) {
	var refs []ExpiredRef
	err := r.db.WithContext(ctx).
		Model(&DisciplinaryRecord{}).
		Select("DISTINCT company_id, employee_id").
		Where("is_active = ?", true).
		Where("valid_until < ?", asOf).
		Find(&refs).Error
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	err = r.db.WithContext(ctx).
		Model(&DisciplinaryRecord{}).
		Where("is_active = ?", true).
		Where("valid_until < ?", asOf).
		Update("is_active", false).Error
	return refs, err
}
