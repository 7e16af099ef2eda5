package leave

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *LeaveRecord) error
	FindByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]LeaveRecord, int64, error)
	FindAllByCompany(ctx context.Context, companyID string, leaveType string, limit, offset int) ([]LeaveRecord, int64, error)
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

func (r *repository) Create(ctx context.Context, record *LeaveRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]LeaveRecord, int64, error) {
	var records []LeaveRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&LeaveRecord{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, leaveType string, limit, offset int) ([]LeaveRecord, int64, error) {
	var records []LeaveRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&LeaveRecord{}).
		Where("company_id = ?", companyID)
	if leaveType != "" {
		query = query.Where("leave_type = ?", leaveType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}
