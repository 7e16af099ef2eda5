package payroll

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statistics is the per-period aggregate used by the dashboard endpoint.
type Statistics struct {
	Period          string `json:"period"`
	EmployeeCount   int64  `json:"employee_count"`
	TotalGross      string `json:"total_gross"`
	TotalDeductions string `json:"total_deductions"`
	TotalNet        string `json:"total_net"`
	PaidCount       int64  `json:"paid_count"`
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayrollRecord) error
	ExistsForPeriod(ctx context.Context, companyID, period string) (bool, error)
	// FindByIDForUpdate takes a row lock and must run inside a transaction.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*PayrollRecord, error)
	FindByPeriod(ctx context.Context, companyID, period string, limit, offset int) ([]PayrollRecord, int64, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]PayrollRecord, int64, error)
	Update(ctx context.Context, record *PayrollRecord) error
	Aggregate(ctx context.Context, companyID, period string) (*Statistics, error)
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

func (r *repository) Create(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ExistsForPeriod(ctx context.Context, companyID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Where("company_id = ?", companyID).
		Where("period = ?", period).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByPeriod(ctx context.Context, companyID, period string, limit, offset int) ([]PayrollRecord, int64, error) {
	var records []PayrollRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Where("company_id = ?", companyID).
		Where("period = ?", period)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]PayrollRecord, int64, error) {
	var records []PayrollRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("period DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

func (r *repository) Update(ctx context.Context, record *PayrollRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Aggregate(ctx context.Context, companyID, period string) (*Statistics, error) {
	var row struct {
		EmployeeCount   int64
		TotalGross      sql.NullString
		TotalDeductions sql.NullString
		TotalNet        sql.NullString
		PaidCount       int64
	}
	err := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Select(
			"COUNT(*) AS employee_count",
			"SUM(gross_pay) AS total_gross",
			"SUM(total_deductions) AS total_deductions",
			"SUM(net_salary) AS total_net",
			"COUNT(*) FILTER (WHERE status = 'Paid') AS paid_count",
		).
		Where("company_id = ?", companyID).
		Where("period = ?", period).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		Period:          period,
		EmployeeCount:   row.EmployeeCount,
		TotalGross:      "0",
		TotalDeductions: "0",
		TotalNet:        "0",
		PaidCount:       row.PaidCount,
	}
	if row.TotalGross.Valid {
		stats.TotalGross = row.TotalGross.String
	}
	if row.TotalDeductions.Valid {
		stats.TotalDeductions = row.TotalDeductions.String
	}
	if row.TotalNet.Valid {
		stats.TotalNet = row.TotalNet.String
	}
	return stats, nil
}
