package hraction

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows the action listings. Zero values mean "no filter".
type ListFilter struct {
	ActionType string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

//go:generate mockgen -source=hraction_repo.go -destination=mock/hraction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, action *HRAction) error
	// FindByIDForUpdate takes a row lock for the approval transition and must
	// run inside a transaction.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*HRAction, error)
	FindByID(ctx context.Context, companyID, id string) (*HRAction, error)
	UpdateApproval(ctx context.Context, action *HRAction) error
	FindByEmployee(ctx context.Context, companyID, employeeID string, filter ListFilter) ([]HRAction, int64, error)
	FindAll(ctx context.Context, companyID string, filter ListFilter) ([]HRAction, int64, error)
	FindPendingApprovals(ctx context.Context, companyID string, filter ListFilter) ([]HRAction, int64, error)
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

func (r *repository) Create(ctx context.Context, action *HRAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*HRAction, error) {
	var action HRAction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&action, "id = ?", id).Error
	return &action, err
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*HRAction, error) {
	var action HRAction
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&action, "id = ?", id).Error
	return &action, err
}

// UpdateApproval writes only the approval transition columns; everything else
// on the row stays append-only.
func (r *repository) UpdateApproval(ctx context.Context, action *HRAction) error {
	return r.db.WithContext(ctx).
		Model(&HRAction{}).
		Where("id = ?", action.ID).
		Updates(map[string]any{
			"status":        action.Status,
			"approved_by":   action.ApprovedBy,
			"approval_date": action.ApprovalDate,
			"comments":      action.Comments,
			"updated_at":    time.Now(),
		}).Error
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string, filter ListFilter) ([]HRAction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&HRAction{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID)
	return r.list(applyFilter(query, filter), filter)
}

func (r *repository) FindAll(ctx context.Context, companyID string, filter ListFilter) ([]HRAction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&HRAction{}).
		Where("company_id = ?", companyID)
	return r.list(applyFilter(query, filter), filter)
}

func (r *repository) FindPendingApprovals(ctx context.Context, companyID string, filter ListFilter) ([]HRAction, int64, error) {
	filter.Status = StatusPendingApproval
	query := r.db.WithContext(ctx).
		Model(&HRAction{}).
		Where("company_id = ?", companyID)
	return r.list(applyFilter(query, filter), filter)
}

func applyFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("action_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("action_date <= ?", *filter.EndDate)
	}
	return query
}

func (r *repository) list(query *gorm.DB, filter ListFilter) ([]HRAction, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var actions []HRAction
	err := query.
		Order("action_date DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&actions).Error
	return actions, total, err
}
