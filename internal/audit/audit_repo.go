package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *AuditRecord) error
	FindByEntity(ctx context.Context, entityType, entityID string) ([]AuditRecord, error)
	FindAll(ctx context.Context, limit, offset int) ([]AuditRecord, int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, record *AuditRecord) error {
	if r.tx != nil {
		query := `
INSERT INTO audit_records (entity_type, entity_id, action, performed_by, timestamp, before_data, after_data, comment)
VALUES ($1, $2, $3, $4, now(), $5, $6, $7)
`
		_, err := r.tx.ExecContext(ctx, query,
			record.EntityType, record.EntityID, record.Action,
			record.PerformedBy, record.BeforeData, record.AfterData, record.Comment,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByEntity(ctx context.Context, entityType, entityID string) ([]AuditRecord, error) {
	var records []AuditRecord
	err := r.db.WithContext(ctx).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("timestamp DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]AuditRecord, int64, error) {
	var records []AuditRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&AuditRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}
