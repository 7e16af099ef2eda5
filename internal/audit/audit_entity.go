package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// AuditRecord is one append-only row in the low-level mutation log. Records
// are never updated or deleted after insert.
type AuditRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType  string     `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID    string     `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	Action      string     `gorm:"type:varchar(20);not null"`
	PerformedBy *uuid.UUID `gorm:"type:uuid"`
	Timestamp   time.Time  `gorm:"not null;default:now();index"`
	BeforeData  datatypes.JSON
	AfterData   datatypes.JSON
	Comment     *string `gorm:"type:varchar(255)"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
