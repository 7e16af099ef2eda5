package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Recorder appends one AuditRecord per entity mutation. Services call it
// explicitly next to the repository write, inside the same transaction, so a
// rolled-back mutation never leaves an orphan audit row. There is no ORM
// lifecycle hook involved; the audit write is visible in the code path.
//
//go:generate mockgen -source=audit_recorder.go -destination=mock/audit_recorder_mock.go -package=mock
type Recorder interface {
	WithTx(tx *sql.Tx) Recorder
	Record(ctx context.Context, entityType, entityID, action string, before, after map[string]any, performedBy *uuid.UUID, comment *string) error
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &recorder{repo: repo, logger: l}
}

func (r *recorder) WithTx(tx *sql.Tx) Recorder {
	return &recorder{repo: r.repo.WithTx(tx), logger: r.logger}
}

// Record appends exactly one audit row. Snapshot nullability follows the
// action: created has no before image, deleted has no after image. performedBy
// may be nil for system or background mutations.
func (r *recorder) Record(
	ctx context.Context,
	entityType, entityID, action string,
	before, after map[string]any,
	performedBy *uuid.UUID,
	comment *string,
) error {
	switch action {
	case ActionCreated:
		before = nil
	case ActionDeleted:
		after = nil
	case ActionUpdated:
	default:
		return fmt.Errorf("audit: unknown action %q", action)
	}

	record := &AuditRecord{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		BeforeData:  r.serializeSnapshot(entityType, entityID, before),
		AfterData:   r.serializeSnapshot(entityType, entityID, after),
		Comment:     comment,
	}

	return r.repo.Create(ctx, record)
}

// serializeSnapshot marshals a field map to JSON. A field whose value cannot
// be represented as JSON degrades to its string form instead of failing the
// whole audit write; completeness wins over precision here.
func (r *recorder) serializeSnapshot(entityType, entityID string, snapshot map[string]any) datatypes.JSON {
	if snapshot == nil {
		return nil
	}

	safe := make(map[string]any, len(snapshot))
	for field, value := range snapshot {
		if value == nil {
			safe[field] = nil
			continue
		}
		if _, err := json.Marshal(value); err != nil {
			r.logger.Warn("audit field not serializable, coerced to string",
				zap.String("entity_type", entityType),
				zap.String("entity_id", entityID),
				zap.String("field", field),
			)
			safe[field] = fmt.Sprintf("%v", value)
			continue
		}
		safe[field] = value
	}

	data, err := json.Marshal(safe)
	if err != nil {
		// All values were individually checked, so this should not happen;
		// degrade to the map's string form rather than dropping the snapshot.
		data, _ = json.Marshal(map[string]any{"_raw": fmt.Sprintf("%v", snapshot)})
	}
	return datatypes.JSON(data)
}
