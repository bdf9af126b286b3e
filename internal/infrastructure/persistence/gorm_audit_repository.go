package persistence

import (
	"context"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormAuditRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormAuditRepository creates a new GORM-based audit.Recorder
// implementation. The audit log is append-only: no update or delete
// operations are exposed.
func NewGormAuditRepository(db *gorm.DB, logger logger.Logger) (audit.Recorder, error) {
	return &gormAuditRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormAuditRepository) Record(ctx context.Context, event *audit.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AuditEventModel{}
	if err := model.FromDomain(event); err != nil {
		return fmt.Errorf("failed to serialize audit metadata: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	return nil
}

func (r *gormAuditRepository) ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	var modelList []*models.AuditEventModel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("date_time_created desc").
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit events: %w", err)
	}

	domainList := make([]*audit.Event, len(modelList))
	for i, model := range modelList {
		event, err := model.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize audit metadata: %w", err)
		}
		domainList[i] = event
	}

	return domainList, nil
}
