package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormMembershipRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormMembershipRepository creates a new GORM-based MembershipRepository implementation
func NewGormMembershipRepository(db *gorm.DB, logger logger.Logger) (workspace.MembershipRepository, error) {
	return &gormMembershipRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormMembershipRepository) Create(ctx context.Context, membership *workspace.Membership) error {
	if err := membership.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.MembershipModel{}
	model.FromDomain(membership)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	r.logger.Info("Created membership with id ", membership.ID)
	return nil
}

func (r *gormMembershipRepository) GetActive(ctx context.Context, profileID, workspaceID string) (*workspace.Membership, error) {
	var model models.MembershipModel
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND workspace_id = ? AND status = ?", profileID, workspaceID, workspace.StatusActive).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workspace.ErrNotAMember
		}
		return nil, fmt.Errorf("failed to fetch membership: %w", err)
	}

	return model.ToDomain(), nil
}
