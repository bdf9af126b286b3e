package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormAppointmentRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormAppointmentRepository creates a new GORM-based AppointmentRepository implementation
func NewGormAppointmentRepository(db *gorm.DB, logger logger.Logger) (scheduling.AppointmentRepository, error) {
	return &gormAppointmentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormAppointmentRepository) Create(ctx context.Context, appointment *scheduling.Appointment) error {
	if err := appointment.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AppointmentModel{}
	model.FromDomain(appointment)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.Info("Created appointment with id ", appointment.ID)
	return nil
}

func (r *gormAppointmentRepository) List(ctx context.Context, query *scheduling.AppointmentQuery) ([]*scheduling.Appointment, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.AppointmentModel
	dbQuery := r.db.WithContext(ctx).Model(&models.AppointmentModel{}).
		Where("workspace_id = ?", query.WorkspaceID)

	if query.PatientID != "" {
		dbQuery = dbQuery.Where("patient_id = ?", query.PatientID)
	}
	if !query.StartTimeAfter.IsZero() {
		dbQuery = dbQuery.Where("start_time >= ?", query.StartTimeAfter)
	}
	if !query.StartTimeBefore.IsZero() {
		dbQuery = dbQuery.Where("start_time <= ?", query.StartTimeBefore)
	}
	if query.ExcludeStatus != "" {
		dbQuery = dbQuery.Where("status <> ?", query.ExcludeStatus)
	}

	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	domainList := make([]*scheduling.Appointment, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormAppointmentRepository) GetByID(ctx context.Context, workspaceID, appointmentID string) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", appointmentID, workspaceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormAppointmentRepository) UpdateByID(ctx context.Context, appointment *scheduling.Appointment) error {
	if err := appointment.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AppointmentModel{}
	model.FromDomain(appointment)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	r.logger.Info("Updated appointment with id ", appointment.ID)
	return nil
}
