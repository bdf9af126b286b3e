package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/phi"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormPatientRepository struct {
	db     *gorm.DB
	cipher phi.Cipher
	logger logger.Logger
}

// NewGormPatientRepository creates a new GORM-based PatientRepository.
// PHI columns are encrypted with the provided cipher before they touch
// the database.
func NewGormPatientRepository(db *gorm.DB, cipher phi.Cipher, logger logger.Logger) (scheduling.PatientRepository, error) {
	if cipher == nil {
		return nil, errors.New("patient repository requires a PHI cipher")
	}
	return &gormPatientRepository{
		db:     db,
		cipher: cipher,
		logger: logger,
	}, nil
}

// nameDigest normalizes a full name and computes its keyed digest so
// patients can be found by name without decrypting the register.
// Workspace-scoped to stop cross-clinic correlation.
func (r *gormPatientRepository) nameDigest(workspaceID, fullName string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(fullName)), " ")
	return r.cipher.Digest(workspaceID + ":" + normalized)
}

func (r *gormPatientRepository) Create(ctx context.Context, patient *scheduling.Patient) error {
	if err := patient.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model, err := r.toModel(patient)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	r.logger.Info("Created patient with ref ", patient.ExternalRef)
	return nil
}

func (r *gormPatientRepository) GetByID(ctx context.Context, workspaceID, patientID string) (*scheduling.Patient, error) {
	var model models.PatientModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", patientID, workspaceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	return r.toDomain(&model)
}

func (r *gormPatientRepository) FindByName(ctx context.Context, workspaceID, name string) ([]*scheduling.Patient, error) {
	var modelList []*models.PatientModel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND name_digest = ?", workspaceID, r.nameDigest(workspaceID, name)).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	domainList := make([]*scheduling.Patient, 0, len(modelList))
	for _, model := range modelList {
		patient, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		domainList = append(domainList, patient)
	}

	return domainList, nil
}

func (r *gormPatientRepository) toModel(p *scheduling.Patient) (*models.PatientModel, error) {
	fullNameEnc, err := r.cipher.EncryptString(p.FullName)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt patient name: %w", err)
	}

	model := &models.PatientModel{
		ID:              p.ID,
		WorkspaceID:     p.WorkspaceID,
		ExternalRef:     p.ExternalRef,
		FullNameEnc:     fullNameEnc,
		NameDigest:      r.nameDigest(p.WorkspaceID, p.FullName),
		PreferredLang:   p.PreferredLang,
		DateTimeCreated: p.DateTimeCreated,
	}

	if p.Phone != "" {
		if model.PhoneEnc, err = r.cipher.EncryptString(p.Phone); err != nil {
			return nil, fmt.Errorf("failed to encrypt patient phone: %w", err)
		}
	}
	if p.Email != "" {
		if model.EmailEnc, err = r.cipher.EncryptString(p.Email); err != nil {
			return nil, fmt.Errorf("failed to encrypt patient email: %w", err)
		}
	}

	return model, nil
}

func (r *gormPatientRepository) toDomain(m *models.PatientModel) (*scheduling.Patient, error) {
	fullName, err := r.cipher.DecryptString(m.FullNameEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt patient name: %w", err)
	}

	patient := &scheduling.Patient{
		ID:              m.ID,
		WorkspaceID:     m.WorkspaceID,
		ExternalRef:     m.ExternalRef,
		FullName:        fullName,
		PreferredLang:   m.PreferredLang,
		DateTimeCreated: m.DateTimeCreated,
	}

	if m.PhoneEnc != "" {
		if patient.Phone, err = r.cipher.DecryptString(m.PhoneEnc); err != nil {
			return nil, fmt.Errorf("failed to decrypt patient phone: %w", err)
		}
	}
	if m.EmailEnc != "" {
		if patient.Email, err = r.cipher.DecryptString(m.EmailEnc); err != nil {
			return nil, fmt.Errorf("failed to decrypt patient email: %w", err)
		}
	}

	return patient, nil
}
