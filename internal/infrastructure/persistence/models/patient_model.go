package models

import (
	"time"
)

// PatientModel is the GORM database model for patients. PHI columns
// (FullNameEnc, PhoneEnc, EmailEnc) store ciphertext only; NameDigest is a
// deterministic digest of the normalized full name used for lookups without
// decrypting the register.
type PatientModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	WorkspaceID     string    `gorm:"not null;index;type:uuid"`
	ExternalRef     string    `gorm:"not null;uniqueIndex;type:varchar(64)"`
	FullNameEnc     string    `gorm:"not null;type:text"`
	PhoneEnc        string    `gorm:"type:text"`
	EmailEnc        string    `gorm:"type:text"`
	NameDigest      string    `gorm:"not null;index;type:char(64)"`
	PreferredLang   string    `gorm:"type:char(2)"`
	DateTimeCreated time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}
