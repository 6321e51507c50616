package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var errEvidenceImmutable = errors.New("evidence records are immutable")

// Evidence is an uploaded file attached to a case. Rows are never mutated;
// listing order is UploadedAt ascending.
type Evidence struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`

	CaseID uint  `gorm:"not null;index" json:"case_id"`
	Case   *Case `gorm:"foreignKey:CaseID" json:"-"`

	// Original filename as supplied by the uploader
	Filename string `gorm:"not null" json:"filename"`
	// Hex-encoded SHA-256 of the file content
	SHA256 string `gorm:"size:64;not null" json:"sha256"`
	// Blob-store key; not exposed to clients
	StoragePath string `gorm:"not null" json:"-"`

	UploadedByID uint `gorm:"not null;index" json:"uploaded_by_id"`
	UploadedBy   User `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

// TableName specifies the table name for Evidence model
func (Evidence) TableName() string {
	return "evidence"
}

// BeforeUpdate prevents modification of evidence rows
func (e *Evidence) BeforeUpdate(tx *gorm.DB) error {
	return errEvidenceImmutable
}
