package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

// allowedUploadTypes are the accepted MIME types for evidence and
// verification documents.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// StoredUpload describes a file persisted in the blob store.
type StoredUpload struct {
	Key      string // generated storage key
	Filename string // original filename
	SHA256   string // hex-encoded content hash
	Size     int64
	MimeType string
}

// StoreUpload validates and persists a multipart upload under a generated
// key, hashing the content on the way in.
func StoreUpload(ctx context.Context, storage StorageProvider, file *multipart.FileHeader, maxSize int64) (*StoredUpload, error) {
	if file.Size > maxSize {
		return nil, &ValidationError{Field: "file", Message: fmt.Sprintf("File exceeds the %d byte limit", maxSize)}
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return nil, &ValidationError{Field: "file", Message: "Only PDF, JPEG and PNG files are accepted"}
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	// Uploads are small (capped by maxSize); buffer to hash before storing
	content, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > maxSize {
		return nil, &ValidationError{Field: "file", Message: fmt.Sprintf("File exceeds the %d byte limit", maxSize)}
	}

	sum := sha256.Sum256(content)

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := uuid.New().String() + ext

	if err := storage.UploadReader(ctx, bytes.NewReader(content), key, contentType, int64(len(content))); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &StoredUpload{
		Key:      key,
		Filename: file.Filename,
		SHA256:   hex.EncodeToString(sum[:]),
		Size:     int64(len(content)),
		MimeType: contentType,
	}, nil
}

// SaveEvidence stores an uploaded file and records the evidence row. If the
// row cannot be written the stored blob is removed again.
func SaveEvidence(ctx context.Context, db *gorm.DB, storage StorageProvider, kase *models.Case, uploader *models.User, file *multipart.FileHeader, maxSize int64) (*models.Evidence, error) {
	stored, err := StoreUpload(ctx, storage, file, maxSize)
	if err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		CaseID:       kase.ID,
		Filename:     stored.Filename,
		SHA256:       stored.SHA256,
		StoragePath:  stored.Key,
		UploadedByID: uploader.ID,
	}
	if err := db.Create(evidence).Error; err != nil {
		if delErr := storage.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("[WARNING] Failed to remove orphaned upload %s: %v", stored.Key, delErr)
		}
		return nil, fmt.Errorf("failed to record evidence: %w", err)
	}
	return evidence, nil
}

// ListEvidence returns a case's evidence in upload order.
func ListEvidence(db *gorm.DB, caseID uint) ([]models.Evidence, error) {
	var items []models.Evidence
	if err := db.Preload("UploadedBy").
		Where("case_id = ?", caseID).
		Order("uploaded_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch evidence: %w", err)
	}
	return items, nil
}
