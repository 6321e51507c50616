package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

// MinPasswordLength is the minimum accepted password length at registration
const MinPasswordLength = 8

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	District        string
}

// VerificationUpload references a credential document already persisted in
// the blob store, attached to LAWYER/OFFICIAL registrations.
type VerificationUpload struct {
	File     string // storage key of the uploaded document
	Filename string // original filename
}

// Validate checks the registration input without touching storage.
func (in *RegisterInput) Validate() error {
	if in.Name == "" {
		return missingField("name")
	}
	if in.Email == "" {
		return missingField("email")
	}
	if in.Password == "" {
		return missingField("password")
	}
	if in.Role == "" {
		return missingField("role")
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	if len(in.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if !models.IsValidRegistrationRole(in.Role) {
		return &ValidationError{Field: "role", Message: "Invalid role selected"}
	}
	return nil
}

// RegisterUser creates an account. Non-litigant accounts start unverified and
// need an administrative action to flip; when a verification document was
// uploaded, a user-level "Verification Request" timeline event (case_id NULL)
// records it, in the same transaction as the user row.
func RegisterUser(db *gorm.DB, in RegisterInput, verification *VerificationUpload) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: hash,
		Verified:     false,
	}
	if in.District != "" {
		user.District = &in.District
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isDuplicateEmail(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if verification != nil {
			meta, err := models.EncodeMeta(models.VerificationRequestMeta{
				File:     verification.File,
				Filename: verification.Filename,
			})
			if err != nil {
				return fmt.Errorf("failed to encode timeline meta: %w", err)
			}
			event := &models.TimelineEvent{
				CaseID:  nil,
				ActorID: user.ID,
				Event:   models.EventVerificationRequest,
				Meta:    meta,
			}
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to insert timeline event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}
