package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

const (
	// TrackingCodeLength is the length of the public case identifier
	TrackingCodeLength = 8
	// trackingCodeAlphabet gives a 36^8 code space
	trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// MaxAllocationAttempts bounds the retry loop against collisions
	MaxAllocationAttempts = 5
)

// GenerateTrackingCode produces a random 8-character uppercase alphanumeric
// code, each character drawn independently with crypto/rand.
func GenerateTrackingCode() (string, error) {
	code := make([]byte, TrackingCodeLength)
	max := big.NewInt(int64(len(trackingCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking code: %w", err)
		}
		code[i] = trackingCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// generateCode is swappable in tests to force collisions
var generateCode = GenerateTrackingCode

// AllocateTrackingCode returns a code not currently used by any case. It must
// be called inside the case-creation transaction: the existence probe only
// narrows the race window, the unique index on cases.tracking_code is the
// final arbiter, and a constraint violation at insert counts as a collision
// the caller retries through CreateCase.
func AllocateTrackingCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < MaxAllocationAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Case{}).Where("tracking_code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check tracking code uniqueness: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrAllocationExhausted
}
