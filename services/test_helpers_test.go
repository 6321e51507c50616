package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.TimelineEvent{},
		&models.Evidence{},
	)
	assert.NoError(t, err)

	return testDB
}

// setupTestDBWithout opens an in-memory database with some models left
// unmigrated, for tests that need a later insert to fail.
func setupTestDBWithout(t *testing.T, skip ...interface{}) *gorm.DB {
	t.Helper()

	skipped := func(model interface{}) bool {
		for _, s := range skip {
			if fmt.Sprintf("%T", s) == fmt.Sprintf("%T", model) {
				return true
			}
		}
		return false
	}

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	all := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.TimelineEvent{},
		&models.Evidence{},
	}
	for _, model := range all {
		if skipped(model) {
			continue
		}
		assert.NoError(t, testDB.AutoMigrate(model))
	}
	return testDB
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string, verified bool) *models.User {
	t.Helper()

	hash, err := HashPassword("password123")
	assert.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         "Test " + role,
		Role:         role,
		PasswordHash: hash,
		Verified:     verified,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func createTestCase(t *testing.T, db *gorm.DB, creator *models.User) *models.Case {
	t.Helper()

	result, err := CreateCase(db, creator, CreateCaseInput{
		Title:       "Test case",
		Type:        models.CaseTypeCrime,
		District:    "Dhaka",
		OpenConsent: true,
	})
	assert.NoError(t, err)

	var kase models.Case
	assert.NoError(t, db.First(&kase, result.CaseID).Error)
	return &kase
}

func uintPtr(v uint) *uint {
	return &v
}
