package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoockh/yoojob/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, role models.UserRole, name string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ID:        uuid.NewString(),
		FullName:  name,
		Role:      role,
		JobTitle:  "Engineer",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedJob(t *testing.T, db *gorm.DB, recruiterID, title, location string, createdAt time.Time) *models.Job {
	t.Helper()
	j := &models.Job{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Title:       title,
		CompanyName: "Tchad Numérique",
		Location:    location,
		Category:    "IT",
		Type:        "CDI",
		Tags:        []string{"Go", "SQL"},
		Status:      models.JobOpen,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(j).Error)
	return j
}

func seedApplication(t *testing.T, db *gorm.DB, jobID, candidateID string, createdAt time.Time) *models.Application {
	t.Helper()
	a := &models.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		FullName:    "Fatima Zara",
		Email:       "fatima@example.com",
		CVURL:       "https://storage.googleapis.com/b/cv.pdf",
		Status:      models.StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func ctx() context.Context { return context.Background() }
