package postgres

import (
	"context"
	"time"

	"github.com/yoockh/yoojob/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, jobID string) error
	Remove(ctx context.Context, userID, jobID string) error
	ListJobs(ctx context.Context, userID string) ([]models.Job, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type favoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Add(ctx context.Context, userID, jobID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, JobID: jobID, CreatedAt: time.Now().UTC()}).Error
}

func (r *favoriteRepo) Remove(ctx context.Context, userID, jobID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Delete(&models.Favorite{}).Error
}

func (r *favoriteRepo) ListJobs(ctx context.Context, userID string) ([]models.Job, error) {
	var rows []models.Job
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Joins("JOIN favorites ON favorites.job_id = jobs.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *favoriteRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
