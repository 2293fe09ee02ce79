package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	MarkReadForJob(ctx context.Context, jobID string) (int64, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	CountByStatusForCandidate(ctx context.Context, candidateID string) (map[models.ApplicationStatus]int64, error)
	RecruiterTotals(ctx context.Context, recruiterID string, since time.Time) (RecruiterTotals, error)
	CountsByJob(ctx context.Context, recruiterID string) (map[string]JobCounts, error)
}

type RecruiterTotals struct {
	Total  int64
	Since  int64
	Unread int64
}

type JobCounts struct {
	Applicants int64
	Unread     int64
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrDuplicate
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) MarkReadForJob(ctx context.Context, jobID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND read_by_recruiter = ?", jobID, false).
		Update("read_by_recruiter", true)
	return res.RowsAffected, res.Error
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) CountByStatusForCandidate(ctx context.Context, candidateID string) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS n").
		Where("candidate_id = ?", candidateID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[models.ApplicationStatus]int64{}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *applicationRepo) recruiterScope(ctx context.Context, recruiterID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ?", recruiterID)
}

func (r *applicationRepo) RecruiterTotals(ctx context.Context, recruiterID string, since time.Time) (RecruiterTotals, error) {
	var out RecruiterTotals
	if err := r.recruiterScope(ctx, recruiterID).Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := r.recruiterScope(ctx, recruiterID).
		Where("applications.created_at >= ?", since).
		Count(&out.Since).Error; err != nil {
		return out, err
	}
	if err := r.recruiterScope(ctx, recruiterID).
		Where("applications.read_by_recruiter = ?", false).
		Count(&out.Unread).Error; err != nil {
		return out, err
	}
	return out, nil
}

func (r *applicationRepo) CountsByJob(ctx context.Context, recruiterID string) (map[string]JobCounts, error) {
	var rows []struct {
		JobID      string
		Applicants int64
		Unread     int64
	}
	err := r.recruiterScope(ctx, recruiterID).
		Select("applications.job_id AS job_id, COUNT(*) AS applicants, " +
			"SUM(CASE WHEN applications.read_by_recruiter THEN 0 ELSE 1 END) AS unread").
		Group("applications.job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]JobCounts, len(rows))
	for _, row := range rows {
		out[row.JobID] = JobCounts{Applicants: row.Applicants, Unread: row.Unread}
	}
	return out, nil
}
