package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Job, error)
	Save(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error)
	ListByRecruiter(ctx context.Context, recruiterID string, onlyOpen bool) ([]models.Job, error)
	CountOpenByRecruiter(ctx context.Context, recruiterID string) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Job
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Save(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Save(j).Error
}

// Delete removes the job together with its favorites and applications.
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func (r *jobRepo) Search(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	_, size, offset := utils.Page(f.Page, f.PageSize)

	q := r.db.WithContext(ctx).Model(&models.Job{}).Where("status = ?", models.JobOpen)
	if strings.TrimSpace(f.Query) != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(f.Query))
	}
	if strings.TrimSpace(f.Location) != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(f.Location))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Job
	err := q.Order("created_at DESC").
		Limit(size).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string, onlyOpen bool) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID)
	if onlyOpen {
		q = q.Where("status = ?", models.JobOpen)
	}
	var rows []models.Job
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *jobRepo) CountOpenByRecruiter(ctx context.Context, recruiterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("recruiter_id = ? AND status = ?", recruiterID, models.JobOpen).
		Count(&count).Error
	return count, err
}
