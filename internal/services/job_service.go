package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/cache"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
)

const maxSuggestedTags = 5

type JobService interface {
	Create(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Search(ctx context.Context, f models.JobFilter) (*models.JobPage, error)
	Update(ctx context.Context, recruiterID, id string, in JobInput) (*models.Job, error)
	Delete(ctx context.Context, recruiterID, id string) error
	ListMine(ctx context.Context, recruiterID string) ([]models.JobWithStats, error)
	Company(ctx context.Context, recruiterID string) (*models.CompanyPage, error)
}

// TagSuggester fills in tags when a recruiter leaves them blank.
type TagSuggester interface {
	SuggestTags(ctx context.Context, title, description string, max int) ([]string, error)
}

// JobInput is a posting form. Tags is the raw "Excel, Word, Java" field;
// nil pointers leave a field untouched on update.
type JobInput struct {
	Title              *string
	CompanyName        *string
	CompanyDescription *string
	Category           *string
	Location           *string
	Description        *string
	Tags               *string
	Salary             *string
	Type               *string
	Status             *models.JobStatus
}

type jobService struct {
	jobs         pgrepo.JobRepository
	applications pgrepo.ApplicationRepository
	profiles     pgrepo.ProfileRepository
	cache        cache.Cache
	cacheTTL     time.Duration
	suggester    TagSuggester
}

func NewJobService(jobs pgrepo.JobRepository, applications pgrepo.ApplicationRepository, profiles pgrepo.ProfileRepository, c cache.Cache, cacheTTL time.Duration, suggester TagSuggester) JobService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &jobService{
		jobs:         jobs,
		applications: applications,
		profiles:     profiles,
		cache:        c,
		cacheTTL:     cacheTTL,
		suggester:    suggester,
	}
}

func jobKey(id string) string { return "job:" + id }

func (s *jobService) Create(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Status:      models.JobOpen,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applyJobInput(job, in); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}
	if job.Title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title is required", nil)
	}

	if job.CompanyName == "" {
		if p, err := s.profiles.GetByID(ctx, recruiterID); err == nil {
			job.CompanyName = p.CompanyName
			if job.CompanyName == "" {
				job.CompanyName = p.FullName
			}
			if job.CompanyDescription == "" {
				job.CompanyDescription = p.CompanyDescription
			}
		}
	}

	// suggestions are best effort: a failing model leaves the tags empty
	if len(job.Tags) == 0 && s.suggester != nil && job.Description != "" {
		if tags, err := s.suggester.SuggestTags(ctx, job.Title, job.Description, maxSuggestedTags); err == nil {
			job.Tags = tags
		}
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func applyJobInput(job *models.Job, in JobInput) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&job.Title, in.Title)
	set(&job.CompanyName, in.CompanyName)
	set(&job.CompanyDescription, in.CompanyDescription)
	set(&job.Category, in.Category)
	set(&job.Location, in.Location)
	set(&job.Description, in.Description)
	set(&job.Salary, in.Salary)
	set(&job.Type, in.Type)

	if in.Tags != nil {
		job.Tags = utils.SplitTags(*in.Tags)
	}
	if in.Status != nil {
		if *in.Status != models.JobOpen && *in.Status != models.JobClosed {
			return errors.New("status must be open or closed")
		}
		job.Status = *in.Status
	}
	return nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job id is required", nil)
	}

	if s.cache != nil {
		var cached models.Job
		if hit, err := s.cache.GetJSON(ctx, jobKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, jobKey(id), job, s.cacheTTL)
	}
	return job, nil
}

func (s *jobService) Search(ctx context.Context, f models.JobFilter) (*models.JobPage, error) {
	const op = "JobService.Search"

	page, size, _ := utils.Page(f.Page, f.PageSize)
	f.Page, f.PageSize = page, size

	rows, total, err := s.jobs.Search(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search jobs", err)
	}
	if rows == nil {
		rows = []models.Job{}
	}
	return &models.JobPage{Items: rows, Total: total, Page: page, PageSize: size}, nil
}

// owned loads a job and checks it belongs to recruiterID.
func (s *jobService) owned(ctx context.Context, op, recruiterID, id string) (*models.Job, error) {
	if recruiterID == "" || id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id and job id are required", nil)
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if job.RecruiterID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, recruiterID, id string, in JobInput) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.owned(ctx, op, recruiterID, id)
	if err != nil {
		return nil, err
	}
	if err := applyJobInput(job, in); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}
	if job.Title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title cannot be empty", nil)
	}

	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, jobKey(id))
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, recruiterID, id string) error {
	const op = "JobService.Delete"

	if _, err := s.owned(ctx, op, recruiterID, id); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, jobKey(id))
	}
	return nil
}

func (s *jobService) ListMine(ctx context.Context, recruiterID string) ([]models.JobWithStats, error) {
	const op = "JobService.ListMine"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}

	jobs, err := s.jobs.ListByRecruiter(ctx, recruiterID, false)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	counts, err := s.applications.CountsByJob(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}

	out := make([]models.JobWithStats, 0, len(jobs))
	for _, j := range jobs {
		c := counts[j.ID]
		out = append(out, models.JobWithStats{Job: j, Applicants: c.Applicants, NewApplicants: c.Unread})
	}
	return out, nil
}

func (s *jobService) Company(ctx context.Context, recruiterID string) (*models.CompanyPage, error) {
	const op = "JobService.Company"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company id is required", nil)
	}

	p, err := s.profiles.GetByID(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	if p.Role != models.RoleRecruiter {
		return nil, utils.E(utils.CodeNotFound, op, "company not found", nil)
	}

	jobs, err := s.jobs.ListByRecruiter(ctx, recruiterID, true)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	name := p.CompanyName
	if name == "" {
		name = p.FullName
	}
	return &models.CompanyPage{
		RecruiterID: p.ID,
		Name:        name,
		Description: p.CompanyDescription,
		Location:    p.Location,
		AvatarURL:   p.AvatarURL,
		Jobs:        jobs,
	}, nil
}
