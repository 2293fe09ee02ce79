package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/events"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/storage"
	"github.com/yoockh/yoojob/internal/utils"
)

type ApplicationService interface {
	Apply(ctx context.Context, candidateID, jobID string, in ApplyInput, cv *Upload) (*models.Application, error)
	ListForJob(ctx context.Context, recruiterID, jobID string) ([]models.CandidateApplication, error)
	UpdateStatus(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) (*models.Application, error)
	ListMine(ctx context.Context, candidateID string) ([]models.MyApplication, error)
}

type ApplyInput struct {
	FullName     string
	Email        string
	Message      string
	PortfolioURL string
}

type applicationService struct {
	applications pgrepo.ApplicationRepository
	jobs         pgrepo.JobRepository
	profiles     pgrepo.ProfileRepository
	uploader     storage.Uploader
	events       events.Publisher
}

func NewApplicationService(applications pgrepo.ApplicationRepository, jobs pgrepo.JobRepository, profiles pgrepo.ProfileRepository, uploader storage.Uploader, pub events.Publisher) ApplicationService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		profiles:     profiles,
		uploader:     uploader,
		events:       pub,
	}
}

func (in *ApplyInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.PortfolioURL = strings.TrimSpace(in.PortfolioURL)
}

func (in ApplyInput) missing(cv *Upload) []string {
	var out []string
	if in.FullName == "" {
		out = append(out, "full_name")
	}
	if in.Email == "" {
		out = append(out, "email")
	}
	if cv == nil || cv.Body == nil {
		out = append(out, "cv")
	}
	return out
}

// Apply uploads the CV, then records the application pointing at its public URL.
func (s *applicationService) Apply(ctx context.Context, candidateID, jobID string, in ApplyInput, cv *Upload) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if candidateID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and job_id are required", nil)
	}
	in.normalize()
	if missing := in.missing(cv); len(missing) > 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "required fields missing: "+strings.Join(missing, ", "), nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email is invalid", err)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if job.Status != models.JobOpen {
		return nil, utils.E(utils.CodeConflict, op, "job is closed", nil)
	}
	if job.RecruiterID == candidateID {
		return nil, utils.E(utils.CodeForbidden, op, "cannot apply to your own job", nil)
	}

	exists, err := s.applications.Exists(ctx, jobID, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "already applied to this job", nil)
	}

	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "file storage is not configured", nil)
	}
	objectName := storage.ApplicationCV(jobID, candidateID, cv.Ext())
	cvURL, err := s.uploader.Upload(ctx, objectName, cv.ContentType, cv.Body)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload cv", err)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:           uuid.NewString(),
		JobID:        jobID,
		CandidateID:  candidateID,
		FullName:     in.FullName,
		Email:        in.Email,
		Message:      in.Message,
		PortfolioURL: in.PortfolioURL,
		CVURL:        cvURL,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.applications.Create(ctx, app); err != nil {
		// drop the CV nothing points at
		if rm, ok := s.uploader.(storage.Remover); ok {
			_ = rm.Remove(ctx, objectName)
		}
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "already applied to this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save application", err)
	}

	_ = s.events.PublishApplication(ctx, models.ApplicationEvent{
		Type:          models.EventApplicationCreated,
		ApplicationID: app.ID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		CandidateID:   candidateID,
		CandidateName: app.FullName,
		RecruiterID:   job.RecruiterID,
		Status:        app.Status,
	})
	return app, nil
}

func (s *applicationService) ownedJob(ctx context.Context, op, recruiterID, jobID string) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
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

// ListForJob marks every application of the job as seen before listing them.
func (s *applicationService) ListForJob(ctx context.Context, recruiterID, jobID string) ([]models.CandidateApplication, error) {
	const op = "ApplicationService.ListForJob"

	if recruiterID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id and job_id are required", nil)
	}
	if _, err := s.ownedJob(ctx, op, recruiterID, jobID); err != nil {
		return nil, err
	}

	if _, err := s.applications.MarkReadForJob(ctx, jobID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to mark applications as read", err)
	}

	rows, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CandidateID)
	}
	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate profiles", err)
	}
	byID := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	out := make([]models.CandidateApplication, 0, len(rows))
	for _, r := range rows {
		ca := models.CandidateApplication{Application: r}
		if p, ok := byID[r.CandidateID]; ok {
			sum := p.Summary()
			ca.Candidate = &sum
		}
		out = append(out, ca)
	}
	return out, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if recruiterID == "" || applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id and application id are required", nil)
	}
	if !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be pending, reviewed, accepted or rejected", nil)
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	job, err := s.ownedJob(ctx, op, recruiterID, app.JobID)
	if err != nil {
		return nil, err
	}

	if app.Status == status {
		return app, nil
	}
	if err := s.applications.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()

	_ = s.events.PublishApplication(ctx, models.ApplicationEvent{
		Type:          models.EventApplicationStatusChanged,
		ApplicationID: app.ID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		CandidateID:   app.CandidateID,
		CandidateName: app.FullName,
		RecruiterID:   job.RecruiterID,
		Status:        status,
	})
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, candidateID string) ([]models.MyApplication, error) {
	const op = "ApplicationService.ListMine"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	rows, err := s.applications.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.JobID)
	}
	jobs, err := s.jobs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load jobs", err)
	}
	byID := make(map[string]*models.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	out := make([]models.MyApplication, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.MyApplication{Application: r, Job: byID[r.JobID]})
	}
	return out, nil
}
