package services

import (
	"context"
	"errors"

	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, jobID string) error
	Remove(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, userID string) ([]models.Job, error)
}

type favoriteService struct {
	favorites pgrepo.FavoriteRepository
	jobs      pgrepo.JobRepository
}

func NewFavoriteService(favorites pgrepo.FavoriteRepository, jobs pgrepo.JobRepository) FavoriteService {
	return &favoriteService{favorites: favorites, jobs: jobs}
}

func (s *favoriteService) Add(ctx context.Context, userID, jobID string) error {
	const op = "FavoriteService.Add"

	if userID == "" || jobID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and job_id are required", nil)
	}
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if err := s.favorites.Add(ctx, userID, jobID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to add favorite", err)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, jobID string) error {
	const op = "FavoriteService.Remove"

	if userID == "" || jobID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and job_id are required", nil)
	}
	if err := s.favorites.Remove(ctx, userID, jobID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to remove favorite", err)
	}
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]models.Job, error) {
	const op = "FavoriteService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.favorites.ListJobs(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list favorites", err)
	}
	if rows == nil {
		rows = []models.Job{}
	}
	return rows, nil
}
