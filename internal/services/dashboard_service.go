package services

import (
	"context"
	"time"

	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
)

const newApplicationsWindow = 7 * 24 * time.Hour

type DashboardService interface {
	Candidate(ctx context.Context, userID string) (*models.CandidateDashboard, error)
	Recruiter(ctx context.Context, recruiterID string) (*models.RecruiterDashboard, error)
}

type dashboardService struct {
	profiles      ProfileService
	applications  ApplicationService
	jobs          JobService
	appRepo       pgrepo.ApplicationRepository
	jobRepo       pgrepo.JobRepository
	favorites     pgrepo.FavoriteRepository
	notifications NotificationService
	messages      MessageService // nil when the message store is down
	now           func() time.Time
}

func NewDashboardService(
	profiles ProfileService,
	applications ApplicationService,
	jobs JobService,
	appRepo pgrepo.ApplicationRepository,
	jobRepo pgrepo.JobRepository,
	favorites pgrepo.FavoriteRepository,
	notifications NotificationService,
	messages MessageService,
) DashboardService {
	return &dashboardService{
		profiles:      profiles,
		applications:  applications,
		jobs:          jobs,
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		favorites:     favorites,
		notifications: notifications,
		messages:      messages,
		now:           time.Now,
	}
}

func (s *dashboardService) Candidate(ctx context.Context, userID string) (*models.CandidateDashboard, error) {
	const op = "DashboardService.Candidate"

	p, err := s.profiles.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.appRepo.CountByStatusForCandidate(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	favs, err := s.favorites.Count(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count favorites", err)
	}
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.CandidateDashboard{
		Profile:             p,
		Applications:        apps,
		ApplicationsByState: byStatus,
		Favorites:           favs,
		UnreadNotifications: unread,
	}, nil
}

func (s *dashboardService) Recruiter(ctx context.Context, recruiterID string) (*models.RecruiterDashboard, error) {
	const op = "DashboardService.Recruiter"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}

	jobs, err := s.jobs.ListMine(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	active, err := s.jobRepo.CountOpenByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
	}
	totals, err := s.appRepo.RecruiterTotals(ctx, recruiterID, s.now().UTC().Add(-newApplicationsWindow))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
	}
	unreadNotifs, err := s.notifications.UnreadCount(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	var unreadMsgs int64
	if s.messages != nil {
		// messages live in another store; a hiccup there should not blank the dashboard
		if n, err := s.messages.UnreadCount(ctx, recruiterID); err == nil {
			unreadMsgs = n
		}
	}

	return &models.RecruiterDashboard{
		ActiveJobs:          active,
		TotalApplications:   totals.Total,
		NewApplications7d:   totals.Since,
		UnreadApplications:  totals.Unread,
		UnreadMessages:      unreadMsgs,
		UnreadNotifications: unreadNotifs,
		Jobs:                jobs,
	}, nil
}
