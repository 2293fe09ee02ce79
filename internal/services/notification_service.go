package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/datatypes"
)

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Notify(ctx context.Context, userID, kind, title, message string, data map[string]any) (*models.Notification, error)
	HandleApplicationEvent(ctx context.Context, ev models.ApplicationEvent) error
}

type notificationService struct {
	notifications pgrepo.NotificationRepository
}

func NewNotificationService(notifications pgrepo.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	const op = "NotificationService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.notifications.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	return rows, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.UnreadCount"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count notifications", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	const op = "NotificationService.MarkRead"

	if userID == "" || id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and notification id are required", nil)
	}
	if err := s.notifications.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "notification not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to mark notification", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.MarkAllRead"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to mark notifications", err)
	}
	return n, nil
}

func (s *notificationService) Notify(ctx context.Context, userID, kind, title, message string, data map[string]any) (*models.Notification, error) {
	const op = "NotificationService.Notify"

	if userID == "" || title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and title are required", nil)
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid notification data", err)
		}
		n.Data = datatypes.JSON(b)
	}

	if err := s.notifications.Insert(ctx, n); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert notification", err)
	}
	return n, nil
}

var statusLabels = map[models.ApplicationStatus]string{
	models.StatusPending:  "en attente",
	models.StatusReviewed: "examinée",
	models.StatusAccepted: "acceptée",
	models.StatusRejected: "refusée",
}

// HandleApplicationEvent turns an application event into the notification
// the other party should see.
func (s *notificationService) HandleApplicationEvent(ctx context.Context, ev models.ApplicationEvent) error {
	const op = "NotificationService.HandleApplicationEvent"

	data := map[string]any{"job_id": ev.JobID, "application_id": ev.ApplicationID}

	switch ev.Type {
	case models.EventApplicationCreated:
		_, err := s.Notify(ctx, ev.RecruiterID, ev.Type,
			"Nouvelle candidature",
			fmt.Sprintf("%s a postulé à « %s ».", ev.CandidateName, ev.JobTitle),
			data)
		return err
	case models.EventApplicationStatusChanged:
		label, ok := statusLabels[ev.Status]
		if !ok {
			label = string(ev.Status)
		}
		_, err := s.Notify(ctx, ev.CandidateID, ev.Type,
			"Candidature mise à jour",
			fmt.Sprintf("Votre candidature pour « %s » est %s.", ev.JobTitle, label),
			data)
		return err
	default:
		return utils.E(utils.CodeInvalidArgument, op, "unknown event type: "+ev.Type, nil)
	}
}
