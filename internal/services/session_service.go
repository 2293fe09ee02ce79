package services

import (
	"context"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/navigation"
)

type SessionService interface {
	State(ctx context.Context, userID, path string) (*SessionState, error)
}

// SessionState is what the client needs right after an auth state change.
type SessionState struct {
	LoggedIn            bool            `json:"logged_in"`
	ID                  string          `json:"id,omitempty"`
	Role                models.UserRole `json:"role"`
	UnreadNotifications int64           `json:"unread_notifications"`
	Redirect            string          `json:"redirect,omitempty"`
}

type sessionService struct {
	profiles      ProfileService
	notifications NotificationService
}

func NewSessionService(profiles ProfileService, notifications NotificationService) SessionService {
	return &sessionService{profiles: profiles, notifications: notifications}
}

func (s *sessionService) State(ctx context.Context, userID, path string) (*SessionState, error) {
	state := navigation.AuthState{LoggedIn: userID != "", UserID: userID}
	out := &SessionState{LoggedIn: state.LoggedIn, ID: userID}

	if state.LoggedIn {
		role, err := s.profiles.RoleOf(ctx, userID)
		if err != nil {
			return nil, err
		}
		state.Role = role
		out.Role = role

		unread, err := s.notifications.UnreadCount(ctx, userID)
		if err != nil {
			return nil, err
		}
		out.UnreadNotifications = unread
	}

	out.Redirect = navigation.Resolve(state, path).Redirect
	return out, nil
}
