package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/navigation"
	"github.com/yoockh/yoojob/internal/providers/authn"
	"github.com/yoockh/yoojob/internal/utils"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, accessToken string) (string, error)
	OAuthURL(provider, redirectTo string) (string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     models.UserRole
}

// AuthResult pairs the provider session with where the client should go next.
type AuthResult struct {
	Session  *models.AuthSession `json:"session"`
	Profile  *models.Profile     `json:"profile,omitempty"`
	Redirect string              `json:"redirect"`
}

type authService struct {
	provider authn.Provider
	profiles ProfileService
}

func NewAuthService(provider authn.Provider, profiles ProfileService) AuthService {
	return &authService{provider: provider, profiles: profiles}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "AuthService.Register"

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email, password and full_name are required", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email is invalid", err)
	}
	if len(in.Password) < minPasswordLength {
		return nil, utils.E(utils.CodeInvalidArgument, op, "password is too short", nil)
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be candidate or recruiter", nil)
	}
	if s.provider == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "auth provider is not configured", nil)
	}

	meta := map[string]any{"full_name": in.FullName}
	if in.Role != "" {
		meta["role"] = string(in.Role)
	}
	sess, err := s.provider.SignUp(ctx, in.Email, in.Password, meta)
	if err != nil {
		return nil, err
	}

	out := &AuthResult{Session: sess}
	if in.Role == "" {
		out.Redirect = navigation.PathOnboarding
		return out, nil
	}

	p, err := s.profiles.CompleteOnboarding(ctx, sess.User.ID, in.FullName, in.Role)
	if err != nil {
		return nil, err
	}
	out.Profile = p
	out.Redirect = navigation.HomeFor(p.Role)
	return out, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "AuthService.Login"

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if s.provider == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "auth provider is not configured", nil)
	}

	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	role, err := s.profiles.RoleOf(ctx, sess.User.ID)
	if err != nil {
		return nil, err
	}

	redirect := navigation.Resolve(navigation.AuthState{LoggedIn: true, UserID: sess.User.ID, Role: role}, navigation.PathLogin).Redirect
	return &AuthResult{Session: sess, Redirect: redirect}, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) (string, error) {
	const op = "AuthService.Logout"

	if accessToken == "" {
		return "", utils.E(utils.CodeUnauthorized, op, "missing bearer token", nil)
	}
	if s.provider == nil {
		return "", utils.E(utils.CodeUnavailable, op, "auth provider is not configured", nil)
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return "", err
	}
	return navigation.AfterSignOut(), nil
}

func (s *authService) OAuthURL(provider, redirectTo string) (string, error) {
	const op = "AuthService.OAuthURL"

	switch provider {
	case "google", "github", "linkedin_oidc", "azure":
	default:
		return "", utils.E(utils.CodeInvalidArgument, op, "unsupported oauth provider", nil)
	}
	if s.provider == nil {
		return "", utils.E(utils.CodeUnavailable, op, "auth provider is not configured", nil)
	}
	return s.provider.AuthorizeURL(provider, redirectTo)
}
