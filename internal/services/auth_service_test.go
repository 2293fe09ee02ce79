package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/navigation"
	"github.com/yoockh/yoojob/internal/utils"
)

func TestAuthService_RegisterWithRole(t *testing.T) {
	_, r := newRepos(t)
	auth := newFakeAuth()
	profiles := NewProfileService(r.profiles, nil, nil, 0)
	svc := NewAuthService(auth, profiles)

	res, err := svc.Register(ctx(), RegisterInput{
		Email:    " Kaltouma@Example.com ",
		Password: "secret123",
		FullName: "Kaltouma Idriss",
		Role:     models.RoleRecruiter,
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.PathRecruiterDashboard, res.Redirect)
	require.NotNil(t, res.Profile)
	assert.Equal(t, models.RoleRecruiter, res.Profile.Role)
	assert.Equal(t, "kaltouma@example.com", res.Session.User.Email)
	assert.Equal(t, "recruiter", auth.lastMeta["role"])

	_, err = svc.Register(ctx(), RegisterInput{Email: "kaltouma@example.com", Password: "secret123", FullName: "K", Role: models.RoleRecruiter})
	requireCode(t, err, utils.CodeConflict)
}

func TestAuthService_RegisterWithoutRole(t *testing.T) {
	_, r := newRepos(t)
	svc := NewAuthService(newFakeAuth(), NewProfileService(r.profiles, nil, nil, 0))

	res, err := svc.Register(ctx(), RegisterInput{Email: "a@example.com", Password: "secret123", FullName: "A"})
	require.NoError(t, err)
	assert.Equal(t, navigation.PathOnboarding, res.Redirect)
	assert.Nil(t, res.Profile)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	_, r := newRepos(t)
	svc := NewAuthService(newFakeAuth(), NewProfileService(r.profiles, nil, nil, 0))

	bad := []RegisterInput{
		{Email: "", Password: "secret123", FullName: "A"},
		{Email: "nope", Password: "secret123", FullName: "A"},
		{Email: "a@example.com", Password: "123", FullName: "A"},
		{Email: "a@example.com", Password: "secret123", FullName: "A", Role: "admin"},
	}
	for _, in := range bad {
		_, err := svc.Register(ctx(), in)
		requireCode(t, err, utils.CodeInvalidArgument)
	}

	noProvider := NewAuthService(nil, NewProfileService(r.profiles, nil, nil, 0))
	_, err := noProvider.Register(ctx(), RegisterInput{Email: "a@example.com", Password: "secret123", FullName: "A"})
	requireCode(t, err, utils.CodeUnavailable)
}

func TestAuthService_LoginRedirects(t *testing.T) {
	_, r := newRepos(t)
	auth := newFakeAuth()
	profiles := NewProfileService(r.profiles, nil, nil, 0)
	svc := NewAuthService(auth, profiles)

	_, err := svc.Register(ctx(), RegisterInput{Email: "cand@example.com", Password: "secret123", FullName: "Cand", Role: models.RoleCandidate})
	require.NoError(t, err)
	_, err = svc.Register(ctx(), RegisterInput{Email: "new@example.com", Password: "secret123", FullName: "New"})
	require.NoError(t, err)

	res, err := svc.Login(ctx(), "CAND@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, navigation.PathDashboard, res.Redirect)
	assert.NotEmpty(t, res.Session.AccessToken)

	res, err = svc.Login(ctx(), "new@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, navigation.PathOnboarding, res.Redirect)

	_, err = svc.Login(ctx(), "cand@example.com", "wrong")
	requireCode(t, err, utils.CodeUnauthorized)

	_, err = svc.Login(ctx(), "", "")
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestAuthService_LogoutAndOAuth(t *testing.T) {
	_, r := newRepos(t)
	auth := newFakeAuth()
	svc := NewAuthService(auth, NewProfileService(r.profiles, nil, nil, 0))

	_, err := svc.Logout(ctx(), "")
	requireCode(t, err, utils.CodeUnauthorized)

	to, err := svc.Logout(ctx(), "tok")
	require.NoError(t, err)
	assert.Equal(t, navigation.PathHome, to)
	assert.Equal(t, []string{"tok"}, auth.signedOut)

	u, err := svc.OAuthURL("google", "https://yoojob.td/auth/callback")
	require.NoError(t, err)
	assert.Contains(t, u, "provider=google")

	_, err = svc.OAuthURL("myspace", "")
	requireCode(t, err, utils.CodeInvalidArgument)
}
