// Package navigation decides where a visitor belongs given who they are and
// which client route they are looking at.
package navigation

import (
	"strings"

	"github.com/yoockh/yoojob/internal/models"
)

const (
	PathHome               = "/"
	PathLogin              = "/login"
	PathRegister           = "/register"
	PathOnboarding         = "/onboarding"
	PathDashboard          = "/dashboard"
	PathRecruiterDashboard = "/dashboard-recruiter"
	PathPostJob            = "/post-job"
	PathJobCandidates      = "/job-candidates/"
	PathMessages           = "/messages"
	PathFavorites          = "/favorites"
)

type AuthState struct {
	LoggedIn bool
	UserID   string
	Role     models.UserRole
}

type Decision struct {
	Redirect string // empty when the visitor may stay
}

func (d Decision) Stay() bool { return d.Redirect == "" }

// HomeFor is the landing page after sign in.
func HomeFor(role models.UserRole) string {
	if role == models.RoleRecruiter {
		return PathRecruiterDashboard
	}
	return PathDashboard
}

// AfterSignOut is where a signed out visitor lands.
func AfterSignOut() string { return PathHome }

func Resolve(state AuthState, path string) Decision {
	path = clean(path)

	if !state.LoggedIn {
		if IsPrivate(path) {
			return Decision{Redirect: PathLogin}
		}
		return Decision{}
	}

	if state.Role == "" {
		if path != PathOnboarding {
			return Decision{Redirect: PathOnboarding}
		}
		return Decision{}
	}

	switch path {
	case PathHome, PathLogin, PathRegister:
		return Decision{Redirect: HomeFor(state.Role)}
	}

	if IsRecruiterOnly(path) && state.Role != models.RoleRecruiter {
		return Decision{Redirect: PathDashboard}
	}
	return Decision{}
}

func IsPrivate(path string) bool {
	path = clean(path)
	switch {
	case strings.HasPrefix(path, PathDashboard),
		path == PathPostJob,
		path == PathMessages,
		path == PathFavorites,
		path == PathOnboarding,
		strings.HasPrefix(path, PathJobCandidates):
		return true
	}
	return false
}

func IsRecruiterOnly(path string) bool {
	path = clean(path)
	return path == PathPostJob ||
		path == PathRecruiterDashboard ||
		strings.HasPrefix(path, PathJobCandidates)
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathHome
		}
	}
	return path
}
