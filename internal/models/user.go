package models

import "time"

type UserRole string

const (
	RoleCandidate UserRole = "candidate"
	RoleRecruiter UserRole = "recruiter"
)

func (r UserRole) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

// from supabase auth
type User struct {
	ID           string    `json:"id"` // uuid
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// AuthSession is what the hosted auth provider hands back on sign in / sign up.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}
