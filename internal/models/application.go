package models

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID       string `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_job_candidate" json:"job_id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;uniqueIndex:uniq_job_candidate;index" json:"candidate_id"`

	FullName     string `gorm:"column:full_name;type:text" json:"full_name"`
	Email        string `gorm:"column:email;type:text" json:"email"`
	Message      string `gorm:"column:message;type:text" json:"message"`
	PortfolioURL string `gorm:"column:portfolio_url;type:text" json:"portfolio_url"`
	CVURL        string `gorm:"column:cv_url;type:text" json:"cv_url"`

	Status          ApplicationStatus `gorm:"column:status;type:text;default:pending" json:"status"`
	ReadByRecruiter bool              `gorm:"column:read_by_recruiter;default:false" json:"read_by_recruiter"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// CandidateApplication is what a recruiter sees in the candidates list.
type CandidateApplication struct {
	Application
	Candidate *ProfileSummary `json:"candidate,omitempty"`
}

// MyApplication is what a candidate sees in their dashboard.
type MyApplication struct {
	Application
	Job *Job `json:"job,omitempty"`
}

// ApplicationEvent travels on the application events stream.
type ApplicationEvent struct {
	Type          string            `json:"type"` // application.created|application.status_changed
	ApplicationID string            `json:"application_id"`
	JobID         string            `json:"job_id"`
	JobTitle      string            `json:"job_title"`
	CandidateID   string            `json:"candidate_id"`
	CandidateName string            `json:"candidate_name"`
	RecruiterID   string            `json:"recruiter_id"`
	Status        ApplicationStatus `json:"status"`
}

const (
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
)
