package models

import (
	"time"

	"github.com/lib/pq"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type Job struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecruiterID string `gorm:"column:recruiter_id;type:uuid;index" json:"recruiter_id"`

	Title              string `gorm:"column:title;type:text" json:"title"`
	CompanyName        string `gorm:"column:company_name;type:text" json:"company_name"`
	CompanyDescription string `gorm:"column:company_description;type:text" json:"company_description"`
	Category           string `gorm:"column:category;type:text;index" json:"category"`
	Location           string `gorm:"column:location;type:text" json:"location"`
	Description        string `gorm:"column:description;type:text" json:"description"`

	Tags   pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`
	Salary string         `gorm:"column:salary;type:text" json:"salary"`
	Type   string         `gorm:"column:type;type:text" json:"type"` // CDI|CDD|stage|freelance...

	Status JobStatus `gorm:"column:status;type:text;default:open" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// JobFilter drives the public listing search.
type JobFilter struct {
	Query    string
	Location string
	Category string
	Type     string
	Page     int
	PageSize int
}

type JobPage struct {
	Items    []Job `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// JobWithStats is a recruiter's own listing with applicant counters.
type JobWithStats struct {
	Job
	Applicants    int64 `json:"applicants"`
	NewApplicants int64 `json:"new_applicants"`
}
