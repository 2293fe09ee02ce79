package models

type CandidateDashboard struct {
	Profile             *Profile                    `json:"profile"`
	Applications        []MyApplication             `json:"applications"`
	ApplicationsByState map[ApplicationStatus]int64 `json:"applications_by_status"`
	Favorites           int64                       `json:"favorites"`
	UnreadNotifications int64                       `json:"unread_notifications"`
}

type RecruiterDashboard struct {
	ActiveJobs          int64          `json:"active_jobs"`
	TotalApplications   int64          `json:"total_applications"`
	NewApplications7d   int64          `json:"new_applications_7d"`
	UnreadApplications  int64          `json:"unread_applications"`
	UnreadMessages      int64          `json:"unread_messages"`
	UnreadNotifications int64          `json:"unread_notifications"`
	Jobs                []JobWithStats `json:"jobs"`
}

// CompanyPage backs /company/:id: a recruiter and their open listings.
type CompanyPage struct {
	RecruiterID string `json:"recruiter_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
	Jobs        []Job  `json:"jobs"`
}
