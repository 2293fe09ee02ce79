package models

import "time"

type Profile struct {
	ID       string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName string   `gorm:"column:full_name;type:text" json:"full_name"`
	Role     UserRole `gorm:"column:role;type:text;index" json:"role"` // "" until onboarding

	JobTitle string `gorm:"column:job_title;type:text" json:"job_title"`
	Location string `gorm:"column:location;type:text" json:"location"`
	Bio      string `gorm:"column:bio;type:text" json:"bio"`

	AvatarURL  string `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	CVURL      string `gorm:"column:cv_url;type:text" json:"cv_url"`
	IDCardURL  string `gorm:"column:id_card_url;type:text" json:"id_card_url"`
	DiplomaURL string `gorm:"column:diploma_url;type:text" json:"diploma_url"`

	// recruiters only
	CompanyName        string `gorm:"column:company_name;type:text" json:"company_name,omitempty"`
	CompanyDescription string `gorm:"column:company_description;type:text" json:"company_description,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// ProfileSummary is the slice of a profile shown next to an application.
type ProfileSummary struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	JobTitle  string `json:"job_title"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, FullName: p.FullName, JobTitle: p.JobTitle, Bio: p.Bio, AvatarURL: p.AvatarURL}
}

type DocumentKind string

const (
	DocumentAvatar  DocumentKind = "avatar"
	DocumentCV      DocumentKind = "cv"
	DocumentIDCard  DocumentKind = "id_card"
	DocumentDiploma DocumentKind = "diploma"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentAvatar, DocumentCV, DocumentIDCard, DocumentDiploma:
		return true
	}
	return false
}

// Column is the profiles column holding the public URL of this document.
func (k DocumentKind) Column() string {
	return string(k) + "_url"
}
