package models

import "time"

type Favorite struct {
	UserID    string    `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	JobID     string    `gorm:"column:job_id;type:uuid;primaryKey" json:"job_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Favorite) TableName() string { return "favorites" }
