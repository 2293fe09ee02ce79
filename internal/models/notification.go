package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title   string `gorm:"column:title;type:text" json:"title"`
	Message string `gorm:"column:message;type:text" json:"message"`
	IsRead  bool   `gorm:"column:is_read;default:false;index" json:"is_read"`

	Kind string         `gorm:"column:kind;type:text" json:"kind,omitempty"`
	Data datatypes.JSON `gorm:"column:data;type:jsonb" json:"data,omitempty"` // links for the client, ex: {"job_id": "..."}

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
