package models

import (
	"time"
)

// Content is the user's own post that a batch runs around. The engine only
// ever advances Status; everything else is written by whoever scheduled the
// batch.
type Content struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index;not null"`
	Platform    string `gorm:"not null"`
	PostText    string
	Niche       string
	CommentType string
	NbComments  int
	Status      string `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name
func (Content) TableName() string {
	return "contents"
}
