package models

import (
	"time"
)

// AutoCommentLog is one comment attempt against a target post. Rows are
// append-only; a failed attempt gets a row with status "failed" and the
// error message, never an update of an earlier row.
type AutoCommentLog struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"index;not null"`
	ContentID     string `gorm:"index;not null"`
	Platform      string `gorm:"index;not null"`
	TargetPostID  string
	TargetPostURL string
	CommentText   string
	CommentType   string
	Angle         string
	Status        string `gorm:"index;not null"`
	ErrorMessage  string
	PublishedAt   time.Time
	CreatedAt     time.Time
}

// TableName overrides the table name
func (AutoCommentLog) TableName() string {
	return "auto_comment_logs"
}
