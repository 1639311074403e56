package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tipote/autocomment/db/models"
)

// CommentLogRepository defines the interface for comment log operations
type CommentLogRepository interface {
	Create(ctx context.Context, entry *models.AutoCommentLog) error
	ListByContentID(ctx context.Context, contentID string) ([]models.AutoCommentLog, error)
	CountByStatus(ctx context.Context, contentID, status string) (int64, error)
}

// GormCommentLogRepository implements CommentLogRepository using GORM
type GormCommentLogRepository struct {
	db *gorm.DB
}

// NewCommentLogRepository creates a new comment log repository
func NewCommentLogRepository(db *gorm.DB) CommentLogRepository {
	return &GormCommentLogRepository{db: db}
}

// Create appends a new log row
func (r *GormCommentLogRepository) Create(ctx context.Context, entry *models.AutoCommentLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByContentID returns all log rows for one content item, oldest first
func (r *GormCommentLogRepository) ListByContentID(ctx context.Context, contentID string) ([]models.AutoCommentLog, error) {
	var entries []models.AutoCommentLog
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("id asc").
		Find(&entries).Error
	return entries, err
}

// CountByStatus counts log rows for one content item with a given status
func (r *GormCommentLogRepository) CountByStatus(ctx context.Context, contentID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AutoCommentLog{}).
		Where("content_id = ? AND status = ?", contentID, status).
		Count(&count).Error
	return count, err
}
