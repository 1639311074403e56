package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tipote/autocomment/db/models"
)

// ContentRepository defines the interface for content record operations
type ContentRepository interface {
	Upsert(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id string) (*models.Content, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// GormContentRepository implements ContentRepository using GORM
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &GormContentRepository{db: db}
}

// Upsert saves a content record, replacing an existing row with the same id
func (r *GormContentRepository) Upsert(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Save(content).Error
}

// GetByID fetches one content record
func (r *GormContentRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	if err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// UpdateStatus advances the status field of one content record
func (r *GormContentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ?", id).
		Update("status", status).Error
}
