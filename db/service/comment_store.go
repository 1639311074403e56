package service

import (
	"context"

	"github.com/tipote/autocomment/db/models"
	"github.com/tipote/autocomment/db/repository"
	"github.com/tipote/autocomment/engine"
)

// CommentStore persists batch outcomes: the append-only comment log and the
// status field on the parent content record. It satisfies engine.Store.
type CommentStore struct {
	logs     repository.CommentLogRepository
	contents repository.ContentRepository
}

// NewCommentStore creates a new comment store
func NewCommentStore(logs repository.CommentLogRepository, contents repository.ContentRepository) *CommentStore {
	return &CommentStore{logs: logs, contents: contents}
}

var _ engine.Store = (*CommentStore)(nil)

// InsertCommentLog appends one attempt row
func (s *CommentStore) InsertCommentLog(ctx context.Context, entry engine.CommentLogEntry) error {
	return s.logs.Create(ctx, &models.AutoCommentLog{
		UserID:        entry.UserID,
		ContentID:     entry.ContentID,
		Platform:      string(entry.Platform),
		TargetPostID:  entry.TargetPostID,
		TargetPostURL: entry.TargetPostURL,
		CommentText:   entry.CommentText,
		CommentType:   entry.CommentType,
		Angle:         entry.Angle,
		Status:        entry.Status,
		ErrorMessage:  entry.ErrorMessage,
		PublishedAt:   entry.PublishedAt,
	})
}

// UpdateContentStatus advances the content record's status field
func (s *CommentStore) UpdateContentStatus(ctx context.Context, contentID, status string) error {
	return s.contents.UpdateStatus(ctx, contentID, status)
}

// BatchSummary reports how a past batch went for one content item.
type BatchSummary struct {
	Published int64
	Failed    int64
}

// Summary counts published and failed log rows for one content item.
func (s *CommentStore) Summary(ctx context.Context, contentID string) (BatchSummary, error) {
	published, err := s.logs.CountByStatus(ctx, contentID, engine.LogStatusPublished)
	if err != nil {
		return BatchSummary{}, err
	}
	failed, err := s.logs.CountByStatus(ctx, contentID, engine.LogStatusFailed)
	if err != nil {
		return BatchSummary{}, err
	}
	return BatchSummary{Published: published, Failed: failed}, nil
}
