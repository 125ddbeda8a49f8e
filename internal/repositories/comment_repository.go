// file: internal/repositories/comment_repository.go
package repositories

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type commentRepository struct {
	doc *document[models.Comment]
}

// NewCommentRepository creates a comment repository over the "comments" document
func NewCommentRepository(adapter *storage.Adapter, logger *zap.Logger) CommentRepository {
	return &commentRepository{
		doc: newDocument[models.Comment](adapter, storage.KeyComments,
			func(c *models.Comment) string { return c.ID },
			nil,
			logger,
		),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.doc.insert(ctx, comment, false)
}

// ListByPost returns comments oldest first
func (r *commentRepository) ListByPost(ctx context.Context, postID string) []*models.Comment {
	return r.doc.list(ctx, func(c *models.Comment) bool { return c.PostID == postID })
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) int {
	return r.doc.deleteWhere(ctx, func(c *models.Comment) bool { return c.PostID == postID })
}
