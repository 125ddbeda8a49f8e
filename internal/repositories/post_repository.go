// file: internal/repositories/post_repository.go
package repositories

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type postRepository struct {
	doc *document[models.Post]
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.LikedBy = append([]string{}, p.LikedBy...)
	return &cp
}

// NewPostRepository creates a post repository over the "posts" document
func NewPostRepository(adapter *storage.Adapter, logger *zap.Logger) PostRepository {
	return &postRepository{
		doc: newDocument(adapter, storage.KeyPosts,
			func(p *models.Post) string { return p.ID },
			clonePost,
			logger,
		),
	}
}

// Create puts the new post at the top of the feed
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.doc.insert(ctx, post, true)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.doc.get(ctx, id)
}

func (r *postRepository) Mutate(ctx context.Context, id string, fn func(*models.Post) error) (*models.Post, error) {
	return r.doc.mutate(ctx, id, fn)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	if r.doc.deleteWhere(ctx, func(p *models.Post) bool { return p.ID == id }) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) List(ctx context.Context) []*models.Post {
	return r.doc.list(ctx, nil)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) []*models.Post {
	return r.doc.list(ctx, func(p *models.Post) bool { return p.UserID == userID })
}

func (r *postRepository) CountByUser(ctx context.Context, userID string) int {
	return r.doc.count(ctx, func(p *models.Post) bool { return p.UserID == userID })
}
