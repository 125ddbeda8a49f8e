// file: internal/repositories/network_repository.go
package repositories

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type connectionRequestRepository struct {
	doc *document[models.ConnectionRequest]
}

// NewConnectionRequestRepository creates a repository over the "connectionRequests" document
func NewConnectionRequestRepository(adapter *storage.Adapter, logger *zap.Logger) ConnectionRequestRepository {
	return &connectionRequestRepository{
		doc: newDocument[models.ConnectionRequest](adapter, storage.KeyConnectionRequests,
			func(r *models.ConnectionRequest) string { return r.ID },
			nil,
			logger,
		),
	}
}

func (r *connectionRequestRepository) Create(ctx context.Context, req *models.ConnectionRequest) error {
	return r.doc.insert(ctx, req, false)
}

func (r *connectionRequestRepository) GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	return r.doc.get(ctx, id)
}

func (r *connectionRequestRepository) FindBetween(ctx context.Context, fromUserID, toUserID string) (*models.ConnectionRequest, error) {
	matches := r.doc.list(ctx, func(c *models.ConnectionRequest) bool {
		return c.FromUserID == fromUserID && c.ToUserID == toUserID
	})
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

func (r *connectionRequestRepository) ListPendingFor(ctx context.Context, toUserID string) []*models.ConnectionRequest {
	return r.doc.list(ctx, func(c *models.ConnectionRequest) bool {
		return c.ToUserID == toUserID && c.Status == models.StatusPending
	})
}

func (r *connectionRequestRepository) ListSentBy(ctx context.Context, fromUserID string) []*models.ConnectionRequest {
	return r.doc.list(ctx, func(c *models.ConnectionRequest) bool {
		return c.FromUserID == fromUserID && c.Status == models.StatusPending
	})
}

func (r *connectionRequestRepository) Delete(ctx context.Context, id string) error {
	if r.doc.deleteWhere(ctx, func(c *models.ConnectionRequest) bool { return c.ID == id }) == 0 {
		return ErrNotFound
	}
	return nil
}
