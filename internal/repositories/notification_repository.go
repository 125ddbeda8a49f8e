// file: internal/repositories/notification_repository.go
package repositories

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

// maxNotificationsPerUser bounds the stored history per user
const maxNotificationsPerUser = 50

type notificationRepository struct {
	doc *document[models.Notification]
}

// NewNotificationRepository creates a repository over the "notifications" document
func NewNotificationRepository(adapter *storage.Adapter, logger *zap.Logger) NotificationRepository {
	return &notificationRepository{
		doc: newDocument[models.Notification](adapter, storage.KeyNotifications,
			func(n *models.Notification) string { return n.ID },
			nil,
			logger,
		),
	}
}

// Create stores n at the front and trims the user's oldest entries
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.doc.insert(ctx, n, true); err != nil {
		return err
	}

	seen := 0
	r.doc.deleteWhere(ctx, func(existing *models.Notification) bool {
		if existing.UserID != n.UserID {
			return false
		}
		seen++
		return seen > maxNotificationsPerUser
	})
	return nil
}

// ListByUser returns the newest notifications first
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) []*models.Notification {
	items := r.doc.list(ctx, func(n *models.Notification) bool { return n.UserID == userID })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
