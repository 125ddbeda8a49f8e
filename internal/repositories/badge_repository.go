// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"sync"

	"linkedout/internal/badges"
	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type badgeCatalogRepository struct {
	adapter *storage.Adapter
	logger  *zap.Logger

	once    sync.Once
	catalog *badges.Catalog
}

// NewBadgeCatalogRepository reads the "badges" document the first time the
// catalog is requested and never again.
func NewBadgeCatalogRepository(adapter *storage.Adapter, logger *zap.Logger) BadgeCatalogRepository {
	return &badgeCatalogRepository{adapter: adapter, logger: logger}
}

func (r *badgeCatalogRepository) Catalog(ctx context.Context) *badges.Catalog {
	r.once.Do(func() {
		defs := storage.Load(ctx, r.adapter, storage.KeyBadges, []models.BadgeDefinition{})
		r.catalog = badges.NewCatalog(defs)

		for _, d := range r.catalog.Unmatched() {
			r.logger.Warn("Badge definition has an unsupported requirement",
				zap.String("badge_id", d.ID),
				zap.String("requirement", d.Requirement),
			)
		}
		r.logger.Info("Badge catalog loaded", zap.Int("badges", r.catalog.Len()))
	})
	return r.catalog
}
