// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"

	"linkedout/internal/badges"
	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User              UserRepository
	Post              PostRepository
	Comment           CommentRepository
	Job               JobRepository
	JobApplication    JobApplicationRepository
	ConnectionRequest ConnectionRequestRepository
	Notification      NotificationRepository
	BadgeCatalog      BadgeCatalogRepository

	adapter *storage.Adapter
	logger  *zap.Logger
}

// SeedOptions controls first-run data
type SeedOptions struct {
	Enabled    bool
	BCryptCost int
}

// NewCollection creates a new repository collection over one storage adapter
func NewCollection(adapter *storage.Adapter, logger *zap.Logger) (*Collection, error) {
	if adapter == nil {
		return nil, fmt.Errorf("storage adapter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collection{
		User:              NewUserRepository(adapter, logger),
		Post:              NewPostRepository(adapter, logger),
		Comment:           NewCommentRepository(adapter, logger),
		Job:               NewJobRepository(adapter, logger),
		JobApplication:    NewJobApplicationRepository(adapter, logger),
		ConnectionRequest: NewConnectionRequestRepository(adapter, logger),
		Notification:      NewNotificationRepository(adapter, logger),
		BadgeCatalog:      NewBadgeCatalogRepository(adapter, logger),
		adapter:           adapter,
		logger:            logger,
	}

	logger.Info("Repository collection initialized successfully")
	return c, nil
}

// Initialize writes the demo documents that do not exist yet, then loads
// every document once.
func (c *Collection) Initialize(ctx context.Context, opts SeedOptions) error {
	if opts.Enabled {
		if err := c.seedMissing(ctx, opts); err != nil {
			return err
		}
	}
	c.loadAll(ctx)
	return nil
}

// Reset clears the store and writes the demo data again
func (c *Collection) Reset(ctx context.Context, opts SeedOptions) error {
	c.adapter.Clear(ctx)
	if err := c.seedMissing(ctx, opts); err != nil {
		return err
	}
	c.reloadAll(ctx)
	c.logger.Info("Data reset to defaults")
	return nil
}

func (c *Collection) seedMissing(ctx context.Context, opts SeedOptions) error {
	if !c.adapter.Has(ctx, storage.KeyUsers) {
		cost := opts.BCryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), cost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		c.adapter.Set(ctx, storage.KeyUsers, derefAll(SeedUsers(string(hash))))
	}

	defaults := []struct {
		key   string
		value any
	}{
		{storage.KeyPosts, derefAll(SeedPosts())},
		{storage.KeyJobs, derefAll(SeedJobs())},
		{storage.KeyBadges, badges.DefaultDefinitions()},
		{storage.KeyComments, []models.Comment{}},
		{storage.KeyConnectionRequests, []models.ConnectionRequest{}},
		{storage.KeyJobApplications, []models.JobApplication{}},
		{storage.KeyNotifications, []models.Notification{}},
	}
	for _, d := range defaults {
		if !c.adapter.Has(ctx, d.key) {
			c.adapter.Set(ctx, d.key, d.value)
		}
	}

	c.logger.Info("Sample data initialized")
	return nil
}

func (c *Collection) loadAll(ctx context.Context) {
	c.User.(*userRepository).doc.load(ctx)
	c.Post.(*postRepository).doc.load(ctx)
	c.Comment.(*commentRepository).doc.load(ctx)
	c.Job.(*jobRepository).doc.load(ctx)
	c.JobApplication.(*jobApplicationRepository).doc.load(ctx)
	c.ConnectionRequest.(*connectionRequestRepository).doc.load(ctx)
	c.Notification.(*notificationRepository).doc.load(ctx)
	c.BadgeCatalog.Catalog(ctx)
}

func (c *Collection) reloadAll(ctx context.Context) {
	c.User.(*userRepository).doc.reload(ctx)
	c.Post.(*postRepository).doc.reload(ctx)
	c.Comment.(*commentRepository).doc.reload(ctx)
	c.Job.(*jobRepository).doc.reload(ctx)
	c.JobApplication.(*jobApplicationRepository).doc.reload(ctx)
	c.ConnectionRequest.(*connectionRequestRepository).doc.reload(ctx)
	c.Notification.(*notificationRepository).doc.reload(ctx)
}

func derefAll[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}
