// file: internal/repositories/interfaces.go
package repositories

import (
	"context"

	"linkedout/internal/badges"
	"linkedout/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UserRepository defines the contract for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Mutate(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)

	List(ctx context.Context) []*models.User
	Search(ctx context.Context, query string) []*models.User
	GetByIDs(ctx context.Context, ids []string) []*models.User

	// SaveAll replaces and persists the whole user collection
	SaveAll(ctx context.Context, users []*models.User) bool
}

// PostRepository defines the contract for feed post operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Mutate(ctx context.Context, id string, fn func(*models.Post) error) (*models.Post, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context) []*models.Post
	ListByUser(ctx context.Context, userID string) []*models.Post
	CountByUser(ctx context.Context, userID string) int
}

// CommentRepository defines the contract for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) []*models.Comment
	DeleteByPost(ctx context.Context, postID string) int
}

// JobRepository defines the contract for job offer operations
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) []*models.Job
	Mutate(ctx context.Context, id string, fn func(*models.Job) error) (*models.Job, error)
}

// JobApplicationRepository tracks which user applied where
type JobApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	Find(ctx context.Context, jobID, userID string) (*models.JobApplication, error)
	ListByUser(ctx context.Context, userID string) []*models.JobApplication
}

// ConnectionRequestRepository defines the contract for network invitations
type ConnectionRequestRepository interface {
	Create(ctx context.Context, req *models.ConnectionRequest) error
	GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	FindBetween(ctx context.Context, fromUserID, toUserID string) (*models.ConnectionRequest, error)
	ListPendingFor(ctx context.Context, toUserID string) []*models.ConnectionRequest
	ListSentBy(ctx context.Context, fromUserID string) []*models.ConnectionRequest
	Delete(ctx context.Context, id string) error
}

// NotificationRepository keeps a bounded history of user notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) []*models.Notification
}

// BadgeCatalogRepository exposes the static badge catalog
type BadgeCatalogRepository interface {
	Catalog(ctx context.Context) *badges.Catalog
}
