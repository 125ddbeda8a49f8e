// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"strings"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type userRepository struct {
	doc *document[models.User]
}

// NewUserRepository creates a user repository over the "users" document
func NewUserRepository(adapter *storage.Adapter, logger *zap.Logger) UserRepository {
	return &userRepository{
		doc: newDocument(adapter, storage.KeyUsers,
			func(u *models.User) string { return u.ID },
			func(u *models.User) *models.User { return u.Clone() },
			logger,
		),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.Badges == nil {
		user.Badges = []models.UserBadge{}
	}
	return r.doc.insert(ctx, user, false)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.doc.get(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	matches := r.doc.list(ctx, func(u *models.User) bool {
		return models.NormalizeEmail(u.Email) == email
	})
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.doc.update(ctx, user)
}

func (r *userRepository) Mutate(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	return r.doc.mutate(ctx, id, fn)
}

func (r *userRepository) List(ctx context.Context) []*models.User {
	return r.doc.list(ctx, nil)
}

// Search matches name, title or skill names case-insensitively
func (r *userRepository) Search(ctx context.Context, query string) []*models.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List(ctx)
	}
	return r.doc.list(ctx, func(u *models.User) bool {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Title), q) ||
			strings.Contains(strings.ToLower(u.Bio), q) {
			return true
		}
		for _, s := range u.Skills {
			if strings.Contains(strings.ToLower(s.Name), q) {
				return true
			}
		}
		return false
	})
}

// GetByIDs returns the known users among ids, in the order given
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) []*models.User {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, err := r.doc.get(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out
}

func (r *userRepository) SaveAll(ctx context.Context, users []*models.User) bool {
	return r.doc.replaceAll(ctx, users)
}
