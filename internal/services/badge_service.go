// file: internal/services/badge_service.go
package services

import (
	"context"
	"errors"
	"time"

	"linkedout/internal/badges"
	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultRecentBadges is the number of badges RecentBadges returns by default
const DefaultRecentBadges = 3

// badgeService implements BadgeService
type badgeService struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	catalog   repositories.BadgeCatalogRepository
	sessions  SessionManager
	events    events.EventBus
	evaluator *badges.Evaluator
	logger    *zap.Logger
}

// NewBadgeService creates the badge service. sessions and bus may be nil.
func NewBadgeService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	catalog repositories.BadgeCatalogRepository,
	sessions SessionManager,
	bus events.EventBus,
	evaluator *badges.Evaluator,
	logger *zap.Logger,
) BadgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = badges.NewEvaluator(logger)
	}
	return &badgeService{
		users:     users,
		posts:     posts,
		catalog:   catalog,
		sessions:  sessions,
		events:    bus,
		evaluator: evaluator,
		logger:    logger.Named("badges"),
	}
}

// ===============================
// AWARDING
// ===============================

func (s *badgeService) AwardBadge(ctx context.Context, sess *session.Session, userID, badgeID string) bool {
	now := s.evaluator.Now()

	updated, err := s.users.Mutate(ctx, userID, func(u *models.User) error {
		at := now
		if i := u.FindBadge(badgeID); i >= 0 {
			u.Badges[i].Earned = true
			u.Badges[i].EarnedDate = &at
			return nil
		}
		u.Badges = append(u.Badges, models.UserBadge{ID: badgeID, Earned: true, EarnedDate: &at})
		return nil
	})
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("Failed to award badge",
				zap.String("user_id", userID),
				zap.String("badge_id", badgeID),
				zap.Error(err),
			)
		}
		return false
	}

	if sess.IsUser(userID) && s.sessions != nil {
		if err := s.sessions.Refresh(ctx, sess, updated); err != nil {
			s.logger.Warn("Failed to refresh session after award",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	def, known := s.catalog.Catalog(ctx).Lookup(badgeID)
	if !known {
		s.logger.Warn("Awarded badge is not in the catalog",
			zap.String("user_id", userID),
			zap.String("badge_id", badgeID),
		)
		return true
	}

	s.logger.Info("Badge awarded",
		zap.String("user_id", userID),
		zap.String("badge_id", badgeID),
	)
	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewBadgeAwardedEvent(userID, def.ID, def.Title, def.Icon)); err != nil {
			s.logger.Warn("Failed to publish badge awarded event", zap.Error(err))
		}
	}
	return true
}

func (s *badgeService) CheckAndAward(ctx context.Context, sess *session.Session, userID string) []models.BadgeDefinition {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return []models.BadgeDefinition{}
	}

	stats := badges.Stats{AuthoredPosts: s.posts.CountByUser(ctx, userID)}
	candidates := s.evaluator.Evaluate(user, s.catalog.Catalog(ctx), stats)

	awarded := make([]models.BadgeDefinition, 0, len(candidates))
	for _, def := range candidates {
		if s.AwardBadge(ctx, sess, userID, def.ID) {
			awarded = append(awarded, def)
		}
	}

	if len(awarded) > 0 {
		s.logger.Info("New badges unlocked",
			zap.String("user_id", userID),
			zap.Int("count", len(awarded)),
		)
	}
	return awarded
}

func (s *badgeService) AutoCheck(ctx context.Context, sess *session.Session) []models.BadgeDefinition {
	if sess == nil {
		return []models.BadgeDefinition{}
	}
	return s.CheckAndAward(ctx, sess, sess.UserID)
}

func (s *badgeService) AutoCheckAll(ctx context.Context) int {
	if s.sessions == nil {
		return 0
	}

	total := 0
	for _, sess := range s.sessions.ActiveSessions(ctx) {
		if ctx.Err() != nil {
			break
		}
		total += len(s.AutoCheck(ctx, sess))
	}
	return total
}

// ===============================
// REPORTING
// ===============================

func (s *badgeService) Catalog(ctx context.Context) []models.BadgeDefinition {
	return s.catalog.Catalog(ctx).Definitions()
}

func (s *badgeService) UserBadges(ctx context.Context, userID string) ([]models.UserBadgeView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}

	defs := s.catalog.Catalog(ctx).Definitions()
	views := make([]models.UserBadgeView, 0, len(defs))
	for _, def := range defs {
		view := models.UserBadgeView{
			BadgeDefinition: def,
			Progress:        s.evaluator.Progress(user, def),
		}
		if i := user.FindBadge(def.ID); i >= 0 {
			view.Earned = user.Badges[i].Earned
			view.EarnedDate = user.Badges[i].EarnedDate
		}
		views = append(views, view)
	}
	return views, nil
}

// RecentBadges returns the user's earned catalog badges, newest first
func (s *badgeService) RecentBadges(ctx context.Context, userID string, limit int) ([]models.UserBadgeView, error) {
	if limit <= 0 {
		limit = DefaultRecentBadges
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}

	catalog := s.catalog.Catalog(ctx)
	recent := make([]models.UserBadgeView, 0, len(user.Badges))
	for _, ub := range user.Badges {
		if !ub.Earned {
			continue
		}
		def, ok := catalog.Lookup(ub.ID)
		if !ok {
			continue
		}
		recent = append(recent, models.UserBadgeView{
			BadgeDefinition: def,
			Earned:          true,
			EarnedDate:      ub.EarnedDate,
			Progress:        100,
		})
	}

	slices.SortStableFunc(recent, func(a, b models.UserBadgeView) int {
		return earnedAt(b).Compare(earnedAt(a))
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func earnedAt(v models.UserBadgeView) time.Time {
	if v.EarnedDate == nil {
		return time.Time{}
	}
	return *v.EarnedDate
}

// Stats counts earned badges across all members. Ties keep the order in
// which badge ids were first seen.
func (s *badgeService) Stats(ctx context.Context) *models.BadgeStats {
	stats := &models.BadgeStats{TotalBadges: s.catalog.Catalog(ctx).Len()}

	var counts []models.BadgeCount
	index := make(map[string]int)
	for _, user := range s.users.List(ctx) {
		for _, b := range user.Badges {
			if !b.Earned {
				continue
			}
			stats.TotalAwarded++
			if i, ok := index[b.ID]; ok {
				counts[i].Count++
				continue
			}
			index[b.ID] = len(counts)
			counts = append(counts, models.BadgeCount{ID: b.ID, Count: 1})
		}
	}

	if len(counts) == 0 {
		return stats
	}
	slices.SortStableFunc(counts, func(a, b models.BadgeCount) int {
		return b.Count - a.Count
	})
	most, rarest := counts[0], counts[len(counts)-1]
	stats.MostEarnedBadge = &most
	stats.Rarest = &rarest
	return stats
}

func (s *badgeService) ByCategory(ctx context.Context) models.BadgeCategories {
	return s.catalog.Catalog(ctx).Categories()
}
