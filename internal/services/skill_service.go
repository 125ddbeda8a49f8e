// file: internal/services/skill_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"
	"linkedout/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultTopSkills is the number of skills TopSkills returns by default
const DefaultTopSkills = 10

var (
	errSelfEndorsement = NewValidationError("you cannot endorse your own skills", nil)
	errSkillNotFound   = NewNotFoundError("skill not found")
)

type skillService struct {
	users    repositories.UserRepository
	sessions SessionManager
	badges   BadgeService
	events   events.EventBus
	logger   *zap.Logger
}

// NewSkillService creates the skill and endorsement service
func NewSkillService(
	users repositories.UserRepository,
	sessions SessionManager,
	badgeService BadgeService,
	bus events.EventBus,
	logger *zap.Logger,
) SkillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &skillService{
		users:    users,
		sessions: sessions,
		badges:   badgeService,
		events:   bus,
		logger:   logger.Named("skills"),
	}
}

// ===============================
// ENDORSEMENTS
// ===============================

// Endorse adds one endorsement from the session user. Each member endorses
// a given skill at most once and never their own.
func (s *skillService) Endorse(ctx context.Context, sess *session.Session, userID, skill string) (*models.Skill, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if sess.UserID == userID {
		return nil, errSelfEndorsement
	}

	var endorsed models.Skill
	updated, err := s.users.Mutate(ctx, userID, func(u *models.User) error {
		i := u.FindSkill(skill)
		if i < 0 {
			return errSkillNotFound
		}
		if slices.Contains(u.Skills[i].EndorsedBy, sess.UserID) {
			return NewConflictError("you already endorsed this skill", "ALREADY_ENDORSED")
		}
		u.Skills[i].Endorsements++
		u.Skills[i].EndorsedBy = append(u.Skills[i].EndorsedBy, sess.UserID)
		endorsed = u.Skills[i]
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, userID)
	}

	s.logger.Info("Skill endorsed",
		zap.String("user_id", userID),
		zap.String("skill", skill),
		zap.String("endorser_id", sess.UserID),
	)

	endorserName := sess.UserID
	if u := sess.CurrentUser(); u != nil {
		endorserName = u.Name
	}
	if s.events != nil {
		e := events.NewSkillEndorsedEvent(userID, skill, sess.UserID, endorserName, endorsed.Endorsements)
		if err := s.events.Publish(ctx, e); err != nil {
			s.logger.Warn("Failed to publish endorsement event", zap.Error(err))
		}
	}

	// Endorsement counts feed the skill-based badges of the owner
	if s.badges != nil {
		s.badges.CheckAndAward(ctx, sess, updated.ID)
	}
	return &endorsed, nil
}

// RemoveEndorsement withdraws the session user's endorsement
func (s *skillService) RemoveEndorsement(ctx context.Context, sess *session.Session, userID, skill string) (*models.Skill, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}

	var result models.Skill
	_, err := s.users.Mutate(ctx, userID, func(u *models.User) error {
		i := u.FindSkill(skill)
		if i < 0 {
			return errSkillNotFound
		}
		j := slices.Index(u.Skills[i].EndorsedBy, sess.UserID)
		if j < 0 {
			return NewNotFoundError("you have not endorsed this skill")
		}
		u.Skills[i].EndorsedBy = slices.Delete(u.Skills[i].EndorsedBy, j, j+1)
		if u.Skills[i].Endorsements > 0 {
			u.Skills[i].Endorsements--
		}
		result = u.Skills[i]
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, userID)
	}
	return &result, nil
}

// ===============================
// SKILL MANAGEMENT
// ===============================

func (s *skillService) AddSkill(ctx context.Context, sess *session.Session, req *AddSkillRequest) (*models.User, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid skill", err)
	}
	name := models.SanitizeString(req.Name)

	updated, err := s.users.Mutate(ctx, sess.UserID, func(u *models.User) error {
		if slices.IndexFunc(u.Skills, func(sk models.Skill) bool { return strings.EqualFold(sk.Name, name) }) >= 0 {
			return NewConflictError("this skill is already on your profile", "SKILL_EXISTS")
		}
		u.Skills = append(u.Skills, models.Skill{Name: name, Endorsements: 0})
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, sess.UserID)
	}

	s.refresh(ctx, sess, updated)
	if s.badges != nil {
		s.badges.AutoCheck(ctx, sess)
	}
	return updated.Public(), nil
}

// RemoveSkill deletes a skill from the session user's own profile
func (s *skillService) RemoveSkill(ctx context.Context, sess *session.Session, skill string) (*models.User, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}

	updated, err := s.users.Mutate(ctx, sess.UserID, func(u *models.User) error {
		i := u.FindSkill(skill)
		if i < 0 {
			return errSkillNotFound
		}
		u.Skills = slices.Delete(u.Skills, i, i+1)
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, sess.UserID)
	}

	s.refresh(ctx, sess, updated)
	return updated.Public(), nil
}

// ===============================
// REPORTING
// ===============================

// UserEndorsements lists the user's skills with the members who endorsed them
func (s *skillService) UserEndorsements(ctx context.Context, userID string) ([]*SkillEndorsements, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}

	out := make([]*SkillEndorsements, 0, len(user.Skills))
	for _, sk := range user.Skills {
		entry := &SkillEndorsements{Skill: sk, Endorsers: []Endorser{}}
		for _, u := range s.users.GetByIDs(ctx, sk.EndorsedBy) {
			entry.Endorsers = append(entry.Endorsers, Endorser{ID: u.ID, Name: u.Name})
		}
		out = append(out, entry)
	}
	return out, nil
}

// TopSkills aggregates skills by name across members, most endorsed first
func (s *skillService) TopSkills(ctx context.Context, limit int) []*SkillSummary {
	if limit <= 0 {
		limit = DefaultTopSkills
	}

	var summaries []*SkillSummary
	index := make(map[string]*SkillSummary)
	for _, u := range s.users.List(ctx) {
		for _, sk := range u.Skills {
			summary, ok := index[sk.Name]
			if !ok {
				summary = &SkillSummary{Name: sk.Name}
				index[sk.Name] = summary
				summaries = append(summaries, summary)
			}
			summary.TotalEndorsements += sk.Endorsements
			summary.UserCount++
		}
	}

	slices.SortStableFunc(summaries, func(a, b *SkillSummary) int {
		return b.TotalEndorsements - a.TotalEndorsements
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	if summaries == nil {
		summaries = []*SkillSummary{}
	}
	return summaries
}

func (s *skillService) refresh(ctx context.Context, sess *session.Session, user *models.User) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Refresh(ctx, sess, user); err != nil {
		s.logger.Warn("Failed to refresh session", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *skillService) mutationError(err error, userID string) error {
	var serviceErr *ServiceError
	switch {
	case errors.As(err, &serviceErr):
		return serviceErr
	case errors.Is(err, repositories.ErrNotFound):
		return EntityNotFoundError("user", userID)
	default:
		s.logger.Error("Failed to update skills", zap.String("user_id", userID), zap.Error(err))
		return NewInternalError("failed to update skills")
	}
}
