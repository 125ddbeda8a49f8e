// file: internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"linkedout/internal/badges"
	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"
	"linkedout/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
)

// Defaults for freshly registered members
const (
	defaultTitle   = "New member of the idle community"
	defaultBio     = "Just joined LinkedOut. Still looking for the motivation to fill in this bio."
	defaultFailure = "Created a LinkedOut account instead of updating my CV"
)

// UserServiceConfig holds account settings
type UserServiceConfig struct {
	BCryptCost        int
	MinPasswordLength int
	// SimulatedLatency delays register and login like a remote call would
	SimulatedLatency time.Duration
}

// userService implements UserService
type userService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	sessions SessionManager
	badges   BadgeService
	files    FileService
	events   events.EventBus
	config   UserServiceConfig
	now      func() time.Time
	logger   *zap.Logger
}

// NewUserService creates a new user service. files and bus may be nil.
func NewUserService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	sessions SessionManager,
	badgeService BadgeService,
	files FileService,
	bus events.EventBus,
	config UserServiceConfig,
	logger *zap.Logger,
) UserService {
	if config.BCryptCost == 0 {
		config.BCryptCost = bcrypt.DefaultCost
	}
	if config.MinPasswordLength == 0 {
		config.MinPasswordLength = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		users:    users,
		posts:    posts,
		sessions: sessions,
		badges:   badgeService,
		files:    files,
		events:   bus,
		config:   config,
		now:      time.Now,
		logger:   logger.Named("users"),
	}
}

// ===============================
// AUTHENTICATION
// ===============================

// Register creates an account with the default profile and logs it in
func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration request", err)
	}
	if verr := models.PasswordValidator("password", req.Password, s.config.MinPasswordLength); verr != nil {
		return nil, NewValidationError(verr.Message, verr)
	}
	if req.UnemploymentStart == nil || req.UnemploymentStart.IsZero() {
		return nil, NewValidationError("unemployment start date is required", nil)
	}

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, NewConflictError("an account with this email already exists", "EMAIL_TAKEN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to create account")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate user id")
	}

	title := models.SanitizeString(req.Title)
	if title == "" {
		title = defaultTitle
	}

	user := &models.User{
		ID:                "user_" + id.String(),
		Email:             email,
		PasswordHash:      string(hash),
		Name:              models.SanitizeString(req.Name),
		Title:             title,
		Bio:               defaultBio,
		UnemploymentStart: *req.UnemploymentStart,
		Skills: []models.Skill{
			{Name: "Procrastination beginner", Endorsements: 1},
			{Name: "Apprentice slacker", Endorsements: 0},
		},
		Connections: []string{},
		Badges:      []models.UserBadge{},
		Failures:    []string{defaultFailure},
		CreatedAt:   s.now(),
	}
	if errs := user.Validate(); errs.HasErrors() {
		return nil, NewValidationError("invalid profile", errs)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("an account with this email already exists", "EMAIL_TAKEN")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, NewInternalError("failed to create account")
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewUserEvent(events.TypeUserRegistered, user.ID, user.Name))
	s.logger.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return result, nil
}

// Login checks credentials and opens a session
func (s *userService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login request", err)
	}

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Debug("Login for unknown email", zap.String("email", req.Email))
		return nil, NewUnauthorizedError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID))
		return nil, NewUnauthorizedError("invalid email or password")
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewUserEvent(events.TypeUserLoggedIn, user.ID, user.Name))
	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return result, nil
}

// Logout ends the session
func (s *userService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return NewUnauthorizedError("authentication required")
	}
	if err := s.sessions.Destroy(ctx, sess); err != nil {
		s.logger.Warn("Failed to destroy session", zap.String("session_id", sess.ID), zap.Error(err))
		return NewInternalError("failed to log out")
	}
	s.logger.Info("User logged out", zap.String("user_id", sess.UserID))
	return nil
}

func (s *userService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	sess, token, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create session", zap.String("user_id", user.ID), zap.Error(err))
		return nil, NewInternalError("failed to create session")
	}
	return &AuthResult{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Session:   sess,
	}, nil
}

func (s *userService) simulateLatency(ctx context.Context) error {
	if s.config.SimulatedLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.config.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		e := NewServiceUnavailableError("request cancelled")
		e.Cause = ctx.Err()
		return e
	}
}

// ===============================
// PROFILES
// ===============================

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return user.Public(), nil
}

// SearchUsers matches the query against name, title, bio and skill names,
// then applies the optional filters.
func (s *userService) SearchUsers(ctx context.Context, req *SearchUsersRequest) (*models.PaginatedResponse[*models.User], error) {
	if req == nil {
		req = &SearchUsersRequest{}
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid search request", err)
	}

	now := s.now()
	skill := strings.ToLower(strings.TrimSpace(req.HasSkill))

	var matched []*models.User
	for _, u := range s.users.Search(ctx, req.Query) {
		if req.MinUnemploymentDays > 0 && badges.DaysSince(u.UnemploymentStart, now) < req.MinUnemploymentDays {
			continue
		}
		if len(u.Connections) < req.MinConnections {
			continue
		}
		if skill != "" && slices.IndexFunc(u.Skills, func(sk models.Skill) bool {
			return strings.Contains(strings.ToLower(sk.Name), skill)
		}) < 0 {
			continue
		}
		matched = append(matched, u.Public())
	}
	if matched == nil {
		matched = []*models.User{}
	}

	page := models.Paginate(matched, req.PaginationParams)
	page.Filters = map[string]any{
		"q":                     req.Query,
		"min_unemployment_days": req.MinUnemploymentDays,
		"has_skill":             req.HasSkill,
		"min_connections":       req.MinConnections,
	}
	return page, nil
}

// UpdateProfile applies the non-nil fields and re-checks badges
func (s *userService) UpdateProfile(ctx context.Context, sess *session.Session, req *UpdateProfileRequest) (*models.User, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid profile update", err)
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != sess.UserID {
			return nil, NewConflictError("an account with this email already exists", "EMAIL_TAKEN")
		}
	}

	updated, err := s.users.Mutate(ctx, sess.UserID, func(u *models.User) error {
		if req.Name != nil {
			u.Name = models.SanitizeString(*req.Name)
		}
		if req.Email != nil {
			u.Email = models.NormalizeEmail(*req.Email)
		}
		if req.Title != nil {
			u.Title = models.SanitizeString(*req.Title)
		}
		if req.Bio != nil {
			u.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.UnemploymentStart != nil && !req.UnemploymentStart.IsZero() {
			u.UnemploymentStart = *req.UnemploymentStart
		}
		if req.Failures != nil {
			u.Failures = slices.Clone(req.Failures)
		}
		if errs := u.Validate(); errs.HasErrors() {
			return errs
		}
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, sess.UserID)
	}

	s.afterProfileChange(ctx, sess, updated)
	s.publish(ctx, events.NewUserEvent(events.TypeProfileUpdated, updated.ID, updated.Name))
	return s.reload(ctx, updated), nil
}

// ProfileStats counts a member's activity and scores profile completeness
func (s *userService) ProfileStats(ctx context.Context, userID string) (*ProfileStatsResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}

	posts := s.posts.ListByUser(ctx, userID)
	stats := &ProfileStatsResponse{
		UserID:           userID,
		Connections:      len(user.Connections),
		Posts:            len(posts),
		UnemploymentDays: badges.DaysSince(user.UnemploymentStart, s.now()),
		Skills:           len(user.Skills),
		Failures:         len(user.Failures),
	}
	for _, p := range posts {
		stats.Likes += p.Likes
		stats.Comments += p.Comments
	}
	for _, sk := range user.Skills {
		stats.Endorsements += sk.Endorsements
	}
	for _, b := range user.Badges {
		if b.Earned {
			stats.Badges++
		}
	}

	stats.Completeness = profileCompleteness(user, stats)
	stats.Tips = profileTips(user, stats)
	return stats, nil
}

func profileCompleteness(u *models.User, st *ProfileStatsResponse) int {
	score := 0
	if strings.TrimSpace(u.Name) != "" {
		score += 10
	}
	if strings.TrimSpace(u.Title) != "" {
		score += 10
	}
	if utf8.RuneCountInString(u.Bio) > 20 {
		score += 10
	}
	if !u.UnemploymentStart.IsZero() {
		score += 10
	}
	score += tiered(st.Skills, 3, 20, 10)
	score += tiered(st.Posts, 5, 15, 5)
	score += tiered(st.Connections, 3, 10, 5)
	score += tiered(st.Badges, 3, 15, 5)

	if score > 100 {
		score = 100
	}
	return score
}

// tiered returns full when n reaches high, partial for any positive n
func tiered(n, high, full, partial int) int {
	switch {
	case n >= high:
		return full
	case n > 0:
		return partial
	default:
		return 0
	}
}

func profileTips(u *models.User, st *ProfileStatsResponse) []string {
	tips := []string{}
	if utf8.RuneCountInString(u.Bio) < 20 {
		tips = append(tips, "Write a longer bio to describe your art of doing nothing")
	}
	if st.Skills < 3 {
		tips = append(tips, "Add at least 3 skills to show off your talents")
	}
	if st.Posts < 3 {
		tips = append(tips, "Share your daily non-achievements with the community")
	}
	if st.Connections < 3 {
		tips = append(tips, "Connect with other experts in unemployment")
	}
	if st.Failures < 3 {
		tips = append(tips, "Everyone loves a good failure story, add a few more")
	}
	if st.Badges < 3 {
		tips = append(tips, "Unlock more badges by staying inactive a little longer")
	}
	return tips
}

// ===============================
// AVATARS
// ===============================

// UploadAvatar stores the image and points the profile at it
func (s *userService) UploadAvatar(ctx context.Context, sess *session.Session, req *AvatarUploadRequest) (*models.User, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if s.files == nil {
		return nil, NewServiceUnavailableError("file uploads are not configured")
	}
	if req == nil || req.File == nil {
		return nil, NewValidationError("avatar file is required", nil)
	}
	req.UserID = sess.UserID

	result, err := s.files.UploadAvatar(ctx, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Mutate(ctx, sess.UserID, func(u *models.User) error {
		url, publicID := result.URL, result.PublicID
		u.Avatar = &url
		u.AvatarPublicID = &publicID
		return nil
	})
	if err != nil {
		if derr := s.files.DeleteFile(ctx, result.PublicID); derr != nil {
			s.logger.Warn("Failed to clean up orphaned avatar", zap.String("public_id", result.PublicID), zap.Error(derr))
		}
		return nil, s.mutationError(err, sess.UserID)
	}

	s.afterProfileChange(ctx, sess, updated)
	s.logger.Info("Avatar updated", zap.String("user_id", updated.ID), zap.String("public_id", result.PublicID))
	return updated.Public(), nil
}

// RemoveAvatar clears the avatar and deletes the stored image
func (s *userService) RemoveAvatar(ctx context.Context, sess *session.Session) (*models.User, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}

	var publicID string
	updated, err := s.users.Mutate(ctx, sess.UserID, func(u *models.User) error {
		if u.AvatarPublicID != nil {
			publicID = *u.AvatarPublicID
		}
		u.Avatar = nil
		u.AvatarPublicID = nil
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, sess.UserID)
	}

	if publicID != "" && s.files != nil {
		if err := s.files.DeleteFile(ctx, publicID); err != nil {
			s.logger.Warn("Failed to delete avatar file", zap.String("public_id", publicID), zap.Error(err))
		}
	}

	s.afterProfileChange(ctx, sess, updated)
	return updated.Public(), nil
}

// ===============================
// HELPERS
// ===============================

func (s *userService) afterProfileChange(ctx context.Context, sess *session.Session, user *models.User) {
	if err := s.sessions.Refresh(ctx, sess, user); err != nil {
		s.logger.Warn("Failed to refresh session", zap.String("user_id", user.ID), zap.Error(err))
	}
	if s.badges != nil {
		s.badges.AutoCheck(ctx, sess)
	}
}

// reload returns the stored user so freshly awarded badges are included
func (s *userService) reload(ctx context.Context, fallback *models.User) *models.User {
	if u, err := s.users.GetByID(ctx, fallback.ID); err == nil {
		return u.Public()
	}
	return fallback.Public()
}

func (s *userService) mutationError(err error, userID string) error {
	var verrs models.ValidationErrors
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return EntityNotFoundError("user", userID)
	case errors.As(err, &verrs):
		return NewValidationError(verrs.Error(), verrs)
	default:
		s.logger.Error("Failed to update user", zap.String("user_id", userID), zap.Error(err))
		return NewInternalError(fmt.Sprintf("failed to update user %s", userID))
	}
}

func (s *userService) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", e.GetEventType()), zap.Error(err))
	}
}
