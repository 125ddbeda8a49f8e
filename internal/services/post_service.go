// file: internal/services/post_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"
	"linkedout/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Content markers used by the feed filters
var (
	achievementMarkers = []string{"🏆", "exploit", "record"}
	failureMarkers     = []string{"🤦", "échec", "raté", "fail", "forgot"}
)

type postService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	badges   BadgeService
	events   events.EventBus
	now      func() time.Time
	logger   *zap.Logger
}

// NewPostService creates the feed service
func NewPostService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	badgeService BadgeService,
	bus events.EventBus,
	logger *zap.Logger,
) PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postService{
		posts:    posts,
		comments: comments,
		users:    users,
		badges:   badgeService,
		events:   bus,
		now:      time.Now,
		logger:   logger.Named("posts"),
	}
}

// ===============================
// POSTS
// ===============================

// CreatePost publishes a post at the top of the feed
func (s *postService) CreatePost(ctx context.Context, sess *session.Session, req *CreatePostRequest) (*models.Post, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid post", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate post id")
	}
	post := &models.Post{
		ID:        "post_" + id.String(),
		UserID:    sess.UserID,
		Content:   strings.TrimSpace(req.Content),
		Timestamp: s.now(),
		Likes:     0,
		Comments:  0,
		LikedBy:   []string{},
	}
	if errs := post.Validate(); errs.HasErrors() {
		return nil, NewValidationError(errs.Error(), errs)
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create post", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, NewInternalError("failed to create post")
	}

	s.logger.Info("Post created", zap.String("post_id", post.ID), zap.String("user_id", post.UserID))
	s.publish(ctx, events.NewPostEvent(events.TypePostCreated, post.UserID, post.ID, sess.UserID, actorName(sess)))

	// Authored posts count toward the posting badges
	if s.badges != nil {
		s.badges.AutoCheck(ctx, sess)
	}
	return post, nil
}

// DeletePost removes the session user's own post and its comments
func (s *postService) DeletePost(ctx context.Context, sess *session.Session, postID string) error {
	if sess == nil {
		return NewUnauthorizedError("authentication required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return EntityNotFoundError("post", postID)
	}
	if post.UserID != sess.UserID {
		return InsufficientPermissionsError("delete", "post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return EntityNotFoundError("post", postID)
		}
		return NewInternalError("failed to delete post")
	}
	removed := s.comments.DeleteByPost(ctx, postID)

	s.logger.Info("Post deleted",
		zap.String("post_id", postID),
		zap.Int("comments_removed", removed),
	)
	return nil
}

// ToggleLike likes the post, or removes the like when already present
func (s *postService) ToggleLike(ctx context.Context, sess *session.Session, postID string) (*models.Post, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}

	liked := false
	post, err := s.posts.Mutate(ctx, postID, func(p *models.Post) error {
		if i := slices.Index(p.LikedBy, sess.UserID); i >= 0 {
			p.LikedBy = slices.Delete(p.LikedBy, i, i+1)
			if p.Likes > 0 {
				p.Likes--
			}
			return nil
		}
		p.LikedBy = append(p.LikedBy, sess.UserID)
		p.Likes++
		liked = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, EntityNotFoundError("post", postID)
		}
		return nil, NewInternalError("failed to update like")
	}

	if liked {
		s.publish(ctx, events.NewPostEvent(events.TypePostLiked, post.UserID, post.ID, sess.UserID, actorName(sess)))
	}
	return post, nil
}

// ListFeed returns posts newest first, narrowed by the request filter
func (s *postService) ListFeed(ctx context.Context, sess *session.Session, req *ListPostsRequest) (*models.PaginatedResponse[*models.Post], error) {
	if req == nil {
		req = &ListPostsRequest{}
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid feed request", err)
	}

	filter := req.Filter
	if filter == "" {
		filter = FeedAll
	}

	var keep func(*models.Post) bool
	switch filter {
	case FeedConnections:
		if sess == nil {
			return nil, NewUnauthorizedError("authentication required")
		}
		me, err := s.users.GetByID(ctx, sess.UserID)
		if err != nil {
			return nil, EntityNotFoundError("user", sess.UserID)
		}
		keep = func(p *models.Post) bool {
			return p.UserID == me.ID || me.IsConnectedTo(p.UserID)
		}
	case FeedAchievements:
		keep = func(p *models.Post) bool { return containsAny(p.Content, achievementMarkers) }
	case FeedFailures:
		keep = func(p *models.Post) bool { return containsAny(p.Content, failureMarkers) }
	default:
		keep = func(*models.Post) bool { return true }
	}

	posts := []*models.Post{}
	for _, p := range s.posts.List(ctx) {
		if req.UserID != "" && p.UserID != req.UserID {
			continue
		}
		if keep(p) {
			posts = append(posts, p)
		}
	}

	page := models.Paginate(posts, req.PaginationParams)
	page.Filters = map[string]any{"filter": filter}
	if req.UserID != "" {
		page.Filters["user_id"] = req.UserID
	}
	return page, nil
}

func (s *postService) UserPosts(ctx context.Context, userID string) []*models.Post {
	return s.posts.ListByUser(ctx, userID)
}

// containsAny reports whether content holds any marker, ignoring case
func containsAny(content string, markers []string) bool {
	lower := strings.ToLower(content)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// ===============================
// COMMENTS
// ===============================

func (s *postService) AddComment(ctx context.Context, sess *session.Session, postID string, req *CreateCommentRequest) (*models.Comment, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid comment", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate comment id")
	}
	comment := &models.Comment{
		ID:        "comment_" + id.String(),
		PostID:    postID,
		UserID:    sess.UserID,
		Content:   strings.TrimSpace(req.Content),
		Timestamp: s.now(),
	}
	if errs := comment.Validate(); errs.HasErrors() {
		return nil, NewValidationError(errs.Error(), errs)
	}

	post, err := s.posts.Mutate(ctx, postID, func(p *models.Post) error {
		p.Comments++
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, EntityNotFoundError("post", postID)
		}
		return nil, NewInternalError("failed to add comment")
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("Failed to store comment", zap.String("post_id", postID), zap.Error(err))
		return nil, NewInternalError("failed to add comment")
	}

	s.publish(ctx, events.NewPostEvent(events.TypeCommentCreated, post.UserID, post.ID, sess.UserID, actorName(sess)))
	return comment, nil
}

func (s *postService) Comments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, EntityNotFoundError("post", postID)
	}
	return s.comments.ListByPost(ctx, postID), nil
}

func (s *postService) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", e.GetEventType()), zap.Error(err))
	}
}

// actorName is the display name of the session user
func actorName(sess *session.Session) string {
	if u := sess.CurrentUser(); u != nil && u.Name != "" {
		return u.Name
	}
	return sess.UserID
}
