// file: internal/handlers/api/v1/posts/posts_controller.go
package posts

import (
	"context"
	"net/http"
	"time"

	"linkedout/internal/models"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// PostController handles the feed, likes and comments
type PostController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	paginationParser  *response.PaginationParser
	now               func() time.Time
}

// NewPostController creates a new post controller
func NewPostController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *PostController {
	return &PostController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		paginationParser:  response.NewPaginationParser(nil),
		now:               time.Now,
	}
}

// ===============================
// POST ENDPOINTS
// ===============================

// ListFeed lists posts newest first - GET /api/v1/posts?filter=&user_id=
func (c *PostController) ListFeed(w http.ResponseWriter, r *http.Request) {
	pagination, err := c.paginationParser.ParseFromRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	page, err := c.serviceCollection.PostService.ListFeed(r.Context(), sess, &services.ListPostsRequest{
		Filter:           r.URL.Query().Get("filter"),
		UserID:           r.URL.Query().Get("user_id"),
		PaginationParams: pagination,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.QuickPaginated(w, r, &models.PaginatedResponse[*PostView]{
		Data:       c.postViews(r.Context(), sess, page.Data),
		Pagination: page.Pagination,
		Filters:    page.Filters,
	})
}

// CreatePost publishes a post - POST /api/v1/posts
func (c *PostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	post, err := c.serviceCollection.PostService.CreatePost(r.Context(), sess, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, c.postViews(r.Context(), sess, []*models.Post{post})[0])
}

// DeletePost removes one of the caller's posts - DELETE /api/v1/posts/{id}
func (c *PostController) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.serviceCollection.PostService.DeletePost(r.Context(), session.FromContext(r.Context()), postID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// ToggleLike likes or unlikes a post - POST /api/v1/posts/{id}/like
func (c *PostController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	post, err := c.serviceCollection.PostService.ToggleLike(r.Context(), sess, postID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, c.postViews(r.Context(), sess, []*models.Post{post})[0])
}

// ===============================
// COMMENT ENDPOINTS
// ===============================

// ListComments lists a post's comments oldest first - GET /api/v1/posts/{id}/comments
func (c *PostController) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	comments, err := c.serviceCollection.PostService.Comments(r.Context(), postID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, c.commentViews(r.Context(), comments))
}

// AddComment replies to a post - POST /api/v1/posts/{id}/comments
func (c *PostController) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	var req services.CreateCommentRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	comment, err := c.serviceCollection.PostService.AddComment(r.Context(), session.FromContext(r.Context()), postID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, c.commentViews(r.Context(), []*models.Comment{comment})[0])
}

// ===============================
// VIEW HELPERS
// ===============================

func (c *PostController) authors(ctx context.Context, ids []string) map[string]*Author {
	out := make(map[string]*Author, len(ids))
	for _, u := range c.serviceCollection.Repositories.User.GetByIDs(ctx, ids) {
		out[u.ID] = authorOf(u)
	}
	return out
}

func (c *PostController) postViews(ctx context.Context, sess *session.Session, posts []*models.Post) []*PostView {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	authors := c.authors(ctx, ids)
	now := c.now()

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, &PostView{
			Post:      p,
			Author:    authors[p.UserID],
			TimeAgo:   utils.TimeAgo(p.Timestamp, now),
			LikedByMe: sess != nil && p.IsLikedBy(sess.UserID),
		})
	}
	return views
}

func (c *PostController) commentViews(ctx context.Context, comments []*models.Comment) []*CommentView {
	ids := make([]string, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.UserID)
	}
	authors := c.authors(ctx, ids)
	now := c.now()

	views := make([]*CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, &CommentView{
			Comment: cm,
			Author:  authors[cm.UserID],
			TimeAgo: utils.TimeAgo(cm.Timestamp, now),
		})
	}
	return views
}
