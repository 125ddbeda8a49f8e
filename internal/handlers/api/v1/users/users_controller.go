// file: internal/handlers/api/v1/users/users_controller.go
package users

import (
	"errors"
	"net/http"
	"strings"

	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// AvatarField is the multipart field carrying the avatar image
const AvatarField = "avatar"

// multipartMemory is how much of an upload is kept in memory before spilling to disk
const multipartMemory = 8 << 20

// UserController handles profile endpoints
type UserController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	paginationParser  *response.PaginationParser
}

// NewUserController creates a new user controller
func NewUserController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *UserController {
	return &UserController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		paginationParser:  response.NewPaginationParser(nil),
	}
}

// ===============================
// PROFILE ENDPOINTS
// ===============================

// GetUser returns a public profile - GET /api/v1/users/{id}
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.UserService.GetUser(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// SearchUsers searches members - GET /api/v1/users?q=&has_skill=&min_unemployment_days=&min_connections=
func (c *UserController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	pagination, err := c.paginationParser.ParseFromRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	minDays, err := response.QueryInt(r, "min_unemployment_days", 0)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	minConnections, err := response.QueryInt(r, "min_connections", 0)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	query := r.URL.Query()
	page, err := c.serviceCollection.UserService.SearchUsers(r.Context(), &services.SearchUsersRequest{
		Query:               strings.TrimSpace(query.Get("q")),
		HasSkill:            query.Get("has_skill"),
		MinUnemploymentDays: minDays,
		MinConnections:      minConnections,
		PaginationParams:    pagination,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	response.QuickPaginated(w, r, page)
}

// UpdateProfile edits the caller's profile - PUT /api/v1/users/me
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.UserService.UpdateProfile(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// ProfileStats returns activity counters and completeness - GET /api/v1/users/{id}/stats
func (c *UserController) ProfileStats(w http.ResponseWriter, r *http.Request) {
	userID, err := ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	stats, err := c.serviceCollection.UserService.ProfileStats(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, stats)
}

// Profile assembles the profile page - GET /api/v1/users/{id}/profile
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	ctx := r.Context()
	sc := c.serviceCollection

	user, err := sc.UserService.GetUser(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	stats, err := sc.UserService.ProfileStats(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	recent, err := sc.BadgeService.RecentBadges(ctx, userID, RecentBadgeLimit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sess := session.FromContext(ctx)
	c.responseBuilder.WriteSuccess(w, r, &ProfileResponse{
		User:         user,
		Stats:        stats,
		RecentBadges: recent,
		Posts:        sc.PostService.UserPosts(ctx, userID),
		IsOwnProfile: sess.IsUser(userID),
		IsConnected:  sess != nil && user.IsConnectedTo(sess.UserID),
	})
}

// ===============================
// AVATAR ENDPOINTS
// ===============================

// UploadAvatar replaces the caller's avatar - POST /api/v1/users/me/avatar (multipart)
func (c *UserController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(AvatarField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = services.NewValidationError("avatar file is required", err)
		} else {
			err = services.NewValidationError("invalid avatar file", err)
		}
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	defer file.Close()

	user, err := c.serviceCollection.UserService.UploadAvatar(r.Context(), session.FromContext(r.Context()), &services.AvatarUploadRequest{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// RemoveAvatar clears the caller's avatar - DELETE /api/v1/users/me/avatar
func (c *UserController) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := c.serviceCollection.UserService.RemoveAvatar(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// ===============================
// HELPERS
// ===============================

// ResolveUserID reads the {id} route variable. "me" stands for the caller
// and requires a session.
func ResolveUserID(r *http.Request) (string, error) {
	id, err := utils.RequirePathVar(r, "id")
	if err != nil {
		return "", err
	}
	if id != "me" {
		return id, nil
	}
	sess := session.FromContext(r.Context())
	if sess == nil {
		return "", services.NewUnauthorizedError("authentication required")
	}
	return sess.UserID, nil
}
