// file: internal/handlers/api/v1/badges/badges_controller.go
package badges

import (
	"net/http"

	"linkedout/internal/handlers/api/v1/users"
	"linkedout/internal/models"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// CheckResponse reports the badges a check just unlocked
type CheckResponse struct {
	UserID  string                   `json:"user_id"`
	Awarded []models.BadgeDefinition `json:"awarded"`
	Count   int                      `json:"count"`
}

// AwardResponse reports the outcome of a direct award
type AwardResponse struct {
	UserID  string `json:"user_id"`
	BadgeID string `json:"badge_id"`
	Awarded bool   `json:"awarded"`
}

// BadgeController exposes the badge catalog and awards
type BadgeController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewBadgeController creates a new badge controller
func NewBadgeController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *BadgeController {
	return &BadgeController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// CATALOG ENDPOINTS
// ===============================

// Catalog lists every badge definition - GET /api/v1/badges
func (c *BadgeController) Catalog(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.BadgeService.Catalog(r.Context()))
}

// Stats summarises awards across members - GET /api/v1/badges/stats
func (c *BadgeController) Stats(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.BadgeService.Stats(r.Context()))
}

// Categories groups the catalog - GET /api/v1/badges/categories
func (c *BadgeController) Categories(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.BadgeService.ByCategory(r.Context()))
}

// ===============================
// MEMBER BADGE ENDPOINTS
// ===============================

// UserBadges lists the catalog with the member's progress - GET /api/v1/users/{id}/badges
func (c *BadgeController) UserBadges(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	views, err := c.serviceCollection.BadgeService.UserBadges(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, views)
}

// RecentBadges lists the newest earned badges - GET /api/v1/users/{id}/badges/recent?limit=
func (c *BadgeController) RecentBadges(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	limit, err := response.QueryInt(r, "limit", services.DefaultRecentBadges)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	views, err := c.serviceCollection.BadgeService.RecentBadges(r.Context(), userID, limit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, views)
}

// Check awards every badge the member newly qualifies for - POST /api/v1/users/{id}/badges/check
func (c *BadgeController) Check(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	awarded := c.serviceCollection.BadgeService.CheckAndAward(r.Context(), session.FromContext(r.Context()), userID)
	if awarded == nil {
		awarded = []models.BadgeDefinition{}
	}
	c.responseBuilder.WriteSuccess(w, r, &CheckResponse{UserID: userID, Awarded: awarded, Count: len(awarded)})
}

// Award grants one badge to the caller - POST /api/v1/users/{id}/badges/{badgeId}
func (c *BadgeController) Award(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	badgeID, err := utils.RequirePathVar(r, "badgeId")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	if !sess.IsUser(userID) {
		c.responseBuilder.WriteError(w, r, services.InsufficientPermissionsError("award badges to", "another member"))
		return
	}

	awarded := c.serviceCollection.BadgeService.AwardBadge(r.Context(), sess, userID, badgeID)
	if !awarded {
		c.responseBuilder.WriteError(w, r, services.EntityNotFoundError("user", userID))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, &AwardResponse{UserID: userID, BadgeID: badgeID, Awarded: true})
}
