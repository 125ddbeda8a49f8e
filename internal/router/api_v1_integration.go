// file: internal/router/api_v1_integration.go
package router

import (
	"net/http"

	"linkedout/internal/handlers/api/v1/auth"
	"linkedout/internal/handlers/api/v1/badges"
	"linkedout/internal/handlers/api/v1/jobs"
	"linkedout/internal/handlers/api/v1/network"
	"linkedout/internal/handlers/api/v1/notifications"
	"linkedout/internal/handlers/api/v1/posts"
	"linkedout/internal/handlers/api/v1/skills"
	"linkedout/internal/handlers/api/v1/users"
	"linkedout/internal/middleware"
	"linkedout/internal/response"

	"github.com/gorilla/mux"
)

// AddAPIv1Routes registers the JSON API on api, a subrouter rooted at /api/v1.
// Literal /users/me routes are registered before their /users/{id} siblings.
func AddAPIv1Routes(api *mux.Router, deps *Dependencies) {
	// Subrouters do not inherit the root fallbacks.
	api.NotFoundHandler = response.NotFoundHandler()
	api.MethodNotAllowedHandler = response.MethodNotAllowedHandler()

	sc, logger, rb := deps.Services, deps.Logger, deps.ResponseBuilder

	authController := auth.NewAuthController(sc, logger, rb)
	userController := users.NewUserController(sc, logger, rb)
	skillController := skills.NewSkillController(sc, logger, rb)
	badgeController := badges.NewBadgeController(sc, logger, rb)
	postController := posts.NewPostController(sc, logger, rb)
	networkController := network.NewNetworkController(sc, logger, rb)
	jobController := jobs.NewJobController(sc, logger, rb)
	notificationController := notifications.NewNotificationController(sc, logger, rb, sc.Config.Server.AllowedOrigins)

	public := func(h http.HandlerFunc) http.Handler {
		return createAPIHandler(h, deps.Auth)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return createAuthenticatedAPIHandler(h, deps.Auth)
	}
	throttled := func(h http.Handler) http.Handler {
		if deps.RateLimiter == nil {
			return h
		}
		return middleware.RateLimit(deps.RateLimiter, "auth")(h)
	}

	// ===============================
	// AUTH ENDPOINTS
	// ===============================

	api.Handle("/auth/register", throttled(public(authController.Register))).Methods(http.MethodPost)
	api.Handle("/auth/login", throttled(public(authController.Login))).Methods(http.MethodPost)
	api.Handle("/auth/logout", protected(authController.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", protected(authController.Me)).Methods(http.MethodGet)

	// ===============================
	// CALLER PROFILE ENDPOINTS
	// ===============================

	api.Handle("/users/me", protected(userController.UpdateProfile)).Methods(http.MethodPut)
	api.Handle("/users/me/avatar", protected(userController.UploadAvatar)).Methods(http.MethodPost)
	api.Handle("/users/me/avatar", protected(userController.RemoveAvatar)).Methods(http.MethodDelete)
	api.Handle("/users/me/skills", protected(skillController.AddSkill)).Methods(http.MethodPost)
	api.Handle("/users/me/skills/{skill}", protected(skillController.RemoveSkill)).Methods(http.MethodDelete)

	// ===============================
	// MEMBER ENDPOINTS ({id} accepts "me")
	// ===============================

	api.Handle("/users", public(userController.SearchUsers)).Methods(http.MethodGet)
	api.Handle("/users/{id}", public(userController.GetUser)).Methods(http.MethodGet)
	api.Handle("/users/{id}/stats", public(userController.ProfileStats)).Methods(http.MethodGet)
	api.Handle("/users/{id}/profile", public(userController.Profile)).Methods(http.MethodGet)
	api.Handle("/users/{id}/connections", public(networkController.Connections)).Methods(http.MethodGet)
	api.Handle("/users/{id}/endorsements", public(skillController.Endorsements)).Methods(http.MethodGet)
	api.Handle("/users/{id}/skills/{skill}/endorse", protected(skillController.Endorse)).Methods(http.MethodPost)
	api.Handle("/users/{id}/skills/{skill}/endorse", protected(skillController.RemoveEndorsement)).Methods(http.MethodDelete)

	api.Handle("/users/{id}/badges", public(badgeController.UserBadges)).Methods(http.MethodGet)
	api.Handle("/users/{id}/badges/recent", public(badgeController.RecentBadges)).Methods(http.MethodGet)
	api.Handle("/users/{id}/badges/check", public(badgeController.Check)).Methods(http.MethodPost)
	api.Handle("/users/{id}/badges/{badgeId}", protected(badgeController.Award)).Methods(http.MethodPost)

	// ===============================
	// CATALOG ENDPOINTS
	// ===============================

	api.Handle("/badges", public(badgeController.Catalog)).Methods(http.MethodGet)
	api.Handle("/badges/stats", public(badgeController.Stats)).Methods(http.MethodGet)
	api.Handle("/badges/categories", public(badgeController.Categories)).Methods(http.MethodGet)
	api.Handle("/skills/top", public(skillController.TopSkills)).Methods(http.MethodGet)

	// ===============================
	// FEED ENDPOINTS
	// ===============================

	api.Handle("/posts", public(postController.ListFeed)).Methods(http.MethodGet)
	api.Handle("/posts", protected(postController.CreatePost)).Methods(http.MethodPost)
	api.Handle("/posts/{id}", protected(postController.DeletePost)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/like", protected(postController.ToggleLike)).Methods(http.MethodPost)
	api.Handle("/posts/{id}/comments", public(postController.ListComments)).Methods(http.MethodGet)
	api.Handle("/posts/{id}/comments", protected(postController.AddComment)).Methods(http.MethodPost)

	// ===============================
	// NETWORK ENDPOINTS
	// ===============================

	api.Handle("/network/connections", protected(networkController.MyConnections)).Methods(http.MethodGet)
	api.Handle("/network/requests", protected(networkController.PendingRequests)).Methods(http.MethodGet)
	api.Handle("/network/requests", protected(networkController.SendRequest)).Methods(http.MethodPost)
	api.Handle("/network/requests/{id}/accept", protected(networkController.AcceptRequest)).Methods(http.MethodPost)
	api.Handle("/network/requests/{id}/reject", protected(networkController.RejectRequest)).Methods(http.MethodPost)
	api.Handle("/network/mutual/{id}", protected(networkController.Mutual)).Methods(http.MethodGet)
	api.Handle("/network/suggestions", protected(networkController.Suggestions)).Methods(http.MethodGet)
	api.Handle("/network/insights", protected(networkController.Insights)).Methods(http.MethodGet)

	// ===============================
	// JOB ENDPOINTS
	// ===============================

	api.Handle("/jobs", public(jobController.ListJobs)).Methods(http.MethodGet)
	api.Handle("/jobs/applications", protected(jobController.Applications)).Methods(http.MethodGet)
	api.Handle("/jobs/stats", public(jobController.Stats)).Methods(http.MethodGet)
	api.Handle("/jobs/{id}", public(jobController.GetJob)).Methods(http.MethodGet)
	api.Handle("/jobs/{id}/apply", protected(jobController.Apply)).Methods(http.MethodPost)

	// ===============================
	// NOTIFICATION ENDPOINTS
	// ===============================

	api.Handle("/notifications", protected(notificationController.List)).Methods(http.MethodGet)
	api.Handle("/notifications/ws", protected(notificationController.Stream)).Methods(http.MethodGet)
}

// createAPIHandler resolves the caller's session when a token is present
func createAPIHandler(handlerFunc http.HandlerFunc, authMiddleware *middleware.AuthMiddleware) http.Handler {
	return authMiddleware.OptionalAuth()(handlerFunc)
}

// createAuthenticatedAPIHandler creates an API handler that requires authentication
func createAuthenticatedAPIHandler(handlerFunc http.HandlerFunc, authMiddleware *middleware.AuthMiddleware) http.Handler {
	return authMiddleware.RequireAuth()(handlerFunc)
}
