// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"context"
	"net/http"
	"time"

	"linkedout/internal/middleware"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// authTimeout bounds register and login, which include the simulated latency
const authTimeout = 30 * time.Second

// AuthController handles account and session endpoints
type AuthController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewAuthController creates a new authentication controller
func NewAuthController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *AuthController {
	return &AuthController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// AUTHENTICATION ENDPOINTS
// ===============================

// Register handles account creation - POST /api/v1/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()

	var req services.RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.serviceCollection.UserService.Register(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Member registered", zap.String("user_id", result.User.ID))
	c.responseBuilder.WriteCreated(w, r, result)
}

// Login handles authentication - POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()

	var req services.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.serviceCollection.UserService.Login(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// Logout ends the caller's session - POST /api/v1/auth/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.serviceCollection.UserService.Logout(r.Context(), session.FromContext(r.Context())); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]string{"message": "See you never. Or tomorrow, whenever you wake up."})
}

// Me returns the session's snapshot of the caller - GET /api/v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"user":       sess.CurrentUser(),
		"expires_at": sess.ExpiresAt,
	})
}
