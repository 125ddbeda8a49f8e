// file: internal/handlers/api/v1/network/network_controller.go
package network

import (
	"context"
	"net/http"

	"linkedout/internal/handlers/api/v1/users"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// MutualResponse lists connections shared with another member
type MutualResponse struct {
	UserID string   `json:"user_id"`
	Mutual []string `json:"mutual"`
	Count  int      `json:"count"`
}

// NetworkController handles connections and connection requests
type NetworkController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewNetworkController creates a new network controller
func NewNetworkController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *NetworkController {
	return &NetworkController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// REQUEST ENDPOINTS
// ===============================

// SendRequest invites a member - POST /api/v1/network/requests
func (c *NetworkController) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req services.SendRequestRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if req.ToUserID == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("to_user_id is required", nil))
		return
	}

	created, err := c.serviceCollection.NetworkService.SendRequest(r.Context(), session.FromContext(r.Context()), req.ToUserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, created)
}

// PendingRequests lists requests waiting for the caller - GET /api/v1/network/requests
func (c *NetworkController) PendingRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := c.serviceCollection.NetworkService.PendingRequests(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, pending)
}

// AcceptRequest connects the caller with the requester - POST /api/v1/network/requests/{id}/accept
func (c *NetworkController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	c.answer(w, r, c.serviceCollection.NetworkService.AcceptRequest, "accepted")
}

// RejectRequest declines a request - POST /api/v1/network/requests/{id}/reject
func (c *NetworkController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	c.answer(w, r, c.serviceCollection.NetworkService.RejectRequest, "rejected")
}

func (c *NetworkController) answer(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sess *session.Session, requestID string) error, status string) {
	requestID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := fn(r.Context(), session.FromContext(r.Context()), requestID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]string{"id": requestID, "status": status})
}

// ===============================
// CONNECTION ENDPOINTS
// ===============================

// Connections lists a member's connections - GET /api/v1/users/{id}/connections
func (c *NetworkController) Connections(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	conns, err := c.serviceCollection.NetworkService.Connections(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, conns)
}

// MyConnections lists the caller's connections - GET /api/v1/network/connections
func (c *NetworkController) MyConnections(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	conns, err := c.serviceCollection.NetworkService.Connections(r.Context(), sess.UserID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, conns)
}

// Mutual lists connections shared with a member - GET /api/v1/network/mutual/{id}
func (c *NetworkController) Mutual(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	mutual, err := c.serviceCollection.NetworkService.MutualConnections(r.Context(), session.FromContext(r.Context()), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if mutual == nil {
		mutual = []string{}
	}
	c.responseBuilder.WriteSuccess(w, r, &MutualResponse{UserID: userID, Mutual: mutual, Count: len(mutual)})
}

// Suggestions recommends members to connect with - GET /api/v1/network/suggestions?limit=
func (c *NetworkController) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := response.QueryInt(r, "limit", services.DefaultSuggestions)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	suggestions, err := c.serviceCollection.NetworkService.Suggestions(r.Context(), session.FromContext(r.Context()), limit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, suggestions)
}

// Insights summarises the caller's network - GET /api/v1/network/insights
func (c *NetworkController) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := c.serviceCollection.NetworkService.Insights(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, insights)
}
