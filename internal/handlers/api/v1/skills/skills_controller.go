// file: internal/handlers/api/v1/skills/skills_controller.go
package skills

import (
	"net/http"

	"linkedout/internal/handlers/api/v1/users"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// SkillController handles skills and endorsements
type SkillController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewSkillController creates a new skill controller
func NewSkillController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *SkillController {
	return &SkillController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// Endorse endorses another member's skill - POST /api/v1/users/{id}/skills/{skill}/endorse
func (c *SkillController) Endorse(w http.ResponseWriter, r *http.Request) {
	userID, skill, err := c.target(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.serviceCollection.SkillService.Endorse(r.Context(), session.FromContext(r.Context()), userID, skill)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

// RemoveEndorsement withdraws an endorsement - DELETE /api/v1/users/{id}/skills/{skill}/endorse
func (c *SkillController) RemoveEndorsement(w http.ResponseWriter, r *http.Request) {
	userID, skill, err := c.target(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.serviceCollection.SkillService.RemoveEndorsement(r.Context(), session.FromContext(r.Context()), userID, skill)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

// AddSkill adds a skill to the caller's profile - POST /api/v1/users/me/skills
func (c *SkillController) AddSkill(w http.ResponseWriter, r *http.Request) {
	var req services.AddSkillRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.SkillService.AddSkill(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, user)
}

// RemoveSkill removes one of the caller's skills - DELETE /api/v1/users/me/skills/{skill}
func (c *SkillController) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := utils.RequirePathVar(r, "skill")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.SkillService.RemoveSkill(r.Context(), session.FromContext(r.Context()), skill)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// Endorsements lists a member's skills with who endorsed them - GET /api/v1/users/{id}/endorsements
func (c *SkillController) Endorsements(w http.ResponseWriter, r *http.Request) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	list, err := c.serviceCollection.SkillService.UserEndorsements(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}

// TopSkills ranks skills across all members - GET /api/v1/skills/top?limit=
func (c *SkillController) TopSkills(w http.ResponseWriter, r *http.Request) {
	limit, err := response.QueryInt(r, "limit", services.DefaultTopSkills)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.SkillService.TopSkills(r.Context(), limit))
}

func (c *SkillController) target(r *http.Request) (string, string, error) {
	userID, err := users.ResolveUserID(r)
	if err != nil {
		return "", "", err
	}
	skill, err := utils.RequirePathVar(r, "skill")
	if err != nil {
		return "", "", err
	}
	return userID, skill, nil
}
