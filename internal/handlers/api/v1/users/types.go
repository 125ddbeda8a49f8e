// ===============================
// FILE: internal/handlers/api/v1/users/types.go
// ===============================

package users

import (
	"linkedout/internal/models"
	"linkedout/internal/services"
)

// RecentBadgeLimit is how many badges the profile page shows
const RecentBadgeLimit = 3

// ProfileResponse is everything the profile page renders in one call
type ProfileResponse struct {
	User         *models.User                  `json:"user"`
	Stats        *services.ProfileStatsResponse `json:"stats"`
	RecentBadges []models.UserBadgeView        `json:"recent_badges"`
	Posts        []*models.Post                `json:"posts"`
	IsOwnProfile bool                          `json:"is_own_profile"`
	IsConnected  bool                          `json:"is_connected"`
}
