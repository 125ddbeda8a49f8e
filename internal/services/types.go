// file: internal/services/types.go
package services

import (
	"io"
	"time"

	"linkedout/internal/models"
	"linkedout/internal/session"
)

// ===============================
// AUTH TYPES
// ===============================

// RegisterRequest creates a new account
type RegisterRequest struct {
	Name              string     `json:"name" validate:"required,min=2,max=80"`
	Email             string     `json:"email" validate:"required,email"`
	Password          string     `json:"password" validate:"required"`
	Title             string     `json:"title" validate:"max=120"`
	UnemploymentStart *time.Time `json:"unemployment_start,omitempty"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User      *models.User     `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Session   *session.Session `json:"-"`
}

// ===============================
// USER TYPES
// ===============================

// SearchUsersRequest searches members by name, title, bio or skill
type SearchUsersRequest struct {
	Query               string `json:"q"`
	MinUnemploymentDays int    `json:"min_unemployment_days" validate:"min=0"`
	HasSkill            string `json:"has_skill"`
	MinConnections      int    `json:"min_connections" validate:"min=0"`
	models.PaginationParams
}

// UpdateProfileRequest edits profile fields; nil fields are left alone
type UpdateProfileRequest struct {
	Name              *string    `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Email             *string    `json:"email,omitempty" validate:"omitempty,email"`
	Title             *string    `json:"title,omitempty" validate:"omitempty,max=120"`
	Bio               *string    `json:"bio,omitempty" validate:"omitempty,max=2000"`
	UnemploymentStart *time.Time `json:"unemployment_start,omitempty"`
	Failures          []string   `json:"failures,omitempty" validate:"omitempty,max=20,dive,max=280"`
}

// ProfileStatsResponse summarises a member's activity
type ProfileStatsResponse struct {
	UserID           string   `json:"user_id"`
	Connections      int      `json:"connections"`
	Posts            int      `json:"posts"`
	Likes            int      `json:"likes"`
	Comments         int      `json:"comments"`
	Endorsements     int      `json:"endorsements"`
	Badges           int      `json:"badges"`
	UnemploymentDays int      `json:"unemployment_days"`
	Skills           int      `json:"skills"`
	Failures         int      `json:"failures"`
	Completeness     int      `json:"completeness"`
	Tips             []string `json:"tips"`
}

// ===============================
// FILE TYPES
// ===============================

// AvatarUploadRequest carries an uploaded image
type AvatarUploadRequest struct {
	UserID      string        `json:"user_id"`
	Filename    string        `json:"filename"`
	Size        int64         `json:"size"`
	ContentType string        `json:"content_type"`
	File        io.ReadSeeker `json:"-"`
}

// FileUploadResult describes a stored file
type FileUploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Size     int64  `json:"size"`
	Format   string `json:"format"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// ===============================
// SKILL TYPES
// ===============================

// AddSkillRequest adds a skill to the caller's profile
type AddSkillRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Endorser identifies who endorsed a skill
type Endorser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillEndorsements is a skill with its resolved endorsers
type SkillEndorsements struct {
	models.Skill
	Endorsers []Endorser `json:"endorsers"`
}

// SkillSummary aggregates a skill name across members
type SkillSummary struct {
	Name              string `json:"name"`
	TotalEndorsements int    `json:"total_endorsements"`
	UserCount         int    `json:"user_count"`
}

// ===============================
// POST TYPES
// ===============================

// Feed filters
const (
	FeedAll          = "all"
	FeedConnections  = "connections"
	FeedAchievements = "achievements"
	FeedFailures     = "failures"
)

// CreatePostRequest publishes a post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=3000"`
}

// CreateCommentRequest replies to a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// ListPostsRequest lists the feed
type ListPostsRequest struct {
	Filter string `json:"filter" validate:"omitempty,oneof=all connections achievements failures"`
	UserID string `json:"user_id,omitempty"`
	models.PaginationParams
}

// ===============================
// NETWORK TYPES
// ===============================

// SendRequestRequest invites another member
type SendRequestRequest struct {
	ToUserID string `json:"to_user_id" validate:"required"`
}

// PendingRequest is an incoming request with its sender
type PendingRequest struct {
	*models.ConnectionRequest
	From *models.User `json:"from"`
}

// Suggestion is a recommended connection
type Suggestion struct {
	User   *models.User `json:"user"`
	Score  int          `json:"score"`
	Reason string       `json:"reason"`
	Mutual int          `json:"mutual_connections"`
}

// NetworkInsights summarises the caller's connections
type NetworkInsights struct {
	TotalConnections    int    `json:"total_connections"`
	PendingRequests     int    `json:"pending_requests"`
	ExtendedNetwork     int    `json:"extended_network"`
	AvgUnemploymentDays int    `json:"avg_unemployment_days"`
	TopSkill            string `json:"top_skill"`
}

// ===============================
// JOB TYPES
// ===============================

// Job sort orders
const (
	SortDate         = "date"
	SortApplications = "applications"
)

// ListJobsRequest searches and filters the job board
type ListJobsRequest struct {
	Query   string `json:"q"`
	Type    string `json:"type"`
	Company string `json:"company"`
	Sort    string `json:"sort" validate:"omitempty,oneof=date applications"`
	models.PaginationParams
}

// ApplyResult is returned after applying to a job
type ApplyResult struct {
	Application *models.JobApplication `json:"application"`
	Job         *models.Job            `json:"job"`
	Message     string                 `json:"message"`
}

// JobStats summarises the job board
type JobStats struct {
	Total      int         `json:"total"`
	Applied    int         `json:"applied"`
	Pending    int         `json:"pending"`
	Rejected   int         `json:"rejected"`
	NewestJob  *models.Job `json:"newest_job,omitempty"`
	HottestJob *models.Job `json:"hottest_job,omitempty"`
}
