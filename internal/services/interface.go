// file: internal/services/interfaces.go
package services

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/session"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// BadgeService evaluates, awards and reports badges. Its operations never
// fail outright: missing users yield false or empty results.
type BadgeService interface {
	// AwardBadge records badgeID as earned on the user. When sess belongs to
	// the same user its snapshot is refreshed.
	AwardBadge(ctx context.Context, sess *session.Session, userID, badgeID string) bool
	// CheckAndAward awards every badge the user newly qualifies for and
	// returns them in catalog order.
	CheckAndAward(ctx context.Context, sess *session.Session, userID string) []models.BadgeDefinition
	// AutoCheck runs CheckAndAward for the session's user
	AutoCheck(ctx context.Context, sess *session.Session) []models.BadgeDefinition
	// AutoCheckAll runs AutoCheck for every active session and returns the
	// number of badges awarded.
	AutoCheckAll(ctx context.Context) int

	Catalog(ctx context.Context) []models.BadgeDefinition
	UserBadges(ctx context.Context, userID string) ([]models.UserBadgeView, error)
	RecentBadges(ctx context.Context, userID string, limit int) ([]models.UserBadgeView, error)
	Stats(ctx context.Context) *models.BadgeStats
	ByCategory(ctx context.Context) models.BadgeCategories
}

// UserService covers accounts and profiles
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, sess *session.Session) error

	GetUser(ctx context.Context, userID string) (*models.User, error)
	SearchUsers(ctx context.Context, req *SearchUsersRequest) (*models.PaginatedResponse[*models.User], error)
	UpdateProfile(ctx context.Context, sess *session.Session, req *UpdateProfileRequest) (*models.User, error)
	ProfileStats(ctx context.Context, userID string) (*ProfileStatsResponse, error)

	UploadAvatar(ctx context.Context, sess *session.Session, req *AvatarUploadRequest) (*models.User, error)
	RemoveAvatar(ctx context.Context, sess *session.Session) (*models.User, error)
}

// SkillService manages skills and endorsements
type SkillService interface {
	Endorse(ctx context.Context, sess *session.Session, userID, skill string) (*models.Skill, error)
	RemoveEndorsement(ctx context.Context, sess *session.Session, userID, skill string) (*models.Skill, error)
	AddSkill(ctx context.Context, sess *session.Session, req *AddSkillRequest) (*models.User, error)
	RemoveSkill(ctx context.Context, sess *session.Session, skill string) (*models.User, error)
	UserEndorsements(ctx context.Context, userID string) ([]*SkillEndorsements, error)
	TopSkills(ctx context.Context, limit int) []*SkillSummary
}

// PostService manages the feed
type PostService interface {
	CreatePost(ctx context.Context, sess *session.Session, req *CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, sess *session.Session, postID string) error
	ToggleLike(ctx context.Context, sess *session.Session, postID string) (*models.Post, error)
	ListFeed(ctx context.Context, sess *session.Session, req *ListPostsRequest) (*models.PaginatedResponse[*models.Post], error)
	UserPosts(ctx context.Context, userID string) []*models.Post

	AddComment(ctx context.Context, sess *session.Session, postID string, req *CreateCommentRequest) (*models.Comment, error)
	Comments(ctx context.Context, postID string) ([]*models.Comment, error)
}

// NetworkService manages connections between members
type NetworkService interface {
	SendRequest(ctx context.Context, sess *session.Session, toUserID string) (*models.ConnectionRequest, error)
	AcceptRequest(ctx context.Context, sess *session.Session, requestID string) error
	RejectRequest(ctx context.Context, sess *session.Session, requestID string) error
	PendingRequests(ctx context.Context, sess *session.Session) ([]*PendingRequest, error)

	Connections(ctx context.Context, userID string) ([]*models.User, error)
	MutualConnections(ctx context.Context, sess *session.Session, userID string) ([]string, error)
	Suggestions(ctx context.Context, sess *session.Session, limit int) ([]*Suggestion, error)
	Insights(ctx context.Context, sess *session.Session) (*NetworkInsights, error)
}

// JobService is the parody job board
type JobService interface {
	ListJobs(ctx context.Context, req *ListJobsRequest) (*models.PaginatedResponse[*models.Job], error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	Apply(ctx context.Context, sess *session.Session, jobID string) (*ApplyResult, error)
	Applications(ctx context.Context, sess *session.Session) ([]*models.JobApplication, error)
	Stats(ctx context.Context, sess *session.Session) *JobStats
}

// NotificationService delivers user-facing notifications
type NotificationService interface {
	Notify(ctx context.Context, userID, message, severity string, durationMs int) *models.Notification
	List(ctx context.Context, userID string, limit int) []*models.Notification
	Subscribe(userID string) (<-chan *models.Notification, func())
}

// FileService stores avatar images
type FileService interface {
	UploadAvatar(ctx context.Context, req *AvatarUploadRequest) (*FileUploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// ===============================
// COLLABORATORS
// ===============================

// SessionManager is the subset of the session manager the services use
type SessionManager interface {
	Create(ctx context.Context, user *models.User) (*session.Session, string, error)
	Refresh(ctx context.Context, sess *session.Session, user *models.User) error
	Destroy(ctx context.Context, sess *session.Session) error
	ActiveSessions(ctx context.Context) []*session.Session
}
