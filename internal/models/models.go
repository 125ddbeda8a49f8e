// file: internal/models/models.go
package models

import (
	"strings"
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User is a LinkedOut member. Badges hold at most one entry per badge id.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`

	// Profile information
	Name              string    `json:"name"`
	Title             string    `json:"title"`
	Bio               string    `json:"bio"`
	UnemploymentStart time.Time `json:"unemployment_start"`
	Avatar            *string   `json:"avatar,omitempty"`
	AvatarPublicID    *string   `json:"avatar_public_id,omitempty"`

	Skills      []Skill     `json:"skills"`
	Connections []string    `json:"connections"`
	Badges      []UserBadge `json:"badges"`
	Failures    []string    `json:"failures"`

	CreatedAt time.Time `json:"created_at"`
}

// Skill is a profile skill with its endorsement counter
type Skill struct {
	Name         string   `json:"name"`
	Endorsements int      `json:"endorsements"`
	EndorsedBy   []string `json:"endorsed_by,omitempty"`
}

// UserBadge records a badge on a user profile
type UserBadge struct {
	ID         string     `json:"id"`
	Earned     bool       `json:"earned"`
	EarnedDate *time.Time `json:"earned_date,omitempty"`
}

// Post is a feed entry
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	LikedBy   []string  `json:"liked_by"`
}

// Comment is a reply under a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Job is a parody job offer
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Tags         []string  `json:"tags"`
	Posted       time.Time `json:"posted"`
	Applications int       `json:"applications"`
}

// JobApplication tracks a user applying to a job
type JobApplication struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// ConnectionRequest is a pending invitation between two users
type ConnectionRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

// Notification is a user-facing toast
type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Request and application statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Notification severities
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
	SeverityInfo    = "info"
)

// ===============================
// PAGINATION
// ===============================

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Limit  int `json:"limit" validate:"min=0,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Filters    map[string]any `json:"filters,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// Paginate slices items according to params and fills in the metadata
func Paginate[T any](items []T, params PaginationParams) *PaginatedResponse[T] {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	total := len(items)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	totalPages := (total + params.Limit - 1) / params.Limit
	currentPage := params.Offset/params.Limit + 1

	return &PaginatedResponse[T]{
		Data: items[start:end],
		Pagination: PaginationMeta{
			CurrentPage:  currentPage,
			TotalPages:   totalPages,
			TotalItems:   int64(total),
			ItemsPerPage: params.Limit,
			HasNext:      end < total,
			HasPrev:      start > 0,
		},
	}
}

// ===============================
// HELPER METHODS
// ===============================

// FindBadge returns the index of the badge entry with the given id, or -1
func (u *User) FindBadge(badgeID string) int {
	for i := range u.Badges {
		if u.Badges[i].ID == badgeID {
			return i
		}
	}
	return -1
}

// HasEarned reports whether the user holds an earned entry for badgeID
func (u *User) HasEarned(badgeID string) bool {
	i := u.FindBadge(badgeID)
	return i >= 0 && u.Badges[i].Earned
}

// FindSkill returns the index of the skill with the exact name, or -1
func (u *User) FindSkill(name string) int {
	for i := range u.Skills {
		if u.Skills[i].Name == name {
			return i
		}
	}
	return -1
}

// IsConnectedTo reports whether userID is in the user's connections
func (u *User) IsConnectedTo(userID string) bool {
	for _, id := range u.Connections {
		if id == userID {
			return true
		}
	}
	return false
}

// Public returns a copy without credentials
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := u.Clone()
	cp.PasswordHash = ""
	return cp
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Skills != nil {
		cp.Skills = make([]Skill, len(u.Skills))
		for i, s := range u.Skills {
			cp.Skills[i] = s
			cp.Skills[i].EndorsedBy = cloneStrings(s.EndorsedBy)
		}
	}
	cp.Connections = cloneStrings(u.Connections)
	cp.Failures = cloneStrings(u.Failures)
	if u.Badges != nil {
		cp.Badges = make([]UserBadge, len(u.Badges))
		for i, b := range u.Badges {
			cp.Badges[i] = b
			if b.EarnedDate != nil {
				d := *b.EarnedDate
				cp.Badges[i].EarnedDate = &d
			}
		}
	}
	if u.Avatar != nil {
		a := *u.Avatar
		cp.Avatar = &a
	}
	if u.AvatarPublicID != nil {
		p := *u.AvatarPublicID
		cp.AvatarPublicID = &p
	}
	return &cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Initials returns up to two upper-case initials of the user's name
func (u *User) Initials() string {
	var out strings.Builder
	for _, part := range strings.Fields(u.Name) {
		r := []rune(part)
		out.WriteString(strings.ToUpper(string(r[0])))
		if out.Len() >= 2 {
			break
		}
	}
	return out.String()
}

// IsLikedBy reports whether the post is liked by userID
func (p *Post) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
