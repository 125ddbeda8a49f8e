package events

// Event types
const (
	TypeBadgeAwarded       = "badge.awarded"
	TypeUserRegistered     = "user.registered"
	TypeUserLoggedIn       = "user.logged_in"
	TypeProfileUpdated     = "user.profile_updated"
	TypeSkillEndorsed      = "skill.endorsed"
	TypePostCreated        = "post.created"
	TypePostLiked          = "post.liked"
	TypeCommentCreated     = "comment.created"
	TypeConnectionRequest  = "connection.requested"
	TypeConnectionAccepted = "connection.accepted"
	TypeJobApplied         = "job.applied"
)

// BadgeAwardedEvent is published when a catalog badge is awarded to a user
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID string `json:"badge_id"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
}

// NewBadgeAwardedEvent creates a badge.awarded event
func NewBadgeAwardedEvent(userID, badgeID, title, icon string) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent: newBase(TypeBadgeAwarded, userID),
		BadgeID:   badgeID,
		Title:     title,
		Icon:      icon,
	}
}

// UserEvent covers registration, login and profile edits
type UserEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// NewUserEvent creates a user.* event of the given type
func NewUserEvent(eventType, userID, name string) *UserEvent {
	return &UserEvent{BaseEvent: newBase(eventType, userID), Name: name}
}

// SkillEndorsedEvent is addressed to the owner of the endorsed skill
type SkillEndorsedEvent struct {
	BaseEvent
	Skill        string `json:"skill"`
	EndorserID   string `json:"endorser_id"`
	EndorserName string `json:"endorser_name"`
	Endorsements int    `json:"endorsements"`
}

// NewSkillEndorsedEvent creates a skill.endorsed event
func NewSkillEndorsedEvent(ownerID, skill, endorserID, endorserName string, endorsements int) *SkillEndorsedEvent {
	return &SkillEndorsedEvent{
		BaseEvent:    newBase(TypeSkillEndorsed, ownerID),
		Skill:        skill,
		EndorserID:   endorserID,
		EndorserName: endorserName,
		Endorsements: endorsements,
	}
}

// PostEvent covers post creation, likes and comments. UserID is the author
// of the post; ActorID is whoever acted on it.
type PostEvent struct {
	BaseEvent
	PostID    string `json:"post_id"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
}

// NewPostEvent creates a post or comment event
func NewPostEvent(eventType, authorID, postID, actorID, actorName string) *PostEvent {
	return &PostEvent{
		BaseEvent: newBase(eventType, authorID),
		PostID:    postID,
		ActorID:   actorID,
		ActorName: actorName,
	}
}

// ConnectionEvent is addressed to the user who should be told about it
type ConnectionEvent struct {
	BaseEvent
	RequestID string `json:"request_id"`
	OtherID   string `json:"other_id"`
	OtherName string `json:"other_name"`
}

// NewConnectionEvent creates a connection.* event
func NewConnectionEvent(eventType, recipientID, requestID, otherID, otherName string) *ConnectionEvent {
	return &ConnectionEvent{
		BaseEvent: newBase(eventType, recipientID),
		RequestID: requestID,
		OtherID:   otherID,
		OtherName: otherName,
	}
}

// JobAppliedEvent is published after a successful application
type JobAppliedEvent struct {
	BaseEvent
	JobID   string `json:"job_id"`
	Title   string `json:"title"`
	Company string `json:"company"`
}

// NewJobAppliedEvent creates a job.applied event
func NewJobAppliedEvent(userID, jobID, title, company string) *JobAppliedEvent {
	return &JobAppliedEvent{
		BaseEvent: newBase(TypeJobApplied, userID),
		JobID:     jobID,
		Title:     title,
		Company:   company,
	}
}
