package models

import "time"

// BadgeDefinition is an immutable catalog entry. Requirement encodes a
// threshold predicate understood by the badges package.
type BadgeDefinition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
}

// UserBadgeView merges a catalog entry with a user's state for display
type UserBadgeView struct {
	BadgeDefinition
	Earned     bool       `json:"earned"`
	EarnedDate *time.Time `json:"earned_date,omitempty"`
	Progress   float64    `json:"progress"`
}

// BadgeCount pairs a badge id with how many users earned it
type BadgeCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// BadgeStats summarises awards across all users
type BadgeStats struct {
	TotalBadges     int         `json:"total_badges"`
	TotalAwarded    int         `json:"total_awarded"`
	MostEarnedBadge *BadgeCount `json:"most_earned_badge"`
	Rarest          *BadgeCount `json:"rarest"`
}

// BadgeCategories groups catalog entries for display
type BadgeCategories struct {
	Unemployment []BadgeDefinition `json:"unemployment"`
	Skills       []BadgeDefinition `json:"skills"`
	Social       []BadgeDefinition `json:"social"`
	Lifestyle    []BadgeDefinition `json:"lifestyle"`
}
