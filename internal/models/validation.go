// file: internal/models/validation.go
package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ===============================
// VALIDATION ERRORS
// ===============================

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors", len(e))
}

// Add adds a validation error
func (e *ValidationErrors) Add(field, message, code string) {
	*e = append(*e, ValidationError{Field: field, Message: message, Code: code})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Fields maps each failing field to its first message
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// ===============================
// CORE VALIDATORS
// ===============================

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmailValidator validates email addresses
func EmailValidator(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "email is required", Code: "required"}
	}
	if len(value) > 320 {
		return &ValidationError{Field: field, Message: "email too long (max 320 characters)", Code: "too_long"}
	}
	if !emailRegex.MatchString(value) {
		return &ValidationError{Field: field, Message: "invalid email format", Code: "invalid_format"}
	}
	return nil
}

// PasswordValidator only enforces a minimum length
func PasswordValidator(field, value string, minLength int) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "password is required", Code: "required"}
	}
	if utf8.RuneCountInString(value) < minLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("password must be at least %d characters", minLength),
			Code:    "too_short",
		}
	}
	if len(value) > 72 {
		return &ValidationError{Field: field, Message: "password must be 72 bytes or less", Code: "too_long"}
	}
	return nil
}

// ContentValidator validates free text length and safety
func ContentValidator(field, value string, minLength, maxLength int) *ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field), Code: "required"}
	}
	if utf8.RuneCountInString(trimmed) < minLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %d characters", field, minLength),
			Code:    "too_short",
		}
	}
	if utf8.RuneCountInString(value) > maxLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be %d characters or less", field, maxLength),
			Code:    "too_long",
		}
	}
	if err := validateContentSafety(value); err != nil {
		return &ValidationError{Field: field, Message: err.Error(), Code: "unsafe_content"}
	}
	return nil
}

// ===============================
// MODEL VALIDATORS
// ===============================

// Validate checks profile fields
func (u *User) Validate() ValidationErrors {
	var errs ValidationErrors

	if err := EmailValidator("email", u.Email); err != nil {
		errs = append(errs, *err)
	}
	if strings.TrimSpace(u.Name) == "" {
		errs.Add("name", "name is required", "required")
	} else if utf8.RuneCountInString(u.Name) > 100 {
		errs.Add("name", "name must be 100 characters or less", "too_long")
	}
	if utf8.RuneCountInString(u.Title) > 200 {
		errs.Add("title", "title must be 200 characters or less", "too_long")
	}
	if utf8.RuneCountInString(u.Bio) > 1000 {
		errs.Add("bio", "bio must be 1000 characters or less", "too_long")
	}
	for i, s := range u.Skills {
		if s.Endorsements < 0 {
			errs.Add(fmt.Sprintf("skills[%d].endorsements", i), "endorsements cannot be negative", "invalid_range")
		}
	}
	seen := make(map[string]bool, len(u.Badges))
	for _, b := range u.Badges {
		if seen[b.ID] {
			errs.Add("badges", "duplicate badge entry "+b.ID, "duplicate")
		}
		seen[b.ID] = true
		if b.Earned && b.EarnedDate == nil {
			errs.Add("badges", "earned badge "+b.ID+" has no earned date", "invalid")
		}
	}
	return errs
}

// Validate checks a feed post
func (p *Post) Validate() ValidationErrors {
	var errs ValidationErrors
	if err := ContentValidator("content", p.Content, 1, 3000); err != nil {
		errs = append(errs, *err)
	}
	if p.UserID == "" {
		errs.Add("user_id", "valid user ID is required", "invalid")
	}
	return errs
}

// Validate checks a comment
func (c *Comment) Validate() ValidationErrors {
	var errs ValidationErrors
	if err := ContentValidator("content", c.Content, 1, 1000); err != nil {
		errs = append(errs, *err)
	}
	if c.UserID == "" {
		errs.Add("user_id", "valid user ID is required", "invalid")
	}
	if c.PostID == "" {
		errs.Add("post_id", "valid post ID is required", "invalid")
	}
	return errs
}

// ===============================
// CONTENT SAFETY VALIDATION
// ===============================

func validateContentSafety(content string) error {
	if hasExcessiveRepetition(content) {
		return fmt.Errorf("content contains excessive repeated characters")
	}

	lowerContent := strings.ToLower(content)
	for _, pattern := range []string{"javascript:", "<script", "onclick=", "onerror=", "onload="} {
		if strings.Contains(lowerContent, pattern) {
			return fmt.Errorf("content contains potentially unsafe elements")
		}
	}
	return nil
}

// hasExcessiveRepetition flags more than 20 identical consecutive runes.
// Emoji-heavy posts stay under the limit.
func hasExcessiveRepetition(content string) bool {
	var prev rune
	count := 0
	for _, r := range content {
		if r == prev {
			count++
			if count > 20 {
				return true
			}
			continue
		}
		prev = r
		count = 1
	}
	return false
}

// ===============================
// VALIDATION UTILITIES
// ===============================

var whitespaceRegex = regexp.MustCompile(`[ \t]+`)

// SanitizeString strips null bytes and collapses runs of spaces, keeping line breaks
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return whitespaceRegex.ReplaceAllString(input, " ")
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
