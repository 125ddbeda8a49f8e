package badges

import (
	"time"

	"linkedout/internal/models"

	"go.uber.org/zap"
)

// Stats carries the repository-derived inputs of the evaluator
type Stats struct {
	AuthoredPosts int
}

// Evaluate returns, in catalog order, the definitions whose requirement
// the user meets and that the user has not already earned. It does not
// modify its arguments.
func Evaluate(user *models.User, catalog *Catalog, stats Stats, now time.Time) []models.BadgeDefinition {
	if user == nil || catalog == nil {
		return nil
	}

	var out []models.BadgeDefinition
	for i, def := range catalog.defs {
		if user.HasEarned(def.ID) {
			continue
		}
		if Satisfied(catalog.reqs[i], user, stats, now) {
			out = append(out, def)
		}
	}
	return out
}

// Satisfied evaluates a single requirement against the user
func Satisfied(req Requirement, user *models.User, stats Stats, now time.Time) bool {
	switch r := req.(type) {
	case DayThreshold:
		return DaysSince(user.UnemploymentStart, now) >= r.Days
	case SkillThreshold:
		skill, ok := FirstMatchingSkill(user, r.Keywords)
		return ok && skill.Endorsements >= r.Min
	case MockProxy:
		return DaysSince(user.UnemploymentStart, now) >= r.Days
	case PostCount:
		return stats.AuthoredPosts >= r.Min
	default:
		return false
	}
}

// FirstMatchingSkill returns the first skill, in profile order, whose name
// contains any keyword. Later matching skills are never considered.
func FirstMatchingSkill(user *models.User, keywords []string) (models.Skill, bool) {
	for _, s := range user.Skills {
		if matchesAny(s.Name, keywords) {
			return s, true
		}
	}
	return models.Skill{}, false
}

// Evaluator wraps Evaluate with logging and a clock
type Evaluator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEvaluator creates an evaluator using the wall clock
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, now: time.Now}
}

// WithClock returns a copy of the evaluator reading time from now
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	cp := *e
	cp.now = now
	return &cp
}

// Now returns the evaluator's current time
func (e *Evaluator) Now() time.Time { return e.now() }

// Evaluate runs Evaluate at the evaluator's current time and logs
// requirements it could not match.
func (e *Evaluator) Evaluate(user *models.User, catalog *Catalog, stats Stats) []models.BadgeDefinition {
	if user == nil || catalog == nil {
		return nil
	}
	for _, def := range catalog.Unmatched() {
		if !user.HasEarned(def.ID) {
			e.logger.Debug("Unmatched badge requirement",
				zap.String("badge_id", def.ID),
				zap.String("requirement", def.Requirement),
			)
		}
	}
	return Evaluate(user, catalog, stats, e.now())
}

// Progress runs Progress at the evaluator's current time
func (e *Evaluator) Progress(user *models.User, def models.BadgeDefinition) float64 {
	return Progress(user, def, e.now())
}
