package badges

import (
	"time"

	"linkedout/internal/models"
)

// Progress returns a completion estimate in [0,100] for def. Only
// requirements with a progress curve report partial credit; all others
// return 0.
func Progress(user *models.User, def models.BadgeDefinition, now time.Time) float64 {
	if user == nil {
		return 0
	}

	switch r := Parse(def.Requirement).(type) {
	case DayThreshold:
		return curve(r.Curve, float64(DaysSince(user.UnemploymentStart, now)), float64(r.Days))
	case SkillThreshold:
		endorsements := 0
		if skill, ok := FirstMatchingSkill(user, r.Keywords); ok {
			endorsements = skill.Endorsements
		}
		return curve(r.Curve, float64(endorsements), float64(r.Min))
	default:
		return 0
	}
}

func curve(c Curve, value, threshold float64) float64 {
	switch c {
	case CurveLiteral:
		return clamp(value)
	case CurveRatio:
		if threshold <= 0 {
			return 0
		}
		return clamp(value / threshold * 100)
	default:
		return 0
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
