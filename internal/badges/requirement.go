// Package badges evaluates LinkedOut badge requirements against user profiles.
package badges

import (
	"fmt"
	"strings"
)

// Curve selects how progress towards a requirement is reported
type Curve int

const (
	// CurveNone reports no partial credit
	CurveNone Curve = iota
	// CurveLiteral reports the raw measured value clamped to [0,100]
	CurveLiteral
	// CurveRatio reports measured/threshold as a percentage
	CurveRatio
)

// ProxyKind names a requirement approximated from unemployment duration
type ProxyKind string

const (
	ProxyNoInterviews   ProxyKind = "no_interviews"
	ProxyDeliveryOrders ProxyKind = "delivery_orders"
)

// Requirement is one of DayThreshold, SkillThreshold, MockProxy,
// PostCount or Unknown.
type Requirement interface {
	fmt.Stringer
	requirement()
}

// DayThreshold is met once the user has been unemployed for Days days
type DayThreshold struct {
	Raw   string
	Days  int
	Curve Curve
}

// SkillThreshold is met when the first skill matching any keyword has at
// least Min endorsements
type SkillThreshold struct {
	Raw      string
	Keywords []string
	Min      int
	Curve    Curve
}

// MockProxy stands in for activity the network does not track, using
// unemployment duration instead
type MockProxy struct {
	Raw  string
	Kind ProxyKind
	Days int
}

// PostCount is met when the user authored at least Min posts
type PostCount struct {
	Raw string
	Min int
}

// Unknown is never satisfied
type Unknown struct {
	Raw string
}

func (DayThreshold) requirement()   {}
func (SkillThreshold) requirement() {}
func (MockProxy) requirement()      {}
func (PostCount) requirement()      {}
func (Unknown) requirement()        {}

func (r DayThreshold) String() string   { return r.Raw }
func (r SkillThreshold) String() string { return r.Raw }
func (r MockProxy) String() string      { return r.Raw }
func (r PostCount) String() string      { return r.Raw }
func (r Unknown) String() string        { return r.Raw }

// Keyword synonyms, lower case. Skill names are matched by substring.
var (
	netflixKeywords         = []string{"netflix"}
	couchKeywords           = []string{"canapé", "sieste", "couch"}
	gamingKeywords          = []string{"gaming", "jeu", "game"}
	excuseKeywords          = []string{"excuse", "évitement", "créat"}
	lateWakeUpKeywords      = []string{"brunch", "réveil", "matin"}
	procrastinationKeywords = []string{"procrastination", "remise", "report"}
	coffeeKeywords          = []string{"café", "pause", "coffee"}
)

// known maps the closed set of requirement strings to their variants.
// The enforced thresholds of gaming_hours and social_media_posts differ
// from the numbers in their names.
var known = map[string]Requirement{
	"unemployment_days >= 100": DayThreshold{Days: 100, Curve: CurveLiteral},
	"unemployment_days >= 365": DayThreshold{Days: 365, Curve: CurveRatio},

	"skill_netflix >= 30": SkillThreshold{Keywords: netflixKeywords, Min: 30, Curve: CurveRatio},
	"skill_couch >= 25":   SkillThreshold{Keywords: couchKeywords, Min: 25},

	"no_interviews_6_months": MockProxy{Kind: ProxyNoInterviews, Days: 180},
	"delivery_orders >= 50":  MockProxy{Kind: ProxyDeliveryOrders, Days: 30},

	"gaming_hours >= 500":           SkillThreshold{Keywords: gamingKeywords, Min: 40},
	"social_media_posts >= 100":     PostCount{Min: 5},
	"creative_excuses >= 20":        SkillThreshold{Keywords: excuseKeywords, Min: 15},
	"late_wake_ups >= 100":          SkillThreshold{Keywords: lateWakeUpKeywords, Min: 20},
	"procrastination_level >= 1000": SkillThreshold{Keywords: procrastinationKeywords, Min: 35},
	"coffee_breaks >= 365":          SkillThreshold{Keywords: coffeeKeywords, Min: 25},
}

// Parse maps a requirement string to its variant. Matching is exact;
// anything outside the known set becomes Unknown.
func Parse(raw string) Requirement {
	r, ok := known[raw]
	if !ok {
		return Unknown{Raw: raw}
	}
	switch v := r.(type) {
	case DayThreshold:
		v.Raw = raw
		return v
	case SkillThreshold:
		v.Raw = raw
		return v
	case MockProxy:
		v.Raw = raw
		return v
	case PostCount:
		v.Raw = raw
		return v
	}
	return Unknown{Raw: raw}
}

// IsKnown reports whether raw is one of the supported requirement strings
func IsKnown(raw string) bool {
	_, ok := known[raw]
	return ok
}

// matchesAny reports whether the lower-cased name contains any keyword
func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
