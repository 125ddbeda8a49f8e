package badges

import (
	"strings"

	"linkedout/internal/models"
)

// Catalog is an immutable, ordered set of badge definitions with their
// parsed requirements.
type Catalog struct {
	defs  []models.BadgeDefinition
	reqs  []Requirement
	index map[string]int
}

// NewCatalog parses defs once. Later definitions with a duplicate id are ignored.
func NewCatalog(defs []models.BadgeDefinition) *Catalog {
	c := &Catalog{
		defs:  make([]models.BadgeDefinition, 0, len(defs)),
		reqs:  make([]Requirement, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if _, dup := c.index[d.ID]; dup {
			continue
		}
		c.index[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
		c.reqs = append(c.reqs, Parse(d.Requirement))
	}
	return c
}

// Len returns the number of definitions
func (c *Catalog) Len() int { return len(c.defs) }

// Definitions returns a copy of the definitions in catalog order
func (c *Catalog) Definitions() []models.BadgeDefinition {
	out := make([]models.BadgeDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup finds a definition by id
func (c *Catalog) Lookup(id string) (models.BadgeDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.BadgeDefinition{}, false
	}
	return c.defs[i], true
}

// RequirementOf returns the parsed requirement of a definition in this catalog
func (c *Catalog) RequirementOf(id string) Requirement {
	if i, ok := c.index[id]; ok {
		return c.reqs[i]
	}
	return Unknown{}
}

// Unmatched lists definitions whose requirement is not understood
func (c *Catalog) Unmatched() []models.BadgeDefinition {
	var out []models.BadgeDefinition
	for i, r := range c.reqs {
		if _, ok := r.(Unknown); ok {
			out = append(out, c.defs[i])
		}
	}
	return out
}

// Categories buckets the catalog by id substring
func (c *Catalog) Categories() models.BadgeCategories {
	cats := models.BadgeCategories{
		Unemployment: []models.BadgeDefinition{},
		Skills:       []models.BadgeDefinition{},
		Social:       []models.BadgeDefinition{},
		Lifestyle:    []models.BadgeDefinition{},
	}
	for _, d := range c.defs {
		switch {
		case strings.Contains(d.ID, "unemployed"):
			cats.Unemployment = append(cats.Unemployment, d)
		case strings.Contains(d.ID, "skill"), strings.Contains(d.ID, "netflix"), strings.Contains(d.ID, "gaming"):
			cats.Skills = append(cats.Skills, d)
		case strings.Contains(d.ID, "social"), strings.Contains(d.ID, "excuse"):
			cats.Social = append(cats.Social, d)
		default:
			cats.Lifestyle = append(cats.Lifestyle, d)
		}
	}
	return cats
}

// DefaultDefinitions is the catalog seeded into a fresh store
func DefaultDefinitions() []models.BadgeDefinition {
	return []models.BadgeDefinition{
		{ID: "unemployed_100", Title: "Centenarian of Unemployment", Description: "100 days without a job", Icon: "🏆", Requirement: "unemployment_days >= 100"},
		{ID: "unemployed_365", Title: "Inactivity Anniversary", Description: "A full year without a job", Icon: "🎂", Requirement: "unemployment_days >= 365"},
		{ID: "netflix_master", Title: "Netflix Master", Description: "Recognised binge-watching expert", Icon: "📺", Requirement: "skill_netflix >= 30"},
		{ID: "couch_expert", Title: "Couch Expert", Description: "Specialist in domestic comfort", Icon: "🛋️", Requirement: "skill_couch >= 25"},
		{ID: "no_interview", Title: "Never Called Back", Description: "No interview in 6 months", Icon: "🚫", Requirement: "no_interviews_6_months"},
		{ID: "delivery_master", Title: "Delivery King", Description: "Expert in home delivery orders", Icon: "🍕", Requirement: "delivery_orders >= 50"},
		{ID: "gamer_elite", Title: "Gaming Elite", Description: "Video game professional", Icon: "🎮", Requirement: "gaming_hours >= 500"},
		{ID: "social_media_legend", Title: "Social Media Legend", Description: "Influencer of inactivity", Icon: "📱", Requirement: "social_media_posts >= 100"},
		{ID: "excuse_master", Title: "Master of Excuses", Description: "Creator of legendary excuses", Icon: "🎭", Requirement: "creative_excuses >= 20"},
		{ID: "brunch_expert", Title: "Brunch Expert", Description: "Specialist in late wake-ups", Icon: "🥐", Requirement: "late_wake_ups >= 100"},
		{ID: "procrastination_god", Title: "God of Procrastination", Description: "Supreme level reached", Icon: "⏰", Requirement: "procrastination_level >= 1000"},
		{ID: "coffee_break_champion", Title: "Coffee Break Champion", Description: "Record-breaking extended breaks", Icon: "☕", Requirement: "coffee_breaks >= 365"},
	}
}
