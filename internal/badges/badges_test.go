package badges

import (
	"testing"
	"time"

	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * day)
}

func ids(defs []models.BadgeDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ID)
	}
	return out
}

func mustLookup(t *testing.T, c *Catalog, id string) models.BadgeDefinition {
	t.Helper()
	d, ok := c.Lookup(id)
	require.True(t, ok, "badge %s missing from catalog", id)
	return d
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"zero start", time.Time{}, 0},
		{"same instant", testNow, 0},
		{"exact days", daysAgo(100), 100},
		{"partial day rounds up", testNow.Add(-36 * time.Hour), 2},
		{"future start uses distance", testNow.Add(10 * day), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysSince(tt.start, testNow))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Requirement
	}{
		{"unemployment_days >= 100", DayThreshold{Raw: "unemployment_days >= 100", Days: 100, Curve: CurveLiteral}},
		{"unemployment_days >= 365", DayThreshold{Raw: "unemployment_days >= 365", Days: 365, Curve: CurveRatio}},
		{"no_interviews_6_months", MockProxy{Raw: "no_interviews_6_months", Kind: ProxyNoInterviews, Days: 180}},
		{"delivery_orders >= 50", MockProxy{Raw: "delivery_orders >= 50", Kind: ProxyDeliveryOrders, Days: 30}},
		{"social_media_posts >= 100", PostCount{Raw: "social_media_posts >= 100", Min: 5}},
		{"unemployment_days >= 42", Unknown{Raw: "unemployment_days >= 42"}},
		{"", Unknown{Raw: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}

	gaming, ok := Parse("gaming_hours >= 500").(SkillThreshold)
	require.True(t, ok)
	assert.Equal(t, 40, gaming.Min, "enforced threshold differs from the nominal one")
	assert.Equal(t, "gaming_hours >= 500", gaming.String())
}

func TestEvaluateHundredDays(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{ID: "u", UnemploymentStart: daysAgo(100)}

	got := ids(Evaluate(user, catalog, Stats{}, testNow))
	assert.Contains(t, got, "unemployed_100")
	assert.Contains(t, got, "delivery_master")
	assert.NotContains(t, got, "unemployed_365")
	assert.NotContains(t, got, "no_interview")

	assert.Equal(t, 100.0, Progress(user, mustLookup(t, catalog, "unemployed_100"), testNow))
}

func TestEvaluateNetflixSkill(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{
		ID:     "u",
		Skills: []models.Skill{{Name: "Netflix Expert", Endorsements: 47}},
	}

	got := ids(Evaluate(user, catalog, Stats{}, testNow))
	assert.Equal(t, []string{"netflix_master"}, got)
	assert.Equal(t, 100.0, Progress(user, mustLookup(t, catalog, "netflix_master"), testNow))
}

func TestEvaluatePostCountThreshold(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{ID: "u"}

	assert.NotContains(t, ids(Evaluate(user, catalog, Stats{AuthoredPosts: 4}, testNow)), "social_media_legend")
	assert.Contains(t, ids(Evaluate(user, catalog, Stats{AuthoredPosts: 5}, testNow)), "social_media_legend")
}

func TestEvaluateSkipsEarnedBadges(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	earned := daysAgo(1)
	user := &models.User{
		ID:                "u",
		UnemploymentStart: daysAgo(400),
		Badges: []models.UserBadge{
			{ID: "unemployed_100", Earned: true, EarnedDate: &earned},
			{ID: "unemployed_365", Earned: false},
		},
	}

	got := ids(Evaluate(user, catalog, Stats{}, testNow))
	assert.NotContains(t, got, "unemployed_100")
	assert.Contains(t, got, "unemployed_365", "unearned entries are evaluated again")
	assert.Equal(t, []string{"unemployed_365", "no_interview", "delivery_master"}, got, "catalog order")
}

func TestEvaluateFirstMatchingSkillOnly(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{
		ID: "u",
		Skills: []models.Skill{
			{Name: "Board game nights", Endorsements: 3},
			{Name: "Gaming professional", Endorsements: 67},
		},
	}

	assert.NotContains(t, ids(Evaluate(user, catalog, Stats{}, testNow)), "gamer_elite")
}

func TestEvaluateKeywordSynonyms(t *testing.T) {
	tests := []struct {
		skill string
		n     int
		badge string
	}{
		{"Champion de SIESTE", 25, "couch_expert"},
		{"Évitement d'entretiens", 15, "excuse_master"},
		{"Late brunch specialist", 20, "brunch_expert"},
		{"Expert en reports d'échéances", 35, "procrastination_god"},
		{"Maître des pauses café", 25, "coffee_break_champion"},
		{"Jeu vidéo", 40, "gamer_elite"},
	}
	catalog := NewCatalog(DefaultDefinitions())
	for _, tt := range tests {
		t.Run(tt.badge, func(t *testing.T) {
			user := &models.User{ID: "u", Skills: []models.Skill{{Name: tt.skill, Endorsements: tt.n}}}
			assert.Contains(t, ids(Evaluate(user, catalog, Stats{}, testNow)), tt.badge)

			user.Skills[0].Endorsements = tt.n - 1
			assert.NotContains(t, ids(Evaluate(user, catalog, Stats{}, testNow)), tt.badge)
		})
	}
}

func TestEvaluateUnknownRequirement(t *testing.T) {
	catalog := NewCatalog([]models.BadgeDefinition{
		{ID: "mystery", Requirement: "vibes >= 9000"},
	})
	user := &models.User{ID: "u", UnemploymentStart: daysAgo(1000)}

	assert.Empty(t, Evaluate(user, catalog, Stats{AuthoredPosts: 100}, testNow))
	assert.Len(t, catalog.Unmatched(), 1)
	assert.Zero(t, Progress(user, mustLookup(t, catalog, "mystery"), testNow))
}

func TestEvaluateIsSound(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	users := []*models.User{
		{ID: "a", UnemploymentStart: daysAgo(29)},
		{ID: "b", UnemploymentStart: daysAgo(181), Skills: []models.Skill{{Name: "Couch potato", Endorsements: 30}}},
		{ID: "c", UnemploymentStart: daysAgo(366), Skills: []models.Skill{{Name: "Coffee", Endorsements: 1}}},
	}
	for _, u := range users {
		for _, def := range Evaluate(u, catalog, Stats{AuthoredPosts: 2}, testNow) {
			assert.True(t, Satisfied(catalog.RequirementOf(def.ID), u, Stats{AuthoredPosts: 2}, testNow),
				"%s returned for %s but predicate is false", def.ID, u.ID)
		}
	}
}

func TestEvaluateDoesNotMutateUser(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{ID: "u", UnemploymentStart: daysAgo(500), Badges: []models.UserBadge{}}
	before := user.Clone()

	Evaluate(user, catalog, Stats{AuthoredPosts: 10}, testNow)
	assert.Equal(t, before, user)
}

func TestProgressMonotonic(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	for _, id := range []string{"unemployed_100", "unemployed_365"} {
		t.Run(id, func(t *testing.T) {
			def := mustLookup(t, catalog, id)
			req := catalog.RequirementOf(id).(DayThreshold)

			prev := -1.0
			for d := 0; d <= 400; d++ {
				user := &models.User{UnemploymentStart: daysAgo(d)}
				p := Progress(user, def, testNow)
				assert.GreaterOrEqual(t, p, prev)
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 100.0)
				if d >= req.Days {
					assert.Equal(t, 100.0, p)
				} else {
					assert.Less(t, p, 100.0)
				}
				prev = p
			}
		})
	}
}

func TestProgressLiteralVersusRatio(t *testing.T) {
	catalog := NewCatalog(DefaultDefinitions())
	user := &models.User{UnemploymentStart: daysAgo(73)}

	assert.Equal(t, 73.0, Progress(user, mustLookup(t, catalog, "unemployed_100"), testNow))
	assert.InDelta(t, 20.0, Progress(user, mustLookup(t, catalog, "unemployed_365"), testNow), 0.001)
	assert.Zero(t, Progress(user, mustLookup(t, catalog, "no_interview"), testNow))
	assert.Zero(t, Progress(user, mustLookup(t, catalog, "couch_expert"), testNow))
}

func TestCatalog(t *testing.T) {
	defs := append(DefaultDefinitions(), models.BadgeDefinition{ID: "unemployed_100", Title: "dup"})
	c := NewCatalog(defs)
	assert.Equal(t, 12, c.Len())

	d := mustLookup(t, c, "unemployed_100")
	assert.NotEqual(t, "dup", d.Title)

	cats := c.Categories()
	assert.Equal(t, []string{"unemployed_100", "unemployed_365"}, ids(cats.Unemployment))
	assert.Equal(t, []string{"netflix_master"}, ids(cats.Skills))
	assert.Equal(t, []string{"social_media_legend", "excuse_master"}, ids(cats.Social))
	assert.Len(t, cats.Lifestyle, 7)
}
