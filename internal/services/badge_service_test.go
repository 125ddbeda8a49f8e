package services

import (
	"context"
	"testing"
	"time"

	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeIDs(defs []models.BadgeDefinition) []string {
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestCheckAndAwardSeedUser(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	awarded := sc.BadgeService.CheckAndAward(ctx, nil, "user_1")
	assert.Equal(t, []string{
		"unemployed_365",
		"couch_expert",
		"delivery_master",
		"excuse_master",
		"procrastination_god",
	}, badgeIDs(awarded))

	// Nothing changed, so nothing new
	assert.Empty(t, sc.BadgeService.CheckAndAward(ctx, nil, "user_1"))
}

func TestCheckAndAwardMissingUser(t *testing.T) {
	sc := newTestServices(t, nil)
	got := sc.BadgeService.CheckAndAward(context.Background(), nil, "ghost")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHundredDaysScenario(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	addUser(t, sc, &models.User{ID: "fresh", Name: "Fresh", UnemploymentStart: fixedNow.AddDate(0, 0, -100)})

	views, err := sc.BadgeService.UserBadges(ctx, "fresh")
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == "unemployed_100" {
			assert.Equal(t, float64(100), v.Progress)
			assert.False(t, v.Earned)
		}
	}

	awarded := sc.BadgeService.CheckAndAward(ctx, nil, "fresh")
	assert.Contains(t, badgeIDs(awarded), "unemployed_100")
	assert.True(t, mustUser(t, sc, "fresh").HasEarned("unemployed_100"))
}

func TestAwardUnknownBadgeHasNoNotification(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	before := len(mustUser(t, sc, "user_5").Badges)

	assert.True(t, sc.BadgeService.AwardBadge(ctx, nil, "user_5", "not_in_catalog"))

	u := mustUser(t, sc, "user_5")
	assert.Len(t, u.Badges, before+1)
	assert.True(t, u.HasEarned("not_in_catalog"))
	assert.Empty(t, sc.NotificationService.List(ctx, "user_5", 0))
}

func TestAwardTwiceRefreshesDateWithoutDuplicating(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	before := mustUser(t, sc, "user_1")
	i := before.FindBadge("netflix_master")
	require.GreaterOrEqual(t, i, 0)
	oldDate := *before.Badges[i].EarnedDate

	require.True(t, sc.BadgeService.AwardBadge(ctx, nil, "user_1", "netflix_master"))
	require.True(t, sc.BadgeService.AwardBadge(ctx, nil, "user_1", "netflix_master"))

	after := mustUser(t, sc, "user_1")
	assert.Len(t, after.Badges, len(before.Badges))
	j := after.FindBadge("netflix_master")
	assert.True(t, after.Badges[j].EarnedDate.After(oldDate))
	assert.Equal(t, fixedNow, *after.Badges[j].EarnedDate)

	seen := map[string]bool{}
	for _, b := range after.Badges {
		assert.False(t, seen[b.ID], "duplicate badge %s", b.ID)
		seen[b.ID] = true
	}
}

func TestAwardMissingUser(t *testing.T) {
	sc := newTestServices(t, nil)
	assert.False(t, sc.BadgeService.AwardBadge(context.Background(), nil, "ghost", "unemployed_100"))
}

func TestPostCountThreshold(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	addUser(t, sc, &models.User{ID: "poster", Name: "Poster", UnemploymentStart: fixedNow})
	sess := loginAs(t, sc, "poster")

	for i := 0; i < 4; i++ {
		_, err := sc.PostService.CreatePost(ctx, sess, &CreatePostRequest{Content: "Another day on the couch"})
		require.NoError(t, err)
	}
	assert.False(t, mustUser(t, sc, "poster").HasEarned("social_media_legend"))

	_, err := sc.PostService.CreatePost(ctx, sess, &CreatePostRequest{Content: "Fifth post, what a streak"})
	require.NoError(t, err)
	assert.True(t, mustUser(t, sc, "poster").HasEarned("social_media_legend"))
}

func TestAwardNotifiesAndRefreshesOwnSession(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_1")
	other := loginAs(t, sc, "user_2")

	require.True(t, sc.BadgeService.AwardBadge(ctx, sess, "user_1", "couch_expert"))
	assert.True(t, sess.User.HasEarned("couch_expert"))

	require.True(t, sc.BadgeService.AwardBadge(ctx, other, "user_1", "gamer_elite"))
	assert.False(t, other.User.HasEarned("gamer_elite"))

	notes := sc.NotificationService.List(ctx, "user_1", 0)
	require.Len(t, notes, 2)
	assert.Equal(t, "New badge unlocked: Gaming Elite 🎮!", notes[0].Message)
	assert.Equal(t, "New badge unlocked: Couch Expert 🛋️!", notes[1].Message)
	assert.Equal(t, models.SeveritySuccess, notes[0].Severity)
	assert.Equal(t, DurationLong, notes[0].DurationMs)
}

func TestAutoCheckAll(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	loginAs(t, sc, "user_1")

	assert.Equal(t, 5, sc.BadgeService.AutoCheckAll(ctx))
	assert.Equal(t, 0, sc.BadgeService.AutoCheckAll(ctx))
	assert.Empty(t, sc.BadgeService.AutoCheck(ctx, nil))
}

func TestRecentBadges(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	recent, err := sc.BadgeService.RecentBadges(ctx, "user_1", 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].EarnedDate.After(*recent[i-1].EarnedDate))
	}

	one, err := sc.BadgeService.RecentBadges(ctx, "user_1", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = sc.BadgeService.RecentBadges(ctx, "ghost", 3)
	assert.True(t, IsNotFoundError(err))
}

func TestBadgeStats(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	stats := sc.BadgeService.Stats(ctx)
	assert.Equal(t, 12, stats.TotalBadges)
	require.NotNil(t, stats.MostEarnedBadge)
	require.NotNil(t, stats.Rarest)
	assert.GreaterOrEqual(t, stats.MostEarnedBadge.Count, stats.Rarest.Count)

	total := 0
	for _, u := range sc.Repositories.User.List(ctx) {
		for _, b := range u.Badges {
			if b.Earned {
				total++
			}
		}
	}
	assert.Equal(t, total, stats.TotalAwarded)
}

func TestBadgeStatsEmpty(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	users := sc.Repositories.User.List(ctx)
	for _, u := range users {
		u.Badges = nil
	}
	require.True(t, sc.Repositories.User.SaveAll(ctx, users))

	stats := sc.BadgeService.Stats(ctx)
	assert.Zero(t, stats.TotalAwarded)
	assert.Nil(t, stats.MostEarnedBadge)
	assert.Nil(t, stats.Rarest)
}

func TestUserBadgesCoversCatalog(t *testing.T) {
	sc := newTestServices(t, nil)
	views, err := sc.BadgeService.UserBadges(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Len(t, views, 12)

	for _, v := range views {
		if v.Earned {
			assert.NotNil(t, v.EarnedDate, v.ID)
		}
		assert.GreaterOrEqual(t, v.Progress, float64(0))
		assert.LessOrEqual(t, v.Progress, float64(100))
	}
	assert.NotEmpty(t, sc.BadgeService.ByCategory(context.Background()))
}

func TestFutureStartCountsDistance(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	addUser(t, sc, &models.User{ID: "future", Name: "Future", UnemploymentStart: fixedNow.Add(120 * 24 * time.Hour)})

	awarded := sc.BadgeService.CheckAndAward(ctx, nil, "future")
	assert.Contains(t, badgeIDs(awarded), "unemployed_100")
}
