package services

import (
	"context"
	"testing"

	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndorse(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	marie := loginAs(t, sc, "user_2")

	skill, err := sc.SkillService.Endorse(ctx, marie, "user_1", "Netflix Expert")
	require.NoError(t, err)
	assert.Equal(t, 48, skill.Endorsements)
	assert.Equal(t, []string{"user_2"}, skill.EndorsedBy)

	_, err = sc.SkillService.Endorse(ctx, marie, "user_1", "Netflix Expert")
	require.Error(t, err)
	assert.Equal(t, "ALREADY_ENDORSED", GetServiceError(err).Code)

	assert.Contains(t, messages(sc.NotificationService.List(ctx, "user_1", 0)),
		`Marie Flemmeuse endorsed your skill "Netflix Expert"`)
}

func TestEndorseRejections(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	jean := loginAs(t, sc, "user_1")

	tests := []struct {
		name     string
		userID   string
		skill    string
		wantType string
	}{
		{"own skill", "user_1", "Netflix Expert", ErrTypeValidation},
		{"unknown skill", "user_2", "Knitting", ErrTypeNotFound},
		{"unknown user", "ghost", "Netflix Expert", ErrTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sc.SkillService.Endorse(ctx, jean, tt.userID, tt.skill)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, GetServiceError(err).Type)
		})
	}

	_, err := sc.SkillService.Endorse(ctx, nil, "user_2", "Bed yoga")
	assert.Equal(t, ErrTypeUnauthorized, GetServiceError(err).Type)
}

func TestEndorseUnlocksOwnerBadge(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	addUser(t, sc, &models.User{
		ID: "gamer", Name: "Gamer", UnemploymentStart: fixedNow,
		Skills: []models.Skill{{Name: "Gaming marathon", Endorsements: 39}},
	})
	endorser := loginAs(t, sc, "user_3")

	_, err := sc.SkillService.Endorse(ctx, endorser, "gamer", "Gaming marathon")
	require.NoError(t, err)
	assert.True(t, mustUser(t, sc, "gamer").HasEarned("gamer_elite"))
	// The endorser's own snapshot is left alone
	assert.Equal(t, "user_3", endorser.User.ID)
}

func TestRemoveEndorsement(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_2")

	_, err := sc.SkillService.RemoveEndorsement(ctx, sess, "user_1", "Netflix Expert")
	assert.True(t, IsNotFoundError(err))

	_, err = sc.SkillService.Endorse(ctx, sess, "user_1", "Netflix Expert")
	require.NoError(t, err)
	skill, err := sc.SkillService.RemoveEndorsement(ctx, sess, "user_1", "Netflix Expert")
	require.NoError(t, err)
	assert.Equal(t, 47, skill.Endorsements)
	assert.Empty(t, skill.EndorsedBy)
}

func TestRemoveEndorsementNeverNegative(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	addUser(t, sc, &models.User{
		ID: "zero", Name: "Zero",
		Skills: []models.Skill{{Name: "Nothing", Endorsements: 0, EndorsedBy: []string{"user_1"}}},
	})

	skill, err := sc.SkillService.RemoveEndorsement(ctx, loginAs(t, sc, "user_1"), "zero", "Nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, skill.Endorsements)
}

func TestAddAndRemoveSkill(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_5")

	user, err := sc.SkillService.AddSkill(ctx, sess, &AddSkillRequest{Name: "  Competitive  napping "})
	require.NoError(t, err)
	i := user.FindSkill("Competitive napping")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, 0, user.Skills[i].Endorsements)

	_, err = sc.SkillService.AddSkill(ctx, sess, &AddSkillRequest{Name: "competitive NAPPING"})
	assert.Equal(t, "SKILL_EXISTS", GetServiceError(err).Code)

	_, err = sc.SkillService.AddSkill(ctx, sess, &AddSkillRequest{})
	assert.True(t, IsValidationError(err))

	user, err = sc.SkillService.RemoveSkill(ctx, sess, "Competitive napping")
	require.NoError(t, err)
	assert.Equal(t, -1, user.FindSkill("Competitive napping"))

	_, err = sc.SkillService.RemoveSkill(ctx, sess, "Competitive napping")
	assert.True(t, IsNotFoundError(err))
}

func TestUserEndorsements(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	_, err := sc.SkillService.Endorse(ctx, loginAs(t, sc, "user_3"), "user_4", "Bed yoga")
	require.NoError(t, err)

	list, err := sc.SkillService.UserEndorsements(ctx, "user_4")
	require.NoError(t, err)
	require.Len(t, list, 4)
	for _, entry := range list {
		if entry.Name == "Bed yoga" {
			assert.Equal(t, []Endorser{{ID: "user_3", Name: "Paul Branleur"}}, entry.Endorsers)
		} else {
			assert.Empty(t, entry.Endorsers)
		}
	}

	_, err = sc.SkillService.UserEndorsements(ctx, "ghost")
	assert.True(t, IsNotFoundError(err))
}

func TestTopSkills(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	top := sc.SkillService.TopSkills(ctx, 0)
	require.Len(t, top, DefaultTopSkills)
	assert.Equal(t, "Gaming professionnel", top[0].Name)
	assert.Equal(t, 67, top[0].TotalEndorsements)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalEndorsements, top[i].TotalEndorsements)
	}

	assert.Len(t, sc.SkillService.TopSkills(ctx, 2), 2)
}
