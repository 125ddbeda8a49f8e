package services

import (
	"context"
	"testing"

	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postIDs(posts []*models.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCreatePostPrepends(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_2")

	post, err := sc.PostService.CreatePost(ctx, sess, &CreatePostRequest{Content: "  Binge-watched a documentary about productivity.  "})
	require.NoError(t, err)
	assert.Equal(t, "Binge-watched a documentary about productivity.", post.Content)
	assert.Zero(t, post.Likes)
	assert.Equal(t, "user_2", post.UserID)

	page, err := sc.PostService.ListFeed(ctx, sess, &ListPostsRequest{})
	require.NoError(t, err)
	assert.Equal(t, post.ID, page.Data[0].ID)
	assert.EqualValues(t, 9, page.Pagination.TotalItems)

	_, err = sc.PostService.CreatePost(ctx, sess, &CreatePostRequest{Content: ""})
	assert.True(t, IsValidationError(err))
	_, err = sc.PostService.CreatePost(ctx, nil, &CreatePostRequest{Content: "hi"})
	assert.Equal(t, ErrTypeUnauthorized, GetServiceError(err).Type)
}

func TestToggleLike(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_4")

	before, err := sc.Repositories.Post.GetByID(ctx, "post_1")
	require.NoError(t, err)
	require.False(t, before.IsLikedBy("user_4"))

	liked, err := sc.PostService.ToggleLike(ctx, sess, "post_1")
	require.NoError(t, err)
	assert.Equal(t, before.Likes+1, liked.Likes)
	assert.True(t, liked.IsLikedBy("user_4"))
	assert.Contains(t, messages(sc.NotificationService.List(ctx, "user_1", 0)), "Sophie Cossarde liked your post")

	unliked, err := sc.PostService.ToggleLike(ctx, sess, "post_1")
	require.NoError(t, err)
	assert.Equal(t, before.Likes, unliked.Likes)
	assert.False(t, unliked.IsLikedBy("user_4"))

	// user_5 liked post_1 in the seed, so the first toggle unlikes
	fan := loginAs(t, sc, "user_5")
	unliked, err = sc.PostService.ToggleLike(ctx, fan, "post_1")
	require.NoError(t, err)
	assert.Equal(t, before.Likes-1, unliked.Likes)
	assert.False(t, unliked.IsLikedBy("user_5"))

	_, err = sc.PostService.ToggleLike(ctx, sess, "missing")
	assert.True(t, IsNotFoundError(err))
}

func TestCommentsAndCascadingDelete(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	author := loginAs(t, sc, "user_1")
	reader := loginAs(t, sc, "user_3")

	post, err := sc.PostService.CreatePost(ctx, author, &CreatePostRequest{Content: "Rate my nap schedule"})
	require.NoError(t, err)

	_, err = sc.PostService.AddComment(ctx, reader, post.ID, &CreateCommentRequest{Content: "Ten out of ten"})
	require.NoError(t, err)
	_, err = sc.PostService.AddComment(ctx, author, post.ID, &CreateCommentRequest{Content: "Thanks!"})
	require.NoError(t, err)

	comments, err := sc.PostService.Comments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	stored, err := sc.Repositories.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Comments)

	// Only the reader's comment notifies the author
	n := 0
	for _, m := range messages(sc.NotificationService.List(ctx, "user_1", 0)) {
		if m == "Paul Branleur commented on your post" {
			n++
		}
	}
	assert.Equal(t, 1, n)

	err = sc.PostService.DeletePost(ctx, reader, post.ID)
	assert.Equal(t, ErrTypeForbidden, GetServiceError(err).Type)

	require.NoError(t, sc.PostService.DeletePost(ctx, author, post.ID))
	assert.Empty(t, sc.Repositories.Comment.ListByPost(ctx, post.ID))
	_, err = sc.PostService.Comments(ctx, post.ID)
	assert.True(t, IsNotFoundError(err))

	_, err = sc.PostService.AddComment(ctx, reader, "missing", &CreateCommentRequest{Content: "hello"})
	assert.True(t, IsNotFoundError(err))
}

func TestFeedFilters(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_1")

	tests := []struct {
		filter string
		want   []string
	}{
		{FeedAchievements, []string{"post_1", "post_8"}},
		{FeedFailures, []string{"post_6"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			page, err := sc.PostService.ListFeed(ctx, sess, &ListPostsRequest{Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, postIDs(page.Data))
		})
	}

	t.Run(FeedConnections, func(t *testing.T) {
		page, err := sc.PostService.ListFeed(ctx, sess, &ListPostsRequest{Filter: FeedConnections})
		require.NoError(t, err)
		allowed := map[string]bool{"user_1": true, "user_2": true, "user_3": true, "user_4": true}
		require.NotEmpty(t, page.Data)
		for _, p := range page.Data {
			assert.True(t, allowed[p.UserID], p.ID)
		}

		_, err = sc.PostService.ListFeed(ctx, nil, &ListPostsRequest{Filter: FeedConnections})
		assert.Equal(t, ErrTypeUnauthorized, GetServiceError(err).Type)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := sc.PostService.ListFeed(ctx, sess, &ListPostsRequest{Filter: "bogus"})
		assert.True(t, IsValidationError(err))
	})

	t.Run("by author", func(t *testing.T) {
		page, err := sc.PostService.ListFeed(ctx, nil, &ListPostsRequest{UserID: "user_1"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"post_1", "post_6"}, postIDs(page.Data))
		assert.Len(t, sc.PostService.UserPosts(ctx, "user_1"), 2)
	})
}
