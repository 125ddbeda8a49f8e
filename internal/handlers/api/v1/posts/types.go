// file: internal/handlers/api/v1/posts/types.go
package posts

import "linkedout/internal/models"

// Author is the slice of a profile shown next to posts and comments
type Author struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Avatar *string `json:"avatar,omitempty"`
}

// PostView is a post as the feed renders it
type PostView struct {
	*models.Post
	Author    *Author `json:"author,omitempty"`
	TimeAgo   string  `json:"time_ago"`
	LikedByMe bool    `json:"liked_by_me"`
}

// CommentView is a comment with its author
type CommentView struct {
	*models.Comment
	Author  *Author `json:"author,omitempty"`
	TimeAgo string  `json:"time_ago"`
}

func authorOf(u *models.User) *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Name: u.Name, Title: u.Title, Avatar: u.Avatar}
}
