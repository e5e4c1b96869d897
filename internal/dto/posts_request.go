package dto

import "github.com/trisuaso/beambin/internal/model"

type CreatePostRequest struct {
	Slug     string `json:"slug"`
	Content  string `json:"content" binding:"required"`
	Password string `json:"password"`
}

type ClonePostRequest struct {
	Source   string `json:"source" binding:"required"`
	Slug     string `json:"slug"`
	Password string `json:"password"`
}

type EditPostRequest struct {
	Password    string `json:"password"`
	NewContent  string `json:"new_content" binding:"required"`
	NewPassword string `json:"new_password"`
	NewSlug     string `json:"new_slug"`
}

type EditContextRequest struct {
	Password string            `json:"password"`
	Context  model.PostContext `json:"context"`
}

type DeletePostRequest struct {
	Password string `json:"password"`
}

// CreatedPost carries the one-time plaintext edit password back to the
// creator together with the public view of the post.
type CreatedPost struct {
	Password string           `json:"password"`
	Post     model.PublicPost `json:"post"`
}
