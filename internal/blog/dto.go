package blog

import (
	"strings"

	"github.com/treyfatech/sitecms/internal"
)

type CreatePostDTO struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Status   string   `json:"status"`
}

func (dto *CreatePostDTO) Validate() error {
	dto.Title = strings.TrimSpace(dto.Title)
	if dto.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Content) == "" {
		return internal.NewValidationFieldError("content", "content is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status == "" {
		dto.Status = StatusDraft
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationError("unknown post status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// UpdatePostDTO carries the writable fields of a post. Author, views
// and timestamps are never client-settable.
type UpdatePostDTO struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Image    *string   `json:"image"`
	Status   *string   `json:"status"`
}

func (dto *UpdatePostDTO) Validate() error {
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Content != nil && strings.TrimSpace(*dto.Content) == "" {
		return internal.NewValidationFieldError("content", "content cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationError("unknown post status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

type ListQuery struct {
	Status   string
	Category string
	Page     int
	Limit    int
}

type Pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

// Meta aggregates the distinct categories and tags across all posts.
type Meta struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}
