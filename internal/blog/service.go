package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
)

// ErrNotFound is returned by repositories when no post matches.
var ErrNotFound = errors.New("blog post not found")

type Repository interface {
	Create(p *Post) error
	GetByID(id int64) (*Post, error)
	List(q ListQuery) ([]*Post, error)
	Count(q ListQuery) (int64, error)
	Update(p *Post) error
	Delete(id int64) error
	AllCategoriesAndTags() ([]string, []Tags, error)
	IncrementViews(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(dto CreatePostDTO, author *auth.Actor) (*Post, error) {
	if !author.HasPermission(auth.PermissionBlogCreate) {
		return nil, internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Status == StatusPublished && !author.HasPermission(auth.PermissionBlogPublish) {
		return nil, internal.ErrAccessDenied
	}

	post := &Post{
		Title:    dto.Title,
		Content:  dto.Content,
		Excerpt:  dto.Excerpt,
		Author:   author.Username,
		AuthorID: author.ID,
		Category: dto.Category,
		Tags:     Tags(dto.Tags),
		Image:    dto.Image,
		Status:   dto.Status,
	}
	if post.Tags == nil {
		post.Tags = Tags{}
	}

	if err := s.repo.Create(post); err != nil {
		s.logger.Error("failed to create blog post", "error", err)
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	s.logger.Info("blog post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// Get returns a single post and bumps its view counter. View counting
// is best effort, a read never fails over it.
func (s *Service) Get(id int64) (*Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}

	if err := s.repo.IncrementViews(id); err != nil {
		s.logger.Warn("failed to increment post views", "post_id", id, "error", err)
	} else {
		post.Views++
	}
	return post, nil
}

func (s *Service) List(q ListQuery) ([]*Post, *Pagination, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Status != "" && !ValidStatus(q.Status) {
		return nil, nil, internal.NewValidationError("unknown post status", internal.ErrCodeInvalidStatus)
	}

	posts, err := s.repo.List(q)
	if err != nil {
		return nil, nil, fmt.Errorf("list blog posts: %w", err)
	}
	count, err := s.repo.Count(q)
	if err != nil {
		return nil, nil, fmt.Errorf("count blog posts: %w", err)
	}

	totalPages := int((count + int64(q.Limit) - 1) / int64(q.Limit))
	return posts, &Pagination{Current: q.Page, Total: totalPages, Count: int(count)}, nil
}

func (s *Service) Update(id int64, dto UpdatePostDTO, actor *auth.Actor) (*Post, error) {
	if !actor.HasPermission(auth.PermissionBlogEdit) {
		return nil, internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}

	// Moving a post into the published state needs the publish grant
	// on top of the edit grant.
	if dto.Status != nil && *dto.Status == StatusPublished && post.Status != StatusPublished {
		if !actor.HasPermission(auth.PermissionBlogPublish) {
			return nil, internal.ErrAccessDenied
		}
	}

	if dto.Title != nil {
		post.Title = *dto.Title
	}
	if dto.Content != nil {
		post.Content = *dto.Content
	}
	if dto.Excerpt != nil {
		post.Excerpt = *dto.Excerpt
	}
	if dto.Category != nil {
		post.Category = *dto.Category
	}
	if dto.Tags != nil {
		post.Tags = Tags(*dto.Tags)
	}
	if dto.Image != nil {
		post.Image = *dto.Image
	}
	if dto.Status != nil {
		post.Status = *dto.Status
	}

	if err := s.repo.Update(post); err != nil {
		s.logger.Error("failed to update blog post", "post_id", id, "error", err)
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return post, nil
}

func (s *Service) Delete(id int64, actor *auth.Actor) error {
	if !actor.HasPermission(auth.PermissionBlogDelete) {
		return internal.ErrAccessDenied
	}
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrBlogPostNotFound
		}
		return fmt.Errorf("get blog post: %w", err)
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete blog post", "post_id", id, "error", err)
		return fmt.Errorf("delete blog post: %w", err)
	}
	s.logger.Info("blog post deleted", "post_id", id, "actor_id", actor.ID)
	return nil
}

// Meta returns the distinct categories and tags across all posts,
// sorted for stable output.
func (s *Service) Meta() (*Meta, error) {
	categories, tagSets, err := s.repo.AllCategoriesAndTags()
	if err != nil {
		return nil, fmt.Errorf("blog meta: %w", err)
	}

	catSet := make(map[string]struct{})
	for _, c := range categories {
		if c != "" {
			catSet[c] = struct{}{}
		}
	}
	tagSet := make(map[string]struct{})
	for _, tags := range tagSets {
		for _, t := range tags {
			if t != "" {
				tagSet[t] = struct{}{}
			}
		}
	}

	meta := &Meta{Categories: make([]string, 0, len(catSet)), Tags: make([]string, 0, len(tagSet))}
	for c := range catSet {
		meta.Categories = append(meta.Categories, c)
	}
	for t := range tagSet {
		meta.Tags = append(meta.Tags, t)
	}
	sort.Strings(meta.Categories)
	sort.Strings(meta.Tags)
	return meta, nil
}
