package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/store"
)

// PostService wraps post related persistence operations and enforces model rules.
type PostService struct {
	store  store.PostStore
	author string
	now    func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title             string
	Slug              string
	Content           string
	Excerpt           string
	FeaturedImage     string
	GeneratedImageURL string
	Tags              []string
	Author            string
	IsPublished       bool
	// PublishedAt 仅在创建即发布时生效，为空则取当前时间。
	PublishedAt  *time.Time
	SourceURL    string
	OriginalDate string
}

// NewPostService creates a PostService; author is used when input omits one.
func NewPostService(s store.PostStore, defaultAuthor string) *PostService {
	return &PostService{
		store:  s,
		author: strings.TrimSpace(defaultAuthor),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// BySlug returns the published post with the given slug.
func (s *PostService) BySlug(ctx context.Context, slug string) (*db.Post, error) {
	post, err := s.store.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListPublished returns published posts ordered by publishedAt desc.
func (s *PostService) ListPublished(ctx context.Context) ([]db.Post, error) {
	return s.store.List(ctx, store.Published())
}

// List returns posts matching an arbitrary filter.
func (s *PostService) List(ctx context.Context, filter store.Filter) ([]db.Post, error) {
	return s.store.List(ctx, filter)
}

// Recent returns the newest published posts.
func (s *PostService) Recent(ctx context.Context, limit int) ([]db.Post, error) {
	filter := store.Published()
	filter.Limit = limit
	return s.store.List(ctx, filter)
}

// Count returns the number of posts matching the filter.
func (s *PostService) Count(ctx context.Context, filter store.Filter) (int64, error) {
	return s.store.Count(ctx, filter)
}

// Tags returns the distinct tags of matching posts.
func (s *PostService) Tags(ctx context.Context, filter store.Filter) ([]string, error) {
	return s.store.DistinctTags(ctx, filter)
}

// Authors returns the distinct authors of matching posts.
func (s *PostService) Authors(ctx context.Context, filter store.Filter) ([]string, error) {
	return s.store.DistinctAuthors(ctx, filter)
}

// Get fetches a post by id regardless of publish state.
func (s *PostService) Get(ctx context.Context, id string) (*db.Post, error) {
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

// SlugTaken reports whether any post already uses slug.
func (s *PostService) SlugTaken(ctx context.Context, slug string) (bool, error) {
	_, err := s.store.FindBySlug(ctx, slug)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrPostNotFound) {
		return false, nil
	}
	return false, err
}

// Create validates input and persists a new post.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	post, err := s.buildPost(input)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = db.Slugify(post.Title)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	post.Slug = slug

	taken, err := s.SlugTaken(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateSlug
	}

	if post.IsPublished {
		publishedAt := s.now()
		if input.PublishedAt != nil {
			publishedAt = input.PublishedAt.UTC()
		}
		post.PublishedAt = &publishedAt
	}

	if err := s.store.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies a full edit to an existing post.
func (s *PostService) Update(ctx context.Context, id string, input PostInput) (*db.Post, error) {
	existing, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	post, err := s.buildPost(input)
	if err != nil {
		return nil, err
	}

	slug := existing.Slug
	if explicit := strings.TrimSpace(input.Slug); explicit != "" {
		slug = explicit
	} else if post.Title != existing.Title {
		slug = db.Slugify(post.Title)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if slug != existing.Slug {
		conflict, err := s.store.FindBySlug(ctx, slug)
		if err == nil && conflict.ID != existing.ID {
			return nil, ErrDuplicateSlug
		}
		if err != nil && !errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
	}

	existing.Title = post.Title
	existing.Slug = slug
	existing.Content = post.Content
	existing.Excerpt = post.Excerpt
	existing.FeaturedImage = post.FeaturedImage
	existing.Tags = post.Tags
	if post.GeneratedImageURL != "" {
		existing.GeneratedImageURL = post.GeneratedImageURL
	}
	if strings.TrimSpace(input.Author) != "" {
		existing.Author = post.Author
	}
	if post.SourceURL != "" {
		existing.SourceURL = post.SourceURL
	}
	if post.OriginalDate != "" {
		existing.OriginalDate = post.OriginalDate
	}
	s.applyPublishState(existing, input.IsPublished)

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetPublished toggles the publish flag of a post by id.
func (s *PostService) SetPublished(ctx context.Context, id string, published bool) (*db.Post, error) {
	post, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return s.setPublished(ctx, post, published)
}

// SetPublishedBySlug toggles the publish flag of a post by slug, drafts included.
func (s *PostService) SetPublishedBySlug(ctx context.Context, slug string, published bool) (*db.Post, error) {
	post, err := s.store.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	return s.setPublished(ctx, post, published)
}

func (s *PostService) setPublished(ctx context.Context, post *db.Post, published bool) (*db.Post, error) {
	if post.IsPublished == published {
		return post, nil
	}
	s.applyPublishState(post, published)
	if err := s.store.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post by id.
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

// applyPublishState 维护 publishedAt 与 isPublished 的一致性：
// 未发布 -> 发布时写入当前时间，取消发布时清空。
func (s *PostService) applyPublishState(post *db.Post, published bool) {
	switch {
	case published && (!post.IsPublished || post.PublishedAt == nil):
		now := s.now()
		post.PublishedAt = &now
	case !published:
		post.PublishedAt = nil
	}
	post.IsPublished = published
}

func (s *PostService) buildPost(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > db.MaxTitleLength {
		return nil, invalid("title", "cannot be more than 200 characters")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if utf8.RuneCountInString(content) < db.MinContentLength {
		return nil, invalid("content", "must be at least 100 characters")
	}

	excerpt := db.NormalizeExcerpt(input.Excerpt)
	if excerpt == "" {
		return nil, invalid("excerpt", "is required")
	}

	featuredImage := strings.TrimSpace(input.FeaturedImage)
	if featuredImage == "" {
		return nil, invalid("featuredImage", "is required")
	}
	if !isHTTPURL(featuredImage) {
		return nil, invalid("featuredImage", "must be an http(s) URL")
	}

	generatedImageURL := strings.TrimSpace(input.GeneratedImageURL)
	if generatedImageURL != "" && !isHTTPURL(generatedImageURL) {
		return nil, invalid("generatedImageUrl", "must be an http(s) URL")
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = s.author
	}

	return &db.Post{
		Title:             title,
		Content:           content,
		Excerpt:           excerpt,
		FeaturedImage:     featuredImage,
		GeneratedImageURL: generatedImageURL,
		Tags:              db.NormalizeTags(input.Tags),
		Author:            author,
		IsPublished:       input.IsPublished,
		SourceURL:         strings.TrimSpace(input.SourceURL),
		OriginalDate:      strings.TrimSpace(input.OriginalDate),
	}, nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return invalid("title", "must contain at least one letter or digit")
	}
	if !db.ValidSlug(slug) {
		return invalid("slug", "can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
