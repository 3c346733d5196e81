package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/enhance"
)

// IngestAspectRatio 自动生成的配图统一使用 3:2，与博客卡片一致。
const IngestAspectRatio = "3x2"

// IngestTags 自动发布的文章统一打上的标签。
var IngestTags = []string{"AI", "Technology", "News", "OpenAI", "Automation", "Software Engineering"}

// NewsPayload 外部推送的新闻数据。
type NewsPayload struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// IsNews 判断 payload 是否包含完整的新闻字段。
func (p NewsPayload) IsNews() bool {
	return strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Link) != "" &&
		strings.TrimSpace(p.Content) != "" &&
		strings.TrimSpace(p.Date) != ""
}

// IngestService 把新闻数据经增强流水线转换为已发布的文章。
type IngestService struct {
	posts   *PostService
	images  ImageGenerator
	author  string
	cleaner *bluemonday.Policy
	now     func() time.Time
}

// NewIngestService 构造 IngestService。
func NewIngestService(posts *PostService, images ImageGenerator, author string) *IngestService {
	return &IngestService{
		posts:   posts,
		images:  images,
		author:  strings.TrimSpace(author),
		cleaner: bluemonday.StrictPolicy(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SlugFor 返回标题对应的 slug，用于冲突响应。
func SlugFor(title string) string {
	return db.Slugify(strings.TrimSpace(title))
}

// Ingest 校验并查重后运行增强流水线，最后一次性写入。
// 查重与校验都在任何外部调用之前完成。
func (s *IngestService) Ingest(ctx context.Context, payload NewsPayload) (*db.Post, error) {
	title := strings.TrimSpace(payload.Title)
	link := strings.TrimSpace(payload.Link)
	date := strings.TrimSpace(payload.Date)
	content := s.cleanContent(payload.Content)

	switch {
	case title == "":
		return nil, invalid("title", "is required")
	case utf8.RuneCountInString(title) > db.MaxTitleLength:
		return nil, invalid("title", "cannot be more than 200 characters")
	case link == "":
		return nil, invalid("link", "is required")
	case !isHTTPURL(link):
		return nil, invalid("link", "must be an http(s) URL")
	case content == "":
		return nil, invalid("content", "is required")
	case date == "":
		return nil, invalid("date", "is required")
	}

	slug := SlugFor(title)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	taken, err := s.posts.SlugTaken(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		log.Printf("[INGEST] duplicate slug %q, skipping", slug)
		return nil, ErrDuplicateSlug
	}

	pipeline := enhance.NewPipeline(enhance.ImageSourceFunc(s.generate))
	result, err := pipeline.Run(ctx, enhance.Input{Title: title, Link: link, Content: content, Date: date})
	if err != nil {
		return nil, err
	}
	log.Printf("[INGEST] %q enhanced with %d/%d supplementary images", title, len(result.Images), result.Budget)

	publishedAt := s.parseDate(date)
	post, err := s.posts.Create(ctx, PostInput{
		Title:             title,
		Slug:              slug,
		Content:           result.Content,
		Excerpt:           result.Excerpt,
		FeaturedImage:     result.FeaturedImage,
		GeneratedImageURL: result.FeaturedImage,
		Tags:              IngestTags,
		Author:            s.author,
		IsPublished:       true,
		PublishedAt:       &publishedAt,
		SourceURL:         link,
		OriginalDate:      date,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INGEST] created post %s (%s)", post.ID, post.Slug)
	return post, nil
}

func (s *IngestService) generate(ctx context.Context, prompt string) (string, error) {
	result, err := s.images.GenerateImage(ctx, ImageRequest{Prompt: prompt, AspectRatio: IngestAspectRatio})
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// cleanContent 去掉推送内容中夹带的 HTML 标签并还原实体。
func (s *IngestService) cleanContent(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.cleaner.Sanitize(raw)))
}

var ingestDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate 解析原始日期，失败时使用当前时间。
func (s *IngestService) parseDate(raw string) time.Time {
	for _, layout := range ingestDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return s.now()
}
