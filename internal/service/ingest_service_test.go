package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeImageGenerator struct {
	mu       sync.Mutex
	requests []ImageRequest
	failOn   map[int]error
}

func (f *fakeImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	if err, ok := f.failOn[call]; ok {
		return ImageResult{}, err
	}
	return ImageResult{URL: fmt.Sprintf("https://img.test/%d.png", call)}, nil
}

func (f *fakeImageGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func longArticle(sentences, words int) string {
	parts := make([]string, sentences)
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.Repeat("insight ", words)) + "."
	}
	return strings.Join(parts, " ")
}

func newIngestFixture(t *testing.T, images *fakeImageGenerator) (*IngestService, *PostService) {
	t.Helper()
	posts := NewPostService(setupPostServiceTestStore(t), "Kavitha Kanchana")
	return NewIngestService(posts, images, "Kavitha Kanchana"), posts
}

func TestIngestService_CreatesPublishedPost(t *testing.T) {
	images := &fakeImageGenerator{}
	svc, posts := newIngestFixture(t, images)

	post, err := svc.Ingest(context.Background(), NewsPayload{
		Title:   "AI Summit 2024",
		Link:    "https://example.com/a",
		Content: longArticle(13, 50),
		Date:    "2024-01-01",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if images.calls() != 5 {
		t.Fatalf("expected 1 featured + 4 supplementary requests, got %d", images.calls())
	}
	for _, req := range images.requests {
		if req.AspectRatio != IngestAspectRatio {
			t.Fatalf("expected 3x2 aspect ratio, got %s", req.AspectRatio)
		}
	}

	if !post.IsPublished || post.PublishedAt == nil {
		t.Fatalf("ingested post must be published")
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !post.PublishedAt.Equal(want) {
		t.Fatalf("expected publishedAt from date, got %v", post.PublishedAt)
	}
	if post.SourceURL != "https://example.com/a" || post.OriginalDate != "2024-01-01" {
		t.Fatalf("provenance not carried: %+v", post)
	}
	if post.FeaturedImage != "https://img.test/1.png" || post.GeneratedImageURL != post.FeaturedImage {
		t.Fatalf("unexpected images: %s %s", post.FeaturedImage, post.GeneratedImageURL)
	}
	if !strings.HasPrefix(post.Content, "![AI Summit 2024 - Featured Image](https://img.test/1.png)\n") {
		t.Fatalf("featured image must be the first line: %q", post.Content[:80])
	}
	if strings.Count(post.Content, "![") != 5 {
		t.Fatalf("expected five images in content")
	}
	if strings.Join(post.Tags, ",") != "ai,technology,news,openai,automation,software engineering" {
		t.Fatalf("unexpected tags %v", post.Tags)
	}
	if post.Author != "Kavitha Kanchana" {
		t.Fatalf("unexpected author %q", post.Author)
	}
	if len(post.Excerpt) > 300 || !strings.HasSuffix(post.Excerpt, "...") {
		t.Fatalf("unexpected excerpt %q", post.Excerpt)
	}

	stored, err := posts.BySlug(context.Background(), "ai-summit-2024")
	if err != nil {
		t.Fatalf("stored post not readable by slug: %v", err)
	}
	if stored.ID != post.ID {
		t.Fatalf("unexpected stored id")
	}
}

func TestIngestService_DuplicateSkipsGeneration(t *testing.T) {
	images := &fakeImageGenerator{}
	svc, _ := newIngestFixture(t, images)
	payload := NewsPayload{Title: "Same News", Link: "https://example.com/a", Content: longArticle(4, 30), Date: "2024-01-01"}

	if _, err := svc.Ingest(context.Background(), payload); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	before := images.calls()

	payload.Title = "Same  News!"
	if _, err := svc.Ingest(context.Background(), payload); !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug, got %v", err)
	}
	if images.calls() != before {
		t.Fatalf("duplicate check must happen before any generation call")
	}
}

func TestIngestService_SupplementaryFailuresDegrade(t *testing.T) {
	images := &fakeImageGenerator{failOn: map[int]error{2: errors.New("boom"), 4: errors.New("boom")}}
	svc, _ := newIngestFixture(t, images)

	post, err := svc.Ingest(context.Background(), NewsPayload{
		Title: "Degraded", Link: "https://example.com/d", Content: longArticle(13, 50), Date: "not a date",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if strings.Count(post.Content, "![") != 3 {
		t.Fatalf("expected featured + 2 surviving images, got %d", strings.Count(post.Content, "!["))
	}
	if post.PublishedAt == nil || time.Since(*post.PublishedAt) > time.Minute {
		t.Fatalf("unparseable date should fall back to now, got %v", post.PublishedAt)
	}
}

func TestIngestService_FeaturedFailureAbortsWithoutWrite(t *testing.T) {
	images := &fakeImageGenerator{failOn: map[int]error{1: &GenerationError{Provider: "Ideogram", StatusCode: 500, Body: "down"}}}
	svc, posts := newIngestFixture(t, images)

	_, err := svc.Ingest(context.Background(), NewsPayload{
		Title: "No Featured", Link: "https://example.com/f", Content: longArticle(13, 50), Date: "2024-01-01",
	})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation error, got %v", err)
	}

	if taken, _ := posts.SlugTaken(context.Background(), "no-featured"); taken {
		t.Fatalf("no post may be written when the featured image fails")
	}
}

func TestIngestService_ValidationAndCleaning(t *testing.T) {
	images := &fakeImageGenerator{}
	svc, _ := newIngestFixture(t, images)

	_, err := svc.Ingest(context.Background(), NewsPayload{Title: "T", Link: "ftp://x", Content: "c", Date: "d"})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "link" {
		t.Fatalf("expected link validation error, got %v", err)
	}
	if images.calls() != 0 {
		t.Fatalf("validation must happen before generation")
	}

	if got := svc.cleanContent("<p>Tom &amp; Jerry <script>x()</script>run</p>"); got != "Tom & Jerry run" {
		t.Fatalf("unexpected cleaned content %q", got)
	}
}

func TestNewsPayloadIsNews(t *testing.T) {
	if (NewsPayload{Title: "t", Link: "l", Content: "c"}).IsNews() {
		t.Fatalf("payload without date is not news")
	}
	if !(NewsPayload{Title: "t", Link: "l", Content: "c", Date: "d"}).IsNews() {
		t.Fatalf("complete payload is news")
	}
}
