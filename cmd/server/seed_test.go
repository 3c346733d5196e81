package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/store"
)

func TestSeedPostsIsIdempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	s := store.NewGormStore(db.NewSQLiteConnector(dsn))
	defer s.Close(context.Background())

	posts := service.NewPostService(s, "Author")
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	created, skipped, err := seedPosts(ctx, posts, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != len(samplePosts) || skipped != 0 {
		t.Fatalf("expected %d created, got %d created %d skipped", len(samplePosts), created, skipped)
	}

	published, err := posts.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 3 {
		t.Fatalf("expected 3 published samples, got %d", len(published))
	}
	if published[0].Slug != "automating-news-posts" {
		t.Fatalf("expected newest sample first, got %q", published[0].Slug)
	}
	if !published[0].PublishedAt.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected publishedAt %v", published[0].PublishedAt)
	}

	created, skipped, err = seedPosts(ctx, posts, now)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if created != 0 || skipped != len(samplePosts) {
		t.Fatalf("expected all samples skipped, got %d created %d skipped", created, skipped)
	}
}
