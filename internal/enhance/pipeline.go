package enhance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrFeaturedImage wraps a failure of the mandatory featured-image call.
var ErrFeaturedImage = errors.New("featured image generation failed")

// ImageSource generates one image for a prompt and returns its URL.
type ImageSource interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSourceFunc adapts a plain function to ImageSource.
type ImageSourceFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f ImageSourceFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Input is the external news payload.
type Input struct {
	Title   string
	Link    string
	Content string
	Date    string
}

// Result is everything the caller needs to persist the post.
type Result struct {
	Content       string
	Excerpt       string
	FeaturedImage string
	Images        []string
	Stats         Stats
	Budget        int
}

// Pipeline runs the enhancement steps against an image source.
type Pipeline struct {
	images ImageSource
}

// NewPipeline creates a Pipeline.
func NewPipeline(images ImageSource) *Pipeline {
	return &Pipeline{images: images}
}

// Run measures the content, requests the featured image and up to four
// supplementary images one at a time, rebuilds the text into the fixed
// skeleton, interleaves images and derives the excerpt from the raw content.
// A failed supplementary image is logged and dropped; a failed featured image
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, in Input) (Result, error) {
	stats := Analyze(in.Content)
	budget := Budget(stats)
	log.Printf("[INGEST] content analysis: %d words, %d paragraphs, %d images needed", stats.Words, stats.Paragraphs, budget)

	featured, err := p.images.Generate(ctx, FeaturedPrompt(in.Title))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrFeaturedImage, err)
	}
	featured = strings.TrimSpace(featured)
	if featured == "" {
		return Result{}, fmt.Errorf("%w: empty url", ErrFeaturedImage)
	}

	images := make([]string, 0, budget)
	for i, prompt := range SupplementaryPrompts(in.Title, budget) {
		url, err := p.images.Generate(ctx, prompt)
		if err != nil {
			log.Printf("[INGEST] supplementary image %d/%d skipped: %v", i+1, budget, err)
			continue
		}
		if url = strings.TrimSpace(url); url == "" {
			log.Printf("[INGEST] supplementary image %d/%d skipped: empty url", i+1, budget)
			continue
		}
		images = append(images, url)
	}

	doc := BuildDocument(ExtractSource(in.Content), in.Title, in.Link)
	Interleave(doc, in.Title, images)

	return Result{
		Content:       WithFeaturedImage(doc.Markdown(), in.Title, featured),
		Excerpt:       Excerpt(in.Content),
		FeaturedImage: featured,
		Images:        images,
		Stats:         stats,
		Budget:        budget,
	}, nil
}
