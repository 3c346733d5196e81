package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio/internal/service"
	"github.com/spf13/cobra"
)

// seedCmd 写入几篇示例文章，方便本地开发
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample posts for local development",
	Long: `Insert a handful of sample posts. Posts whose slug already exists are
skipped, so running the command twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		created, skipped, err := seedPosts(cmd.Context(), a.posts, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts, skipped %d existing\n", created, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type samplePost struct {
	title     string
	tags      []string
	published bool
	age       time.Duration
	body      []string
}

var samplePosts = []samplePost{
	{
		title:     "Building a Portfolio with Go",
		tags:      []string{"Go", "Web"},
		published: true,
		age:       72 * time.Hour,
		body: []string{
			"## Why Go",
			"A single static binary, a fast standard HTTP stack and a small dependency graph make Go a comfortable choice for a personal site.",
			"## Layout",
			"Handlers stay thin; services own validation and slug rules; stores hide whether posts live in SQLite or MongoDB.",
		},
	},
	{
		title:     "Notes on Markdown Rendering",
		tags:      []string{"Markdown", "Security"},
		published: true,
		age:       48 * time.Hour,
		body: []string{
			"## Rendering",
			"Posts are stored as Markdown and rendered on read, then sanitised so that stray HTML in a post can never reach the page.",
			"## Images",
			"Images are plain Markdown references, which keeps generated illustrations portable across storage backends.",
		},
	},
	{
		title:     "Automating News Posts",
		tags:      []string{"AI", "Automation"},
		published: true,
		age:       24 * time.Hour,
		body: []string{
			"## Pipeline",
			"An incoming article is measured, illustrated with a featured image and a few supplementary ones, and rebuilt into a fixed outline.",
			"## Safety",
			"Duplicate titles are rejected before any image is generated, so a retry never publishes the same story twice.",
		},
	},
	{
		title: "Draft: Next Steps",
		tags:  []string{"Planning"},
		age:   time.Hour,
		body: []string{
			"## Ideas",
			"Search across posts, an RSS feed and better image captions are all on the list; this draft collects rough notes for later.",
		},
	},
}

// seedPosts 逐篇创建示例文章，slug 已存在时跳过
func seedPosts(ctx context.Context, posts *service.PostService, now time.Time) (created, skipped int, err error) {
	for i, sample := range samplePosts {
		content := strings.Join(sample.body, "\n\n")
		input := service.PostInput{
			Title:         sample.title,
			Content:       content,
			Excerpt:       sample.body[1],
			FeaturedImage: fmt.Sprintf("https://picsum.photos/seed/portfolio-%d/1200/800", i+1),
			Tags:          sample.tags,
			IsPublished:   sample.published,
		}
		if sample.published {
			publishedAt := now.Add(-sample.age)
			input.PublishedAt = &publishedAt
		}

		if _, err := posts.Create(ctx, input); err != nil {
			if errors.Is(err, service.ErrDuplicateSlug) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("seed %q: %w", sample.title, err)
		}
		created++
	}
	return created, skipped, nil
}
