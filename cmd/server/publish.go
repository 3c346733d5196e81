package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var unpublish bool

// publishCmd 按 slug 切换文章的发布状态
var publishCmd = &cobra.Command{
	Use:   "publish <slug>",
	Short: "Publish or unpublish a post by slug",
	Long: `Toggle the publish state of a post. Publishing a draft stamps publishedAt
with the current time; unpublishing clears it.

Examples:
  portfolio publish my-first-post
  portfolio publish my-first-post --unpublish`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd.Context(), cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().BoolVar(&unpublish, "unpublish", false, "Unpublish instead of publish")
}

func runPublish(ctx context.Context, cmd *cobra.Command, slug string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	post, err := a.posts.SetPublishedBySlug(ctx, slug, !unpublish)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", slug, err)
	}

	state := "published"
	if !post.IsPublished {
		state = "unpublished"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", post.Slug, state)
	return nil
}
