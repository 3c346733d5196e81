package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/portfolio/internal/service"
	"github.com/spf13/cobra"
)

var ingestFile string

// ingestCmd 从文件读取一条新闻数据并走完整的增强与发布流程
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest one news payload from a JSON file",
	Long: `Read a JSON document {title, link, content, date} and run it through the
same enhancement pipeline as POST /ingest, publishing the resulting post.

Examples:
  portfolio ingest --file news.json
  portfolio ingest -f -              # read from stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), cmd)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to the JSON payload (- for stdin)")
	_ = ingestCmd.MarkFlagRequired("file")
}

func runIngest(ctx context.Context, cmd *cobra.Command) error {
	raw, err := readPayload(ingestFile)
	if err != nil {
		return err
	}

	var payload service.NewsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	post, err := a.ingest.Ingest(ctx, payload)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(post)
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return raw, nil
}
