package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/store"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio blog service",
	Long: `Portfolio blog service with an admin API and a news ingestion endpoint.

Commands:
  serve     Run the HTTP server
  ingest    Ingest one news payload from a JSON file
  publish   Publish or unpublish a post by slug`,
	SilenceUsage: true,
}

// app 汇总各命令共用的存储与服务。
type app struct {
	cfg       config.AppConfig
	store     store.PostStore
	posts     *service.PostService
	images    *service.IdeogramClient
	optimizer *service.ContentOptimizerService
	ingest    *service.IngestService
}

// newApp 加载配置并初始化存储；数据库配置缺失时直接返回错误。
func newApp() (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := store.New(store.Config{
		Driver:        cfg.StorageDriver,
		SQLitePath:    cfg.DatabaseURL,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		return nil, err
	}

	posts := service.NewPostService(s, cfg.SiteAuthor)
	images := service.NewIdeogramClient(cfg.IdeogramAPIKey, cfg.IdeogramBaseURL, cfg.IsDevelopment(), cfg.GenerationTimeout)
	optimizer := service.NewContentOptimizerService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.GenerationTimeout)

	return &app{
		cfg:       cfg,
		store:     s,
		posts:     posts,
		images:    images,
		optimizer: optimizer,
		ingest:    service.NewIngestService(posts, images, cfg.SiteAuthor),
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		log.Printf("[DB] close failed: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
