package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment 开发环境，允许图片生成走 mock。
	EnvDevelopment = "development"
	// DefaultAuthor 未指定作者时使用的默认身份。
	DefaultAuthor = "Kavitha Kanchana"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	AppEnv        string
	GinMode       string
	SessionSecret string
	AdminPassword string
	SiteBaseURL   string
	SiteAuthor    string

	StorageDriver string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	IdeogramAPIKey  string
	IdeogramBaseURL string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string

	GenerationTimeout time.Duration
}

// Load 先尝试读取 .env，再从环境变量读取应用配置，并为缺失项提供默认值。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] failed to load .env: %v", err)
	}

	port := getEnv("PORT", "8080")

	return AppConfig{
		ListenAddr:    getEnv("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:          port,
		AppEnv:        strings.ToLower(getEnv("APP_ENV", "production")),
		GinMode:       getEnv("GIN_MODE", "release"),
		SessionSecret: getEnv("SESSION_SECRET", "portfolio-dev-secret"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SiteBaseURL:   getEnv("SITE_BASE_URL", "https://kavithakanchana.me"),
		SiteAuthor:    getEnv("SITE_AUTHOR", DefaultAuthor),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		DatabaseURL:   getEnv("DATABASE_URL", "portfolio.db"),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "portfolio"),

		IdeogramAPIKey:  getEnv("IDEOGRAM_API_KEY", ""),
		IdeogramBaseURL: getEnv("IDEOGRAM_BASE_URL", "https://api.ideogram.ai"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 90*time.Second),
	}
}

// Validate 校验启动所必需的配置；数据库连接串缺失视为致命错误。
func (c AppConfig) Validate() error {
	switch c.StorageDriver {
	case "", "sqlite":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the sqlite storage driver")
		}
	case "mongodb", "mongo":
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGODB_URI is required for the mongodb storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// IsDevelopment 报告当前是否运行在开发环境。
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
