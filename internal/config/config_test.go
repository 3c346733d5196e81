package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "APP_ENV", "STORAGE_DRIVER", "DATABASE_URL", "OPENAI_MODEL", "GENERATION_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.StorageDriver != "sqlite" || cfg.DatabaseURL != "portfolio.db" {
		t.Fatalf("unexpected storage defaults: %q %q", cfg.StorageDriver, cfg.DatabaseURL)
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model default: %q", cfg.OpenAIModel)
	}
	if cfg.GenerationTimeout != 90*time.Second {
		t.Fatalf("unexpected timeout default: %v", cfg.GenerationTimeout)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("default environment must not be development")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("GENERATION_TIMEOUT", "5s")

	cfg := Load()
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen addr derived from port, got %q", cfg.ListenAddr)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development mode")
	}
	if cfg.GenerationTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.GenerationTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{name: "sqlite ok", cfg: AppConfig{StorageDriver: "sqlite", DatabaseURL: "data/blog.db"}},
		{name: "sqlite missing path", cfg: AppConfig{StorageDriver: "sqlite"}, wantErr: true},
		{name: "mongo ok", cfg: AppConfig{StorageDriver: "mongodb", MongoURI: "mongodb://localhost:27017"}},
		{name: "mongo missing uri", cfg: AppConfig{StorageDriver: "mongodb"}, wantErr: true},
		{name: "unknown driver", cfg: AppConfig{StorageDriver: "postgres", DatabaseURL: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
