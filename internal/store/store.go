package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/portfolio/internal/db"
)

const (
	// DriverSQLite stores posts in SQLite through gorm.
	DriverSQLite = "sqlite"
	// DriverMongo stores posts in a MongoDB collection.
	DriverMongo = "mongodb"
)

var (
	// ErrNotFound is returned when no post matches the lookup.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateSlug is returned when a write would violate slug uniqueness.
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

// SortOrder selects the ordering of list queries.
type SortOrder string

const (
	SortPublishedDesc SortOrder = "published_desc"
	SortCreatedDesc   SortOrder = "created_desc"
)

// Filter describes list/count/distinct query parameters.
type Filter struct {
	Published *bool
	Tags      []string
	Author    string
	Search    string
	Sort      SortOrder
	Limit     int
	Offset    int
}

// Published returns a filter restricted to published posts.
func Published() Filter {
	published := true
	return Filter{Published: &published, Sort: SortPublishedDesc}
}

// PostStore defines persistence operations for posts.
type PostStore interface {
	Create(ctx context.Context, post *db.Post) error
	Update(ctx context.Context, post *db.Post) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*db.Post, error)
	FindBySlug(ctx context.Context, slug string) (*db.Post, error)
	List(ctx context.Context, filter Filter) ([]db.Post, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	DistinctTags(ctx context.Context, filter Filter) ([]string, error)
	DistinctAuthors(ctx context.Context, filter Filter) ([]string, error)
	Close(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// New creates a new store based on configuration.
func New(cfg Config) (PostStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		return NewGormStore(db.NewSQLiteConnector(cfg.SQLitePath)), nil
	case DriverMongo, "mongo":
		return NewMongoStore(db.NewMongoConnector(cfg.MongoURI), cfg.MongoDatabase), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
