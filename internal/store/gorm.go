package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements PostStore on top of gorm (SQLite by default).
type GormStore struct {
	conn *db.Connector[*gorm.DB]
}

// NewGormStore wraps a connector; the connection is opened lazily.
func NewGormStore(conn *db.Connector[*gorm.DB]) *GormStore {
	return &GormStore{conn: conn}
}

func (s *GormStore) session(ctx context.Context) (*gorm.DB, error) {
	gdb, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return gdb.WithContext(ctx), nil
}

// Create inserts the post and its ordered tags in a transaction.
func (s *GormStore) Create(ctx context.Context, post *db.Post) error {
	gdb, err := s.session(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(post.ID) == "" {
		post.ID = uuid.NewString()
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return replaceTags(tx, post.ID, post.Tags)
	})
	return translateGormError(err)
}

// Update replaces every column of an existing post, including a nil PublishedAt.
func (s *GormStore) Update(ctx context.Context, post *db.Post) error {
	gdb, err := s.session(ctx)
	if err != nil {
		return err
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		return replaceTags(tx, post.ID, post.Tags)
	})
	return translateGormError(err)
}

// Delete removes a post and its tags.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	gdb, err := s.session(ctx)
	if err != nil {
		return err
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&db.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&db.PostTag{}).Error
	})
}

// FindByID fetches a post by id with tags preloaded.
func (s *GormStore) FindByID(ctx context.Context, id string) (*db.Post, error) {
	return s.findOne(ctx, "posts.id = ?", id)
}

// FindBySlug fetches a post by slug regardless of publish state.
func (s *GormStore) FindBySlug(ctx context.Context, slug string) (*db.Post, error) {
	return s.findOne(ctx, "posts.slug = ?", slug)
}

func (s *GormStore) findOne(ctx context.Context, query string, arg any) (*db.Post, error) {
	gdb, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var post db.Post
	if err := preloadTags(gdb).Where(query, arg).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post.PopulateDerivedFields()
	return &post, nil
}

// List returns posts matching the filter.
func (s *GormStore) List(ctx context.Context, filter Filter) ([]db.Post, error) {
	gdb, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	query := applyGormFilters(gdb, preloadTags(gdb).Model(&db.Post{}), filter)
	switch filter.Sort {
	case SortCreatedDesc:
		query = query.Order("posts.created_at desc")
	default:
		query = query.Order("posts.published_at desc").Order("posts.created_at desc")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].PopulateDerivedFields()
	}
	return posts, nil
}

// Count returns the number of posts matching the filter.
func (s *GormStore) Count(ctx context.Context, filter Filter) (int64, error) {
	gdb, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := applyGormFilters(gdb, gdb.Model(&db.Post{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctTags returns the sorted set of tags used by matching posts.
func (s *GormStore) DistinctTags(ctx context.Context, filter Filter) ([]string, error) {
	gdb, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	postIDs := applyGormFilters(gdb, gdb.Model(&db.Post{}).Select("posts.id"), filter)

	var tags []string
	if err := gdb.Model(&db.PostTag{}).
		Where("post_id IN (?)", postIDs).
		Distinct().
		Order("name asc").
		Pluck("name", &tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// DistinctAuthors returns the sorted set of authors of matching posts.
func (s *GormStore) DistinctAuthors(ctx context.Context, filter Filter) ([]string, error) {
	gdb, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var authors []string
	if err := applyGormFilters(gdb, gdb.Model(&db.Post{}), filter).
		Distinct().
		Order("author asc").
		Pluck("author", &authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// Close releases the shared connection.
func (s *GormStore) Close(ctx context.Context) error {
	return s.conn.Release(ctx)
}

func preloadTags(gdb *gorm.DB) *gorm.DB {
	return gdb.Preload("TagList", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	})
}

func applyGormFilters(gdb *gorm.DB, query *gorm.DB, filter Filter) *gorm.DB {
	if filter.Published != nil {
		query = query.Where("posts.is_published = ?", *filter.Published)
	}

	if author := strings.TrimSpace(filter.Author); author != "" {
		query = query.Where("posts.author = ?", author)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?)", like, like, like)
	}

	if tags := db.NormalizeTags(filter.Tags); len(tags) > 0 {
		subQuery := gdb.Model(&db.PostTag{}).
			Select("post_tags.post_id").
			Where("post_tags.name IN ?", tags)
		query = query.Where("posts.id IN (?)", subQuery)
	}

	return query
}

func replaceTags(tx *gorm.DB, postID string, tags []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&db.PostTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	records := make([]db.PostTag, len(tags))
	for i, tag := range tags {
		records[i] = db.PostTag{PostID: postID, Name: tag, Position: i}
	}
	return tx.Create(&records).Error
}

func translateGormError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateSlug
	}
	return err
}
