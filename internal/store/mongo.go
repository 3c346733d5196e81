package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/portfolio/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollectionName = "blogs"

// mongoPost is the document shape stored in the blogs collection.
type mongoPost struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Title             string             `bson:"title"`
	Slug              string             `bson:"slug"`
	Content           string             `bson:"content"`
	Excerpt           string             `bson:"excerpt"`
	FeaturedImage     string             `bson:"featuredImage"`
	GeneratedImageURL string             `bson:"generatedImageUrl,omitempty"`
	Tags              []string           `bson:"tags"`
	Author            string             `bson:"author"`
	PublishedAt       *time.Time         `bson:"publishedAt"`
	IsPublished       bool               `bson:"isPublished"`
	SourceURL         string             `bson:"sourceUrl,omitempty"`
	OriginalDate      string             `bson:"originalDate,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// MongoStore implements PostStore on a MongoDB collection.
type MongoStore struct {
	conn     *db.Connector[*mongo.Client]
	database string

	mu      sync.Mutex
	indexed *mongo.Client
}

// NewMongoStore wraps a connector; indexes are created on first use.
func NewMongoStore(conn *db.Connector[*mongo.Client], database string) *MongoStore {
	database = strings.TrimSpace(database)
	if database == "" {
		database = db.DefaultMongoDatabase
	}
	return &MongoStore{conn: conn, database: database}
}

func (s *MongoStore) collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	coll := client.Database(s.database).Collection(mongoCollectionName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed != client {
		if err := ensureMongoIndexes(ctx, coll); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		s.indexed = client
	}
	return coll, nil
}

func ensureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "isPublished", Value: 1}, {Key: "publishedAt", Value: -1}},
			Options: options.Index().SetName("published_recent"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags"),
		},
	})
	return err
}

// Create inserts the post and assigns its generated id.
func (s *MongoStore) Create(ctx context.Context, post *db.Post) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	doc := toMongoPost(post)
	doc.ID = primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	post.ID = doc.ID.Hex()
	return nil
}

// Update replaces the stored document; a nil PublishedAt is written as null.
func (s *MongoStore) Update(ctx context.Context, post *db.Post) error {
	objectID, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return ErrNotFound
	}
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	post.UpdatedAt = time.Now().UTC()
	doc := toMongoPost(post)
	doc.ID = objectID

	result, err := coll.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post by id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID fetches a post by its hex object id.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*db.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": objectID})
}

// FindBySlug fetches a post by slug regardless of publish state.
func (s *MongoStore) FindBySlug(ctx context.Context, slug string) (*db.Post, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*db.Post, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	var doc mongoPost
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromMongoPost(doc), nil
}

// List returns posts matching the filter.
func (s *MongoStore) List(ctx context.Context, filter Filter) ([]db.Post, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	switch filter.Sort {
	case SortCreatedDesc:
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}})
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]db.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, *fromMongoPost(doc))
	}
	return posts, nil
}

// Count returns the number of posts matching the filter.
func (s *MongoStore) Count(ctx context.Context, filter Filter) (int64, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, mongoFilter(filter))
}

// DistinctTags returns the sorted set of tags used by matching posts.
func (s *MongoStore) DistinctTags(ctx context.Context, filter Filter) ([]string, error) {
	return s.distinct(ctx, "tags", filter)
}

// DistinctAuthors returns the sorted set of authors of matching posts.
func (s *MongoStore) DistinctAuthors(ctx context.Context, filter Filter) ([]string, error) {
	return s.distinct(ctx, "author", filter)
}

func (s *MongoStore) distinct(ctx context.Context, field string, filter Filter) ([]string, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	values, err := coll.Distinct(ctx, field, mongoFilter(filter))
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(values))
	for _, value := range values {
		if str, ok := value.(string); ok && str != "" {
			result = append(result, str)
		}
	}
	sort.Strings(result)
	return result, nil
}

// Close disconnects the shared client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.conn.Release(ctx)
}

func mongoFilter(filter Filter) bson.M {
	query := bson.M{}
	if filter.Published != nil {
		query["isPublished"] = *filter.Published
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		query["author"] = author
	}
	if tags := db.NormalizeTags(filter.Tags); len(tags) > 0 {
		query["tags"] = bson.M{"$in": tags}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"excerpt": pattern},
		}
	}
	return query
}

func toMongoPost(post *db.Post) mongoPost {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return mongoPost{
		Title:             post.Title,
		Slug:              post.Slug,
		Content:           post.Content,
		Excerpt:           post.Excerpt,
		FeaturedImage:     post.FeaturedImage,
		GeneratedImageURL: post.GeneratedImageURL,
		Tags:              tags,
		Author:            post.Author,
		PublishedAt:       post.PublishedAt,
		IsPublished:       post.IsPublished,
		SourceURL:         post.SourceURL,
		OriginalDate:      post.OriginalDate,
		CreatedAt:         post.CreatedAt,
		UpdatedAt:         post.UpdatedAt,
	}
}

func fromMongoPost(doc mongoPost) *db.Post {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return &db.Post{
		ID:                doc.ID.Hex(),
		Title:             doc.Title,
		Slug:              doc.Slug,
		Content:           doc.Content,
		Excerpt:           doc.Excerpt,
		FeaturedImage:     doc.FeaturedImage,
		GeneratedImageURL: doc.GeneratedImageURL,
		Tags:              tags,
		Author:            doc.Author,
		PublishedAt:       doc.PublishedAt,
		IsPublished:       doc.IsPublished,
		SourceURL:         doc.SourceURL,
		OriginalDate:      doc.OriginalDate,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}
