package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/store"
)

const (
	defaultActionLimit = 10
	recentPostsLimit   = 5
)

var ingestActions = []string{
	"get_blogs",
	"get_blog_count",
	"get_tags",
	"get_authors",
	"get_recent_blogs",
}

// ingestRequest 兼容两种请求：新闻数据 {title, link, content, date}
// 以及带 action 的查询协议。
type ingestRequest struct {
	service.NewsPayload
	Action  string        `json:"action"`
	Filters ingestFilters `json:"filters"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

type ingestFilters struct {
	Tags   []string `json:"tags"`
	Author string   `json:"author"`
	Search string   `json:"search"`
}

type ingestedPost struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Excerpt           string     `json:"excerpt"`
	FeaturedImage     string     `json:"featuredImage"`
	GeneratedImageURL string     `json:"generatedImageUrl"`
	Tags              []string   `json:"tags"`
	Author            string     `json:"author"`
	PublishedAt       *time.Time `json:"publishedAt"`
	IsPublished       bool       `json:"isPublished"`
	SourceURL         string     `json:"sourceUrl"`
}

type recentPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage"`
	Author        string     `json:"author"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// IngestInfo 描述 /ingest 支持的 action。
func (a *API) IngestInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":           "Data API endpoint",
		"available_actions": ingestActions,
		"usage":             `Send POST request with { action: "action_name", filters: {}, limit: 10, offset: 0 }`,
		"example": gin.H{
			"action":  "get_blogs",
			"filters": gin.H{"tags": []string{"technology"}, "search": "web"},
			"limit":   5,
			"offset":  0,
		},
	})
}

// Ingest 接收外部推送：新闻数据走增强流水线并直接发布，action 请求走查询协议，其余原样回显。
func (a *API) Ingest(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Could not read request body")
		return
	}

	var received map[string]any
	if err := json.Unmarshal(raw, &received); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON payload", "details": err.Error()})
		return
	}
	var req ingestRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload", "details": err.Error(), "receivedData": received})
		return
	}

	switch {
	case req.IsNews():
		a.ingestNews(c, req.NewsPayload, received)
	case strings.TrimSpace(req.Action) != "":
		a.handleAction(c, req, received)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "Data received successfully",
			"receivedData": received,
			"timestamp":    timestamp(),
		})
	}
}

func (a *API) ingestNews(c *gin.Context, payload service.NewsPayload, received map[string]any) {
	log.Printf("[INGEST] news payload received (request %s): %q", requestID(c), payload.Title)

	post, err := a.ingest.Ingest(c.Request.Context(), payload)
	if err != nil {
		var validation *service.ValidationError
		switch {
		case errors.Is(err, service.ErrDuplicateSlug):
			c.JSON(http.StatusConflict, gin.H{
				"success":      false,
				"error":        "Post with this title already exists",
				"slug":         service.SlugFor(payload.Title),
				"receivedData": received,
			})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{
				"success":      false,
				"error":        validation.Error(),
				"receivedData": received,
			})
		default:
			log.Printf("[INGEST] failed (request %s): %v", requestID(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":      false,
				"error":        "Failed to create post from news data",
				"details":      err.Error(),
				"receivedData": received,
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created and published successfully",
		"post": ingestedPost{
			ID:                post.ID,
			Title:             post.Title,
			Slug:              post.Slug,
			Excerpt:           post.Excerpt,
			FeaturedImage:     post.FeaturedImage,
			GeneratedImageURL: post.GeneratedImageURL,
			Tags:              post.Tags,
			Author:            post.Author,
			PublishedAt:       post.PublishedAt,
			IsPublished:       post.IsPublished,
			SourceURL:         post.SourceURL,
		},
		"receivedData": received,
		"timestamp":    timestamp(),
	})
}

func (a *API) handleAction(c *gin.Context, req ingestRequest, received map[string]any) {
	ctx := c.Request.Context()
	action := strings.TrimSpace(req.Action)

	var data any
	var err error
	switch action {
	case "get_blogs":
		filter := store.Published()
		filter.Tags = req.Filters.Tags
		filter.Author = strings.TrimSpace(req.Filters.Author)
		filter.Search = strings.TrimSpace(req.Filters.Search)
		filter.Limit = req.Limit
		if filter.Limit <= 0 {
			filter.Limit = defaultActionLimit
		}
		if req.Offset > 0 {
			filter.Offset = req.Offset
		}
		data, err = a.posts.List(ctx, filter)
	case "get_blog_count":
		var count int64
		count, err = a.posts.Count(ctx, store.Published())
		data = gin.H{"count": count}
	case "get_tags":
		var tags []string
		tags, err = a.posts.Tags(ctx, store.Published())
		data = gin.H{"tags": tags}
	case "get_authors":
		var authors []string
		authors, err = a.posts.Authors(ctx, store.Published())
		data = gin.H{"authors": authors}
	case "get_recent_blogs":
		var posts []db.Post
		posts, err = a.posts.Recent(ctx, recentPostsLimit)
		data = recentPosts(posts)
	default:
		data = received
	}
	if err != nil {
		log.Printf("[INGEST] action %s failed (request %s): %v", action, requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        "Failed to process request",
			"details":      err.Error(),
			"receivedData": received,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         data,
		"action":       req.Action,
		"receivedData": received,
		"timestamp":    timestamp(),
	})
}

func recentPosts(posts []db.Post) []recentPost {
	result := make([]recentPost, 0, len(posts))
	for _, post := range posts {
		result = append(result, recentPost{
			ID:            post.ID,
			Title:         post.Title,
			Slug:          post.Slug,
			Excerpt:       post.Excerpt,
			FeaturedImage: post.FeaturedImage,
			Author:        post.Author,
			PublishedAt:   post.PublishedAt,
		})
	}
	return result
}
