package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/store"
)

// postRequest 是后台创建/更新文章的请求体。
type postRequest struct {
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Content           string     `json:"content"`
	Excerpt           string     `json:"excerpt"`
	FeaturedImage     string     `json:"featuredImage"`
	GeneratedImageURL string     `json:"generatedImageUrl"`
	Tags              []string   `json:"tags"`
	Author            string     `json:"author"`
	IsPublished       bool       `json:"isPublished"`
	PublishedAt       *time.Time `json:"publishedAt"`
	SourceURL         string     `json:"sourceUrl"`
	OriginalDate      string     `json:"originalDate"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{
		Title:             r.Title,
		Slug:              r.Slug,
		Content:           r.Content,
		Excerpt:           r.Excerpt,
		FeaturedImage:     r.FeaturedImage,
		GeneratedImageURL: r.GeneratedImageURL,
		Tags:              r.Tags,
		Author:            r.Author,
		IsPublished:       r.IsPublished,
		PublishedAt:       r.PublishedAt,
		SourceURL:         r.SourceURL,
		OriginalDate:      r.OriginalDate,
	}
}

// ListPosts 获取后台文章列表，可按 ?published= 过滤，按创建时间倒序
func (a *API) ListPosts(c *gin.Context) {
	published, ok := parseOptionalBool(c.Query("published"))
	if !ok {
		respondError(c, http.StatusBadRequest, "published must be true or false")
		return
	}

	posts, err := a.posts.List(c.Request.Context(), store.Filter{Published: published, Sort: store.SortCreatedDesc})
	if err != nil {
		respondServiceError(c, "list posts", err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost 获取单篇文章，草稿同样可见
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, "get post", err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "Invalid post payload") {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, "create post", err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "Invalid post payload") {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, "update post", err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	if err := a.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, "delete post", err, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// PublishPost 发布文章
func (a *API) PublishPost(c *gin.Context) {
	a.togglePublish(c, true)
}

// UnpublishPost 撤回文章，publishedAt 同时清空
func (a *API) UnpublishPost(c *gin.Context) {
	a.togglePublish(c, false)
}

func (a *API) togglePublish(c *gin.Context, published bool) {
	post, err := a.posts.SetPublished(c.Request.Context(), c.Param("id"), published)
	if err != nil {
		respondServiceError(c, "toggle publish", err, "Failed to update post")
		return
	}

	message := "Post published successfully"
	if !published {
		message = "Post unpublished successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "post": post})
}

type debugPostSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func summarizePosts(posts []db.Post) []debugPostSummary {
	summaries := make([]debugPostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, debugPostSummary{
			ID:          post.ID,
			Title:       post.Title,
			Slug:        post.Slug,
			IsPublished: post.IsPublished,
			PublishedAt: post.PublishedAt,
			CreatedAt:   post.CreatedAt,
		})
	}
	return summaries
}

// DebugPosts 对比全部文章与已发布文章，排查"文章不显示"一类问题
func (a *API) DebugPosts(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := a.posts.List(ctx, store.Filter{Sort: store.SortCreatedDesc})
	if err != nil {
		respondServiceError(c, "debug posts", err, "Failed to fetch posts")
		return
	}
	published, err := a.posts.ListPublished(ctx)
	if err != nil {
		respondServiceError(c, "debug posts", err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"totalPosts":         len(all),
		"publishedPosts":     len(published),
		"allPosts":           summarizePosts(all),
		"publishedPostsData": summarizePosts(published),
	})
}
