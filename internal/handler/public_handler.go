package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/store"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// publicPostView 在文章字段之外附带渲染好的 HTML。
type publicPostView struct {
	*db.Post
	ContentHTML string `json:"contentHtml"`
}

// ListPublishedPosts 返回已发布文章，支持 tags/author/search/limit/offset 查询参数。
func (a *API) ListPublishedPosts(c *gin.Context) {
	filter := store.Published()
	filter.Tags = splitTags(c.QueryArray("tags"))
	filter.Author = strings.TrimSpace(c.Query("author"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Limit = parseNonNegativeInt(c.Query("limit"), 0)
	filter.Offset = parseNonNegativeInt(c.Query("offset"), 0)

	posts, err := a.posts.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, "list published posts", err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPublishedPost 按 slug 返回单篇已发布文章，草稿一律视为不存在。
func (a *API) GetPublishedPost(c *gin.Context) {
	post, err := a.posts.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, "get post by slug", err, "Failed to fetch post")
		return
	}

	rendered, err := renderMarkdown(post.Content)
	if err != nil {
		respondServiceError(c, "render post", err, "Failed to render post")
		return
	}

	c.JSON(http.StatusOK, publicPostView{Post: post, ContentHTML: rendered})
}

// renderMarkdown 将 Markdown 渲染为经过 UGC 策略清洗的 HTML。
func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}
