package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

// RequestIDKey 是请求 ID 在 gin.Context 中的键，由路由层的中间件写入。
const RequestIDKey = "requestID"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts     *service.PostService
	ingest    *service.IngestService
	optimizer service.ContentOptimizer
	images    service.ImageGenerator
}

// NewAPI constructs a handler set with shared services.
func NewAPI(posts *service.PostService, ingest *service.IngestService, optimizer service.ContentOptimizer, images service.ImageGenerator) *API {
	return &API{
		posts:     posts,
		ingest:    ingest,
		optimizer: optimizer,
		images:    images,
	}
}

func requestID(c *gin.Context) string {
	if value, ok := c.Get(RequestIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return "-"
}
