package router

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio/internal/handler"
)

const requestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配 ID；客户端已携带时沿用。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handler.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, gate *handler.AdminGate, sessionSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(RequestID())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("portfolio_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 公开路由
	r.GET("/posts", api.ListPublishedPosts)
	r.GET("/posts/:slug", api.GetPublishedPost)
	r.GET("/ingest", api.IngestInfo)
	r.POST("/ingest", api.Ingest)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", gate.Login)
		admin.POST("/logout", gate.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(gate.AuthRequired())
		{
			auth.GET("/posts", api.ListPosts)
			auth.POST("/posts", api.CreatePost)
			auth.GET("/posts/:id", api.GetPost)
			auth.PUT("/posts/:id", api.UpdatePost)
			auth.DELETE("/posts/:id", api.DeletePost)
			auth.POST("/posts/:id/publish", api.PublishPost)
			auth.POST("/posts/:id/unpublish", api.UnpublishPost)
			auth.GET("/debug/posts", api.DebugPosts)

			auth.POST("/generate-image", api.GenerateImage)
			auth.POST("/optimize-content", api.OptimizeContent)
		}
	}

	return r
}
