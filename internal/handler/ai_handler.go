package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

type generateImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
}

type optimizeContentRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// GenerateImage 调用图片服务生成一张配图，开发环境未配置密钥时返回占位图。
func (a *API) GenerateImage(c *gin.Context) {
	var req generateImageRequest
	if !bindJSON(c, &req, "Invalid request payload") {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	result, err := a.images.GenerateImage(c.Request.Context(), service.ImageRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		respondServiceError(c, "generate image", err, "Failed to generate image")
		return
	}

	body := gin.H{"imageUrl": result.URL}
	if result.Mock {
		body["note"] = result.Note
	}
	c.JSON(http.StatusOK, body)
}

// OptimizeContent 按 type（general/technical/seo）改写文章内容。
func (a *API) OptimizeContent(c *gin.Context) {
	var req optimizeContentRequest
	if !bindJSON(c, &req, "Invalid request payload") {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	result, err := a.optimizer.OptimizeContent(c.Request.Context(), service.ContentOptimizationInput{
		Content: req.Content,
		Style:   service.ParseOptimizationStyle(req.Type),
	})
	if err != nil {
		respondServiceError(c, "optimize content", err, "Failed to optimize content")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"optimizedContent": result.Content,
		"originalLength":   result.OriginalLength,
		"optimizedLength":  result.OptimizedLength,
	})
}
