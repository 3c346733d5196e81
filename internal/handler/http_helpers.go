package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// errorStatus 把服务层错误映射为 HTTP 状态码与对外的错误信息。
// 只有调用方无法自行修正的错误才附带 details。
func errorStatus(err error, fallback string) (status int, message string, details bool) {
	var validation *service.ValidationError
	var generation *service.GenerationError
	var configuration *service.ConfigurationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error(), false
	case errors.Is(err, service.ErrDuplicateSlug):
		return http.StatusConflict, "A post with this slug already exists", false
	case errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound, "Post not found", false
	case errors.As(err, &configuration):
		return http.StatusInternalServerError, configuration.Error(), true
	case errors.As(err, &generation):
		if generation.StatusCode >= 400 && generation.StatusCode < 600 {
			return generation.StatusCode, fallback, true
		}
		return http.StatusInternalServerError, fallback, true
	default:
		return http.StatusInternalServerError, fallback, true
	}
}

// respondServiceError 记录带请求 ID 的错误日志，并返回 {error, details}。
func respondServiceError(c *gin.Context, op string, err error, fallback string) {
	status, message, withDetails := errorStatus(err, fallback)
	log.Printf("[HTTP] %s failed (request %s): %v", op, requestID(c), err)

	body := gin.H{"error": message}
	if withDetails {
		body["details"] = err.Error()
	}
	c.JSON(status, body)
}

func parseOptionalBool(raw string) (*bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func parseNonNegativeInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// splitTags 同时支持重复参数与逗号分隔两种写法。
func splitTags(values []string) []string {
	tags := make([]string, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}
	return tags
}
