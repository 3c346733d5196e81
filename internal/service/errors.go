package service

import (
	"errors"
	"fmt"

	"github.com/portfolio/internal/store"
)

var (
	// ErrPostNotFound 表示文章不存在。
	ErrPostNotFound = store.ErrNotFound
	// ErrDuplicateSlug 表示 slug 与已有文章冲突。
	ErrDuplicateSlug = store.ErrDuplicateSlug
	// ErrEmptyResponse 表示上游模型没有返回可用内容。
	ErrEmptyResponse = errors.New("provider returned no usable content")
	// ErrImageURLMissing 表示图片接口的响应中找不到图片地址。
	ErrImageURLMissing = errors.New("no image url in provider response")
)

// ValidationError 描述缺失或格式错误的字段。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// GenerationError 表示外部生成服务返回了非成功状态。
type GenerationError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s request failed: %d - %s", e.Provider, e.StatusCode, e.Body)
}

// ConfigurationError 表示缺少必需的凭据，Variable 为对应的环境变量名。
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured; set %s in your environment variables", e.Variable, e.Variable)
}
