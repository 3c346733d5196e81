package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultOptimizationMaxTokens   = 2000
	defaultOptimizationTemperature = 0.7
)

// OptimizationStyle 选择改写所用的指令模板。
type OptimizationStyle string

const (
	StyleGeneral   OptimizationStyle = "general"
	StyleTechnical OptimizationStyle = "technical"
	StyleSEO       OptimizationStyle = "seo"
)

var optimizationInstructions = map[OptimizationStyle]string{
	StyleGeneral:   "Please optimize the following blog content for better readability, SEO, and engagement. Make it more engaging, fix any grammar issues, and improve the overall flow while maintaining the original message:",
	StyleTechnical: "Please optimize the following technical blog content for clarity, accuracy, and better explanation. Make it more accessible to readers while maintaining technical accuracy:",
	StyleSEO:       "Please optimize the following blog content for SEO. Improve keyword usage, readability, and structure while maintaining the original message:",
}

// ParseOptimizationStyle 将任意输入映射为已知模板，未知值回退到 general。
func ParseOptimizationStyle(raw string) OptimizationStyle {
	style := OptimizationStyle(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := optimizationInstructions[style]; ok {
		return style
	}
	return StyleGeneral
}

// ContentOptimizationInput 描述调用改写所需的上下文。
type ContentOptimizationInput struct {
	Content   string
	Style     OptimizationStyle
	MaxTokens int
}

// ContentOptimizationResult 返回改写结果及用量信息。
type ContentOptimizationResult struct {
	Content          string
	OriginalLength   int
	OptimizedLength  int
	PromptTokens     int
	CompletionTokens int
}

// ContentOptimizer 定义文本改写的能力，便于在 handler 层注入不同实现。
type ContentOptimizer interface {
	OptimizeContent(ctx context.Context, input ContentOptimizationInput) (ContentOptimizationResult, error)
}

// ContentOptimizerService 基于 chat completion 接口改写文章内容。
type ContentOptimizerService struct {
	client *aiChatClient
}

// NewContentOptimizerService 构造默认的 ContentOptimizerService。
func NewContentOptimizerService(apiKey, baseURL, model string, timeout time.Duration) *ContentOptimizerService {
	return &ContentOptimizerService{
		client: newAIChatClient(apiKey, baseURL, model, timeout),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *ContentOptimizerService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖默认的 API 地址。
func (s *ContentOptimizerService) SetBaseURL(base string) {
	s.client.SetBaseURL(base)
}

// OptimizeContent 按风格模板调用模型改写内容；图片链接在请求前压缩、返回后还原。
func (s *ContentOptimizerService) OptimizeContent(ctx context.Context, input ContentOptimizationInput) (ContentOptimizationResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return ContentOptimizationResult{}, invalid("content", "is required")
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultOptimizationMaxTokens
	}

	compressed, placeholders := compressMarkdownImageURLs(content)
	prompt := buildOptimizationPrompt(ParseOptimizationStyle(string(input.Style)), compressed)
	logAIExchange("OPTIMIZE", "prompt", prompt)

	result, err := s.client.call(ctx, aiChatRequest{
		UserPrompt:  prompt,
		MaxTokens:   maxTokens,
		Temperature: defaultOptimizationTemperature,
	})
	if err != nil {
		return ContentOptimizationResult{}, err
	}
	logAIExchange("OPTIMIZE", "response", result.Content)

	optimized := strings.TrimSpace(placeholders.Restore(stripCodeFence(result.Content)))
	if optimized == "" {
		return ContentOptimizationResult{}, ErrEmptyResponse
	}

	return ContentOptimizationResult{
		Content:          optimized,
		OriginalLength:   utf8.RuneCountInString(input.Content),
		OptimizedLength:  utf8.RuneCountInString(optimized),
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

func buildOptimizationPrompt(style OptimizationStyle, content string) string {
	var builder strings.Builder
	builder.WriteString(optimizationInstructions[style])
	builder.WriteString("\n\nContent: \"")
	builder.WriteString(content)
	builder.WriteString("\"\n\nPlease return only the optimized content without any additional explanations.")
	return builder.String()
}

// stripCodeFence 去掉模型偶尔包裹在最外层的 ``` 代码块。
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}
	inner := strings.TrimSuffix(trimmed, "```")
	if newline := strings.IndexByte(inner, '\n'); newline >= 0 {
		inner = inner[newline+1:]
	} else {
		inner = strings.TrimPrefix(inner, "```")
	}
	return strings.TrimSpace(inner)
}
