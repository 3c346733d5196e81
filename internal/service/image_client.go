package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultIdeogramBaseURL = "https://api.ideogram.ai"
	ideogramGeneratePath   = "/v1/ideogram-v3/generate"
	ideogramProviderLabel  = "Ideogram"

	// DefaultAspectRatio 未指定比例时使用的正方形。
	DefaultAspectRatio = "1x1"
	// MockImageURL 开发环境下未配置密钥时返回的占位图。
	MockImageURL = "https://via.placeholder.com/800x600/2563eb/ffffff?text=Generated+Image"
)

const mockImageNote = "Mock image for development. Set IDEOGRAM_API_KEY for real image generation."

var supportedAspectRatios = map[string]struct{}{
	"1x1": {}, "3x2": {}, "2x3": {}, "4x3": {}, "3x4": {},
	"16x9": {}, "9x16": {}, "16x10": {}, "10x16": {},
	"4x5": {}, "5x4": {}, "1x2": {}, "2x1": {}, "1x3": {}, "3x1": {},
}

// ImageRequest 描述一次图片生成请求。
type ImageRequest struct {
	Prompt      string
	AspectRatio string
}

// ImageResult 为生成结果；Mock 为 true 时 URL 是占位图。
type ImageResult struct {
	URL  string
	Mock bool
	Note string
}

// ImageGenerator 定义图片生成能力，便于在 handler 与 ingest 中注入。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error)
}

// NormalizeAspectRatio 把 "3:2" 之类的写法统一成 "3x2"，并校验是否受支持。
func NormalizeAspectRatio(raw string) (string, error) {
	ratio := strings.ToLower(strings.TrimSpace(raw))
	if ratio == "" {
		return DefaultAspectRatio, nil
	}
	ratio = strings.ReplaceAll(ratio, ":", "x")
	if _, ok := supportedAspectRatios[ratio]; !ok {
		return "", invalid("aspectRatio", fmt.Sprintf("unsupported aspect ratio %q", raw))
	}
	return ratio, nil
}

// urlExtractor 尝试从一种已知的响应结构中取出图片地址。
type urlExtractor func(payload map[string]any) (string, bool)

// imageURLExtractors 按顺序尝试，第一个命中的结果生效。
var imageURLExtractors = []urlExtractor{
	firstDataField("url"),
	firstDataField("image_url"),
	topLevelField("image_url"),
	topLevelField("url"),
}

func firstDataField(field string) urlExtractor {
	return func(payload map[string]any) (string, bool) {
		items, ok := payload["data"].([]any)
		if !ok || len(items) == 0 {
			return "", false
		}
		first, ok := items[0].(map[string]any)
		if !ok {
			return "", false
		}
		return stringField(first, field)
	}
}

func topLevelField(field string) urlExtractor {
	return func(payload map[string]any) (string, bool) {
		return stringField(payload, field)
	}
}

func stringField(payload map[string]any, field string) (string, bool) {
	value, ok := payload[field].(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func extractImageURL(payload map[string]any) (string, error) {
	for _, extract := range imageURLExtractors {
		if url, ok := extract(payload); ok {
			return url, nil
		}
	}
	return "", ErrImageURLMissing
}

// IdeogramClient 调用 Ideogram v3 生成接口。
type IdeogramClient struct {
	apiKey    string
	baseURL   string
	http      httpDoer
	allowMock bool
}

// NewIdeogramClient 构造图片客户端；allowMock 仅应在开发环境开启。
func NewIdeogramClient(apiKey, baseURL string, allowMock bool, timeout time.Duration) *IdeogramClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	c := &IdeogramClient{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   defaultIdeogramBaseURL,
		http:      &http.Client{Timeout: timeout},
		allowMock: allowMock,
	}
	c.SetBaseURL(baseURL)
	return c
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (c *IdeogramClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 90 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL 覆盖默认的 API 地址。
func (c *IdeogramClient) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return
	}
	c.baseURL = base
}

// GenerateImage 发起一次生成请求并返回第一张图片的地址。
func (c *IdeogramClient) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return ImageResult{}, invalid("prompt", "is required")
	}
	ratio, err := NormalizeAspectRatio(req.AspectRatio)
	if err != nil {
		return ImageResult{}, err
	}

	if c.apiKey == "" {
		if c.allowMock {
			log.Printf("[AI IMAGE] IDEOGRAM_API_KEY not set, returning mock image")
			return ImageResult{URL: MockImageURL, Mock: true, Note: mockImageNote}, nil
		}
		return ImageResult{}, &ConfigurationError{Variable: "IDEOGRAM_API_KEY"}
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := [][2]string{
		{"prompt", prompt},
		{"aspect_ratio", ratio},
		{"rendering_speed", "DEFAULT"},
		{"magic_prompt", "ON"},
	}
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return ImageResult{}, fmt.Errorf("build form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return ImageResult{}, fmt.Errorf("build form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ideogramGeneratePath, &body)
	if err != nil {
		return ImageResult{}, fmt.Errorf("create %s request: %w", ideogramProviderLabel, err)
	}
	httpReq.Header.Set("Api-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	logAIExchange("IMAGE", "prompt", prompt)

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return ImageResult{}, fmt.Errorf("call %s: %w", ideogramProviderLabel, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ImageResult{}, fmt.Errorf("read %s response: %w", ideogramProviderLabel, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ImageResult{}, &GenerationError{
			Provider:   ideogramProviderLabel,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return ImageResult{}, fmt.Errorf("decode %s response: %w", ideogramProviderLabel, err)
	}

	url, err := extractImageURL(payload)
	if err != nil {
		logAIExchange("IMAGE", "unrecognised response", string(respBody))
		return ImageResult{}, err
	}
	logAIExchange("IMAGE", "url", url)
	return ImageResult{URL: url}, nil
}
