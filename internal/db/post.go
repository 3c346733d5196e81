package db

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTitleLength 标题最大长度（字符）。
	MaxTitleLength = 200
	// MinContentLength 正文最小长度（字符）。
	MinContentLength = 100
	// MaxExcerptLength 摘要最大长度（字符），写入时强制截断。
	MaxExcerptLength = 300
)

// Post 定义了博客文章模型，是唯一持久化的实体。
// PublishedAt 仅在 IsPublished 为 true 时有值。
type Post struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Slug              string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	Excerpt           string     `gorm:"size:300;not null" json:"excerpt"`
	FeaturedImage     string     `gorm:"not null" json:"featuredImage"`
	GeneratedImageURL string     `json:"generatedImageUrl,omitempty"`
	Author            string     `gorm:"size:120;not null;index" json:"author"`
	IsPublished       bool       `gorm:"index:idx_posts_published,priority:1" json:"isPublished"`
	PublishedAt       *time.Time `gorm:"index:idx_posts_published,priority:2,sort:desc" json:"publishedAt"`
	SourceURL         string     `json:"sourceUrl,omitempty"`
	OriginalDate      string     `json:"originalDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Tags    []string  `gorm:"-" json:"tags"`
	TagList []PostTag `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// PostTag 保存文章的有序标签，name 上建立索引以便按标签筛选。
type PostTag struct {
	ID       uint   `gorm:"primaryKey"`
	PostID   string `gorm:"size:36;not null;index"`
	Name     string `gorm:"size:64;not null;index"`
	Position int
}

// TableName 指定标签表名。
func (PostTag) TableName() string {
	return "post_tags"
}

// PopulateDerivedFields 根据关联记录回填 Tags。
func (p *Post) PopulateDerivedFields() {
	if p == nil {
		return
	}
	if len(p.TagList) == 0 {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		return
	}
	tags := make([]string, len(p.TagList))
	for _, tag := range p.TagList {
		if tag.Position >= 0 && tag.Position < len(tags) {
			tags[tag.Position] = tag.Name
		}
	}
	p.Tags = compactStrings(tags)
}

// NormalizeTags 将标签统一为小写、去空白并按首次出现顺序去重。
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// NormalizeExcerpt 在写入前把摘要截断到 MaxExcerptLength 以内，超长时以省略号结尾。
func NormalizeExcerpt(excerpt string) string {
	trimmed := strings.TrimSpace(excerpt)
	if utf8.RuneCountInString(trimmed) <= MaxExcerptLength {
		return trimmed
	}
	runes := []rune(trimmed)
	return string(runes[:MaxExcerptLength-3]) + "..."
}

func compactStrings(values []string) []string {
	result := values[:0]
	for _, value := range values {
		if value != "" {
			result = append(result, value)
		}
	}
	return result
}
