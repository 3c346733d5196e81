package db

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify 由标题推导 URL slug：
// 转小写，去掉 [a-z0-9\s-] 以外的字符，空白折叠为 "-"，连续 "-" 合并，最后去掉首尾 "-"。
// 标题中没有任何字母数字时返回空字符串。
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ValidSlug 判断 slug 是否只包含小写字母、数字与连字符。
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
