package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 1024

// logAIExchange 输出生成类请求与响应的摘要，超长内容按字符截断。
func logAIExchange(kind, phase, content string) {
	snippet, runes := snippetForLog(content, maxAILogSnippetRunes)
	if runes == 0 {
		log.Printf("[AI %s] %s: <empty>", kind, phase)
		return
	}
	log.Printf("[AI %s] %s (runes=%d): %s", kind, phase, runes, snippet)
}

// snippetForLog 返回截断后的片段以及原始字符数。
func snippetForLog(content string, limit int) (string, int) {
	trimmed := strings.TrimSpace(content)
	count := utf8.RuneCountInString(trimmed)
	if count <= limit {
		return trimmed, count
	}
	return string([]rune(trimmed)[:limit]) + "…(truncated)", count
}
