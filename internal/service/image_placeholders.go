package service

import (
	"fmt"
	"regexp"
	"strings"
)

var markdownImagePattern = regexp.MustCompile(`!\[[^\]]*]\((<[^>]+>|[^)\s]+)([^)]*)\)`)

// imagePlaceholders maps short tokens back to the image URLs they replaced.
type imagePlaceholders struct {
	originals map[string]string
}

// compressMarkdownImageURLs swaps markdown image targets for image://asset-N
// tokens so long URLs do not eat the prompt budget.
func compressMarkdownImageURLs(input string) (string, *imagePlaceholders) {
	placeholders := &imagePlaceholders{originals: make(map[string]string)}
	index := 0

	result := markdownImagePattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := markdownImagePattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		target := strings.TrimSuffix(strings.TrimPrefix(groups[1], "<"), ">")
		index++
		token := fmt.Sprintf("image://asset-%d", index)
		placeholders.originals[token] = target
		return strings.Replace(match, target, token, 1)
	})

	return result, placeholders
}

// Count reports how many images were replaced.
func (p *imagePlaceholders) Count() int {
	if p == nil {
		return 0
	}
	return len(p.originals)
}

// Restore puts the original URLs back. Longer tokens go first so asset-1
// never clobbers asset-10.
func (p *imagePlaceholders) Restore(input string) string {
	if p.Count() == 0 {
		return input
	}

	output := input
	for i := len(p.originals); i >= 1; i-- {
		token := fmt.Sprintf("image://asset-%d", i)
		if original, ok := p.originals[token]; ok {
			output = strings.ReplaceAll(output, token, original)
		}
	}
	return output
}
