// Package enhance turns a terse news payload into an illustrated long-form
// markdown post. Everything here is pure except Pipeline.Run, which calls
// out to an ImageSource.
package enhance

import (
	"strings"
	"unicode/utf8"
)

// minParagraphRunes is the length a period-delimited piece must exceed to count as a paragraph.
const minParagraphRunes = 10

// Stats is the size measurement the image budget is derived from.
type Stats struct {
	Words      int
	Paragraphs int
}

// Analyze counts space-separated words and period-separated pieces longer than ten characters.
func Analyze(content string) Stats {
	paragraphs := 0
	for _, piece := range strings.Split(content, ".") {
		if utf8.RuneCountInString(strings.TrimSpace(piece)) > minParagraphRunes {
			paragraphs++
		}
	}
	return Stats{
		Words:      len(strings.Split(content, " ")),
		Paragraphs: paragraphs,
	}
}

// Budget maps content size to the number of supplementary images: 0, 2, 3 or 4.
func Budget(stats Stats) int {
	switch {
	case stats.Words < 100 || stats.Paragraphs < 3:
		return 0
	case stats.Words < 300 || stats.Paragraphs < 5:
		return 2
	case stats.Words < 600 || stats.Paragraphs < 8:
		return 3
	default:
		return 4
	}
}

// ImageBudget is Budget(Analyze(content)).
func ImageBudget(content string) int {
	return Budget(Analyze(content))
}
