package enhance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// article builds sentences of wordsPerSentence words, joined by single spaces.
func article(sentences, wordsPerSentence int) string {
	parts := make([]string, sentences)
	for i := range parts {
		words := make([]string, wordsPerSentence)
		for j := range words {
			words[j] = fmt.Sprintf("word%d", j)
		}
		parts[i] = strings.Join(words, " ") + "."
	}
	return strings.Join(parts, " ")
}

func TestAnalyzeCountsWordsAndParagraphs(t *testing.T) {
	stats := Analyze(article(4, 25))
	assert.Equal(t, 100, stats.Words)
	assert.Equal(t, 4, stats.Paragraphs)

	short := Analyze("Hi. Ok. This sentence is long enough.")
	assert.Equal(t, 1, short.Paragraphs)
}

func TestBudgetBands(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  int
	}{
		{name: "99 words", stats: Stats{Words: 99, Paragraphs: 10}, want: 0},
		{name: "too few paragraphs", stats: Stats{Words: 1000, Paragraphs: 2}, want: 0},
		{name: "100 words 3 paragraphs", stats: Stats{Words: 100, Paragraphs: 3}, want: 2},
		{name: "299 words", stats: Stats{Words: 299, Paragraphs: 10}, want: 2},
		{name: "4 paragraphs", stats: Stats{Words: 1000, Paragraphs: 4}, want: 2},
		{name: "300 words 5 paragraphs", stats: Stats{Words: 300, Paragraphs: 5}, want: 3},
		{name: "599 words", stats: Stats{Words: 599, Paragraphs: 10}, want: 3},
		{name: "7 paragraphs", stats: Stats{Words: 1000, Paragraphs: 7}, want: 3},
		{name: "600 words 8 paragraphs", stats: Stats{Words: 600, Paragraphs: 8}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Budget(tt.stats))
		})
	}
}

func TestImageBudgetBoundaries(t *testing.T) {
	assert.Equal(t, 0, ImageBudget(article(3, 33)), "99 words")
	assert.Equal(t, 2, ImageBudget(article(4, 25)), "100 words, 4 paragraphs")
	assert.Equal(t, 4, ImageBudget(article(13, 50)), "650 words, 13 paragraphs")
}

func TestBudgetIsMonotonic(t *testing.T) {
	previous := 0
	for sentences := 1; sentences <= 20; sentences++ {
		budget := ImageBudget(article(sentences, 40))
		assert.GreaterOrEqual(t, budget, previous, "sentences=%d", sentences)
		previous = budget
	}
}

func TestSupplementaryPrompts(t *testing.T) {
	assert.Nil(t, SupplementaryPrompts("T", 0))
	prompts := SupplementaryPrompts("AI Summit 2024", 4)
	assert.Len(t, prompts, 4)
	assert.Equal(t, "Illustration showing AI technology and economic growth for: AI Summit 2024", prompts[0])
	assert.Equal(t, "Data visualization and analytics concept for: AI Summit 2024", prompts[3])
	assert.Len(t, SupplementaryPrompts("T", 10), 6)
	assert.Contains(t, FeaturedPrompt("AI Summit 2024"), "Professional news article image for: AI Summit 2024")
}
