package enhance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Source
	}{
		{name: "empty", content: "", want: Source{}},
		{name: "single", content: "Only one sentence", want: Source{Intro: "Only one sentence"}},
		{
			name:    "two pieces repeat last",
			content: "First part. Second part.",
			want:    Source{Intro: "First part", Middle: []string{"Second part."}, Conclusion: "Second part."},
		},
		{
			name:    "many",
			content: "A one. B two. C three. D four.",
			want:    Source{Intro: "A one", Middle: []string{"B two", "C three"}, Conclusion: "D four."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSource(tt.content))
		})
	}
}

func TestBuildDocumentSkeleton(t *testing.T) {
	doc := BuildDocument(ExtractSource("Intro text. Middle text. Closing text."), "AI Summit 2024", "https://example.com/a")

	assert.Equal(t, []string{
		"## Introduction",
		"## Background & Context",
		"## Key Insights & Analysis",
		"## Detailed Analysis",
		"### Economic Impact",
		"### Technological Considerations",
		"### Implementation Strategy",
		"## Future Implications",
		"### Short-term Benefits",
		"### Long-term Vision",
		"## Conclusion",
		"## Additional Resources",
	}, doc.Headings())

	markdown := doc.Markdown()
	assert.True(t, strings.HasPrefix(markdown, "# AI Summit 2024\n\n## Introduction\n\nIntro text.\n\n"))
	assert.Contains(t, markdown, "## Key Insights & Analysis\n\nMiddle text.\n\n")
	assert.Contains(t, markdown, "## Conclusion\n\nClosing text.\n\n"+conclusionText)
	assert.Contains(t, markdown, "**Source:** [Read the original article](https://example.com/a)")
	assert.NotContains(t, markdown, "..", "fragments that already end a sentence keep a single period")
}

func TestFindAndPrepend(t *testing.T) {
	doc := BuildDocument(Source{Intro: "x"}, "T", "https://example.com")

	section := doc.Find("### Implementation Strategy")
	require.NotNil(t, section)
	section.Prepend("IMAGE")
	assert.Equal(t, "IMAGE", section.Blocks[0])
	assert.Equal(t, implementationText, section.Blocks[1])

	assert.Nil(t, doc.Find("## Missing"))
}
