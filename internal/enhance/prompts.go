package enhance

import "fmt"

// FeaturedPrompt is the prompt for the image that heads every ingested post.
func FeaturedPrompt(title string) string {
	return fmt.Sprintf("Professional news article image for: %s. High quality, modern, business style", title)
}

var supplementaryTemplates = []string{
	"Illustration showing AI technology and economic growth for: %s",
	"Modern business and technology concept for: %s",
	"Professional corporate image representing: %s",
	"Data visualization and analytics concept for: %s",
	"Collaboration and partnership visualization for: %s",
	"Future technology and innovation concept for: %s",
}

// SupplementaryPrompts returns the first n prompt templates filled with title.
func SupplementaryPrompts(title string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(supplementaryTemplates) {
		n = len(supplementaryTemplates)
	}
	prompts := make([]string, n)
	for i := 0; i < n; i++ {
		prompts[i] = fmt.Sprintf(supplementaryTemplates[i], title)
	}
	return prompts
}
