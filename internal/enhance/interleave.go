package enhance

import "fmt"

// Anchor names the section an image lands under and the alt-text suffix it gets.
type Anchor struct {
	Heading   string
	AltSuffix string
}

// ImageAnchors are filled in order, one image each, until images run out.
var ImageAnchors = []Anchor{
	{Heading: "## Key Insights & Analysis", AltSuffix: "AI Technology Impact"},
	{Heading: "### Economic Impact", AltSuffix: "Economic Growth"},
	{Heading: "### Implementation Strategy", AltSuffix: "Collaboration & Partnership"},
	{Heading: "## Future Implications", AltSuffix: "Future Technology"},
}

// ImageMarkdown renders a markdown image reference.
func ImageMarkdown(alt, url string) string {
	return fmt.Sprintf("![%s](%s)", alt, url)
}

// Interleave places images directly under their anchors and reports how many were placed.
// Images beyond the number of anchors are ignored.
func Interleave(doc *Document, title string, images []string) int {
	placed := 0
	for i, anchor := range ImageAnchors {
		if i >= len(images) {
			break
		}
		section := doc.Find(anchor.Heading)
		if section == nil {
			continue
		}
		section.Prepend(ImageMarkdown(title+" - "+anchor.AltSuffix, images[i]))
		placed++
	}
	return placed
}

// WithFeaturedImage puts the featured image on the first line of the document.
func WithFeaturedImage(markdown, title, url string) string {
	if url == "" {
		return markdown
	}
	return ImageMarkdown(title+" - Featured Image", url) + "\n\n" + markdown
}
