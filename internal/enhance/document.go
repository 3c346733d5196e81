package enhance

import (
	"fmt"
	"strings"
)

// Section is one heading plus the blocks under it. Blocks render in order,
// followed by child sections.
type Section struct {
	Level    int
	Title    string
	Blocks   []string
	Children []*Section
}

// Heading renders the markdown heading line, e.g. "## Introduction".
func (s *Section) Heading() string {
	return strings.Repeat("#", s.Level) + " " + s.Title
}

// Prepend inserts a block directly under the heading.
func (s *Section) Prepend(block string) {
	s.Blocks = append([]string{block}, s.Blocks...)
}

// Document is the fixed-shape tree produced by BuildDocument.
type Document struct {
	Title    string
	Sections []*Section
	Footer   []string
}

// Find returns the section whose heading line equals heading, searching depth first.
func (d *Document) Find(heading string) *Section {
	var walk func([]*Section) *Section
	walk = func(sections []*Section) *Section {
		for _, section := range sections {
			if section.Heading() == heading {
				return section
			}
			if found := walk(section.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(d.Sections)
}

// Headings lists every heading line in document order.
func (d *Document) Headings() []string {
	var headings []string
	var walk func([]*Section)
	walk = func(sections []*Section) {
		for _, section := range sections {
			headings = append(headings, section.Heading())
			walk(section.Children)
		}
	}
	walk(d.Sections)
	return headings
}

// Markdown renders the tree with blank lines between blocks.
func (d *Document) Markdown() string {
	parts := []string{"# " + d.Title}
	var walk func([]*Section)
	walk = func(sections []*Section) {
		for _, section := range sections {
			parts = append(parts, section.Heading())
			parts = append(parts, section.Blocks...)
			walk(section.Children)
		}
	}
	walk(d.Sections)
	parts = append(parts, d.Footer...)
	return strings.Join(parts, "\n\n")
}

// Source holds the only input-dependent text of the rewrite.
type Source struct {
	Intro      string
	Middle     []string
	Conclusion string
}

// ExtractSource splits raw content on ". " and picks the first piece, the
// middle slice and the last piece. The middle slice is [1, max(2, n-1)), so a
// two-piece source repeats its last piece in both the middle and the conclusion.
func ExtractSource(content string) Source {
	var pieces []string
	for _, piece := range strings.Split(content, ". ") {
		if strings.TrimSpace(piece) != "" {
			pieces = append(pieces, strings.TrimSpace(piece))
		}
	}

	var src Source
	n := len(pieces)
	if n > 0 {
		src.Intro = pieces[0]
	}
	if n > 1 {
		end := n - 1
		if end < 2 {
			end = 2
		}
		src.Middle = append([]string(nil), pieces[1:end]...)
		src.Conclusion = pieces[n-1]
	}
	return src
}

// BuildDocument fills the fixed section skeleton with the extracted source text.
func BuildDocument(src Source, title, link string) *Document {
	intro := &Section{Level: 2, Title: "Introduction"}
	if src.Intro != "" {
		intro.Blocks = append(intro.Blocks, sentence(src.Intro))
	}

	insights := &Section{Level: 2, Title: "Key Insights & Analysis"}
	for _, paragraph := range src.Middle {
		insights.Blocks = append(insights.Blocks, sentence(paragraph))
	}

	conclusion := &Section{Level: 2, Title: "Conclusion"}
	if src.Conclusion != "" {
		conclusion.Blocks = append(conclusion.Blocks, sentence(src.Conclusion))
	}
	conclusion.Blocks = append(conclusion.Blocks, conclusionText)

	return &Document{
		Title: title,
		Sections: []*Section{
			intro,
			{Level: 2, Title: "Background & Context", Blocks: []string{backgroundText}},
			insights,
			{
				Level: 2,
				Title: "Detailed Analysis",
				Children: []*Section{
					{Level: 3, Title: "Economic Impact", Blocks: []string{economicImpactText}},
					{Level: 3, Title: "Technological Considerations", Blocks: []string{technologyText}},
					{Level: 3, Title: "Implementation Strategy", Blocks: []string{implementationText}},
				},
			},
			{
				Level: 2,
				Title: "Future Implications",
				Children: []*Section{
					{Level: 3, Title: "Short-term Benefits", Blocks: []string{shortTermText}},
					{Level: 3, Title: "Long-term Vision", Blocks: []string{longTermText}},
				},
			},
			conclusion,
			{Level: 2, Title: "Additional Resources", Blocks: []string{resourcesIntro, strings.Join(resourceBullets, "\n")}},
		},
		Footer: []string{
			"---",
			fmt.Sprintf("**Source:** [Read the original article](%s)", link),
			"*This article was automatically generated and enhanced with AI-generated images and comprehensive analysis.*",
		},
	}
}

// sentence terminates a source fragment with a period unless it already ends a sentence.
func sentence(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if strings.HasSuffix(fragment, ".") || strings.HasSuffix(fragment, "!") || strings.HasSuffix(fragment, "?") {
		return fragment
	}
	return fragment + "."
}

const (
	backgroundText     = "This development represents a significant milestone in the intersection of artificial intelligence and economic policy. As AI continues to reshape industries and economies worldwide, strategic frameworks like this blueprint provide essential guidance for nations seeking to harness AI's transformative potential while ensuring sustainable and inclusive growth. From my experience in AI/ML integration and automation solutions, I can see how these initiatives align with the broader trend of intelligent systems transforming business processes and decision-making frameworks."
	economicImpactText = "The implementation of AI-driven economic strategies has the potential to significantly boost productivity across various sectors. By leveraging artificial intelligence for data analysis, automation, and decision-making processes, organizations can achieve unprecedented levels of efficiency and innovation."
	technologyText     = "Modern AI systems require robust infrastructure, skilled workforce, and ethical frameworks to ensure responsible deployment. The blueprint addresses these critical aspects, providing a comprehensive roadmap for sustainable AI integration. Drawing from my experience with n8n and Make.com automation platforms, I can see how workflow automation and intelligent systems can significantly enhance the implementation of such AI-driven strategies."
	implementationText = "Successful implementation requires collaboration between government entities, private sector organizations, and educational institutions. The blueprint outlines specific steps for fostering these partnerships and creating an ecosystem conducive to AI-driven growth. As a software engineer specializing in AI/ML solutions and automation, I believe the key to successful implementation lies in creating scalable, intelligent systems that can adapt to evolving requirements while maintaining efficiency and reliability."
	shortTermText      = "In the immediate future, this initiative is expected to accelerate digital transformation efforts, improve operational efficiency, and create new opportunities for innovation across various industries. Based on my experience with AI-powered applications and automation workflows, I can see how these technologies can immediately enhance productivity and streamline complex business processes."
	longTermText       = "Looking ahead, the comprehensive adoption of AI technologies promises to revolutionize how we approach economic development, problem-solving, and resource allocation. This blueprint serves as a foundational document for building a more intelligent and adaptive economic system. From my work on AI-powered SaaS applications and intelligent automation systems, I can envision how these technologies will continue to evolve and create new opportunities for innovation and growth."
	conclusionText     = "This initiative represents a forward-thinking approach to economic development in the AI era. By providing clear guidelines and strategic frameworks, it enables stakeholders to navigate the complexities of AI integration while maximizing its benefits for society as a whole. As someone deeply involved in AI/ML development and automation solutions, I believe these frameworks will be crucial for building the next generation of intelligent systems and applications."
	resourcesIntro     = "For more information about AI implementation strategies and economic development frameworks, consider exploring:"
)

var resourceBullets = []string{
	"- **AI Policy Guidelines**: Best practices for responsible AI deployment",
	"- **Economic Impact Studies**: Research on AI's influence on various sectors",
	"- **Implementation Case Studies**: Real-world examples of successful AI integration",
	"- **Future Trends**: Emerging developments in AI technology and applications",
	"- **Automation Solutions**: Workflow automation with n8n and Make.com",
	"- **AI/ML Integration**: Building intelligent applications and systems",
}
