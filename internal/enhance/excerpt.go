package enhance

const (
	excerptSoftLimit = 250
	excerptHardLimit = 300
	ellipsis         = "..."
)

// Excerpt cuts raw content to 250 characters plus an ellipsis and never
// returns more than 300 characters.
func Excerpt(raw string) string {
	runes := []rune(raw)
	excerpt := raw
	if len(runes) > excerptSoftLimit {
		excerpt = string(runes[:excerptSoftLimit]) + ellipsis
	}
	if runes = []rune(excerpt); len(runes) > excerptHardLimit {
		excerpt = string(runes[:excerptHardLimit-len(ellipsis)]) + ellipsis
	}
	return excerpt
}
