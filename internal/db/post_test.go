package db

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "AI Summit 2024", want: "ai-summit-2024"},
		{name: "punctuation", title: "Hello, World! What's New?", want: "hello-world-whats-new"},
		{name: "collapse whitespace", title: "  Many   spaces\there ", want: "many-spaces-here"},
		{name: "collapse hyphens", title: "Go -- Rust --- Zig", want: "go-rust-zig"},
		{name: "trim edge hyphens", title: "-leading and trailing-", want: "leading-and-trailing"},
		{name: "non ascii dropped", title: "Café Über 中文 test", want: "caf-ber-test"},
		{name: "nothing usable", title: "!!! ???", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSlugifyIsDeterministicAndURLSafe(t *testing.T) {
	titles := []string{
		"AI Summit 2024",
		"The Future of Work: Automation & You",
		"  --weird__title--  ",
		"Numbers 1 2 3 and more!!",
		"Tabs\tand\nnewlines",
	}

	for _, title := range titles {
		first := Slugify(title)
		second := Slugify(title)
		if first != second {
			t.Fatalf("slug for %q is not deterministic: %q vs %q", title, first, second)
		}
		if !ValidSlug(first) {
			t.Fatalf("slug %q for %q does not match pattern", first, title)
		}
	}
}

func TestNormalizeExcerpt(t *testing.T) {
	short := "A short excerpt"
	if got := NormalizeExcerpt("  " + short + "  "); got != short {
		t.Fatalf("expected trimmed excerpt, got %q", got)
	}

	long := strings.Repeat("word ", 100)
	got := NormalizeExcerpt(long)
	if utf8.RuneCountInString(got) > MaxExcerptLength {
		t.Fatalf("excerpt too long: %d", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" AI ", "Technology", "ai", "", "News"})
	want := []string{"ai", "technology", "news"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPopulateDerivedFieldsOrdersTags(t *testing.T) {
	post := Post{TagList: []PostTag{
		{Name: "news", Position: 2},
		{Name: "ai", Position: 0},
		{Name: "technology", Position: 1},
	}}
	post.PopulateDerivedFields()

	if strings.Join(post.Tags, ",") != "ai,technology,news" {
		t.Fatalf("unexpected tags order: %v", post.Tags)
	}

	empty := Post{}
	empty.PopulateDerivedFields()
	if empty.Tags == nil || len(empty.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", empty.Tags)
	}
}
