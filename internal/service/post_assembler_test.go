package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/blogcraft/internal/models"
)

func TestAssembleDefaultsMissingCounters(t *testing.T) {
	assembler := NewPostAssembler(200, 160)
	view := assembler.Assemble(models.Post{ID: 1, Slug: "hello", Title: "Hello"})

	if view.Views != 0 || view.CommentsCount != 0 || view.ReadingTime != 0 {
		t.Fatalf("missing counters should default to zero: %+v", view)
	}
	if view.Tags == nil {
		t.Fatalf("tags should be an empty slice")
	}
	body, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view failed: %v", err)
	}
	text := string(body)
	for _, field := range []string{`"views":0`, `"comments_count":0`, `"reading_time":0`, `"tags":[]`} {
		if !strings.Contains(text, field) {
			t.Fatalf("expected %s in %s", field, text)
		}
	}
}

func TestAssembleMapsRelations(t *testing.T) {
	views := int64(12)
	readingTime := 7
	post := models.Post{
		ID:          2,
		Slug:        "relations",
		Title:       "Relations",
		Excerpt:     "stored excerpt",
		Views:       &views,
		ReadingTime: &readingTime,
		Author:      &models.Author{ID: 3, Name: "Ada"},
		Category:    &models.Category{ID: 4, Name: "Go", Slug: "go"},
		PostTags: []models.PostTag{
			{PostID: 2, TagID: 5, Tag: &models.Tag{ID: 5, Name: "Tips", Slug: "tips"}},
			{PostID: 2, TagID: 6},
		},
	}
	view := NewPostAssembler(0, 0).Assemble(post)

	if view.Views != 12 || view.ReadingTime != 7 || view.Excerpt != "stored excerpt" {
		t.Fatalf("stored values should win: %+v", view)
	}
	if view.Author == nil || view.Author.Name != "Ada" {
		t.Fatalf("author not mapped: %+v", view.Author)
	}
	if view.Category == nil || view.Category.Slug != "go" {
		t.Fatalf("category not mapped: %+v", view.Category)
	}
	if len(view.Tags) != 1 || view.Tags[0].Slug != "tips" {
		t.Fatalf("tags not mapped: %+v", view.Tags)
	}
}

func TestAssembleLeavesMissingReadingTimeAtZero(t *testing.T) {
	post := models.Post{Content: "<p>hello world</p>"}
	view := NewPostAssembler(0, 0).Assemble(post)
	if view.ReadingTime != 0 {
		t.Fatalf("missing reading time should stay 0, got %d", view.ReadingTime)
	}
	if view.Excerpt != "hello world" {
		t.Fatalf("unexpected excerpt: %q", view.Excerpt)
	}
	result := NewPostAssembler(0, 0).AssembleSearchResult(post)
	if result.ReadingTime != 0 {
		t.Fatalf("search result reading time should stay 0, got %d", result.ReadingTime)
	}
}

func TestAssembleDerivesExcerptFromVisibleText(t *testing.T) {
	words := strings.Repeat("word ", 401)
	post := models.Post{
		Content: "<h1>Title</h1><script>var hidden = 1;</script><p>" + words + "</p>",
	}
	assembler := NewPostAssembler(200, 20)
	view := assembler.Assemble(post)

	if view.Excerpt != "Title word word word" {
		t.Fatalf("unexpected excerpt: %q", view.Excerpt)
	}
	if strings.Contains(view.Excerpt, "hidden") {
		t.Fatalf("script content should not leak into excerpt")
	}
	// 402 个词，200 wpm 向上取整为 3
	if got := assembler.ReadingTime(post.Content); got != 3 {
		t.Fatalf("reading time want 3 got %d", got)
	}
}

func TestExtractVisibleText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "   ", want: ""},
		{name: "plain", content: "hello   world", want: "hello world"},
		{name: "nested", content: "<div><p>a<b>b</b></p><p>c</p></div>", want: "a b c"},
		{name: "entities", content: "<p>fish &amp; chips</p>", want: "fish & chips"},
		{name: "style", content: "<style>p{}</style><p>shown</p>", want: "shown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractVisibleText(tc.content); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestEstimateReadingTime(t *testing.T) {
	if got := EstimateReadingTime("", 200); got != 0 {
		t.Fatalf("empty text want 0 got %d", got)
	}
	if got := EstimateReadingTime("one two", 200); got != 1 {
		t.Fatalf("short text want 1 got %d", got)
	}
	if got := EstimateReadingTime(strings.Repeat("w ", 400), 200); got != 2 {
		t.Fatalf("400 words want 2 got %d", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("你好世界", 2); got != "你好" {
		t.Fatalf("want 你好 got %s", got)
	}
	if got := TruncateRunes("short", 10); got != "short" {
		t.Fatalf("want short got %s", got)
	}
}
