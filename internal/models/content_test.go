package models

import (
	"strings"
	"testing"
	"time"
)

func TestTruncateMeta(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"under limit unchanged", "Short title", 60, "Short title"},
		{"exactly at limit unchanged", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"over limit gets ellipsis", strings.Repeat("a", 61), 60, strings.Repeat("a", 57) + "..."},
		{"empty string", "", 60, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateMeta(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("TruncateMeta(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
			if len([]rune(got)) > tt.limit {
				t.Errorf("result exceeds limit: %d > %d", len([]rune(got)), tt.limit)
			}
		})
	}
}

func TestSEOTruncate(t *testing.T) {
	seo := SEO{
		MetaTitle:       strings.Repeat("t", 100),
		MetaDescription: strings.Repeat("d", 300),
	}
	seo.Truncate()

	if got := len([]rune(seo.MetaTitle)); got > MaxMetaTitleLen {
		t.Errorf("meta title length: got %d, want <= %d", got, MaxMetaTitleLen)
	}
	if got := len([]rune(seo.MetaDescription)); got > MaxMetaDescriptionLen {
		t.Errorf("meta description length: got %d, want <= %d", got, MaxMetaDescriptionLen)
	}
	if !strings.HasSuffix(seo.MetaTitle, "...") {
		t.Error("truncated meta title should end in ellipsis")
	}
	if !strings.HasSuffix(seo.MetaDescription, "...") {
		t.Error("truncated meta description should end in ellipsis")
	}
}

func TestDefaultSEO(t *testing.T) {
	excerpt := "A quick summary of the post."
	c := &ContentItem{
		Title:   "How We Build APIs",
		Excerpt: &excerpt,
	}
	c.DefaultSEO()

	if c.SEO.MetaTitle != "How We Build APIs" {
		t.Errorf("meta title: got %q", c.SEO.MetaTitle)
	}
	if c.SEO.MetaDescription != excerpt {
		t.Errorf("meta description: got %q", c.SEO.MetaDescription)
	}

	// Explicit values are kept.
	c2 := &ContentItem{
		Title:   "Ignored",
		SEO:     SEO{MetaTitle: "Explicit"},
		Excerpt: &excerpt,
	}
	c2.DefaultSEO()
	if c2.SEO.MetaTitle != "Explicit" {
		t.Errorf("explicit meta title overwritten: got %q", c2.SEO.MetaTitle)
	}
}

func TestApplyPublishTransition(t *testing.T) {
	now := time.Now()

	// draft → published sets the timestamp.
	c := &ContentItem{Status: ContentStatusPublished}
	c.ApplyPublishTransition(now)
	if c.PublishedAt == nil {
		t.Fatal("expected publishedAt set on publish")
	}
	if c.PublishedAt.Before(now) {
		t.Error("publishedAt should not predate the transition")
	}

	// Re-publishing keeps the original timestamp.
	first := *c.PublishedAt
	c.ApplyPublishTransition(now.Add(time.Hour))
	if !c.PublishedAt.Equal(first) {
		t.Error("re-publish should keep original publishedAt")
	}

	// published → draft clears it.
	c.Status = ContentStatusDraft
	c.ApplyPublishTransition(now)
	if c.PublishedAt != nil {
		t.Error("expected publishedAt cleared on unpublish")
	}

	// published → archived clears it too.
	c.Status = ContentStatusPublished
	c.ApplyPublishTransition(now)
	c.Status = ContentStatusArchived
	c.ApplyPublishTransition(now)
	if c.PublishedAt != nil {
		t.Error("expected publishedAt cleared on archive")
	}
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
		{1001, 6},
	}
	for _, tt := range tests {
		if got := EstimateReadTime(tt.words); got != tt.want {
			t.Errorf("EstimateReadTime(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestValidContentType(t *testing.T) {
	for _, ct := range ContentTypes {
		if !ValidContentType(ct) {
			t.Errorf("expected %q valid", ct)
		}
	}
	if ValidContentType("newsletter") {
		t.Error("expected unknown type invalid")
	}
}

func TestValidContentStatus(t *testing.T) {
	for _, s := range []ContentStatus{ContentStatusDraft, ContentStatusPublished, ContentStatusScheduled, ContentStatusArchived} {
		if !ValidContentStatus(s) {
			t.Errorf("expected %q valid", s)
		}
	}
	if ValidContentStatus("live") {
		t.Error("expected unknown status invalid")
	}
}
