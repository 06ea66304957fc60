// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContentType distinguishes the entity kinds stored in the unified
// content_items table.
type ContentType string

const (
	ContentTypeBlog      ContentType = "blog"
	ContentTypeCaseStudy ContentType = "case_study"
	ContentTypeJob       ContentType = "job"
	ContentTypeProject   ContentType = "project"
	ContentTypePodcast   ContentType = "podcast"
	ContentTypeReview    ContentType = "review"
)

// ContentTypes lists every valid content type.
var ContentTypes = []ContentType{
	ContentTypeBlog, ContentTypeCaseStudy, ContentTypeJob,
	ContentTypeProject, ContentTypePodcast, ContentTypeReview,
}

// ValidContentType reports whether t is a known content type.
func ValidContentType(t ContentType) bool {
	for _, ct := range ContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusArchived  ContentStatus = "archived"
)

// ValidContentStatus reports whether s is a known status.
func ValidContentStatus(s ContentStatus) bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusScheduled, ContentStatusArchived:
		return true
	}
	return false
}

// SEO field length limits for search-engine display.
const (
	MaxMetaTitleLen       = 60
	MaxMetaDescriptionLen = 160
)

// AuthorRef is the denormalized author snapshot embedded in a content item
// at creation time. It is a value object, not a live foreign key: later
// renames or role changes of the user do not propagate here.
type AuthorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// SEO carries the search-engine metadata block with its length caps applied.
type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// Truncate applies the SEO length limits in place, ellipsis-truncating
// values that exceed them.
func (s *SEO) Truncate() {
	s.MetaTitle = TruncateMeta(s.MetaTitle, MaxMetaTitleLen)
	s.MetaDescription = TruncateMeta(s.MetaDescription, MaxMetaDescriptionLen)
}

// TruncateMeta shortens v to at most limit characters. When truncation is
// required the result ends in "..." and still fits within limit.
func TruncateMeta(v string, limit int) string {
	if utf8.RuneCountInString(v) <= limit {
		return v
	}
	runes := []rune(v)
	cut := limit - 3
	return strings.TrimSpace(string(runes[:cut])) + "..."
}

// Stats is the per-item counter block. Counters only ever move up in the
// normal flow.
type Stats struct {
	Views  int64 `json:"views"`
	Likes  int64 `json:"likes"`
	Shares int64 `json:"shares"`
}

// ContentItem is the shape shared by blogs, case studies, jobs, projects,
// podcasts and reviews. Type-specific fields live in Attrs; the slug is
// unique within a type.
type ContentItem struct {
	ID          uuid.UUID      `json:"id"`
	Type        ContentType    `json:"type"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Excerpt     *string        `json:"excerpt,omitempty"`
	Body        string         `json:"content,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Status      ContentStatus  `json:"status"`
	Featured    bool           `json:"featured"`
	Author      AuthorRef      `json:"author"`
	SEO         SEO            `json:"seo"`
	Stats       Stats          `json:"stats"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	ReadTime    int            `json:"readTime,omitempty"` // minutes, blogs only
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsPublished returns true if the content item is in published status.
func (c *ContentItem) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// ApplyPublishTransition maintains the publishedAt invariant: the timestamp
// is set exactly when the item moves into published status and cleared on
// any move away from it.
func (c *ContentItem) ApplyPublishTransition(now time.Time) {
	if c.Status == ContentStatusPublished {
		if c.PublishedAt == nil {
			c.PublishedAt = &now
		}
		return
	}
	c.PublishedAt = nil
}

// readWordsPerMinute is the assumed reading speed for the blog read-time
// estimate.
const readWordsPerMinute = 200

// EstimateReadTime returns the reading time in whole minutes for the given
// word count, rounding up, with a minimum of one minute for non-empty text.
func EstimateReadTime(words int) int {
	if words <= 0 {
		return 0
	}
	minutes := (words + readWordsPerMinute - 1) / readWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// DefaultSEO fills missing SEO fields from the item's title and excerpt,
// then applies the length caps. Explicit values are kept.
func (c *ContentItem) DefaultSEO() {
	if c.SEO.MetaTitle == "" {
		c.SEO.MetaTitle = c.Title
	}
	if c.SEO.MetaDescription == "" && c.Excerpt != nil {
		c.SEO.MetaDescription = *c.Excerpt
	}
	c.SEO.Truncate()
}
