// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "studiosite/internal/models"

// Entity describes one content type served by the shared content handlers:
// its URL segment, which payload fields are required, and which
// type-specific attrs the API accepts. One descriptor table replaces six
// nearly identical handler sets.
type Entity struct {
	Type models.ContentType

	// Path is the URL segment, e.g. "case-studies" in /api/case-studies.
	Path string

	// ListKey names the array in list responses, e.g. {"caseStudies": []}.
	ListKey string

	// Required lists payload fields that must be present on create.
	Required []string

	// Attrs lists the type-specific fields accepted inside "attrs".
	// Unknown keys are dropped silently.
	Attrs []string

	// Markdown marks types whose body is Markdown: the public detail
	// response carries rendered HTML and a read-time estimate.
	Markdown bool

	// Uploads enables the image upload route for this type.
	Uploads bool
}

// Entities is the descriptor table for every content type.
var Entities = []Entity{
	{
		Type:     models.ContentTypeBlog,
		Path:     "blogs",
		ListKey:  "blogs",
		Required: []string{"title", "content"},
		Attrs:    []string{"tags", "featuredImage"},
		Markdown: true,
		Uploads:  true,
	},
	{
		Type:     models.ContentTypeCaseStudy,
		Path:     "case-studies",
		ListKey:  "caseStudies",
		Required: []string{"title", "content"},
		Attrs: []string{
			"industry", "clientName", "techStack", "services",
			"durationMonths", "teamSize", "results", "featuredImage",
		},
		Uploads: true,
	},
	{
		Type:     models.ContentTypeJob,
		Path:     "jobs",
		ListKey:  "jobs",
		Required: []string{"title", "content", "department", "location"},
		Attrs: []string{
			"department", "location", "employmentType", "salaryRange",
			"requirements", "benefits", "applyURL",
		},
	},
	{
		Type:     models.ContentTypeProject,
		Path:     "projects",
		ListKey:  "projects",
		Required: []string{"title", "content"},
		Attrs: []string{
			"techStack", "liveURL", "repoURL", "clientName",
			"year", "featuredImage", "gallery",
		},
		Uploads: true,
	},
	{
		Type:     models.ContentTypePodcast,
		Path:     "podcasts",
		ListKey:  "podcasts",
		Required: []string{"title", "content", "audioURL"},
		Attrs: []string{
			"audioURL", "episode", "season", "duration",
			"guests", "transcriptURL", "coverImage",
		},
	},
	{
		Type:     models.ContentTypeReview,
		Path:     "reviews",
		ListKey:  "reviews",
		Required: []string{"title", "content", "reviewerName"},
		Attrs: []string{
			"rating", "reviewerName", "reviewerRole", "reviewerCompany",
			"projectRef", "avatarURL",
		},
	},
}

// EntityByType returns the descriptor for a content type, or nil.
func EntityByType(t models.ContentType) *Entity {
	for i := range Entities {
		if Entities[i].Type == t {
			return &Entities[i]
		}
	}
	return nil
}

// filterAttrs keeps only the attrs the entity accepts.
func (e *Entity) filterAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for _, key := range e.Attrs {
		if v, ok := attrs[key]; ok {
			out[key] = v
		}
	}
	return out
}
