// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"

	"studiosite/internal/models"
)

func TestEntityByType(t *testing.T) {
	e := EntityByType(models.ContentTypeCaseStudy)
	if e == nil {
		t.Fatal("expected descriptor for case_study")
	}
	if e.Path != "case-studies" || e.ListKey != "caseStudies" {
		t.Errorf("got path=%q listKey=%q", e.Path, e.ListKey)
	}

	if EntityByType(models.ContentType("bogus")) != nil {
		t.Error("expected nil for unknown type")
	}
}

func TestEntityPathsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Entities {
		if seen[e.Path] {
			t.Errorf("duplicate path %q", e.Path)
		}
		seen[e.Path] = true
	}
}

func TestFilterAttrs(t *testing.T) {
	e := EntityByType(models.ContentTypeJob)

	t.Run("drops unknown keys", func(t *testing.T) {
		out := e.filterAttrs(map[string]any{
			"department": "Engineering",
			"location":   "Remote",
			"evil":       "<script>",
		})
		if len(out) != 2 {
			t.Fatalf("got %d attrs, want 2: %v", len(out), out)
		}
		if _, ok := out["evil"]; ok {
			t.Error("unknown key survived the filter")
		}
	})

	t.Run("nil in nil out", func(t *testing.T) {
		if e.filterAttrs(nil) != nil {
			t.Error("expected nil for nil input")
		}
	})
}

func TestMissingFields(t *testing.T) {
	jobs := EntityByType(models.ContentTypeJob)

	title := "Backend Engineer"
	body := "We are hiring."

	t.Run("all present", func(t *testing.T) {
		p := &contentPayload{
			Title:   &title,
			Content: &body,
			Attrs:   map[string]any{"department": "Engineering", "location": "Remote"},
		}
		if missing := p.missingFields(jobs); len(missing) != 0 {
			t.Errorf("unexpected missing fields: %v", missing)
		}
	})

	t.Run("reports every absent field", func(t *testing.T) {
		p := &contentPayload{Title: &title}
		missing := p.missingFields(jobs)
		if len(missing) != 3 {
			t.Fatalf("got %v, want 3 missing", missing)
		}
	})

	t.Run("blank counts as missing", func(t *testing.T) {
		blank := "   "
		p := &contentPayload{
			Title:   &title,
			Content: &body,
			Attrs:   map[string]any{"department": blank, "location": "Remote"},
		}
		missing := p.missingFields(jobs)
		if len(missing) != 1 || missing[0] != "department" {
			t.Errorf("got %v, want [department]", missing)
		}
	})
}
