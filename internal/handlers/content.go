// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studiosite/internal/cache"
	"studiosite/internal/markdown"
	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/slug"
	"studiosite/internal/store"
)

// relatedLimit is how many related items a public detail response carries.
const relatedLimit = 3

// Content groups the admin CRUD and public read handlers shared by every
// content type. The Entity descriptor passed to each method decides the
// type-specific behavior.
type Content struct {
	contents *store.ContentStore
	cache    *cache.ResponseCache // nil when Valkey is not configured
}

// NewContent creates a Content handler group.
func NewContent(contents *store.ContentStore, respCache *cache.ResponseCache) *Content {
	return &Content{contents: contents, cache: respCache}
}

// contentPayload is the JSON body accepted by create and update.
type contentPayload struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Excerpt  *string        `json:"excerpt"`
	Category *string        `json:"category"`
	Status   *string        `json:"status"`
	Featured *bool          `json:"featured"`
	SEO      *models.SEO    `json:"seo"`
	Attrs    map[string]any `json:"attrs"`
}

// missingFields returns every required field absent from the payload.
// Top-level fields are checked directly; everything else lives in attrs.
func (p *contentPayload) missingFields(e *Entity) []string {
	var missing []string
	for _, field := range e.Required {
		switch field {
		case "title":
			if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
				missing = append(missing, field)
			}
		case "content":
			if p.Content == nil || strings.TrimSpace(*p.Content) == "" {
				missing = append(missing, field)
			}
		default:
			v, ok := p.Attrs[field]
			if !ok {
				missing = append(missing, field)
				continue
			}
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

// missingFromItem returns every required field blank on a merged item.
// The update path runs the same required-field check as create, against
// the record as it would be persisted.
func (e *Entity) missingFromItem(item *models.ContentItem) []string {
	var missing []string
	for _, field := range e.Required {
		switch field {
		case "title":
			if strings.TrimSpace(item.Title) == "" {
				missing = append(missing, field)
			}
		case "content":
			if strings.TrimSpace(item.Body) == "" {
				missing = append(missing, field)
			}
		default:
			v, ok := item.Attrs[field]
			if !ok {
				missing = append(missing, field)
				continue
			}
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

// canTouch reports whether the caller may modify the item. Admins touch
// everything; authors only their own records.
func canTouch(user *models.User, item *models.ContentItem) bool {
	return user.IsAdmin() || item.Author.ID == user.ID
}

// invalidate drops the public cache for the entity after an admin write.
func (h *Content) invalidate(r *http.Request, e *Entity) {
	if h.cache != nil {
		h.cache.InvalidateNamespace(r.Context(), string(e.Type))
	}
}

// AdminList returns all items of a type with filters, pagination and
// aggregate counts. GET /api/admin/{path}.
func (h *Content) AdminList(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r, 20, 100)
		q := r.URL.Query()

		filter := store.ContentFilter{
			Type:     e.Type,
			Status:   models.ContentStatus(q.Get("status")),
			Category: q.Get("category"),
			Search:   q.Get("search"),
			Page:     page,
			Limit:    limit,
		}

		// Authors see only their own records.
		user := middleware.UserFromCtx(r.Context())
		if !user.IsAdmin() {
			filter.AuthorID = &user.ID
		}

		items, total, err := h.contents.List(filter)
		if err != nil {
			slog.Error("content list failed", "type", e.Type, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		statusCounts, totalViews, err := h.contents.Aggregates(e.Type)
		if err != nil {
			slog.Error("content aggregates failed", "type", e.Type, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if items == nil {
			items = []models.ContentItem{}
		}
		respondJSON(w, http.StatusOK, map[string]any{
			e.ListKey:      items,
			"total":        total,
			"page":         page,
			"limit":        limit,
			"statusCounts": statusCounts,
			"totalViews":   totalViews,
		})
	}
}

// AdminGet returns one item by ID. GET /api/admin/{path}/{id}.
func (h *Content) AdminGet(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := h.findByParam(w, r, e)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, item)
	}
}

// AdminCreate validates and stores a new item. POST /api/admin/{path}.
func (h *Content) AdminCreate(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contentPayload
		if err := decodeJSON(w, r, &payload); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if missing := payload.missingFields(e); len(missing) > 0 {
			respondValidation(w, missing)
			return
		}

		status := models.ContentStatusDraft
		if payload.Status != nil {
			status = models.ContentStatus(*payload.Status)
			if !models.ValidContentStatus(status) {
				respondError(w, http.StatusBadRequest, "Invalid status")
				return
			}
		}

		user := middleware.UserFromCtx(r.Context())
		item := &models.ContentItem{
			Type:   e.Type,
			Title:  strings.TrimSpace(*payload.Title),
			Status: status,
			Author: user.AuthorSnapshot(),
			Attrs:  e.filterAttrs(payload.Attrs),
		}
		if payload.Content != nil {
			item.Body = *payload.Content
		}
		item.Excerpt = payload.Excerpt
		item.Category = payload.Category
		if payload.Featured != nil {
			item.Featured = *payload.Featured
		}
		if payload.SEO != nil {
			item.SEO = *payload.SEO
		}
		item.DefaultSEO()

		if e.Markdown {
			item.ReadTime = models.EstimateReadTime(markdown.WordCount(item.Body))
		}

		created, err := h.createWithSlug(item)
		if err != nil {
			slog.Error("content create failed", "type", e.Type, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		h.invalidate(r, e)
		respondJSON(w, http.StatusCreated, created)
	}
}

// createWithSlug picks a free slug and inserts, retrying when a concurrent
// insert wins the same slug. The unique index is the backstop; the probe
// keeps retries rare.
func (h *Content) createWithSlug(item *models.ContentItem) (*models.ContentItem, error) {
	base := slug.Generate(item.Title)

	for attempt := 0; attempt < 3; attempt++ {
		chosen, err := slug.Unique(base, func(candidate string) (bool, error) {
			return h.contents.SlugTaken(item.Type, candidate, uuid.Nil)
		})
		if err != nil {
			return nil, err
		}
		item.Slug = chosen

		created, err := h.contents.Create(item)
		if errors.Is(err, store.ErrDuplicateSlug) {
			continue // lost the race, probe again
		}
		return created, err
	}
	return nil, store.ErrDuplicateSlug
}

// AdminUpdate modifies an item. PUT /api/admin/{path}/{id}.
func (h *Content) AdminUpdate(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := h.findByParam(w, r, e)
		if !ok {
			return
		}

		user := middleware.UserFromCtx(r.Context())
		if !canTouch(user, item) {
			respondError(w, http.StatusForbidden, "Access denied")
			return
		}

		var payload contentPayload
		if err := decodeJSON(w, r, &payload); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		titleChanged := false
		if payload.Title != nil {
			trimmed := strings.TrimSpace(*payload.Title)
			if trimmed == "" {
				respondValidation(w, []string{"title"})
				return
			}
			titleChanged = trimmed != item.Title
			item.Title = trimmed
		}
		if payload.Content != nil {
			item.Body = *payload.Content
			if e.Markdown {
				item.ReadTime = models.EstimateReadTime(markdown.WordCount(item.Body))
			}
		}
		if payload.Excerpt != nil {
			item.Excerpt = payload.Excerpt
		}
		if payload.Category != nil {
			item.Category = payload.Category
		}
		if payload.Featured != nil {
			item.Featured = *payload.Featured
		}
		if payload.Status != nil {
			status := models.ContentStatus(*payload.Status)
			if !models.ValidContentStatus(status) {
				respondError(w, http.StatusBadRequest, "Invalid status")
				return
			}
			item.Status = status
		}
		if payload.SEO != nil {
			item.SEO = *payload.SEO
		}
		item.SEO.Truncate()
		if payload.Attrs != nil {
			merged := item.Attrs
			if merged == nil {
				merged = map[string]any{}
			}
			for k, v := range e.filterAttrs(payload.Attrs) {
				merged[k] = v
			}
			item.Attrs = merged
		}

		// A partial update must not blank a required field.
		if missing := e.missingFromItem(item); len(missing) > 0 {
			respondValidation(w, missing)
			return
		}

		// The slug follows the title, but only when the title changed,
		// so existing links keep working for wording-only edits elsewhere.
		if titleChanged {
			base := slug.Generate(item.Title)
			chosen, err := slug.Unique(base, func(candidate string) (bool, error) {
				return h.contents.SlugTaken(e.Type, candidate, item.ID)
			})
			if err != nil {
				slog.Error("slug regeneration failed", "type", e.Type, "error", err)
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			item.Slug = chosen
		}

		updated, err := h.contents.Update(item)
		if errors.Is(err, store.ErrDuplicateSlug) {
			// A concurrent write took the slug between the availability
			// check and this update. Check once more; a second conflict
			// is a real clash.
			chosen, retryErr := slug.Unique(slug.Generate(item.Title), func(candidate string) (bool, error) {
				return h.contents.SlugTaken(e.Type, candidate, item.ID)
			})
			if retryErr == nil {
				item.Slug = chosen
				updated, err = h.contents.Update(item)
			}
		}
		if errors.Is(err, store.ErrDuplicateSlug) {
			respondError(w, http.StatusConflict, "Slug already in use")
			return
		}
		if err != nil {
			slog.Error("content update failed", "type", e.Type, "id", item.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if updated == nil {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}

		h.invalidate(r, e)
		respondJSON(w, http.StatusOK, updated)
	}
}

// AdminDelete removes an item. DELETE /api/admin/{path}/{id}.
func (h *Content) AdminDelete(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := h.findByParam(w, r, e)
		if !ok {
			return
		}

		user := middleware.UserFromCtx(r.Context())
		if !canTouch(user, item) {
			respondError(w, http.StatusForbidden, "Access denied")
			return
		}

		if err := h.contents.Delete(item.ID); err != nil {
			slog.Error("content delete failed", "type", e.Type, "id", item.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		h.invalidate(r, e)
		respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
	}
}

// findByParam parses the id URL param and loads the item, writing the
// error response itself when the lookup fails.
func (h *Content) findByParam(w http.ResponseWriter, r *http.Request, e *Entity) (*models.ContentItem, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return nil, false
	}

	item, err := h.contents.FindByID(id)
	if err != nil {
		slog.Error("content lookup failed", "type", e.Type, "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	if item == nil || item.Type != e.Type {
		respondError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return item, true
}

// toPublicList strips fields the public listing does not carry: no body,
// no SEO block, no raw stats.
func toPublicList(items []models.ContentItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		entry := map[string]any{
			"id":       it.ID,
			"title":    it.Title,
			"slug":     it.Slug,
			"featured": it.Featured,
			"author":   it.Author,
		}
		if it.Excerpt != nil {
			entry["excerpt"] = *it.Excerpt
		}
		if it.Category != nil {
			entry["category"] = *it.Category
		}
		if len(it.Attrs) > 0 {
			entry["attrs"] = it.Attrs
		}
		if it.ReadTime > 0 {
			entry["readTime"] = it.ReadTime
		}
		if it.PublishedAt != nil {
			entry["publishedAt"] = it.PublishedAt
		}
		out = append(out, entry)
	}
	return out
}

// PublicList returns published items of a type. GET /api/{path}.
// Responses are cached in Valkey and invalidated on admin writes.
func (h *Content) PublicList(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := cache.Key(string(e.Type), r.URL.RequestURI())
		if h.cache != nil {
			if payload, ok := h.cache.Get(r.Context(), cacheKey); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Write(payload)
				return
			}
		}

		page, limit := pageParams(r, 20, 100)
		q := r.URL.Query()

		var featured *bool
		if v := q.Get("featured"); v == "true" {
			f := true
			featured = &f
		}

		items, total, err := h.contents.List(store.ContentFilter{
			Type:          e.Type,
			Category:      q.Get("category"),
			Featured:      featured,
			Search:        q.Get("search"),
			PublishedOnly: true,
			Page:          page,
			Limit:         limit,
		})
		if err != nil {
			slog.Error("public list failed", "type", e.Type, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		body := map[string]any{
			e.ListKey: toPublicList(items),
			"total":   total,
			"page":    page,
			"limit":   limit,
		}

		if h.cache != nil {
			if payload, err := json.Marshal(body); err == nil {
				h.cache.Set(r.Context(), cacheKey, append(payload, '\n'))
			}
		}
		respondJSON(w, http.StatusOK, body)
	}
}

// PublicDetail returns one published item by slug, bumps its view counter
// and attaches related items. GET /api/{path}/{slug}.
func (h *Content) PublicDetail(e *Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugParam := chi.URLParam(r, "slug")

		item, err := h.contents.FindBySlug(e.Type, slugParam, true)
		if err != nil {
			slog.Error("public detail failed", "type", e.Type, "slug", slugParam, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if item == nil {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}

		// Best-effort; a lost view is fine.
		if err := h.contents.IncrementViews(item.ID); err != nil {
			slog.Warn("view increment failed", "id", item.ID, "error", err)
		} else {
			item.Stats.Views++
		}

		body := map[string]any{
			"id":          item.ID,
			"title":       item.Title,
			"slug":        item.Slug,
			"content":     item.Body,
			"featured":    item.Featured,
			"author":      item.Author,
			"seo":         item.SEO,
			"stats":       item.Stats,
			"publishedAt": item.PublishedAt,
		}
		if item.Excerpt != nil {
			body["excerpt"] = *item.Excerpt
		}
		if item.Category != nil {
			body["category"] = *item.Category
		}
		if len(item.Attrs) > 0 {
			body["attrs"] = item.Attrs
		}
		if item.ReadTime > 0 {
			body["readTime"] = item.ReadTime
		}

		if e.Markdown {
			html, err := markdown.ToHTML(item.Body)
			if err != nil {
				slog.Warn("markdown render failed", "id", item.ID, "error", err)
			} else {
				body["contentHtml"] = html
			}
		}

		related, err := h.contents.Related(e.Type, item.Category, item.ID, relatedLimit)
		if err != nil {
			slog.Warn("related lookup failed", "id", item.ID, "error", err)
		} else {
			body["related"] = toPublicList(related)
		}

		respondJSON(w, http.StatusOK, body)
	}
}
