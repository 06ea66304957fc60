// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"studiosite/internal/models"
)

// ErrDuplicateSlug is returned by Create and Update when the (type, slug)
// unique index rejects the write. Callers regenerate the slug and retry.
var ErrDuplicateSlug = errors.New("slug already in use for this content type")

// ContentStore handles all content database operations. Blogs, case
// studies, jobs, projects, podcasts and reviews share the unified
// content_items table, distinguished by the type column.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ContentFilter narrows a List query. Type is required; the zero value of
// every other field means "no constraint". Page is 1-based.
type ContentFilter struct {
	Type          models.ContentType
	Status        models.ContentStatus
	Category      string
	Featured      *bool
	AuthorID      *uuid.UUID
	Search        string
	PublishedOnly bool
	Page          int
	Limit         int
}

const contentColumns = `id, type, title, slug, excerpt, body, category, status, featured,
	       author, seo, stats, attrs, read_time, published_at, created_at, updated_at`

// List returns content items matching the filter plus the total row count
// before pagination. Published listings order by published_at, admin
// listings by created_at.
func (s *ContentStore) List(f ContentFilter) ([]models.ContentItem, int, error) {
	where := []string{"type = $1"}
	args := []any{f.Type}

	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.PublishedOnly {
		where = append(where, "status = 'published'")
	} else if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Featured != nil {
		add("featured = $%d", *f.Featured)
	}
	if f.AuthorID != nil {
		add("author ->> 'id' = $%d", f.AuthorID.String())
	}
	if f.Search != "" {
		add("(title ILIKE '%%' || $%d || '%%' OR excerpt ILIKE '%%' || $%[1]d || '%%')", f.Search)
	}

	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM content_items WHERE "+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	order := "created_at DESC"
	if f.PublishedOnly {
		order = "published_at DESC NULLS LAST"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT %s FROM content_items
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, contentColumns, cond, order, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM content_items WHERE id = $1", contentColumns), id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a content item of the given type by slug. When
// publishedOnly is set, drafts and archived items are invisible — this is
// the public lookup path.
func (s *ContentStore) FindBySlug(contentType models.ContentType, slug string, publishedOnly bool) (*models.ContentItem, error) {
	query := fmt.Sprintf("SELECT %s FROM content_items WHERE type = $1 AND slug = $2", contentColumns)
	if publishedOnly {
		query += " AND status = 'published'"
	}

	c, err := scanContent(s.db.QueryRow(query, contentType, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// SlugTaken reports whether slug is already used by another item of the
// same type. exclude skips the record being updated; pass uuid.Nil on create.
func (s *ContentStore) SlugTaken(contentType models.ContentType, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM content_items WHERE type = $1 AND slug = $2 AND id <> $3
		)
	`, contentType, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new content item and returns it with generated fields.
// Returns ErrDuplicateSlug if the slug lost a race with a concurrent insert.
func (s *ContentStore) Create(c *models.ContentItem) (*models.ContentItem, error) {
	c.ApplyPublishTransition(time.Now())

	author, seo, stats, attrs, err := marshalContentJSON(c)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(fmt.Sprintf(`
		INSERT INTO content_items (type, title, slug, excerpt, body, category, status,
		                           featured, author, seo, stats, attrs, read_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s
	`, contentColumns),
		c.Type, c.Title, c.Slug, c.Excerpt, c.Body, c.Category, c.Status,
		c.Featured, author, seo, stats, attrs, c.ReadTime, c.PublishedAt,
	)

	result, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// Update modifies an existing content item. The author snapshot is kept
// from creation time and never rewritten here.
func (s *ContentStore) Update(c *models.ContentItem) (*models.ContentItem, error) {
	c.ApplyPublishTransition(time.Now())

	_, seo, _, attrs, err := marshalContentJSON(c)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(fmt.Sprintf(`
		UPDATE content_items SET
			title = $1, slug = $2, excerpt = $3, body = $4, category = $5,
			status = $6, featured = $7, seo = $8, attrs = $9, read_time = $10,
			published_at = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING %s
	`, contentColumns),
		c.Title, c.Slug, c.Excerpt, c.Body, c.Category,
		c.Status, c.Featured, seo, attrs, c.ReadTime,
		c.PublishedAt, c.ID,
	)

	result, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update content: %w", err)
	}
	return result, nil
}

// Delete removes a content item by ID.
func (s *ContentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter inside the stats document. Fire
// and forget from the public detail path; a lost increment is acceptable.
func (s *ContentStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE content_items
		SET stats = jsonb_set(stats, '{views}',
			to_jsonb(COALESCE((stats ->> 'views')::bigint, 0) + 1))
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Related returns up to limit published items of the same type, preferring
// the same category, newest first. The item itself is excluded.
func (s *ContentStore) Related(contentType models.ContentType, category *string, exclude uuid.UUID, limit int) ([]models.ContentItem, error) {
	if limit <= 0 {
		limit = 3
	}

	cat := ""
	if category != nil {
		cat = *category
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM content_items
		WHERE type = $1 AND status = 'published' AND id <> $2
		ORDER BY (category IS NOT DISTINCT FROM NULLIF($3, '')) DESC,
		         published_at DESC NULLS LAST
		LIMIT $4
	`, contentColumns), contentType, exclude, cat, limit)
	if err != nil {
		return nil, fmt.Errorf("related content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Aggregates returns per-status counts and the summed view counter for a
// content type. Shown on the admin listing header.
func (s *ContentStore) Aggregates(contentType models.ContentType) (map[models.ContentStatus]int, int64, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*), COALESCE(SUM((stats ->> 'views')::bigint), 0)
		FROM content_items WHERE type = $1
		GROUP BY status
	`, contentType)
	if err != nil {
		return nil, 0, fmt.Errorf("content aggregates: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ContentStatus]int)
	var totalViews int64
	for rows.Next() {
		var status models.ContentStatus
		var n int
		var views int64
		if err := rows.Scan(&status, &n, &views); err != nil {
			return nil, 0, fmt.Errorf("scan aggregates: %w", err)
		}
		counts[status] = n
		totalViews += views
	}
	return counts, totalViews, rows.Err()
}

// CountByType returns the number of content items of the given type.
func (s *ContentStore) CountByType(contentType models.ContentType) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content_items WHERE type = $1`, contentType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanContent reads one content row, decoding the jsonb document columns.
func scanContent(row scanner) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	var author, seo, stats, attrs []byte

	err := row.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Excerpt, &c.Body, &c.Category,
		&c.Status, &c.Featured, &author, &seo, &stats, &attrs,
		&c.ReadTime, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(author, &c.Author); err != nil {
		return nil, fmt.Errorf("decode author: %w", err)
	}
	if err := json.Unmarshal(seo, &c.SEO); err != nil {
		return nil, fmt.Errorf("decode seo: %w", err)
	}
	if err := json.Unmarshal(stats, &c.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	if err := json.Unmarshal(attrs, &c.Attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return c, nil
}

// marshalContentJSON encodes the document columns for writing.
func marshalContentJSON(c *models.ContentItem) (author, seo, stats, attrs []byte, err error) {
	if author, err = json.Marshal(c.Author); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode author: %w", err)
	}
	if seo, err = json.Marshal(c.SEO); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode seo: %w", err)
	}
	if stats, err = json.Marshal(c.Stats); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode stats: %w", err)
	}
	if c.Attrs == nil {
		c.Attrs = map[string]any{}
	}
	if attrs, err = json.Marshal(c.Attrs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode attrs: %w", err)
	}
	return author, seo, stats, attrs, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
