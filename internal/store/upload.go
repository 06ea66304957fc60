// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"studiosite/internal/models"
)

// UploadStore records accepted image uploads. The binary lives in object
// storage or on disk; these rows keep the reference and provenance.
type UploadStore struct {
	db *sql.DB
}

// NewUploadStore creates a new UploadStore with the given database connection.
func NewUploadStore(db *sql.DB) *UploadStore {
	return &UploadStore{db: db}
}

const uploadColumns = `id, filename, original_name, content_type, size_bytes,
	       storage, key, thumb_key, url, uploader_id, created_at`

func scanUpload(row scanner) (*models.Upload, error) {
	u := &models.Upload{}
	err := row.Scan(
		&u.ID, &u.Filename, &u.OriginalName, &u.ContentType, &u.SizeBytes,
		&u.Storage, &u.Key, &u.ThumbKey, &u.URL, &u.UploaderID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create records an accepted upload.
func (s *UploadStore) Create(u *models.Upload) (*models.Upload, error) {
	result, err := scanUpload(s.db.QueryRow(fmt.Sprintf(`
		INSERT INTO uploads (filename, original_name, content_type, size_bytes,
		                     storage, key, thumb_key, url, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, uploadColumns),
		u.Filename, u.OriginalName, u.ContentType, u.SizeBytes,
		u.Storage, u.Key, u.ThumbKey, u.URL, u.UploaderID,
	))
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}
	return result, nil
}

// FindByID retrieves an upload by its UUID. Returns nil if not found.
func (s *UploadStore) FindByID(id uuid.UUID) (*models.Upload, error) {
	u, err := scanUpload(s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM uploads WHERE id = $1", uploadColumns), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find upload by id: %w", err)
	}
	return u, nil
}

// List returns uploads newest first.
func (s *UploadStore) List(limit int) ([]models.Upload, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM uploads ORDER BY created_at DESC LIMIT $1
	`, uploadColumns), limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, *u)
	}
	return uploads, rows.Err()
}

// Delete removes an upload record by ID. The stored file is removed
// separately by the handler.
func (s *UploadStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}
