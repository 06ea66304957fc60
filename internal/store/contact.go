// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studiosite/internal/models"
)

// ContactStore handles contact form leads and their workflow state.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone, company, project_type,
	       budget, timeline, project_details, status, assigned_to,
	       ip_address, user_agent, ua_browser, ua_os, ua_device,
	       created_at, updated_at`

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Company,
		&c.ProjectType, &c.Budget, &c.Timeline, &c.ProjectDetails,
		&c.Status, &c.AssignedTo, &c.IPAddress, &c.UserAgent,
		&c.UABrowser, &c.UAOS, &c.UADevice, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new lead captured from the contact form. Status always
// starts at "new" regardless of the submitted payload.
func (s *ContactStore) Create(c *models.Contact) (*models.Contact, error) {
	result, err := scanContact(s.db.QueryRow(fmt.Sprintf(`
		INSERT INTO contacts (first_name, last_name, email, phone, company,
		                      project_type, budget, timeline, project_details,
		                      ip_address, user_agent, ua_browser, ua_os, ua_device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s
	`, contactColumns),
		c.FirstName, c.LastName, c.Email, c.Phone, c.Company,
		c.ProjectType, c.Budget, c.Timeline, c.ProjectDetails,
		c.IPAddress, c.UserAgent, c.UABrowser, c.UAOS, c.UADevice,
	))
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return result, nil
}

// FindByID retrieves a lead by its UUID. Returns nil if not found.
func (s *ContactStore) FindByID(id uuid.UUID) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1", contactColumns), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact by id: %w", err)
	}
	return c, nil
}

// List returns leads newest first, optionally filtered by workflow status,
// with the total row count before pagination.
func (s *ContactStore) List(status models.ContactStatus, page, limit int) ([]models.Contact, int, error) {
	where := []string{"TRUE"}
	args := []any{}

	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contacts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM contacts WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, contactColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, total, rows.Err()
}

// UpdateStatus moves a lead through the sales workflow and optionally
// reassigns it. Returns nil if the lead does not exist.
func (s *ContactStore) UpdateStatus(id uuid.UUID, status models.ContactStatus, assignedTo *uuid.UUID) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRow(fmt.Sprintf(`
		UPDATE contacts SET status = $1, assigned_to = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING %s
	`, contactColumns), status, assignedTo, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return c, nil
}

// Delete removes a lead by ID.
func (s *ContactStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// CountByStatus returns lead counts per workflow status for the admin
// dashboard summary.
func (s *ContactStore) CountByStatus() (map[models.ContactStatus]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM contacts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count contacts by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ContactStatus]int)
	for rows.Next() {
		var status models.ContactStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan contact count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
