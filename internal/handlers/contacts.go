// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studiosite/internal/mailer"
	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/store"
)

// Contacts groups the public contact-form handler and the admin lead
// workflow handlers.
type Contacts struct {
	contacts *store.ContactStore
	mail     *mailer.Mailer
}

// NewContacts creates a Contacts handler group.
func NewContacts(contacts *store.ContactStore, mail *mailer.Mailer) *Contacts {
	return &Contacts{contacts: contacts, mail: mail}
}

type contactPayload struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	Company        *string `json:"company"`
	ProjectType    string  `json:"projectType"`
	Budget         *string `json:"budget"`
	Timeline       *string `json:"timeline"`
	ProjectDetails string  `json:"projectDetails"`
}

// Submit accepts a public contact-form submission, stores the lead and
// dispatches a best-effort notification. POST /api/contact.
func (h *Contacts) Submit(w http.ResponseWriter, r *http.Request) {
	var payload contactPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"firstName", payload.FirstName},
		{"lastName", payload.LastName},
		{"email", payload.Email},
		{"projectType", payload.ProjectType},
		{"projectDetails", payload.ProjectDetails},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		respondValidation(w, missing)
		return
	}

	if !strings.Contains(payload.Email, "@") {
		respondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	contact := &models.Contact{
		FirstName:      strings.TrimSpace(payload.FirstName),
		LastName:       strings.TrimSpace(payload.LastName),
		Email:          strings.TrimSpace(payload.Email),
		Phone:          payload.Phone,
		Company:        payload.Company,
		ProjectType:    payload.ProjectType,
		Budget:         payload.Budget,
		Timeline:       payload.Timeline,
		ProjectDetails: payload.ProjectDetails,
		IPAddress:      middleware.ClientIP(r),
		UserAgent:      r.UserAgent(),
	}
	contact.ParseUserAgent()

	created, err := h.contacts.Create(contact)
	if err != nil {
		slog.Error("contact create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Sent inline after the lead is stored. Delivery errors are logged and
	// swallowed by the mailer, so the submission cannot fail here.
	h.mail.NotifyContact(created)

	slog.Info("contact submitted", "id", created.ID, "email", created.Email)
	respondJSON(w, http.StatusCreated, map[string]any{"contactId": created.ID})
}

// AdminList returns leads with status filter, pagination and per-status
// counts. GET /api/admin/contacts.
func (h *Contacts) AdminList(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 20, 100)

	status := models.ContactStatus(r.URL.Query().Get("status"))
	if status != "" && !models.ValidContactStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	leads, total, err := h.contacts.List(status, page, limit)
	if err != nil {
		slog.Error("contact list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	counts, err := h.contacts.CountByStatus()
	if err != nil {
		slog.Error("contact counts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if leads == nil {
		leads = []models.Contact{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"contacts":     leads,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"statusCounts": counts,
	})
}

// AdminGet returns one lead. GET /api/admin/contacts/{id}.
func (h *Contacts) AdminGet(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.findByParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

type contactStatusPayload struct {
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
}

// AdminUpdateStatus moves a lead through the workflow and reassigns it.
// Any forward or backward move is allowed. PUT /api/admin/contacts/{id}.
func (h *Contacts) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.findByParam(w, r)
	if !ok {
		return
	}

	var payload contactStatusPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := models.ContactStatus(payload.Status)
	if !models.ValidContactStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	// Authors may move a lead through the workflow; reassignment is an
	// admin call.
	caller := middleware.UserFromCtx(r.Context())
	if payload.AssignedTo != nil && (caller == nil || !caller.IsAdmin()) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}
	if payload.AssignedTo == nil {
		payload.AssignedTo = contact.AssignedTo
	}

	updated, err := h.contacts.UpdateStatus(contact.ID, status, payload.AssignedTo)
	if err != nil {
		slog.Error("contact status update failed", "id", contact.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// AdminDelete removes a lead. DELETE /api/admin/contacts/{id}.
func (h *Contacts) AdminDelete(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.findByParam(w, r)
	if !ok {
		return
	}

	if err := h.contacts.Delete(contact.ID); err != nil {
		slog.Error("contact delete failed", "id", contact.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Contacts) findByParam(w http.ResponseWriter, r *http.Request) (*models.Contact, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return nil, false
	}

	contact, err := h.contacts.FindByID(id)
	if err != nil {
		slog.Error("contact lookup failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	if contact == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return contact, true
}
