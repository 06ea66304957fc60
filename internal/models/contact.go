// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// ContactStatus tracks a lead through the sales workflow.
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusContacted ContactStatus = "contacted"
	ContactStatusQualified ContactStatus = "qualified"
	ContactStatusProposal  ContactStatus = "proposal"
	ContactStatusClosed    ContactStatus = "closed"
)

// ValidContactStatus reports whether s is a known lead status.
func ValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusQualified,
		ContactStatusProposal, ContactStatusClosed:
		return true
	}
	return false
}

// Contact is a lead captured from the public contact form, together with
// request provenance recorded at submission time.
type Contact struct {
	ID             uuid.UUID     `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          *string       `json:"phone,omitempty"`
	Company        *string       `json:"company,omitempty"`
	ProjectType    string        `json:"projectType"`
	Budget         *string       `json:"budget,omitempty"`
	Timeline       *string       `json:"timeline,omitempty"`
	ProjectDetails string        `json:"projectDetails"`
	Status         ContactStatus `json:"status"`
	AssignedTo     *uuid.UUID    `json:"assignedTo,omitempty"`
	IPAddress      string        `json:"ipAddress"`
	UserAgent      string        `json:"userAgent"`
	UABrowser      string        `json:"uaBrowser,omitempty"`
	UAOS           string        `json:"uaOS,omitempty"`
	UADevice       string        `json:"uaDevice,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// ParseUserAgent fills the parsed provenance fields from the raw
// User-Agent header.
func (c *Contact) ParseUserAgent() {
	ua := useragent.Parse(c.UserAgent)

	c.UABrowser = ua.Name
	c.UAOS = ua.OS
	if c.UABrowser == "" {
		c.UABrowser = "Unknown"
	}
	if c.UAOS == "" {
		c.UAOS = "Unknown"
	}

	switch {
	case ua.Mobile:
		c.UADevice = "mobile"
	case ua.Tablet:
		c.UADevice = "tablet"
	case ua.Bot:
		c.UADevice = "bot"
	default:
		c.UADevice = "desktop"
	}
}

// FullName returns the lead's display name.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
