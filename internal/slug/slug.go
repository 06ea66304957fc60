// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision-free slug selection against an existing collection.
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// nonAlphanumeric matches runs of anything that isn't a lowercase letter
// or digit. Each run becomes a single hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Unicode is transliterated to ASCII first, so "Über Café" → "uber-cafe".
func Generate(s string) string {
	result := unidecode.Unidecode(s)
	result = strings.ToLower(strings.TrimSpace(result))
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// maxUniqueAttempts bounds the collision probing loop. In practice two or
// three attempts is the worst observed case.
const maxUniqueAttempts = 1000

// Unique returns the first available slug derived from base: the base
// itself, then base-1, base-2, and so on. taken reports whether a candidate
// already exists in the target collection (the caller excludes the record
// being updated, if any).
//
// The check-then-write window is closed by a unique index at the storage
// layer; this probe keeps the index a backstop rather than the mechanism.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 1; i <= maxUniqueAttempts; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("slug collision check: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no available slug for %q after %d attempts", base, maxUniqueAttempts)
}
