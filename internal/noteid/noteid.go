// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package noteid generates the opaque, fixed-length identifiers the data
// model treats as primary identity for notes and their paired sub notes.
package noteid

import (
	"strings"

	"github.com/google/uuid"
)

// Length is the fixed length of a generated identifier.
const Length = 9

// New returns a fresh 9-character identifier derived from a UUIDv4. It is
// not guaranteed unique against any particular store; callers that need
// collision-safety should use Generate instead.
func New() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return raw[:Length]
}

// Generate returns a fresh identifier that exists reports as unused,
// retrying on collision. exists is typically a store's Exists method.
func Generate(exists func(string) bool) string {
	for {
		id := New()
		if !exists(id) {
			return id
		}
	}
}
