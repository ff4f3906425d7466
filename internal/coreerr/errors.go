// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package coreerr defines the sentinel error taxonomy shared by every
// component of the core. Callers should match with errors.Is, never by
// comparing messages.
package coreerr

import "errors"

var (
	// ErrAlreadyExists is returned when creating a note or timing point
	// whose identity already collides with a stored record.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when getting, mutating, or deleting an
	// unknown id.
	ErrNotFound = errors.New("not found")

	// ErrOutOfOrder is returned by ordered-read operations when the store's
	// dirty flag is set and sort() has not been called since.
	ErrOutOfOrder = errors.New("store is out of order, call sort() first")

	// ErrOutOfRange is returned when an index exceeds the current primary
	// sequence size.
	ErrOutOfRange = errors.New("index out of range")

	// ErrDecodeError is returned when a binary note record cannot be
	// decoded.
	ErrDecodeError = errors.New("malformed binary record")

	// ErrBufferTooSmall is returned when a caller-supplied buffer cannot
	// hold the required serialization.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrInvalid is returned for malformed sprite names, bad draw
	// settings, or unknown render passes.
	ErrInvalid = errors.New("invalid argument")

	// ErrNotImplemented is returned by wire-contract boundaries whose
	// numerical algorithm is out of scope for this core.
	ErrNotImplemented = errors.New("not implemented")
)
