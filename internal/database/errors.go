package database

import "errors"

var (
	// ErrDatabaseNotFound is returned when the database file does not exist
	// and Options.CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrDigestMismatch is returned when a stored result no longer matches
	// the digest recorded when it was saved.
	ErrDigestMismatch = errors.New("scan result digest mismatch")

	// ErrNilResult is returned when SaveScanResult is called with nil.
	ErrNilResult = errors.New("scan result is nil")
)
