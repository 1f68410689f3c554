package model

import "errors"

var (
	// ErrEmptyTargetURL is returned when a target is built without a URL.
	ErrEmptyTargetURL = errors.New("website URL is required")

	// ErrInvalidTargetURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidTargetURL = errors.New("invalid website URL")

	// ErrInvalidSeverity is returned when a severity name cannot be parsed.
	ErrInvalidSeverity = errors.New("invalid severity")
)
