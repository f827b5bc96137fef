package models

import "errors"

var (
	// ErrInvalidProduct is returned when a source record fails validation
	ErrInvalidProduct = errors.New("invalid product record")

	// ErrCatalogAlreadyLoaded is returned when the catalog loader is asked to read twice
	ErrCatalogAlreadyLoaded = errors.New("catalog already loaded")

	// ErrUnknownSource is returned when the configured product source kind is not supported
	ErrUnknownSource = errors.New("unknown product source")

	// ErrElementNotFound is returned when an event targets an element that no longer exists
	ErrElementNotFound = errors.New("element not found")

	// ErrImageUnavailable is returned when an image reference cannot be resolved
	ErrImageUnavailable = errors.New("image unavailable")
)
