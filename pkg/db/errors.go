package db

import "errors"

// ErrNotFound is returned when a document does not exist in the store.
var ErrNotFound = errors.New("document not found")
