package repository

import "errors"

// ErrNotFound indicates the requested storage key does not exist.
var ErrNotFound = errors.New("not found")
