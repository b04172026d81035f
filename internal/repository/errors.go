package repository

import "errors"

// ErrNotFound indicates a catalog row does not exist.
var ErrNotFound = errors.New("not found")
