package repository

import "errors"

// ErrNotFound is returned when a requested row doesn't exist.
// The service layer translates it into an apperrors.NotFoundError.
var ErrNotFound = errors.New("not found")
