package models

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing entity and, on owner-scoped lookups, an
// entity owned by someone else. The two cases are deliberately merged so a
// response never reveals whether a resource exists to a caller who cannot
// touch it.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by the store when a create hits a uniqueness
// constraint, e.g. two concurrent likes on the same (user, image) pair.
var ErrConflict = errors.New("already exists")

type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", e.Field, e.Reason)
}
