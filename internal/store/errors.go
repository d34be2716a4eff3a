// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"errors"
	"fmt"
)

// ErrExists is returned when creating a record whose slug is already
// taken in its partition. Duplicate slugs are rejected rather than
// silently overwriting the existing record.
var ErrExists = errors.New("record already exists")

// ValidationError reports a persisted record whose contents fail schema
// constraints: a missing required field, a mistyped field, or an
// enumeration value outside its fixed set. It is fatal for the
// operation that encountered it.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a record or template that does not exist.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
