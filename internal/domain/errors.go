package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, seat index out of range).
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrDuplicateKey is returned when a unique attribute (bus number, fare
// route) is already taken by another record.
// Handlers map this to HTTP 400.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrDependency is returned when an external collaborator such as the mail
// server fails. The wrapped detail is for logs only; handlers answer with a
// generic HTTP 500 message.
var ErrDependency = errors.New("dependency failure")
