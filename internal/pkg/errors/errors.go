package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources (student,
	// course, snapshot entry). Surfaced to the caller unchanged.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for structurally invalid
	// input: unknown enum literals, negative credits, out-of-range CGPA.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDataIntegrity marks malformed academic history, such as duplicate
	// (course, attempt) pairs. Raised, never silently resolved.
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrExternalService marks a failed embedding or text-generation call.
	// The advisor absorbs it into fallback text; other callers may match it.
	ErrExternalService = errors.New("external service failure")
)
