package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet the minimum strength policy")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token failures stay distinct internally; the transport layer collapses
	// all three into a single 401 so the failure category never leaks.
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature mismatch")
	ErrTokenExpired     = errors.New("token has expired")

	ErrForbidden       = errors.New("actor does not own the resource")
	ErrAccountNotFound = errors.New("account not found")
	ErrItemNotFound    = errors.New("content item not found")
	ErrRateLimited     = errors.New("rate limit exceeded")

	// ErrInconsistentRelationship is internal only: it marks a bookmark write
	// that landed on one side but not the other, and triggers reconciliation
	// instead of surfacing to the caller.
	ErrInconsistentRelationship = errors.New("bookmark relation diverged between account and item")
)
