package domain

import "errors"

// Core error taxonomy. Handlers compare with errors.Is and map to HTTP
// statuses; everything else is recovered internally (fallback page, apology
// message) and never surfaces as a hard failure.
var (
	// ErrValidation marks malformed caller input. Recovered locally,
	// never reaches the network layer.
	ErrValidation = errors.New("invalid input")

	// ErrFeedFetch marks a profile or interest source failure.
	ErrFeedFetch = errors.New("feed source unavailable")

	// ErrUnknownPersona marks a stale or invalid persona id.
	ErrUnknownPersona = errors.New("unknown persona")

	// ErrAuthExpired marks a stale credential reported by a collaborator.
	// Session history survives it.
	ErrAuthExpired = errors.New("credential expired")

	// ErrTransport marks a network/HTTP failure, including timeouts.
	ErrTransport = errors.New("transport failure")

	// ErrServiceStatus marks a non-success application status from a
	// collaborator that did answer.
	ErrServiceStatus = errors.New("service returned failure status")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
)
