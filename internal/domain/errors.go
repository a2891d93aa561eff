package domain

import "errors"

var (
	// ErrEmptyQuery is returned when the product name is empty after trimming
	ErrEmptyQuery = errors.New("product name is required")

	// ErrStaleResponse is returned when a response arrives after a newer search has started
	ErrStaleResponse = errors.New("response superseded by a newer search")

	// ErrSearchAPIFailure is returned when the search endpoint request fails
	ErrSearchAPIFailure = errors.New("search API request failed")

	// ErrInvalidResponse is returned when the search endpoint body cannot be decoded
	ErrInvalidResponse = errors.New("invalid search response")

	// ErrRateLimited is returned when the outbound rate limiter refuses a request
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrSessionNotFound is returned when a session ID is unknown or expired
	ErrSessionNotFound = errors.New("session not found")
)
