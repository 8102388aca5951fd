package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")

	// Upstream failures from the AI gateway and other third-party APIs.
	ErrAIDisabled         = errors.New("AI gateway not configured")
	ErrAIRateLimited      = errors.New("AI rate limit exceeded")
	ErrAICreditsExhausted = errors.New("AI credits exhausted")
	ErrAITimeout          = errors.New("AI request timed out")
	ErrUpstream           = errors.New("upstream service error")
)
