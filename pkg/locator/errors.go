package locator

import "errors"

var (
	// ErrNotFound means the direct selector, the AI locator, and every
	// fallback strategy all failed to resolve an element.
	ErrNotFound = errors.New("locator: element not found")

	// ErrNoElements means the page had no visible interactive elements
	// to hand to the AI locator.
	ErrNoElements = errors.New("locator: no interactive elements on page")

	// ErrAILocateFailed wraps a vision model call failure.
	ErrAILocateFailed = errors.New("locator: ai locate failed")

	// ErrLowConfidence means the AI returned a match below the
	// configured confidence threshold; the caller falls through to the
	// deterministic chain rather than trusting a weak guess.
	ErrLowConfidence = errors.New("locator: ai confidence below threshold")
)
