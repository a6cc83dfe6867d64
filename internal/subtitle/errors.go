package subtitle

import "errors"

// Sentinel errors for the generation pipeline. Stages wrap these with
// fmt.Errorf("...: %w", Err...) so callers can match with errors.Is while
// the HTTP layer collapses them into a single user-facing message.
var (
	// ErrInputTooLarge: the media exceeds MaxInputSize. The wrapping error
	// carries the observed size.
	ErrInputTooLarge = errors.New("input too large")

	// ErrInputRead: the media file could not be read.
	ErrInputRead = errors.New("failed to read input")

	// ErrNoSource: a request was built with neither an inline payload nor
	// an external reference.
	ErrNoSource = errors.New("no media source provided")

	// ErrEmptyResponse: the service returned an empty or absent reply.
	ErrEmptyResponse = errors.New("empty service response")

	// ErrMalformedResponse: the reply could not be parsed into the
	// expected structure.
	ErrMalformedResponse = errors.New("malformed service response")

	// ErrInvalidItem: a subtitle entry is missing a field or has the wrong
	// type. The whole batch is rejected.
	ErrInvalidItem = errors.New("invalid subtitle item")

	// ErrService: the external service call itself failed (network, auth,
	// model error).
	ErrService = errors.New("subtitle service failure")
)
