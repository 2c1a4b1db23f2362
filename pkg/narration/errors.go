package narration

import "errors"

var (
	// ErrUnknownLanguage is returned for a language without a catalog.
	ErrUnknownLanguage = errors.New("narration: unknown language")

	// ErrNoOutcome is reported when a driver returns no outcome channel.
	ErrNoOutcome = errors.New("narration: driver returned no outcome")
)
