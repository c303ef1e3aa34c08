package composer

import "errors"

var (
	// ErrConfiguration is returned for malformed requests: conflicting fee directives,
	// a missing sender, an app creation without programs, or a cyclic or too deep
	// embedding of transaction arguments.
	ErrConfiguration = errors.New("configuration error")
	// ErrResolution is returned when no signer can be found for a sender.
	ErrResolution = errors.New("resolution error")
	// ErrNetwork wraps failures of the parameter source or the executor.
	ErrNetwork = errors.New("network error")
	// ErrProtocolLimit is returned when a group exceeds MaxGroupSize transactions.
	ErrProtocolLimit = errors.New("protocol limit error")

	// ErrComposerNotOpen is returned when adding to a composer that has been built.
	ErrComposerNotOpen = errors.New("composer is not open")
	// ErrAlreadySubmitted is returned when executing a composer a second time.
	ErrAlreadySubmitted = errors.New("composer has already been submitted")
)
