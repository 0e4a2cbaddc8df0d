package value

import "errors"

// Error kinds shared by the binning, valuecounts, and histogram packages.
// Errors returned by those packages wrap one of these and can be tested with errors.Is.
var (
	// ErrConfiguration indicates a conflicting, missing, or repeated bin specification or variable name.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation indicates input that violates a table or histogram invariant.
	ErrValidation = errors.New("validation error")
	// ErrCombination indicates histograms that cannot be summed together.
	ErrCombination = errors.New("combination error")
)
