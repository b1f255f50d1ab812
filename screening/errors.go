package screening

import (
	"errors"
	"fmt"
)

// Errors the caller is expected to handle. Both are reported to the end user
// as specific messages, distinct from a generic screening failure.
var (
	ErrApplicationNotFound = errors.New("no application found for the selected job")
	ErrCVNotFound          = errors.New("no CV uploaded for this application")

	// ErrMissingInput means a prompt input that upstream validation should
	// have guaranteed (job data, CV sections, org instructions) is absent.
	ErrMissingInput = errors.New("missing screening input")
)

// FailureKind classifies a single provider attempt.
type FailureKind string

const (
	// FailureUnavailable: the provider is not configured (missing key/auth).
	FailureUnavailable FailureKind = "unavailable"
	// FailureNotSupported: the model variant rejected the request (unknown
	// model, capability mismatch). The cascade tries the next variant.
	FailureNotSupported FailureKind = "not_supported"
	// FailureTransient: rate limit, quota, timeout, empty response. The
	// cascade abandons the provider and falls through to the next one.
	FailureTransient FailureKind = "transient"
	// FailureMalformed: the provider answered but the response could not be
	// normalized into a verdict. Treated like a transient failure.
	FailureMalformed FailureKind = "malformed"
)

// ProviderError tags a failed attempt with the provider, the model variant
// and the failure kind so the cascade can pick the right fallback edge.
type ProviderError struct {
	Provider string
	Model    string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s/%s: %s: %v", e.Provider, e.Model, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an attempt error. Untagged errors are
// treated as transient so an unexpected failure still falls through.
func KindOf(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return FailureTransient
}

// CascadeExhaustedError is returned when every provider/variant combination
// failed. Last carries the final underlying error for diagnostics.
type CascadeExhaustedError struct {
	Attempts int
	Last     error
}

func (e *CascadeExhaustedError) Error() string {
	return fmt.Sprintf("all screening providers failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *CascadeExhaustedError) Unwrap() error { return e.Last }
