package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidContentKind is returned for records whose declared kind is not
// in KnownContentKinds at all.
var ErrInvalidContentKind = errors.New("invalid content kind")

// ErrNotFound is returned by repositories when a batch or record does not exist.
var ErrNotFound = errors.New("not found")

// UnsupportedKindError is returned when a record declares a known content
// kind that has no extraction path implemented.
type UnsupportedKindError struct {
	Kind ContentKind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("content kind %q is recognized but not supported for extraction", e.Kind)
}

// ResolutionExhaustedError is returned when every strategy in the SKU
// resolution chain came back empty.
type ResolutionExhaustedError struct {
	CPUCores  int
	MemoryGiB int
	Region    string
	// Attempts records each strategy tried, in order.
	Attempts []ResolutionAttempt
}

// ResolutionAttempt describes one step of the resolution chain.
type ResolutionAttempt struct {
	Strategy RankStrategy
	Families []string
	// Err is non-nil when the step failed outright rather than
	// returning zero candidates.
	Err error
}

func (e *ResolutionExhaustedError) Error() string {
	return fmt.Sprintf("no instance type available for %d cores / %d GiB in %s after %d attempts",
		e.CPUCores, e.MemoryGiB, e.Region, len(e.Attempts))
}

// PriceUnavailableError is returned when the pricing service cannot quote a
// resolved instance type.
type PriceUnavailableError struct {
	InstanceType string
	Region       string
	Cause        error
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("no price available for %s in %s: %v", e.InstanceType, e.Region, e.Cause)
}

func (e *PriceUnavailableError) Unwrap() error { return e.Cause }

// InterpretationError is returned when neither the language model nor the
// deterministic fallback could produce a valid requirement.
type InterpretationError struct {
	Index int
	Cause error
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("record %d: interpretation failed: %v", e.Index, e.Cause)
}

func (e *InterpretationError) Unwrap() error { return e.Cause }

// RemoteAPIError carries the status and body of a failed cloud API call.
type RemoteAPIError struct {
	API        string
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *RemoteAPIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s), request %s", e.API, e.Message, e.Code, e.RequestID)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.API, e.StatusCode, e.Message)
}
