package geokit

import "fmt"

// Outcome is the result of a single detection call. Reason is always
// populated, on success and failure alike; Err is nil exactly when the
// detection succeeded. Outcomes are plain values with no shared state.
type Outcome struct {
	// Valid indicates whether a format was resolved.
	Valid bool

	// Format is the resolved format key (set only when Valid).
	Format Format

	// Reason is the human-readable justification for the outcome.
	Reason string

	// Err carries the categorized failure (nil when Valid).
	Err *DetectError
}

// Summary returns a human-readable one-liner for the outcome.
func (o Outcome) Summary() string {
	if o.Valid {
		return fmt.Sprintf("✓ %s: %s", o.Format, o.Reason)
	}
	return fmt.Sprintf("✗ %s", o.Reason)
}

func success(f Format, reason string) Outcome {
	return Outcome{Valid: true, Format: f, Reason: reason}
}

func failure(errType DetectErrorType, reason string) Outcome {
	return Outcome{Reason: reason, Err: NewDetectError(errType, reason)}
}
