package ping

import "time"

// OutcomeKind classifies a single probe attempt.
type OutcomeKind int

const (
	// OutcomeSuccess carries the measured round-trip latency.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeTimeout means no matching reply arrived within the probe deadline.
	OutcomeTimeout
	// OutcomeError covers everything else, with a diagnostic reason.
	OutcomeError
)

// Outcome is the closed result variant for one probe attempt. Exactly one
// Outcome is produced per attempt.
type Outcome struct {
	Kind    OutcomeKind
	Latency time.Duration
	Reason  string
}

// Success returns a successful outcome with the given latency.
func Success(latency time.Duration) Outcome {
	return Outcome{Kind: OutcomeSuccess, Latency: latency}
}

// Timeout returns a timeout outcome.
func Timeout() Outcome {
	return Outcome{Kind: OutcomeTimeout}
}

// Failure returns an error outcome with a reason.
func Failure(reason string) Outcome {
	return Outcome{Kind: OutcomeError, Reason: reason}
}

// Update pairs an outcome with the index of the originating target.
type Update struct {
	TargetIdx int
	Outcome   Outcome
}
