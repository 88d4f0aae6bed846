package verify

// Outcome is the state of a verification session.
type Outcome string

const (
	// OutcomePending means no terminal state has been reached yet.
	OutcomePending Outcome = "pending"

	// OutcomeVerified means the observed state matched the expectation.
	OutcomeVerified Outcome = "verified"

	// OutcomeFailed means retries were exhausted without a match.
	OutcomeFailed Outcome = "failed"

	// OutcomeTimeout means the wall-clock bound elapsed first.
	OutcomeTimeout Outcome = "timeout"

	// OutcomeSkipped means the command was not verifiable for this zone.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeError means the final attempt failed at the transport level.
	OutcomeError Outcome = "error"
)

// Terminal reports whether the outcome ends a session.
func (o Outcome) Terminal() bool {
	return o != OutcomePending && o != ""
}
