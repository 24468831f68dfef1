// Package domain holds the pure decision logic for the claim pipeline:
// the status machine, the merge law and the readiness evaluator. Nothing
// in this package performs I/O.
package domain

// Persisted claim statuses. Progression is monotonic: a claim only ever
// moves to a status with a higher rank, and terminal statuses are never
// left.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusProcessed = "processed"
	StatusDeclined  = "declined"
)

// Per-item outcome statuses that are never persisted on the claim row.
const (
	OutcomeUnverified       = "unverified"
	OutcomeRejectedNonPDF   = "rejected_non_pdf"
	OutcomeQueryAnswered    = "query_answered"
	OutcomeUnclear          = "unclear"
	OutcomeSubmissionFailed = "submission_failed"
	OutcomeFailed           = "failed"
)

var statusRank = map[string]int{
	StatusPending:   1,
	StatusSubmitted: 2,
	StatusProcessed: 3,
	StatusDeclined:  3,
}

// IsKnownStatus reports whether the value is a persisted claim status.
func IsKnownStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// IsTerminal reports whether the status ends the claim lifecycle.
func IsTerminal(status string) bool {
	return status == StatusProcessed || status == StatusDeclined
}

// Advances reports whether moving from current to next respects the
// monotonic progression. Re-setting the same status is allowed (the write
// is a no-op); moving to a lower rank is not.
func Advances(current, next string) bool {
	cur, ok := statusRank[current]
	if !ok {
		// An unknown stored status never blocks progress.
		return true
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt >= cur
}
