package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/internal/claims/repository"
	"github.com/sujal-debug/Policy-IQ/platform/apperr"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// ErrSubmissionFailed marks a ticket creation that exhausted its retries
// or was rejected as structurally invalid. The claim is left unchanged
// and no claimant notification is sent.
var ErrSubmissionFailed = errors.New("ticket submission failed")

// TrackerCategory buckets the tracker-native status vocabulary.
type TrackerCategory int

const (
	TrackerOther TrackerCategory = iota
	TrackerApproved
	TrackerDeclined
)

// CategorizeTrackerStatus maps a tracker-native status into a pipeline
// category. Unknown vocabulary defaults to TrackerOther, which is a
// no-op for the claim.
func CategorizeTrackerStatus(native string) TrackerCategory {
	switch strings.ToLower(strings.TrimSpace(native)) {
	case "approved", "done", "processed":
		return TrackerApproved
	case "declined", "rejected":
		return TrackerDeclined
	default:
		return TrackerOther
	}
}

// Lifecycle owns the two tracker-facing operations: creating a work item
// with bounded retry, and finalizing claims whose work item reached a
// terminal tracker status.
type Lifecycle struct {
	tracker  ports.Tracker
	store    repository.ClaimStore
	notifier ports.Notifier
	attempts int
	delay    time.Duration
	log      *logger.Logger
}

func NewLifecycle(tracker ports.Tracker, store repository.ClaimStore, notifier ports.Notifier, attempts int, delay time.Duration, log *logger.Logger) *Lifecycle {
	if attempts < 1 {
		attempts = 1
	}
	return &Lifecycle{
		tracker:  tracker,
		store:    store,
		notifier: notifier,
		attempts: attempts,
		delay:    delay,
		log:      log,
	}
}

// CreateTicket files a tracker work item. Transient transport failures
// are retried up to the configured attempt count with a fixed delay; a
// structural rejection is fatal immediately. Both exhaustion and
// rejection surface as ErrSubmissionFailed.
func (l *Lifecycle) CreateTicket(ctx context.Context, req ports.IssueRequest) (string, error) {
	var reference string

	backoff := retry.WithMaxRetries(uint64(l.attempts-1), retry.NewConstant(l.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ref, err := l.tracker.CreateIssue(ctx, req)
		if err != nil {
			if apperr.Is(err, apperr.KindTransient) {
				l.log.TrackerEvent("create_retry", "", err)
				return retry.RetryableError(err)
			}
			return err
		}
		reference = ref
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.log.TrackerEvent("create_failed", "", err)
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	l.log.TrackerEvent("created", reference, nil)
	return reference, nil
}

// PollClaim checks one submitted claim's work item. On a terminal
// tracker status it finalizes the claim and notifies the claimant;
// otherwise it does nothing. Polling is idempotent: a claim already
// finalized is skipped before any tracker call.
func (l *Lifecycle) PollClaim(ctx context.Context, claim repository.Claim) (Outcome, bool, error) {
	if claim.Status != domain.StatusSubmitted || claim.TicketReference == nil {
		return Outcome{}, false, nil
	}
	reference := *claim.TicketReference

	native, err := l.tracker.GetIssue(ctx, reference)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("poll ticket %s: %w", reference, err)
	}

	var (
		status string
		notify func(context.Context, string, string) error
		kind   string
	)
	switch CategorizeTrackerStatus(native) {
	case TrackerApproved:
		status, notify, kind = domain.StatusProcessed, l.notifier.Approved, "approved"
	case TrackerDeclined:
		status, notify, kind = domain.StatusDeclined, l.notifier.Declined, "declined"
	default:
		// Still pending human action.
		return Outcome{}, false, nil
	}

	if err := l.store.UpdateStatus(ctx, claim.ID, status); err != nil {
		return Outcome{}, false, fmt.Errorf("finalize claim %s: %w", claim.Email, err)
	}

	if err := notify(ctx, claim.Email, claim.Attributes.Get("policy_number")); err != nil {
		l.log.Warn("terminal notification failed to send", "claimant", claim.Email, "status", status, "error", err)
	} else {
		l.log.NotificationSent(claim.Email, kind)
	}

	return Outcome{Email: claim.Email, Status: status, TicketReference: reference}, true, nil
}
