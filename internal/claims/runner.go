package claims

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/internal/claims/repository"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Runner executes one batch: a bounded pass over new inbox messages
// followed by a poll of all submitted claims. Items are processed
// sequentially; one item's failure never aborts its siblings. The caller
// supplies the soft deadline through ctx: when it expires the in-flight
// item finishes but no new item starts.
type Runner struct {
	mailbox      ports.Mailbox
	orchestrator *Orchestrator
	lifecycle    *Lifecycle
	store        repository.ClaimStore
	log          *logger.Logger
	window       time.Duration
	limit        int

	mu      sync.Mutex
	last    []Outcome
	lastRun time.Time
}

func NewRunner(mailbox ports.Mailbox, orchestrator *Orchestrator, lifecycle *Lifecycle, store repository.ClaimStore, window time.Duration, limit int, log *logger.Logger) *Runner {
	return &Runner{
		mailbox:      mailbox,
		orchestrator: orchestrator,
		lifecycle:    lifecycle,
		store:        store,
		window:       window,
		limit:        limit,
		log:          log,
	}
}

// RunOnce processes one batch and returns the concatenated outcomes.
// A fetch failure before any item was read is returned as an error so
// the scheduling layer can retry the whole batch.
func (r *Runner) RunOnce(ctx context.Context) ([]Outcome, error) {
	batchID := uuid.New().String()[:8]
	log := r.log.WithBatchID(batchID)
	log.Info("batch started", "window", r.window.String(), "limit", r.limit)

	items, err := r.mailbox.FetchRecent(ctx, r.window, r.limit)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			log.Warn("batch deadline reached, stopping before next item", "processed", len(outcomes), "remaining", len(items)-len(outcomes))
			break
		}

		outcome, err := r.orchestrator.ProcessItem(ctx, item)
		if err != nil {
			outcome = Outcome{Email: item.Sender, Status: domain.OutcomeFailed, Detail: err.Error()}
		}
		log.BatchItem(outcome.Email, outcome.Status, outcome.Detail)
		outcomes = append(outcomes, outcome)
	}

	outcomes = append(outcomes, r.pollSubmitted(ctx, log)...)

	r.mu.Lock()
	r.last = outcomes
	r.lastRun = time.Now()
	r.mu.Unlock()

	log.Info("batch finished", "outcomes", len(outcomes))
	return outcomes, nil
}

func (r *Runner) pollSubmitted(ctx context.Context, log *logger.Logger) []Outcome {
	submitted, err := r.store.ListByStatus(ctx, domain.StatusSubmitted)
	if err != nil {
		log.DatabaseError("list submitted claims", err)
		return nil
	}

	outcomes := make([]Outcome, 0, len(submitted))
	for _, claim := range submitted {
		if ctx.Err() != nil {
			log.Warn("batch deadline reached, stopping ticket poll", "polled", len(outcomes), "remaining", len(submitted)-len(outcomes))
			break
		}

		outcome, transitioned, err := r.lifecycle.PollClaim(ctx, claim)
		if err != nil {
			log.BatchItem(claim.Email, domain.OutcomeFailed, err.Error())
			outcomes = append(outcomes, Outcome{Email: claim.Email, Status: domain.OutcomeFailed, Detail: err.Error()})
			continue
		}
		if !transitioned {
			continue
		}
		log.BatchItem(outcome.Email, outcome.Status, outcome.Detail)
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// LastResults returns the most recent batch's outcomes and when it ran.
func (r *Runner) LastResults() ([]Outcome, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.last...), r.lastRun
}
