package claims

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sujal-debug/Policy-IQ/internal/checklist"
	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
)

func newRunnerFixture(t *testing.T, mailbox *stubMailbox) (*pipelineFixture, *Runner) {
	t.Helper()

	registry, err := checklist.Load()
	if err != nil {
		t.Fatalf("load checklist registry: %v", err)
	}

	f := &pipelineFixture{
		store:      newMemStore(),
		notifier:   newRecordingNotifier(),
		classifier: &stubClassifier{},
		retriever:  &stubRetriever{},
		composer:   &stubComposer{summary: "s", description: "d"},
		tracker:    &scriptedTracker{reference: "CLAIM-1", statuses: map[string]string{}},
	}
	log := testLogger()
	f.lifecycle = NewLifecycle(f.tracker, f.store, f.notifier, 3, time.Millisecond, log)
	f.orch = NewOrchestrator(f.store, registry, f.classifier, f.retriever, f.notifier, f.composer, f.lifecycle, log)
	runner := NewRunner(mailbox, f.orch, f.lifecycle, f.store, 20*time.Minute, 10, log)
	return f, runner
}

func TestRunOnceIsolatesItemFailures(t *testing.T) {
	mailbox := &stubMailbox{items: []ports.InboundItem{
		{Sender: "broken@example.com", Body: "broken"},
		{Sender: "stranger@example.com", Body: "hello"},
	}}
	f, runner := newRunnerFixture(t, mailbox)
	f.store.add("broken@example.com", domain.StatusPending, nil, nil, nil)
	f.classifier.classifyFn = func(body string) (ports.Extraction, error) {
		if body == "broken" {
			return ports.Extraction{}, errors.New("model returned garbage")
		}
		return ports.Extraction{Intent: ports.IntentClaim}, nil
	}

	outcomes, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if outcomes[0].Status != domain.OutcomeFailed || outcomes[0].Email != "broken@example.com" {
		t.Fatalf("first outcome = %+v, want failed for broken claimant", outcomes[0])
	}
	if outcomes[0].Detail == "" {
		t.Fatalf("failed outcome carries no detail")
	}
	if outcomes[1].Status != domain.OutcomeUnverified {
		t.Fatalf("second outcome = %+v, failure must not abort the batch", outcomes[1])
	}
}

func TestRunOnceFetchFailurePropagates(t *testing.T) {
	mailbox := &stubMailbox{err: errors.New("imap connection reset")}
	_, runner := newRunnerFixture(t, mailbox)

	if _, err := runner.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected a batch error when the inbox fetch fails")
	}
}

func TestRunOncePollsSubmittedClaims(t *testing.T) {
	mailbox := &stubMailbox{}
	f, runner := newRunnerFixture(t, mailbox)
	ref := "CLAIM-8"
	f.store.add("claimant@example.com", domain.StatusSubmitted, &ref, nil, nil)
	f.tracker.statuses[ref] = "approved"

	outcomes, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(outcomes))
	}
	if outcomes[0].Status != domain.StatusProcessed || outcomes[0].TicketReference != ref {
		t.Fatalf("poll outcome = %+v", outcomes[0])
	}
}

func TestRunOncePendingTicketsStaySilent(t *testing.T) {
	mailbox := &stubMailbox{}
	f, runner := newRunnerFixture(t, mailbox)
	ref := "CLAIM-11"
	f.store.add("claimant@example.com", domain.StatusSubmitted, &ref, nil, nil)
	f.tracker.statuses[ref] = "In Progress"

	outcomes, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("outcomes = %v, a still-open ticket emits nothing", outcomes)
	}
}

func TestRunOnceStopsAtDeadline(t *testing.T) {
	mailbox := &stubMailbox{items: []ports.InboundItem{
		{Sender: "a@example.com"},
		{Sender: "b@example.com"},
	}}
	_, runner := newRunnerFixture(t, mailbox)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := runner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("outcomes = %d, an expired deadline must stop before the next item", len(outcomes))
	}
}

func TestLastResultsSnapshot(t *testing.T) {
	mailbox := &stubMailbox{items: []ports.InboundItem{{Sender: "stranger@example.com"}}}
	_, runner := newRunnerFixture(t, mailbox)

	before, _ := runner.LastResults()
	if len(before) != 0 {
		t.Fatalf("results before any run = %v", before)
	}

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	after, ranAt := runner.LastResults()
	if len(after) != 1 || after[0].Status != domain.OutcomeUnverified {
		t.Fatalf("snapshot = %v", after)
	}
	if ranAt.IsZero() {
		t.Fatalf("run timestamp not recorded")
	}
}
