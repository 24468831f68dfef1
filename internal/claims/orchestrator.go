package claims

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sujal-debug/Policy-IQ/internal/checklist"
	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/internal/claims/repository"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Orchestrator drives the per-item decision tree. Branches are evaluated
// in a fixed priority order and each terminal branch emits exactly one
// notification and at most one persistence write. The ordering is policy,
// not an accident: an unregistered sender outranks a bad attachment,
// which outranks a query, which outranks everything downstream.
type Orchestrator struct {
	store      repository.ClaimStore
	registry   *checklist.Registry
	classifier ports.Classifier
	retriever  ports.Retriever
	notifier   ports.Notifier
	composer   ports.TicketComposer
	lifecycle  *Lifecycle
	log        *logger.Logger
}

func NewOrchestrator(
	store repository.ClaimStore,
	registry *checklist.Registry,
	classifier ports.Classifier,
	retriever ports.Retriever,
	notifier ports.Notifier,
	composer ports.TicketComposer,
	lifecycle *Lifecycle,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		registry:   registry,
		classifier: classifier,
		retriever:  retriever,
		notifier:   notifier,
		composer:   composer,
		lifecycle:  lifecycle,
		log:        log,
	}
}

// ProcessItem runs one inbound item through the decision tree and returns
// its outcome. Re-processing the identical item against the same claim
// state yields the same outcome and never creates a second ticket.
func (o *Orchestrator) ProcessItem(ctx context.Context, item ports.InboundItem) (Outcome, error) {
	email := strings.ToLower(strings.TrimSpace(item.Sender))
	if email == "" {
		return Outcome{}, fmt.Errorf("inbound item without sender address")
	}

	// 1. Unregistered sender: prompt signup, touch nothing.
	claim, err := o.store.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		if err := o.notifier.SignupPrompt(ctx, email); err != nil {
			return Outcome{}, fmt.Errorf("signup prompt: %w", err)
		}
		o.log.NotificationSent(email, "signup_prompt")
		return Outcome{Email: email, Status: domain.OutcomeUnverified}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load claim: %w", err)
	}

	// 2. Non-PDF attachments: the whole bundle must be resent, so nothing
	// from this message is merged.
	if len(item.NonPDFFiles) > 0 {
		if err := o.notifier.FormatCorrection(ctx, item, item.NonPDFFiles); err != nil {
			return Outcome{}, fmt.Errorf("format correction: %w", err)
		}
		o.log.NotificationSent(email, "format_correction")
		return Outcome{Email: email, Status: domain.OutcomeRejectedNonPDF, NonPDFFiles: item.NonPDFFiles}, nil
	}

	// Knowledge retrieval only flavors outbound copy; its failure never
	// blocks the state machine.
	policyContext, err := o.retriever.RetrieveContext(ctx, item.Body)
	if err != nil {
		o.log.Warn("policy context retrieval failed", "claimant", email, "error", err)
		policyContext = ""
	}

	extraction, err := o.classifier.ClassifyClaim(ctx, item.Body, policyContext)
	if err != nil {
		return Outcome{}, fmt.Errorf("classify claim: %w", err)
	}

	// 3. Informational query: answer and stop, claim untouched.
	if extraction.Intent == ports.IntentQuery {
		if err := o.notifier.QueryReply(ctx, item, policyContext); err != nil {
			return Outcome{}, fmt.Errorf("query reply: %w", err)
		}
		o.log.NotificationSent(email, "query_reply")
		return Outcome{Email: email, Status: domain.OutcomeQueryAnswered}, nil
	}

	detected, err := o.classifier.DetectDocuments(ctx, item.AttachmentPaths)
	if err != nil {
		o.log.Warn("document detection failed", "claimant", email, "error", err)
		detected = nil
	}

	// 4. Merge and persist immediately so progress survives any later
	// failure in this same run.
	incoming := extraction.Fields.Clone()
	if incoming == nil {
		incoming = make(domain.Attributes)
	}
	if strings.TrimSpace(extraction.PolicyType) != "" {
		incoming["policy_type"] = strings.ToLower(strings.TrimSpace(extraction.PolicyType))
	}

	mergedAttrs := domain.MergeAttributes(claim.Attributes, incoming)
	mergedDocs := domain.MergeDocuments(claim.Documents, detected)
	if err := o.store.UpdateClaimData(ctx, claim.ID, mergedAttrs, mergedDocs); err != nil {
		return Outcome{}, fmt.Errorf("persist merged claim data: %w", err)
	}

	// 5. Unrecognized policy category: clarify, leave status alone.
	category := mergedAttrs.Get("policy_type")
	if !o.registry.Known(category) {
		if err := o.notifier.Clarification(ctx, email); err != nil {
			return Outcome{}, fmt.Errorf("clarification request: %w", err)
		}
		o.log.NotificationSent(email, "clarification")
		return Outcome{Email: email, Status: domain.OutcomeUnclear}, nil
	}

	// 6. Incomplete: enumerate what is missing, mark pending.
	readiness := domain.Evaluate(
		o.registry.RequiredFields(category),
		o.registry.RequiredDocuments(category),
		mergedAttrs,
		mergedDocs,
	)
	if !readiness.Ready() {
		if err := o.notifier.MissingInfo(ctx, item, policyContext, readiness.MissingFields, readiness.MissingDocuments); err != nil {
			return Outcome{}, fmt.Errorf("missing info notice: %w", err)
		}
		o.log.NotificationSent(email, "missing_info")
		if domain.Advances(claim.Status, domain.StatusPending) {
			if err := o.store.UpdateStatus(ctx, claim.ID, domain.StatusPending); err != nil {
				return Outcome{}, fmt.Errorf("set pending status: %w", err)
			}
		}
		return Outcome{
			Email:            email,
			Status:           domain.StatusPending,
			MissingFields:    readiness.MissingFields,
			MissingDocuments: readiness.MissingDocuments,
		}, nil
	}

	// 7. Ready. A claim that already holds a ticket is never re-filed.
	if claim.Status == domain.StatusSubmitted || domain.IsTerminal(claim.Status) {
		outcome := Outcome{Email: email, Status: claim.Status, Detail: "already submitted"}
		if claim.TicketReference != nil {
			outcome.TicketReference = *claim.TicketReference
		}
		return outcome, nil
	}

	return o.submit(ctx, item, claim, mergedAttrs, mergedDocs, policyContext)
}

func (o *Orchestrator) submit(ctx context.Context, item ports.InboundItem, claim repository.Claim, attrs domain.Attributes, documents []string, policyContext string) (Outcome, error) {
	email := claim.Email

	summary, description, err := o.composer.ComposeTicket(ctx, attrs, documents, policyContext)
	if err != nil {
		o.log.Warn("ticket copy generation failed, using plain rendering", "claimant", email, "error", err)
		summary, description = plainTicket(attrs, documents)
	}

	reference, err := o.lifecycle.CreateTicket(ctx, ports.IssueRequest{Summary: summary, Description: description})
	if err != nil {
		if errors.Is(err, ErrSubmissionFailed) {
			// Deliberately no notification: do not promise a ticket that
			// does not exist. The claim status is untouched so the next
			// poll retries from the merge step with the saved data.
			o.log.Warn("ticket submission failed", "claimant", email, "error", err)
			return Outcome{Email: email, Status: domain.OutcomeSubmissionFailed, Detail: err.Error()}, nil
		}
		return Outcome{}, err
	}

	if err := o.store.MarkSubmitted(ctx, claim.ID, reference); err != nil {
		return Outcome{}, fmt.Errorf("record submitted ticket %s: %w", reference, err)
	}

	if err := o.notifier.Submitted(ctx, item, reference); err != nil {
		// The ticket exists and is recorded; misreporting the claim as
		// failed would be worse than a missed confirmation mail.
		o.log.Warn("submission confirmation failed to send", "claimant", email, "error", err)
		return Outcome{Email: email, Status: domain.StatusSubmitted, TicketReference: reference, Detail: "confirmation not sent"}, nil
	}
	o.log.NotificationSent(email, "submitted")

	return Outcome{Email: email, Status: domain.StatusSubmitted, TicketReference: reference}, nil
}

// plainTicket renders a deterministic work-item summary when the
// copywriter is unavailable.
func plainTicket(attrs domain.Attributes, documents []string) (string, string) {
	summary := "Insurance Claim - " + attrs.Get("policy_number")

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Claim details:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, attrs[k])
	}
	b.WriteString("Provided documents:\n")
	for _, d := range documents {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	return summary, b.String()
}
