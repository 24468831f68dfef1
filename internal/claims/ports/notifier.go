package ports

import (
	"context"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
)

// Notifier sends the claimant-facing notification for each terminal
// branch of the pipeline. Every method sends exactly one message;
// implementations own copywriting, templating and transport.
type Notifier interface {
	// SignupPrompt tells an unregistered sender to sign up first.
	SignupPrompt(ctx context.Context, to string) error
	// FormatCorrection asks for the listed attachments to be resent as PDF.
	FormatCorrection(ctx context.Context, item InboundItem, files []string) error
	// QueryReply answers an informational query using retrieved policy context.
	QueryReply(ctx context.Context, item InboundItem, policyContext string) error
	// Clarification asks the claimant to state their policy type.
	Clarification(ctx context.Context, to string) error
	// MissingInfo enumerates the missing required fields and documents.
	MissingInfo(ctx context.Context, item InboundItem, policyContext string, missingFields, missingDocuments []string) error
	// Submitted confirms the claim was filed under the ticket reference.
	Submitted(ctx context.Context, item InboundItem, ticketReference string) error
	// Approved announces a processed claim.
	Approved(ctx context.Context, to, policyNumber string) error
	// Declined announces a declined claim.
	Declined(ctx context.Context, to, policyNumber string) error
}

// TicketComposer writes the human-facing summary and description for a
// tracker work item from the merged claim snapshot.
type TicketComposer interface {
	ComposeTicket(ctx context.Context, attrs domain.Attributes, documents []string, policyContext string) (summary, description string, err error)
}
