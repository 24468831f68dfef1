package ports

import (
	"context"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
)

// Claim intents as classified from the message body.
const (
	IntentClaim = "claim"
	IntentQuery = "query"
)

// Extraction is the validated result of classifying a message body.
// A zero PolicyType with IntentClaim means the classifier could not make
// sense of the message; the pipeline answers with a clarification request.
type Extraction struct {
	PolicyType string
	Intent     string
	Fields     domain.Attributes
	Summary    string
}

// Classifier extracts structured claim facts from free text and detects
// which checklist documents the attachments carry. Results are best
// effort and possibly empty; the pipeline never trusts them blindly.
type Classifier interface {
	ClassifyClaim(ctx context.Context, bodyText, policyContext string) (Extraction, error)
	DetectDocuments(ctx context.Context, attachmentPaths []string) ([]string, error)
}
