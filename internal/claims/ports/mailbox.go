// Package ports defines the collaborator contracts the claim pipeline
// consumes. Implementations live in their own packages (mailroom, email,
// extraction, knowledge, tracker, notify); tests substitute fakes.
package ports

import (
	"context"
	"time"
)

// InboundItem is one claim-related message pulled from the inbox. It is
// transient: only its effect on the claim record is persisted.
type InboundItem struct {
	Sender     string
	Subject    string
	MessageID  string
	Body       string
	ReceivedAt time.Time

	// AttachmentPaths are locally materialized PDF attachments.
	AttachmentPaths []string
	// NonPDFFiles are the names of attachments that were not valid PDFs.
	// A non-empty list short-circuits processing with a format-correction
	// notice.
	NonPDFFiles []string
}

// Mailbox pulls recent messages from the claim inbox.
type Mailbox interface {
	// FetchRecent returns up to limit messages received within the window,
	// with attachments materialized to local files. Transport failures are
	// reported as apperr.KindTransient so the batch layer can retry the
	// whole poll.
	FetchRecent(ctx context.Context, window time.Duration, limit int) ([]InboundItem, error)
}
