// Package claims implements the claim reconciliation and submission
// pipeline: the inbound decision tree, the ticket lifecycle and the batch
// runner that drives both.
package claims

// Outcome records what happened to one inbound item or one polled ticket.
// Outcomes are append-only; a batch returns the concatenation of the
// inbox pass and the ticket poll pass.
type Outcome struct {
	Email            string   `json:"email"`
	Status           string   `json:"status"`
	Detail           string   `json:"detail,omitempty"`
	TicketReference  string   `json:"ticketReference,omitempty"`
	MissingFields    []string `json:"missingFields,omitempty"`
	MissingDocuments []string `json:"missingDocuments,omitempty"`
	NonPDFFiles      []string `json:"nonPdfFiles,omitempty"`
}
