package ports

import "context"

// Retriever looks up policy knowledge relevant to a message. It only
// enriches notification language; failures degrade to a generic
// notification and never block the state machine.
type Retriever interface {
	RetrieveContext(ctx context.Context, bodyText string) (string, error)
}
