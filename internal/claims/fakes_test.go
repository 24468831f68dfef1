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

func testLogger() *logger.Logger {
	return logger.New("development")
}

// memStore is an in-memory ClaimStore with the same guard semantics as
// the pgx repository.
type memStore struct {
	mu         sync.Mutex
	claims     map[uuid.UUID]*repository.Claim
	dataWrites int
}

func newMemStore() *memStore {
	return &memStore{claims: make(map[uuid.UUID]*repository.Claim)}
}

func (s *memStore) add(email, status string, ticketRef *string, attrs domain.Attributes, documents []string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	if attrs == nil {
		attrs = make(domain.Attributes)
	}
	s.claims[id] = &repository.Claim{
		ID:              id,
		Email:           email,
		TicketReference: ticketRef,
		Status:          status,
		Attributes:      attrs,
		Documents:       documents,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	return id
}

func (s *memStore) get(id uuid.UUID) repository.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.claims[id]
}

func (s *memStore) GetByEmail(_ context.Context, email string) (repository.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.claims {
		if c.Email == email {
			return *c, nil
		}
	}
	return repository.Claim{}, repository.ErrNotFound
}

func (s *memStore) ListByStatus(_ context.Context, status string) ([]repository.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Claim
	for _, c := range s.claims {
		if c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memStore) UpdateClaimData(_ context.Context, id uuid.UUID, attrs domain.Attributes, documents []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Attributes = attrs.Clone()
	c.Documents = append([]string(nil), documents...)
	s.dataWrites++
	return nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok || domain.IsTerminal(c.Status) {
		return repository.ErrNotFound
	}
	c.Status = status
	return nil
}

func (s *memStore) MarkSubmitted(_ context.Context, id uuid.UUID, ticketReference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok || domain.IsTerminal(c.Status) {
		return repository.ErrNotFound
	}
	ref := ticketReference
	c.TicketReference = &ref
	c.Status = domain.StatusSubmitted
	return nil
}

// recordingNotifier records every notification kind in send order.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	fail map[string]error
	last map[string]any
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fail: make(map[string]error), last: make(map[string]any)}
}

func (n *recordingNotifier) record(kind string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[kind]; err != nil {
		return err
	}
	n.sent = append(n.sent, kind)
	n.last[kind] = payload
	return nil
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func (n *recordingNotifier) SignupPrompt(_ context.Context, to string) error {
	return n.record("signup_prompt", to)
}

func (n *recordingNotifier) FormatCorrection(_ context.Context, _ ports.InboundItem, files []string) error {
	return n.record("format_correction", files)
}

func (n *recordingNotifier) QueryReply(_ context.Context, _ ports.InboundItem, policyContext string) error {
	return n.record("query_reply", policyContext)
}

func (n *recordingNotifier) Clarification(_ context.Context, to string) error {
	return n.record("clarification", to)
}

func (n *recordingNotifier) MissingInfo(_ context.Context, _ ports.InboundItem, _ string, missingFields, missingDocuments []string) error {
	return n.record("missing_info", [2][]string{missingFields, missingDocuments})
}

func (n *recordingNotifier) Submitted(_ context.Context, _ ports.InboundItem, ticketReference string) error {
	return n.record("submitted", ticketReference)
}

func (n *recordingNotifier) Approved(_ context.Context, to, _ string) error {
	return n.record("approved", to)
}

func (n *recordingNotifier) Declined(_ context.Context, to, _ string) error {
	return n.record("declined", to)
}

// stubClassifier returns canned extraction results, optionally keyed by
// message body.
type stubClassifier struct {
	extraction ports.Extraction
	extractErr error
	classifyFn func(body string) (ports.Extraction, error)

	detected  []string
	detectErr error
}

func (c *stubClassifier) ClassifyClaim(_ context.Context, bodyText, _ string) (ports.Extraction, error) {
	if c.classifyFn != nil {
		return c.classifyFn(bodyText)
	}
	return c.extraction, c.extractErr
}

func (c *stubClassifier) DetectDocuments(_ context.Context, _ []string) ([]string, error) {
	return c.detected, c.detectErr
}

type stubRetriever struct {
	context string
	err     error
}

func (r *stubRetriever) RetrieveContext(context.Context, string) (string, error) {
	return r.context, r.err
}

type stubComposer struct {
	summary     string
	description string
	err         error
}

func (c *stubComposer) ComposeTicket(context.Context, domain.Attributes, []string, string) (string, string, error) {
	return c.summary, c.description, c.err
}

// scriptedTracker plays back a fixed sequence of CreateIssue results and
// serves issue statuses from a map.
type scriptedTracker struct {
	mu          sync.Mutex
	createErrs  []error
	reference   string
	createCalls int

	statuses map[string]string
	getErr   error
	getCalls int
}

func (t *scriptedTracker) CreateIssue(context.Context, ports.IssueRequest) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	call := t.createCalls
	t.createCalls++
	if call < len(t.createErrs) && t.createErrs[call] != nil {
		return "", t.createErrs[call]
	}
	return t.reference, nil
}

func (t *scriptedTracker) GetIssue(_ context.Context, reference string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.getCalls++
	if t.getErr != nil {
		return "", t.getErr
	}
	return t.statuses[reference], nil
}

type stubMailbox struct {
	items []ports.InboundItem
	err   error
}

func (m *stubMailbox) FetchRecent(context.Context, time.Duration, int) ([]ports.InboundItem, error) {
	return m.items, m.err
}
