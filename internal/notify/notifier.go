// Package notify composes and delivers every claimant-facing
// notification. Copy is written by the generative model where it adds
// value; each branch falls back to static copy so a model outage never
// silences the pipeline.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/internal/email"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// TextGenerator writes notification copy. The gemini client implements it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Mailer delivers rendered HTML notifications. The SMTP sender implements it.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
	SendReply(ctx context.Context, toEmail, subject, htmlContent, inReplyTo string) error
}

// Service implements the pipeline's notifier and ticket composer.
type Service struct {
	generator   TextGenerator
	mailer      Mailer
	companyName string
	log         *logger.Logger
}

func New(generator TextGenerator, mailer Mailer, companyName string, log *logger.Logger) *Service {
	return &Service{
		generator:   generator,
		mailer:      mailer,
		companyName: companyName,
		log:         log,
	}
}

var (
	_ ports.Notifier       = (*Service)(nil)
	_ ports.TicketComposer = (*Service)(nil)
)

// SignupPrompt tells an unregistered sender to sign up. The copy is
// static: there is nothing claim-specific to say.
func (s *Service) SignupPrompt(ctx context.Context, to string) error {
	return s.deliver(ctx, to, email.SubjectUnableToProcess, signupFallback, "")
}

func (s *Service) FormatCorrection(ctx context.Context, item ports.InboundItem, files []string) error {
	content := s.compose(ctx, formatCorrectionPrompt(files, s.companyName), formatCorrectionFallback(files))
	return s.deliver(ctx, item.Sender, email.SubjectFormatCorrection, content, item.MessageID)
}

func (s *Service) QueryReply(ctx context.Context, item ports.InboundItem, policyContext string) error {
	content := s.compose(ctx, queryReplyPrompt(item.Body, policyContext, s.companyName), queryReplyFallback())
	return s.deliver(ctx, item.Sender, email.SubjectQueryReply, content, item.MessageID)
}

func (s *Service) Clarification(ctx context.Context, to string) error {
	return s.deliver(ctx, to, email.SubjectClarification, clarificationFallback, "")
}

func (s *Service) MissingInfo(ctx context.Context, item ports.InboundItem, policyContext string, missingFields, missingDocuments []string) error {
	content := s.compose(ctx,
		missingInfoPrompt(policyContext, missingFields, missingDocuments, s.companyName),
		missingInfoFallback(missingFields, missingDocuments),
	)
	return s.deliver(ctx, item.Sender, email.SubjectMissingInfo, content, item.MessageID)
}

func (s *Service) Submitted(ctx context.Context, item ports.InboundItem, ticketReference string) error {
	content := s.compose(ctx, submittedPrompt(ticketReference, s.companyName), submittedFallback(ticketReference))
	return s.deliver(ctx, item.Sender, email.SubjectSubmitted, content, item.MessageID)
}

func (s *Service) Approved(ctx context.Context, to, policyNumber string) error {
	return s.deliver(ctx, to, email.SubjectProcessed, approvedFallback(policyNumber), "")
}

func (s *Service) Declined(ctx context.Context, to, policyNumber string) error {
	return s.deliver(ctx, to, email.SubjectDeclined, declinedFallback(policyNumber), "")
}

// ComposeTicket writes the tracker work-item summary and description.
// A generation failure is returned to the caller, which renders a plain
// deterministic ticket instead.
func (s *Service) ComposeTicket(ctx context.Context, attrs domain.Attributes, documents []string, policyContext string) (string, string, error) {
	summary := "Insurance Claim - " + attrs.Get("policy_number")

	description, err := s.generator.GenerateText(ctx, ticketDescriptionPrompt(attrs, documents, policyContext))
	if err != nil {
		return "", "", fmt.Errorf("compose ticket description: %w", err)
	}
	return summary, strings.TrimSpace(description), nil
}

// compose asks the model for copy and falls back to the static text on
// any failure.
func (s *Service) compose(ctx context.Context, prompt, fallback string) string {
	content, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn("notification copy generation failed, using static copy", "error", err)
		return fallback
	}
	return strings.TrimSpace(content)
}

func (s *Service) deliver(ctx context.Context, to, subject, content, inReplyTo string) error {
	html, err := email.RenderNotice(content, s.companyName)
	if err != nil {
		return err
	}
	if inReplyTo != "" {
		return s.mailer.SendReply(ctx, to, subject, html, inReplyTo)
	}
	return s.mailer.Send(ctx, to, subject, html)
}
