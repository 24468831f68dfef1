// Package extraction turns free-text claim emails and PDF attachments
// into structured claim facts using the generative model.
package extraction

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/sujal-debug/Policy-IQ/internal/checklist"
	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
	"github.com/sujal-debug/Policy-IQ/platform/validator"
)

// Generator is the model surface the classifier needs. The gemini client
// implements it.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateWithDocuments(ctx context.Context, prompt string, documents [][]byte) (string, error)
}

// metadata keys the model may return beside checklist fields.
var metadataKeys = map[string]bool{
	"policy_type":     true,
	"intent":          true,
	"patient_summary": true,
}

// Classifier implements the pipeline's classifier port on the generative
// model. Model output is never trusted: keys outside the known checklist
// vocabulary are quarantined, and an unparseable response degrades to an
// empty extraction instead of failing the item.
type Classifier struct {
	generator Generator
	val       *validator.Validator
	log       *logger.Logger

	categories  []string
	fieldNames  []string
	docTags     []string
	allowedKeys map[string]bool
	knownDocs   map[string]bool
}

func NewClassifier(generator Generator, registry *checklist.Registry, val *validator.Validator, log *logger.Logger) *Classifier {
	c := &Classifier{
		generator:   generator,
		val:         val,
		log:         log,
		allowedKeys: make(map[string]bool),
		knownDocs:   make(map[string]bool),
	}

	c.categories = registry.Categories()
	sort.Strings(c.categories)

	for _, category := range c.categories {
		for _, field := range registry.RequiredFields(category) {
			if !c.allowedKeys[field] {
				c.allowedKeys[field] = true
				c.fieldNames = append(c.fieldNames, field)
			}
		}
		for _, tag := range registry.RequiredDocuments(category) {
			if !c.knownDocs[tag] {
				c.knownDocs[tag] = true
				c.docTags = append(c.docTags, tag)
			}
		}
	}
	sort.Strings(c.fieldNames)
	sort.Strings(c.docTags)

	for key := range metadataKeys {
		c.allowedKeys[key] = true
	}

	return c
}

var _ ports.Classifier = (*Classifier)(nil)

// ClassifyClaim extracts claim facts and intent from the message body.
func (c *Classifier) ClassifyClaim(ctx context.Context, bodyText, policyContext string) (ports.Extraction, error) {
	raw, err := c.generator.GenerateJSON(ctx, classifyPrompt(bodyText, policyContext, c.fieldNames, c.categories))
	if err != nil {
		return ports.Extraction{}, fmt.Errorf("classify claim: %w", err)
	}

	pairs, err := decodeFlatObject(raw)
	if err != nil {
		// An unparseable response is treated as "nothing extracted"; the
		// pipeline will ask for clarification rather than fail the item.
		c.log.Warn("classifier returned invalid json", "error", err)
		return ports.Extraction{Intent: ports.IntentClaim, Fields: make(domain.Attributes)}, nil
	}

	ext := ports.Extraction{
		Intent: ports.IntentClaim,
		Fields: make(domain.Attributes),
	}

	for key, value := range pairs {
		if !c.allowedKeys[key] {
			c.log.Warn("classifier returned unknown key, dropping", "key", key)
			continue
		}
		switch key {
		case "policy_type":
			ext.PolicyType = value
		case "intent":
			if err := c.val.Var(value, "oneof=claim query"); err == nil {
				ext.Intent = value
			}
		case "patient_summary":
			ext.Summary = value
		default:
			if value != "" {
				ext.Fields[key] = value
			}
		}
	}

	return ext, nil
}

// DetectDocuments identifies which checklist document types the PDF
// attachments carry. Unreadable files are skipped; no attachments means
// no detected documents.
func (c *Classifier) DetectDocuments(ctx context.Context, attachmentPaths []string) ([]string, error) {
	if len(attachmentPaths) == 0 {
		return nil, nil
	}

	documents := make([][]byte, 0, len(attachmentPaths))
	for _, path := range attachmentPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			c.log.Warn("skipping unreadable attachment", "path", path, "error", err)
			continue
		}
		documents = append(documents, data)
	}
	if len(documents) == 0 {
		return nil, nil
	}

	raw, err := c.generator.GenerateWithDocuments(ctx, detectDocumentsPrompt(c.docTags), documents)
	if err != nil {
		return nil, fmt.Errorf("detect documents: %w", err)
	}

	tags, err := decodeStringArray(raw)
	if err != nil {
		c.log.Warn("document detector returned invalid json", "error", err)
		return nil, nil
	}

	detected := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !c.knownDocs[tag] {
			c.log.Warn("document detector returned unknown tag, dropping", "tag", tag)
			continue
		}
		detected = append(detected, tag)
	}
	return detected, nil
}
