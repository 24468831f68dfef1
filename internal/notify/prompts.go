package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sujal-debug/Policy-IQ/internal/claims/domain"
)

// plainTextRules is appended to every copywriting prompt. The output goes
// straight into an email body, so any markdown would reach the claimant
// verbatim.
const plainTextRules = `Strict Rules:
- DO NOT use asterisks (*), backticks (` + "`" + `), hashtags (#), or bold/italic markers.
- DO NOT use any Markdown syntax.
- Write in plain professional text only, suitable for an email body.
- Keep the tone formal, concise, and customer-friendly.`

func formatCorrectionPrompt(files []string, companyName string) string {
	return fmt.Sprintf(`Write a professional email (no subject, no greeting name) informing the customer:
The following attachments are not in PDF format: %s.
Please resend all attachments in PDF format.
%s
Company: %s.`, strings.Join(files, ", "), plainTextRules, companyName)
}

func queryReplyPrompt(question, policyContext, companyName string) string {
	return fmt.Sprintf(`%s

The customer sent the following insurance question:
%s

Answer the question using the policy information above. If the information
does not cover the question, say so and point the customer to the support team.
Write a professional email (no subject, no greeting name).
%s
Company: %s.`, policyContext, question, plainTextRules, companyName)
}

func missingInfoPrompt(policyContext string, missingFields, missingDocuments []string, companyName string) string {
	return fmt.Sprintf(`Start the mail with Dear Member.
%s Give a short description of the policy the customer wants to claim.
Write a professional email (no subject, no greeting name) informing the customer:
The following required documents and fields are missing:
Documents: %s
Fields: %s
%s
Company: %s.`, policyContext, strings.Join(missingDocuments, ", "), strings.Join(missingFields, ", "), plainTextRules, companyName)
}

func submittedPrompt(ticketReference, companyName string) string {
	return fmt.Sprintf(`Write a professional email (no subject, no greeting name) informing the customer:
Their claim has been submitted successfully.
Reference Ticket ID: %s.
%s
Company: %s.`, ticketReference, plainTextRules, companyName)
}

func ticketDescriptionPrompt(attrs domain.Attributes, documents []string, policyContext string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var facts strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&facts, "%s: %s\n", k, attrs[k])
	}

	return fmt.Sprintf(`%s Give a short description of the policy the customer wants to claim.

The extracted claim data is:
%s
Provided documents: %s

Provide a comprehensive, human-friendly work-item description including:
1. Patient or incident history.
2. A summary of each provided document with every key value and extracted detail, clean and precise.
3. A short assessment of claim eligibility and a suggested claimable amount.
4. Suggested next steps for the reviewer.
Make it clear and easy for a human to process. Do not add a date or time.
%s`, policyContext, facts.String(), strings.Join(documents, ", "), plainTextRules)
}
