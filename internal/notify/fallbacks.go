package notify

import (
	"fmt"
	"strings"
)

// Static notification copy used when the copywriting model is
// unavailable. Every branch must still reach the claimant.

const signupFallback = `Dear Customer,

We noticed that your email address is not registered with us. To access our insurance services and manage your policies, please sign up using your email address.

We look forward to serving you and helping you protect what matters most.

Thank you.`

const clarificationFallback = `Dear Customer,

We could not determine the type of your insurance policy or what kind of claim or query you are making based on your recent email.

Please reply with your policy type or provide the relevant documents so we can proceed with your claim.

Thank you.`

func formatCorrectionFallback(files []string) string {
	return fmt.Sprintf(`Dear Customer,

The following attachments are not in PDF format: %s.

Please resend all attachments in PDF format so we can process your claim.

Thank you.`, strings.Join(files, ", "))
}

func queryReplyFallback() string {
	return `Dear Customer,

Thank you for your question. We were unable to generate a detailed answer automatically. Our support team will review your query and respond as soon as possible.

Thank you.`
}

func missingInfoFallback(missingFields, missingDocuments []string) string {
	var b strings.Builder
	b.WriteString("Dear Member,\n\nTo proceed with your insurance claim we still need the following information:\n")
	if len(missingDocuments) > 0 {
		b.WriteString("Documents: " + strings.Join(missingDocuments, ", ") + "\n")
	}
	if len(missingFields) > 0 {
		b.WriteString("Fields: " + strings.Join(missingFields, ", ") + "\n")
	}
	b.WriteString("\nPlease reply with the missing items so we can complete your submission.\n\nThank you.")
	return b.String()
}

func submittedFallback(ticketReference string) string {
	return fmt.Sprintf(`Dear Customer,

Your insurance claim has been submitted successfully.
Reference Ticket ID: %s.

Thank you.`, ticketReference)
}

func approvedFallback(policyNumber string) string {
	return fmt.Sprintf(`Dear Customer,

Your insurance claim for policy %s has been processed successfully.
The approved amount will reflect in your account within 24-48 hours.

Thank you.`, policyNumber)
}

func declinedFallback(policyNumber string) string {
	return fmt.Sprintf(`Dear Customer,

We regret to inform you that your insurance claim for policy %s has been declined.

For more details, please contact our support team.

Thank you.`, policyNumber)
}
