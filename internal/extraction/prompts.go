package extraction

import (
	"fmt"
	"strings"
)

func classifyPrompt(bodyText, policyContext string, fieldNames, categories []string) string {
	return fmt.Sprintf(`%s

You are an insurance claim intake classifier. Analyze the customer email below.

Customer email:
%s

Return ONLY a flat JSON object. No prose, no markdown, no code fences.
The object may contain these keys and no others:
- "policy_type": one of %s, or empty if unclear.
- "intent": "query" if the customer is only asking for information, otherwise "claim".
- "patient_summary": a one-sentence summary of the incident.
- Any of these claim fields when the email states them: %s.
Omit keys whose value is not present in the email. Never invent values.`,
		policyContext, bodyText, strings.Join(categories, ", "), strings.Join(fieldNames, ", "))
}

func detectDocumentsPrompt(tags []string) string {
	return fmt.Sprintf(`The attached PDF documents belong to an insurance claim.
Identify which of the following document types are present: %s.

Return ONLY a JSON array of the matching document type tags, for example
["driver_license", "accident_report"]. Return an empty array if none match.
No prose, no markdown, no code fences.`, strings.Join(tags, ", "))
}
