package email

// Subjects for each claimant notification.
const (
	SubjectUnableToProcess  = "Unable to Process Your Request"
	SubjectFormatCorrection = "Please Resend Your Attachments in PDF Format"
	SubjectQueryReply       = "Information Regarding Your Insurance Query"
	SubjectClarification    = "Unable to Process Your Query - Clarification Needed"
	SubjectMissingInfo      = "Additional Information Required for Your Insurance Claim"
	SubjectSubmitted        = "Your Insurance Claim has been Submitted"
	SubjectProcessed        = "Your Insurance Claim has been Processed"
	SubjectDeclined         = "Your Insurance Claim has been Declined"
)
