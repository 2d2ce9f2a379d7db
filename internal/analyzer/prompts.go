package analyzer

import (
	"fmt"
	"strings"

	"github.com/nhle/email-manager/internal/model"
)

// maxBodyRunes bounds how much of the email body is sent to the model.
// Long newsletters blow past the context budget otherwise; the opening
// of a message is where classification signal lives anyway.
const maxBodyRunes = 8000

// buildAnalysisPrompt asks for a strict single-JSON-object classification
// of the email into the three known categories.
func buildAnalysisPrompt(email *model.Email) string {
	var sb strings.Builder

	sb.WriteString("Analyze this email and determine its category. ")
	sb.WriteString("The email details are:\n\n")
	writeEmailDetails(&sb, email)

	sb.WriteString("\nCategorize this email into one of these categories:\n")
	sb.WriteString("1. non_essential: Advertisements, promotions, general newsletters\n")
	sb.WriteString("2. save_and_summarize: Content worth keeping and summarizing, ")
	sb.WriteString("such as technical or AI-related newsletters, GitHub notifications, ")
	sb.WriteString("and API or product updates\n")
	sb.WriteString("3. important: Emails that need attention, like bills, receipts, ")
	sb.WriteString("registrations, reminders, and appointments\n\n")

	sb.WriteString("IMPORTANT: Respond with ONLY a single JSON object and NO ")
	sb.WriteString("additional text. The JSON must have exactly this structure:\n")
	sb.WriteString(`{
    "category": "non_essential|save_and_summarize|important",
    "confidence": 0.0-1.0,
    "reasoning": "1-2 sentences explaining the categorization"
}`)

	return sb.String()
}

// buildSummaryPrompt asks for a short bullet-point digest as a strict
// single JSON object.
func buildSummaryPrompt(email *model.Email) string {
	var sb strings.Builder

	sb.WriteString("Generate a concise 1-9 bullet point summary of this email:\n\n")
	writeEmailDetails(&sb, email)

	sb.WriteString("\nFocus on:\n")
	sb.WriteString("- Key points and main message\n")
	sb.WriteString("- Important updates or changes\n")
	sb.WriteString("- Action items or deadlines\n")
	sb.WriteString("- Relevant links or resources\n\n")

	sb.WriteString("IMPORTANT: Respond with ONLY a single JSON object and NO ")
	sb.WriteString("additional text. The JSON must have exactly this structure:\n")
	sb.WriteString(`{
    "summary_points": [
        "Point 1 about key updates",
        "Point 2 about action items"
    ]
}`)

	return sb.String()
}

// writeEmailDetails appends the subject/sender/content block shared by
// both prompts.
func writeEmailDetails(sb *strings.Builder, email *model.Email) {
	fmt.Fprintf(sb, "Subject: %s\n", email.Subject)
	fmt.Fprintf(sb, "From: %s\n", email.Sender)
	fmt.Fprintf(sb, "Content: %s\n", truncateBody(email.Body))
}

// truncateBody caps the body at maxBodyRunes, marking the cut.
func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxBodyRunes {
		return body
	}
	return string(runes[:maxBodyRunes]) + "\n[truncated]"
}
