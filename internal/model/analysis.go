package model

// DefaultReasoning fills the reasoning field when the classifier response
// omits it; the field is required to be non-empty everywhere downstream.
const DefaultReasoning = "No reasoning provided"

// EmailAnalysis is the classifier's verdict for a single email. Summaries
// are not part of the analysis; they come from a separate summarization
// call made only for CategorySaveAndSummarize.
type EmailAnalysis struct {
	// Category is the assigned disposition category.
	Category Category `json:"category"`

	// Confidence is the classifier's self-reported certainty, always
	// clamped to [0.0, 1.0] before it leaves the analyzer.
	Confidence float64 `json:"confidence"`

	// Reasoning is a short free-text explanation, never empty.
	Reasoning string `json:"reasoning"`
}
