// Package contracts/analyzer defines the email analysis interface.
// The analyzer is the only component that talks to the Claude API; it
// classifies emails into exactly one of three categories and generates
// bullet-point summaries for emails worth keeping.
//
// Provider: Anthropic Claude (Messages API, direct HTTP)
// Model: Claude Sonnet 4.5 (or configurable)
package contracts

// Analyzer defines the interface for LLM-backed email analysis.

// Key operations:
//
// AnalyzeEmail:
//   Send one email (subject, sender, plain-text body) to Claude and parse
//   the response into a classification. The prompt instructs the model to
//   respond with a single JSON object:
//     {"category": "...", "confidence": 0.95, "reasoning": "..."}
//   Category must be one of NON_ESSENTIAL, SAVE_AND_SUMMARIZE, IMPORTANT
//   (case-insensitive on parse). Confidence is clamped to [0.0, 1.0].
//   Bodies are truncated to a fixed rune budget before prompting so one
//   giant email cannot blow the token limit.
//   Returns: category + confidence + one-sentence reasoning.
//
// GenerateSummary:
//   Send one email and ask for the key points as JSON:
//     {"summary_points": ["...", "..."]}
//   Points are joined with newlines into a single summary string. A
//   response with no parseable points is an error, never an empty
//   summary: archiving without a summary defeats the purpose.
//
// Response parsing:
//   Claude sometimes wraps JSON in prose or code fences. The parser
//   extracts the substring from the first '{' to the last '}' and
//   unmarshals that. Anything else is a malformed-response error, which
//   the caller treats as retryable.
//
// Credits exhaustion:
//   When the API rejects a call because the account balance is too low,
//   the analyzer marks itself exhausted and fails every subsequent call
//   immediately without touching the network. Callers can detect this
//   condition (IsCreditsError) and abort the batch: retrying cannot
//   succeed and burns nothing but time.
//
// Error handling:
//   - HTTP/network error: returned wrapped, retryable
//   - Non-200 status: returned with status and body text, retryable
//   - Malformed JSON payload: returned as parse error, retryable
//   - Credits exhausted: fatal, short-circuits all later calls
//
// Configuration:
//   - api_key: system keyring (anthropic-api-key) or ANTHROPIC_API_KEY
//   - model: configurable (default: claude-sonnet-4-5-20250929)
//   - max_tokens: configurable (default: 1024)
