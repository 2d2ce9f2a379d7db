package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/nhle/email-manager/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1024
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// creditsExhaustedMarker is the substring the API uses in its 400 error
// body when the account balance cannot cover the request.
const creditsExhaustedMarker = "credit balance is too low"

// Claude talks to the Anthropic Messages API directly over HTTP.
//
// It remembers a credits-exhausted response for the lifetime of the
// process: once seen, every later call returns a CreditsError without
// touching the network. Execution is single-threaded by design, so the
// flag needs no lock.
type Claude struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client

	creditsExhausted bool
}

var _ Analyzer = (*Claude)(nil)

// NewClaude creates a Claude analyzer. An empty modelName or
// non-positive maxTokens selects the defaults.
func NewClaude(apiKey, modelName string, maxTokens int) *Claude {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Claude{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		baseURL:   apiURL,
		client:    &http.Client{},
	}
}

// AnalyzeEmail classifies one email into a category with confidence and
// reasoning. The response must be the documented JSON shape; anything
// else is returned as an error so the caller can retry.
func (c *Claude) AnalyzeEmail(
	ctx context.Context,
	email *model.Email,
) (*model.EmailAnalysis, error) {
	text, err := c.callAPI(ctx, buildAnalysisPrompt(email))
	if err != nil {
		return nil, err
	}
	return parseAnalysis(text)
}

// GenerateSummary produces the bullet-point digest for an email that is
// being archived. Points are joined with newlines; an empty digest is
// an error.
func (c *Claude) GenerateSummary(
	ctx context.Context,
	email *model.Email,
) (string, error) {
	text, err := c.callAPI(ctx, buildSummaryPrompt(email))
	if err != nil {
		return "", err
	}
	return parseSummary(text)
}

// callAPI makes a single request to the Claude Messages API and returns
// the concatenated text content of the response.
func (c *Claude) callAPI(ctx context.Context, prompt string) (string, error) {
	if c.creditsExhausted {
		return "", &CreditsError{Message: "credits exhausted earlier in this run"}
	}

	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContentBlock{
					{Type: "text", Text: prompt},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			if strings.Contains(strings.ToLower(apiErr.Error.Message), creditsExhaustedMarker) {
				c.creditsExhausted = true
				return "", &CreditsError{Message: apiErr.Error.Message}
			}
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var textParts []string
	for _, block := range result.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	if len(textParts) == 0 {
		return "", fmt.Errorf("response contains no text content")
	}

	return strings.Join(textParts, ""), nil
}

// parseAnalysis converts the model's response text into an EmailAnalysis.
// The category must be one of the three known values and confidence must
// be present; reasoning is defaulted when omitted. Confidence is clamped
// to [0, 1].
func parseAnalysis(text string) (*model.EmailAnalysis, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("analysis response: %w", err)
	}

	var payload struct {
		Category   string   `json:"category"`
		Confidence *float64 `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parsing analysis JSON: %w", err)
	}

	category, err := model.ParseCategory(payload.Category)
	if err != nil {
		return nil, fmt.Errorf("analysis response: %w", err)
	}
	if payload.Confidence == nil {
		return nil, fmt.Errorf("analysis response missing confidence")
	}

	reasoning := strings.TrimSpace(payload.Reasoning)
	if reasoning == "" {
		reasoning = model.DefaultReasoning
	}

	return &model.EmailAnalysis{
		Category:   category,
		Confidence: clampConfidence(*payload.Confidence),
		Reasoning:  reasoning,
	}, nil
}

// parseSummary converts the model's response text into a newline-joined
// list of bullet points. When the response is not the documented JSON
// shape it falls back to collecting "-" bullet lines, since models
// occasionally answer in plain markdown despite the instructions.
func parseSummary(text string) (string, error) {
	if raw, err := extractJSONObject(text); err == nil {
		var payload struct {
			SummaryPoints []string `json:"summary_points"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			points := make([]string, 0, len(payload.SummaryPoints))
			for _, p := range payload.SummaryPoints {
				if s := strings.TrimSpace(p); s != "" {
					points = append(points, s)
				}
			}
			if len(points) == 0 {
				return "", fmt.Errorf("summary response contains no points")
			}
			return strings.Join(points, "\n"), nil
		}
	}

	var points []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); strings.HasPrefix(s, "-") {
			points = append(points, s)
		}
	}
	if len(points) == 0 {
		return "", fmt.Errorf("summary response contains no points")
	}
	return strings.Join(points, "\n"), nil
}

// extractJSONObject returns the slice of s from the first '{' to the last
// '}'. Models wrap JSON in prose often enough that decoding the whole
// response directly is not reliable.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// clampConfidence bounds a confidence score to [0.0, 1.0].
func clampConfidence(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
