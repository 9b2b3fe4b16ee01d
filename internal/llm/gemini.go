package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"carelink/api/internal/config"
)

const extractionPrompt = `You are an AI assistant specializing in extracting actionable steps and scheduling information from doctor's notes. Your output MUST ALWAYS be a JSON object with the following structure:

{
  "actionable_steps": {
    "checklist": "string",
    "plan": "string",
    "number_of_days": "string",
    "interval_between_days": number
  }
}

Field meanings:
- checklist: a concise list of immediate one-time tasks, or "" if none.
- plan: the recurring schedule with frequency and duration, or "" if none.
- number_of_days: the total number of days the treatment runs, as a string, or "" if unspecified.
- interval_between_days: the gap in days between treatment days; 0 for daily use or when no treatment is involved.

ALWAYS return valid JSON and nothing else. Do not add explanation or context.

Now, analyze the following doctor's note and provide your response in the specified JSON format:

`

// GeminiExtractor calls the Gemini generateContent REST endpoint.
type GeminiExtractor struct {
	client   *http.Client
	apiKey   string
	model    string
	endpoint string
}

func NewGeminiExtractor(cfg config.LLMConfig) *GeminiExtractor {
	return &GeminiExtractor{
		client:   &http.Client{Timeout: cfg.Timeout},
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiExtractor) Extract(ctx context.Context, doctorNote string) (Actions, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: extractionPrompt + doctorNote}}}},
	})
	if err != nil {
		return Actions{}, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return Actions{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Actions{}, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Actions{}, fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return Actions{}, fmt.Errorf("decode response: %w", err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return Actions{}, fmt.Errorf("model returned no candidates")
	}

	return parseActions(generated.Candidates[0].Content.Parts[0].Text)
}

// parseActions decodes the model's JSON reply, tolerating markdown code
// fences and the number_of_days field arriving as a string.
func parseActions(raw string) (Actions, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	var wire struct {
		ActionableSteps struct {
			Checklist    string          `json:"checklist"`
			Plan         string          `json:"plan"`
			NumberOfDays json.RawMessage `json:"number_of_days"`
			IntervalDays json.RawMessage `json:"interval_between_days"`
		} `json:"actionable_steps"`
	}

	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return Actions{}, fmt.Errorf("parse model output: %w", err)
	}

	steps := wire.ActionableSteps
	return Actions{
		Checklist:    steps.Checklist,
		Plan:         steps.Plan,
		NumberOfDays: atoiLoose(strings.Trim(string(steps.NumberOfDays), `"`)),
		IntervalDays: atoiLoose(strings.Trim(string(steps.IntervalDays), `"`)),
	}, nil
}

func atoiLoose(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
