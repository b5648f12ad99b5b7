// Package gemini is the verification adapter: it asks Gemini, grounded with
// Google Search, for the official closing value of a single trading day, and
// coerces the free-text answer into a typed verification result.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/cyclescope/spxpulse"
)

// Model is the default model. Flash is enough for a single grounded lookup.
const Model = "gemini-2.5-flash"

// Verifier corroborates a day's close through one grounded generate call.
type Verifier struct {
	Model  string
	client *genai.Client
}

// NewVerifier initializes the Gemini client. Credentials come from the
// environment (GEMINI_API_KEY), as the genai SDK does.
func NewVerifier(ctx context.Context) (*Verifier, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return &Verifier{Model: Model, client: client}, nil
}

// Verify implements spxpulse.Verifier. Provider errors and unparseable
// answers both degrade to the Failed variant, never to an error.
func (v *Verifier) Verify(ctx context.Context, d spxpulse.Date) spxpulse.VerificationResult {
	config := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr[float32](0),
	}

	resp, err := v.client.Models.GenerateContent(ctx, v.Model, genai.Text(auditorPrompt(d)), config)
	if err != nil {
		log.Printf("gemini call failed: %v", err)
		return spxpulse.Failed()
	}

	result, err := coerce(resp.Text())
	if err != nil {
		log.Printf("gemini answer not usable: %v", err)
		return spxpulse.Failed()
	}
	return result
}

// auditorPrompt asks for exactly one JSON object in one of two scenarios,
// cross-referenced against at least two financial sources.
func auditorPrompt(d spxpulse.Date) string {
	return fmt.Sprintf(`
Act as a financial data auditor. Check the S&P 500 (SPX) closing status for %[1]s.

Procedure:
1. Check Market Status (Open/Closed) for %[1]s.
2. Use Google Search to find the official SPX closing value.
3. **VERIFICATION**: Cross-reference at least 2 distinct reliable financial sources (e.g., Bloomberg, CBOE, Yahoo Finance) to confirm the number.

You must output exactly ONE JSON object based on the data availability.

SCENARIO 1: Market was OPEN and Verified Closing Data is Available.
Output Format:
{
    "type": "SPX_DATA_FOUND",
    "date": "%[1]s",
    "spx_value": <numeric_float_value>,
    "source": "<source_domain_or_name>"
}

SCENARIO 2: Market was CLOSED, Date is Future, or Data is Not Yet Available.
Output Format:
{
    "type": "SPX_DATA_UNAVAILABLE",
    "date": "%[1]s",
    "reason": "<Specific Reason>",
    "details": "Market Status: CLOSED or PENDING"
}

Valid Reasons for Scenario 2:
- "Weekend (Saturday/Sunday)"
- "Market Holiday: <Holiday Name>"
- "Future Date"
- "Market just closed, settlement data pending"

Return ONLY the JSON.
`, d)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// cleanJSON extracts the JSON body from markdown-fenced text.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// coerce maps the model's answer onto the typed verification result.
func coerce(text string) (spxpulse.VerificationResult, error) {
	var jobj any
	if err := json.Unmarshal([]byte(cleanJSON(text)), &jobj); err != nil {
		return spxpulse.VerificationResult{}, fmt.Errorf("answer is not JSON: %w", err)
	}

	kind, err := pluckString(jobj, "$.type")
	if err != nil {
		return spxpulse.VerificationResult{}, err
	}

	switch kind {
	case "SPX_DATA_FOUND":
		value, err := pluckFloat(jobj, "$.spx_value")
		if err != nil {
			return spxpulse.VerificationResult{}, err
		}
		source, err := pluckString(jobj, "$.source")
		if err != nil || source == "" {
			source = "gemini-search"
		}
		return spxpulse.Found(decimal.NewFromFloat(value), source), nil

	case "SPX_DATA_UNAVAILABLE":
		reason, err := pluckString(jobj, "$.reason")
		if err != nil || reason == "" {
			reason = "Unknown"
		}
		detail, _ := pluckString(jobj, "$.details")
		return spxpulse.Unavailable(reason, detail), nil
	}
	return spxpulse.VerificationResult{}, fmt.Errorf("unknown answer type %q", kind)
}

// pluck evaluates a jsonpath, keeping the first element when the library
// returns a list of one answer instead of a single answer.
func pluck(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error plucking %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func pluckString(jobj any, path string) (string, error) {
	jval, err := pluck(jobj, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
	return s, nil
}

func pluckFloat(jobj any, path string) (float64, error) {
	jval, err := pluck(jobj, path)
	if err != nil {
		return 0, err
	}
	f, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number: %v", path, jval)
	}
	return f, nil
}

var _ spxpulse.Verifier = (*Verifier)(nil)
