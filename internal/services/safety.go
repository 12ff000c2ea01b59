package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	CategorySafe          = "safe"
	CategorySuspicious    = "suspicious"
	CategoryMalicious     = "malicious"
	CategoryInappropriate = "inappropriate"
	CategoryUnknown       = "unknown"
)

const (
	safetyCheckTimeout = 5 * time.Second
	geminiModel        = "gemini-1.5-flash"
)

// SafetyVerdict is the structured result of a URL safety classification.
type SafetyVerdict struct {
	IsSafe     bool    `json:"isSafe"`
	Flagged    bool    `json:"flagged"`
	Reason     *string `json:"reason"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type SafetyService struct {
	apiKey string
	logger *slog.Logger

	// swappable for tests, same trick as the shortener's codeGenerator
	generate func(ctx context.Context, prompt string) (string, error)
}

func NewSafetyService(apiKey string, logger *slog.Logger) *SafetyService {
	s := &SafetyService{
		apiKey: apiKey,
		logger: logger,
	}
	s.generate = s.generateWithGemini
	return s
}

// NewSafetyServiceWithGenerator swaps the Gemini call for a custom generation
// function. Used by tests and alternative classifier backends.
func NewSafetyServiceWithGenerator(apiKey string, logger *slog.Logger, generate func(ctx context.Context, prompt string) (string, error)) *SafetyService {
	return &SafetyService{
		apiKey:   apiKey,
		logger:   logger,
		generate: generate,
	}
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// CheckURL classifies a URL. Classifier outages never fail the call: transport
// errors and timeouts degrade to a permissive verdict, unparseable responses
// degrade to a cautionary flagged verdict. Only a syntactically invalid URL
// returns an error.
func (s *SafetyService) CheckURL(ctx context.Context, rawURL string) (SafetyVerdict, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return SafetyVerdict{}, &ValidationError{Field: "url", Message: "invalid URL format"}
	}

	if s.apiKey == "" {
		s.logger.Warn("URL safety check skipped: missing Gemini API key")
		return SafetyVerdict{
			IsSafe:     true,
			Flagged:    false,
			Category:   CategoryUnknown,
			Confidence: 0,
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, safetyCheckTimeout)
	defer cancel()

	text, err := s.generate(ctx, safetyPrompt(rawURL))
	if err != nil {
		// Outage or timeout: availability wins over moderation completeness
		s.logger.Error("URL safety check failed, using permissive fallback", "url", rawURL, "error", err)
		return SafetyVerdict{
			IsSafe:     true,
			Flagged:    false,
			Category:   CategoryUnknown,
			Confidence: 0,
		}, nil
	}

	verdict, err := parseVerdict(text)
	if err != nil {
		s.logger.Error("Failed to parse safety check response", "error", err)
		reason := "Unable to verify URL safety - please proceed with caution"
		return SafetyVerdict{
			IsSafe:     true,
			Flagged:    true,
			Reason:     &reason,
			Category:   CategoryUnknown,
			Confidence: 0.5,
		}, nil
	}

	return verdict, nil
}

func parseVerdict(text string) (SafetyVerdict, error) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return SafetyVerdict{}, fmt.Errorf("no JSON object in classifier response")
	}

	var verdict SafetyVerdict
	if err := json.Unmarshal([]byte(match), &verdict); err != nil {
		return SafetyVerdict{}, fmt.Errorf("invalid classifier response: %w", err)
	}

	switch verdict.Category {
	case CategorySafe, CategorySuspicious, CategoryMalicious, CategoryInappropriate, CategoryUnknown:
	default:
		return SafetyVerdict{}, fmt.Errorf("unexpected category %q", verdict.Category)
	}

	return verdict, nil
}

func (s *SafetyService) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty classifier response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

func safetyPrompt(rawURL string) string {
	return fmt.Sprintf(`Task: Analyze the URL %q for potential security threats and safety concerns.

Evaluation criteria:
- Phishing: does the URL mimic a legitimate website to steal credentials?
- Malware: is the URL known to distribute malicious software?
- Scam/Fraud: is the URL associated with fraudulent activities?
- Content safety: does the URL contain inappropriate or harmful content?
- Technical indicators: suspicious URL structure (excessive subdomains, unusual TLDs, deceptive techniques)

Response format: return only a valid JSON object with the following structure:
{
    "isSafe": boolean,
    "flagged": boolean,
    "reason": string or null,
    "category": "safe" | "suspicious" | "malicious" | "inappropriate" | "unknown",
    "confidence": number between 0 and 1
}

Only respond with a valid JSON object, no additional text.`, rawURL)
}
