package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"internfinder-engine/internal/domain"
)

const DefaultGeminiModel = "gemini-pro"

// GeminiScorer asks an LLM for a match score and rationale per listing.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiScorer{client: client, model: model}, nil
}

func (s *GeminiScorer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *GeminiScorer) Annotate(ctx context.Context, l domain.Listing, skills string) (Annotation, error) {
	prompt := fmt.Sprintf(`Given the following internship opportunity and user skills, provide a match score (0-100) and brief reason.

Internship:
Company: %s
Role: %s
Location: %s

User Skills: %s

Respond in JSON format: {"match_score": <number>, "reason": "<reason>"}`,
		l.Company, l.Role, l.Location, skills)

	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(0.1) // consistent scoring across runs
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Annotation{}, fmt.Errorf("gemini generate: %w", err)
	}

	text, err := textFromResponse(resp)
	if err != nil {
		return Annotation{}, err
	}

	var parsed struct {
		MatchScore int    `json:"match_score"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &parsed); err != nil {
		return Annotation{}, fmt.Errorf("gemini response parse: %w", err)
	}

	return Annotation{Score: parsed.MatchScore, Rationale: parsed.Reason}, nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
