package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AZREAL-08/contractiq-backend/config"
	"golang.org/x/time/rate"
)

// Generator is the text-generation collaborator: one prompt in, one text
// completion out. No streaming and no retry contract is assumed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini client defaults: ~50 requests per minute with small bursts.
const (
	geminiRateLimit = 50.0 / 60.0
	geminiBurst     = 5
)

// GeminiService calls the Gemini generateContent REST API.
type GeminiService struct {
	config     *config.GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// geminiRequest is the generateContent request body
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we consume
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiService(cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(geminiRateLimit), geminiBurst),
	}
}

// Generate sends a single prompt and returns the completion text. Exactly one
// request is made per call; transient upstream failures surface to the caller.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.config.BaseURL, s.config.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error %d (%s): %s", result.Error.Code, result.Error.Status, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates, body: %s", string(body))
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}
