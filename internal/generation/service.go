package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
	"github.com/arcscan/arcscan-api/internal/logger"
)

const (
	maxRetries     = 3
	requestTimeout = 60 * time.Second
)

// Client generates text from a prompt. Callers extract structured payloads
// from the returned text themselves.
type Client interface {
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

// Service calls the Gemini generateContent REST API.
type Service struct {
	httpClient *http.Client
	logger     *logger.Logger
	baseURL    string
	model      string
}

// NewService creates a generation service against the given base URL and model.
func NewService(log *logger.Logger, baseURL, model string) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

// geminiRequest is the generateContent request payload.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate produces text for the prompt, retrying transient failures.
func (s *Service) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("generation API key is not set. Please provide a valid API key")
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		text, err := s.callModel(ctx, prompt, apiKey)
		if err == nil {
			return text, nil
		}

		lastErr = err

		if isRetryableError(err) && attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
		}
		break
	}

	return "", lastErr
}

// callModel makes a single generateContent call.
func (s *Service) callModel(ctx context.Context, prompt, apiKey string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call generation API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the API's own message when present; "API key" and "quota"
		// substrings drive downstream error classification.
		var apiResp geminiResponse
		if jsonErr := json.Unmarshal(respBody, &apiResp); jsonErr == nil && apiResp.Error != nil {
			return "", &apperrors.GatewayStatusError{
				Gateway:    "generation API",
				StatusCode: resp.StatusCode,
				Body:       apiResp.Error.Message,
			}
		}
		return "", &apperrors.GatewayStatusError{
			Gateway:    "generation API",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response (body: %s)", string(respBody))
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String(), nil
}

// isRetryableError checks if an error is transient and worth retrying.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	retryablePatterns := []string{
		"timeout", "timed out", "connection refused", "connection reset",
		"no such host", "EOF", "503", "502", "504", "500",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
