package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
	"github.com/arcscan/arcscan-api/internal/logger"
)

// Client performs one web search for a query.
type Client interface {
	Search(ctx context.Context, query, apiKey string, numResults int) ([]Result, error)
}

// Service performs Google searches via the Serper API.
type Service struct {
	httpClient *http.Client
	logger     *logger.Logger
	baseURL    string
	now        func() time.Time
}

// NewService creates a new search service.
func NewService(log *logger.Logger, baseURL string) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Result is a normalized search result.
type Result struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	Position      int    `json:"position"`
	Source        string `json:"source,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"` // relative, e.g. "3 days ago"
}

// serperRequest is the Serper API request payload.
type serperRequest struct {
	Query       string `json:"q"`
	Num         int    `json:"num"`
	Country     string `json:"gl"`
	Language    string `json:"hl"`
	Autocorrect bool   `json:"autocorrect"`
	Type        string `json:"type"`
	TBS         string `json:"tbs"`
}

// serperResponse is the raw Serper API response.
type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date,omitempty"`
		Position int    `json:"position,omitempty"`
	} `json:"organic"`
	Message string `json:"message,omitempty"`
}

// Search runs one query and returns normalized results. Results whose
// inferred age exceeds two years are discarded before returning.
func (s *Service) Search(ctx context.Context, query, apiKey string, numResults int) ([]Result, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("search API key is required to perform web searches. Please provide a valid API key")
	}

	if numResults <= 0 {
		numResults = 10
	}

	payload, err := json.Marshal(serperRequest{
		Query:       query,
		Num:         numResults,
		Country:     "us",
		Language:    "en",
		Autocorrect: true,
		Type:        "search",
		TBS:         "qdr:m", // prefer material from the past month
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build API payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.GatewayStatusError{
			Gateway:    "search API",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var serpResp serperResponse
	if err := json.Unmarshal(body, &serpResp); err != nil {
		return nil, fmt.Errorf("failed to parse search API response: %w", err)
	}

	if len(serpResp.Organic) == 0 {
		s.logger.WithComponent("search").Warn("no search results found", slog.String("query", query))
		return []Result{}, nil
	}

	results := make([]Result, 0, len(serpResp.Organic))
	for i, raw := range serpResp.Organic {
		date, timeAgo := extractDateFromSnippet(raw.Snippet)
		if raw.Date != "" {
			date = raw.Date
		}

		results = append(results, Result{
			Title:         raw.Title,
			Link:          raw.Link,
			Snippet:       raw.Snippet,
			Position:      i + 1,
			Source:        extractDomain(raw.Link),
			PublishedDate: date,
			PublishedTime: timeAgo,
		})
	}

	return s.filterStale(results), nil
}

// filterStale drops results that appear older than two years. Recently
// edited pages carrying old content tend to expose the old date in the
// snippet, so a bare-year signal counts too. Results without any age signal
// are kept.
func (s *Service) filterStale(results []Result) []Result {
	cutoff := s.now().AddDate(-2, 0, 0)
	currentYear := s.now().Year()

	kept := results[:0]
	for _, r := range results {
		if r.PublishedDate == "" {
			kept = append(kept, r)
			continue
		}

		if date, ok := ParseDate(r.PublishedDate); ok {
			if !date.Before(cutoff) {
				kept = append(kept, r)
			}
			continue
		}

		if year, ok := MostRecentYear(r.Snippet); ok {
			if currentYear-year <= 2 {
				kept = append(kept, r)
			}
			continue
		}

		kept = append(kept, r)
	}

	return kept
}

// extractDomain extracts the source domain from a URL, stripping a leading
// "www." for display.
func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Hostname() == "" {
		return urlStr
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
