package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

const (
	// maxErrorBody bounds how much of a failed response is copied into the error
	maxErrorBody = 512
	// maxResponseBody bounds how much of a successful response is decoded
	maxResponseBody = 1 << 20
)

type progressClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProgressClient creates a client for the progress API rooted at baseURL.
//
// With an empty baseURL every fetch returns no data and no error.
func NewProgressClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *progressClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &progressClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchSummary retrieves the aggregate counters of the caller.
//
// A JSON null body yields a nil summary.
func (c *progressClient) FetchSummary(ctx context.Context, token string) (*models.ProgressSummary, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	var summary *models.ProgressSummary
	if err := c.get(ctx, "/summary", token, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// FetchStats retrieves the daily activity series of the caller
func (c *progressClient) FetchStats(ctx context.Context, token string) ([]models.DailyStat, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	var stats []models.DailyStat
	if err := c.get(ctx, "/stats", token, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *progressClient) get(ctx context.Context, path string, token string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("progress api %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	c.logger.Debug("progress api response", zap.String("path", path), zap.Int("status", resp.StatusCode))
	return nil
}
