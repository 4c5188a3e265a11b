package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/nutrifit/internal/middleware"
	"github.com/2beens/nutrifit/internal/rewards"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// apiClient reports finished workouts to the nutrifit service.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

func (c *apiClient) CompleteWorkout(ctx context.Context, userID, workoutID string) (rewards.Outcome, error) {
	endpoint := fmt.Sprintf(
		"%s/users/%s/workouts/%s/complete",
		c.baseURL, url.PathEscape(userID), url.PathEscape(workoutID),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return rewards.Outcome{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "NutriFit/player")
	if c.token != "" {
		req.Header.Set(middleware.AuthTokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rewards.Outcome{}, fmt.Errorf("complete workout: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return rewards.Outcome{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return rewards.Outcome{}, fmt.Errorf("complete workout: unexpected status %d: %s", resp.StatusCode, body)
	}

	var outcome rewards.Outcome
	if err := json.Unmarshal(body, &outcome); err != nil {
		return rewards.Outcome{}, fmt.Errorf("unmarshal outcome: %w", err)
	}
	return outcome, nil
}
