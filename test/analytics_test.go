//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAnalytics_RateLimited() {
	t := s.T()
	ctx := context.Background()

	event := map[string]any{
		"kind":    "page_view",
		"payload": map[string]any{"path": "/dashboard"},
	}

	status, _ := s.do(ctx, http.MethodPost, "/analytics/events", event, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(ctx, http.MethodPost, "/analytics/events", map[string]any{"kind": "nope"}, true)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown event kind\n", string(body))

	limited := false
	// the limit is 5 per minute and one was already spent above
	for i := 0; i < 6; i++ {
		status, body = s.do(ctx, http.MethodPost, "/analytics/events", event, true)
		if status == http.StatusTooManyRequests {
			limited = true
			assert.True(t, strings.HasPrefix(string(body), "retry after"), string(body))
			break
		}
		require.Equal(t, http.StatusAccepted, status, string(body))
	}
	assert.True(t, limited)
}
