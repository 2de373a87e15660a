package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

const bodyPreviewLimit = 200

// HTTPHistoryClient fetches activity pages from the platform's
// session-cookie authenticated history endpoint. Any transport failure,
// non-2xx status, or non-array body is fatal for the fetch cycle.
type HTTPHistoryClient struct {
	origin        string
	studentID     int64
	sessionCookie string
	client        *http.Client
}

func NewHTTPHistoryClient(origin string, studentID int64, sessionCookie string) activityout.HistoryClient {
	return &HTTPHistoryClient{
		origin:        strings.TrimRight(origin, "/"),
		studentID:     studentID,
		sessionCookie: sessionCookie,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPHistoryClient) FetchPage(ctx context.Context, cursor domain.Cursor) ([]domain.Activity, error) {
	endpoint := fmt.Sprintf("%s/api/students/%d/activity/%s", c.origin, c.studentID, url.PathEscape(cursor.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionCookie})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, preview(body))
	}

	var items []domain.Activity
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %s returned non-array body %q", apperrors.ErrUnexpectedPayloadType, endpoint, preview(body))
	}
	return items, nil
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodyPreviewLimit {
		s = s[:bodyPreviewLimit] + "..."
	}
	return s
}
