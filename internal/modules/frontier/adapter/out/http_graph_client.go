package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/domain"
	frontierout "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/out"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

// HTTPGraphClient fetches the knowledge graph for a course/student pair.
type HTTPGraphClient struct {
	origin        string
	sessionCookie string
	client        *http.Client
}

func NewHTTPGraphClient(origin, sessionCookie string) frontierout.GraphClient {
	return &HTTPGraphClient{
		origin:        strings.TrimRight(origin, "/"),
		sessionCookie: sessionCookie,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

type graphResponse struct {
	Topics map[string]domain.TopicNode `json:"topics"`
}

func (c *HTTPGraphClient) FetchGraph(ctx context.Context, courseID, studentID int64) (map[int64]domain.TopicNode, error) {
	endpoint := fmt.Sprintf("%s/api/courses/%d/students/%d/knowledge-graph", c.origin, courseID, studentID)

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
		return nil, fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
	}

	var decoded graphResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s did not return a topics object", apperrors.ErrUnexpectedPayloadType, endpoint)
	}
	table := make(map[int64]domain.TopicNode, len(decoded.Topics))
	for _, node := range decoded.Topics {
		table[node.ID] = node
	}
	return table, nil
}
