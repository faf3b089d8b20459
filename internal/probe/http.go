package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/types"
)

// httpClient wraps http.Client with a base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON performs a GET and decodes a 200 response into out.
func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *httpClient) health(ctx context.Context) error {
	if err := c.getJSON(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func (c *httpClient) spots(ctx context.Context) ([]model.Spot, error) {
	var out struct {
		Spots []model.Spot `json:"spots"`
	}
	if err := c.getJSON(ctx, "/spots", &out); err != nil {
		return nil, err
	}
	return out.Spots, nil
}

func (c *httpClient) rank(ctx context.Context, skill model.SkillLevel) (types.Ranking, error) {
	var out types.Ranking
	q := url.Values{"skill": {string(skill)}}
	err := c.getJSON(ctx, "/rank?"+q.Encode(), &out)
	return out, err
}
