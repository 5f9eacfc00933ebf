package report

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/okian/copa/internal/domain/model"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 8 << 20

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// get performs a GET request and returns the body of a 200 response.
func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(errors.Newf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))), ErrUnexpectedStatus)
	}
	return body, nil
}

// getJSON performs a GET request and decodes the JSON body into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// Health checks /healthz, which serves Prometheus metrics.
func (c *HTTPClient) Health(ctx context.Context) error {
	if _, err := c.get(ctx, "/healthz"); err != nil {
		return errors.Mark(err, ErrUnhealthy)
	}
	return nil
}

// Countries lists every country known to the service.
func (c *HTTPClient) Countries(ctx context.Context) ([]string, error) {
	var out struct {
		Countries []string `json:"countries"`
	}
	err := c.getJSON(ctx, "/countries", &out)
	return out.Countries, err
}

// Stats fetches one country's summary.
func (c *HTTPClient) Stats(ctx context.Context, country string) (model.CountryStats, error) {
	var out model.CountryStats
	err := c.getJSON(ctx, "/countries/"+url.PathEscape(country)+"/stats", &out)
	return out, err
}

// TopScorers fetches one country's scorer ranking.
func (c *HTTPClient) TopScorers(ctx context.Context, country string, limit int) (model.ScorerRanking, error) {
	var out model.ScorerRanking
	path := "/countries/" + url.PathEscape(country) + "/scorers"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	err := c.getJSON(ctx, path, &out)
	return out, err
}

// Titles fetches the global title ranking.
func (c *HTTPClient) Titles(ctx context.Context) ([]model.TitleCount, error) {
	var out struct {
		Titles []model.TitleCount `json:"titles"`
	}
	err := c.getJSON(ctx, "/titles", &out)
	return out.Titles, err
}
