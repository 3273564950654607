// Package backend is the HTTP client for the agency backend: it fetches the
// component catalog and posts composed agencies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/wireschema"
)

const (
	maxResponseBytes = 4 << 20
	maxErrorSnippet  = 256
)

// Options configures a Client. A zero Timeout means requests are bounded
// only by their context.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = domain.DefaultBackendURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("backend url %q: host is required", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		logger:  logger.Named("backend"),
	}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCatalog reads the available agents and tools. Transport errors,
// error statuses and malformed bodies all surface as FETCH_FAILED.
func (c *Client) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	const op = "backend.FetchCatalog"

	body, err := c.do(ctx, http.MethodGet, domain.ComponentsPath, nil)
	if err != nil {
		return domain.Catalog{}, domain.E(domain.CodeFetchFailed, op, "", err)
	}
	if err := wireschema.ValidateCatalog(body); err != nil {
		return domain.Catalog{}, domain.E(domain.CodeFetchFailed, op, "", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return domain.Catalog{}, domain.E(domain.CodeFetchFailed, op, "", fmt.Errorf("decode catalog: %w", err))
	}
	if catalog.Agents == nil {
		catalog.Agents = []domain.CatalogItemName{}
	}
	if catalog.Tools == nil {
		catalog.Tools = []domain.CatalogItemName{}
	}
	return catalog, nil
}

// CreateAgency posts the composition as-is and returns the response body.
func (c *Client) CreateAgency(ctx context.Context, items domain.Composition) (json.RawMessage, error) {
	const op = "backend.CreateAgency"

	if items == nil {
		items = domain.Composition{}
	}
	payload, err := json.Marshal(domain.CreateAgencyRequest{Items: items})
	if err != nil {
		return nil, domain.E(domain.CodeSubmitFailed, op, "", fmt.Errorf("encode request: %w", err))
	}

	body, err := c.do(ctx, http.MethodPost, domain.CreateAgencyPath, payload)
	if err != nil {
		return nil, domain.E(domain.CodeSubmitFailed, op, "", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, domain.E(domain.CodeSubmitFailed, op, "", fmt.Errorf("response is not valid JSON"))
	}
	return json.RawMessage(body), nil
}

// ListAgencies reads the agencies persisted by the reference backend.
func (c *Client) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	const op = "backend.ListAgencies"

	body, err := c.do(ctx, http.MethodGet, domain.AgenciesPath, nil)
	if err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, op, err)
	}
	var resp struct {
		Agencies []domain.Agency `json:"agencies"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.E(domain.CodeInternal, op, "", fmt.Errorf("decode agencies: %w", err))
	}
	return resp.Agencies, nil
}

// GetAgency reads one persisted agency.
func (c *Client) GetAgency(ctx context.Context, id string) (domain.Agency, error) {
	const op = "backend.GetAgency"

	if strings.TrimSpace(id) == "" {
		return domain.Agency{}, domain.E(domain.CodeInvalidArgument, op, "agency id is required", nil)
	}
	body, err := c.do(ctx, http.MethodGet, domain.AgenciesPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Agency{}, domain.Wrap(domain.CodeUnavailable, op, err)
	}
	var agency domain.Agency
	if err := json.Unmarshal(body, &agency); err != nil {
		return domain.Agency{}, domain.E(domain.CodeInternal, op, "", fmt.Errorf("decode agency: %w", err))
	}
	return agency, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	target := c.baseURL.JoinPath(path)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorSnippet {
			snippet = snippet[:maxErrorSnippet]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
