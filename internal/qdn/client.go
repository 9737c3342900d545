package qdn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/config"
)

// maxDocumentBytes bounds how much of a resource body is read.
const maxDocumentBytes = 8 << 20

// Client fetches resources from the QDN HTTP API of a Qortal core node.
type Client struct {
	baseURL       string
	apiKey        string
	fetchMetadata bool
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient builds a client for the node at cfg.BaseURL.
func NewClient(cfg config.QDNConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("qdn: base url required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("qdn: invalid base url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		fetchMetadata: cfg.FetchMetadata,
		httpClient:    &http.Client{Timeout: cfg.Timeout()},
		logger:        logger,
	}, nil
}

// FetchResourceObject downloads and decodes the JSON document at ref.
func (c *Client) FetchResourceObject(ctx context.Context, ref ResourceRef) (*Resource, error) {
	path := fmt.Sprintf("/arbitrary/%s/%s/%s",
		url.PathEscape(ref.Service), url.PathEscape(ref.Name), url.PathEscape(ref.Identifier))

	status, body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, Failure(ref, 0, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, NotFound(ref)
	case status < 200 || status >= 300:
		return nil, Failure(ref, status, fmt.Errorf("unexpected response: %s", truncate(body, 200)))
	}

	resource, err := DecodeResource(ref, body)
	if err != nil {
		return nil, err
	}

	if c.fetchMetadata {
		created, updated, err := c.resourceTimestamps(ctx, ref)
		if err != nil {
			c.logger.Debug("qdn metadata unavailable", zap.String("resource", ref.String()), zap.Error(err))
		} else {
			resource.Created, resource.Updated = created, updated
		}
	}
	return resource, nil
}

type resourceSummary struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Created    *int64 `json:"created"`
	Updated    *int64 `json:"updated"`
}

func (c *Client) resourceTimestamps(ctx context.Context, ref ResourceRef) (*int64, *int64, error) {
	query := url.Values{}
	query.Set("service", ref.Service)
	query.Set("name", ref.Name)
	query.Set("identifier", ref.Identifier)
	query.Set("exactmatchnames", "true")
	query.Set("limit", "1")

	status, body, err := c.get(ctx, "/arbitrary/resources/search", query)
	if err != nil {
		return nil, nil, err
	}
	if status < 200 || status >= 300 {
		return nil, nil, fmt.Errorf("search returned %d", status)
	}

	var results []resourceSummary
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, nil, fmt.Errorf("decode search results: %w", err)
	}
	for _, r := range results {
		if r.Name == ref.Name && r.Identifier == ref.Identifier {
			return r.Created, r.Updated, nil
		}
	}
	return nil, nil, errors.New("resource not listed")
}

// Ping checks that the node answers its status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	status, _, err := c.get(ctx, "/admin/status", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("qdn: node status %d", status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("X-API-KEY", c.apiKey)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxDocumentBytes))
	if err != nil {
		return response.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return response.StatusCode, body, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
