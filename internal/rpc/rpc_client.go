package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"canvas-portal/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config *HTTPConfig
	client *http.Client
	mu     sync.Mutex
	closed bool
}

/**
 * Create new HTTP client for the remote catalog and profile APIs
 * @param {*HTTPConfig} config - HTTP client configuration, nil uses DefaultHTTPConfig
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - Timeout applies to each request on top of the caller's context
 * - Custom transport may be injected for tests
 * @example
 * client := rpc.NewHTTPClient(nil)
 * defer client.Close()
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{}
	}
	return &httpClient{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

/**
 * Send GET request
 * @param {context.Context} ctx - Request context
 * @param {string} path - API endpoint path
 * @param {map[string]interface{}} params - Query parameters
 * @returns {*HTTPResponse} Response with raw body; non-2xx responses carry Error
 * @returns {error} Error when the request could not be completed
 * @example
 * resp, err := client.Get(ctx, "/api/packages", map[string]interface{}{"_cp": 2})
 */
func (c *httpClient) Get(ctx context.Context, path string, params map[string]interface{}) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

/**
 * Send POST request
 * @param {context.Context} ctx - Request context
 * @param {string} path - API endpoint path
 * @param {map[string]interface{}} params - Query parameters
 * @param {interface{}} data - Request body, serialized as JSON when not nil
 * @returns {*HTTPResponse} Response with raw body; non-2xx responses carry Error
 * @returns {error} Error when the request could not be completed
 */
func (c *httpClient) Post(ctx context.Context, path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodPost, path, params, data)
}

func (c *httpClient) do(ctx context.Context, method, path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("client is closed")
	}

	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var body io.Reader
	if data != nil {
		if body, err = serializeData(data); err != nil {
			return nil, err
		}
	}

	logger.Debugf("Sending %s request to %s", method, url)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	httpResp, err := deserializeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}
	return httpResp, nil
}

/**
 * Close HTTP client
 * @returns {error} Always nil
 * @description
 * - Closes idle connections and rejects further requests
 */
func (c *httpClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client.CloseIdleConnections()
	c.closed = true
	logger.Debugf("HTTP client closed")
	return nil
}
