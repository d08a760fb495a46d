// Package woocommerce implements the remote adapter against the
// WooCommerce REST API.
package woocommerce

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/erp/connector/internal/domain/connector"
)

const (
	// requestTimeout bounds every API call
	requestTimeout = 20 * time.Second
	// apiBasePath is the REST API route prefix
	apiBasePath = "/wp-json/wc/v3/"
	// maxResponseSize is the maximum allowed response size (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// ClientConfig holds the connection settings for one storefront.
type ClientConfig struct {
	// Location is the shop base URL, e.g. https://shop.example.com
	Location       string
	ConsumerKey    string
	ConsumerSecret string
	// VerifySSL disables certificate checks when false (staging shops)
	VerifySSL bool
	// RequestsPerSecond throttles outgoing calls; zero means no throttle
	RequestsPerSecond float64
}

// Client issues authenticated requests against one WooCommerce shop. Over
// https the credentials travel as basic auth; over plain http WooCommerce
// only accepts them as query-string parameters.
type Client struct {
	config     ClientConfig
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for one shop.
func NewClient(config ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(config.Location, "/") + apiBasePath)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: invalid location %q: %w", config.Location, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("woocommerce: location %q must be http or https", config.Location)
	}

	transport := http.DefaultTransport
	if !config.VerifySSL {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Client{
		config:  config,
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		limiter: limiter,
	}, nil
}

// errorEnvelope is the JSON error body WooCommerce returns on failures.
type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do performs one API call and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, resource string, params connector.Params, payload any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
		}
	}

	u := *c.baseURL
	u.Path += resource

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	if u.Scheme == "http" {
		query.Set("consumer_key", c.config.ConsumerKey)
		query.Set("consumer_secret", c.config.ConsumerSecret)
	}
	u.RawQuery = query.Encode()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("woocommerce: encoding %s payload: %w", resource, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("woocommerce: creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u.Scheme == "https" {
		req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return translateTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", connector.ErrNetworkRetryable, err)
	}

	if resp.StatusCode >= 400 {
		return translateStatusError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", connector.ErrProtocolRetryable, resource, err)
		}
	}
	return nil
}

// translateTransportError classifies connection failures. Timeouts and
// refused connections are retryable.
func translateTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
	}
	return fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
}

// translateStatusError classifies HTTP error statuses into the connector
// error taxonomy. Gateway trouble and throttling are transient and
// retryable. Everything else, a plain 500 included, is fatal, except
// 404, which maps to the missing-record sentinel.
func translateStatusError(status int, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return connector.ErrNoSuchRecord
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", connector.ErrProtocolRetryable, status)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = strings.TrimSpace(string(body))
	}
	return &connector.FatalCallError{
		Status:  status,
		Code:    envelope.Code,
		Message: envelope.Message,
	}
}
