package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// API paths
const (
	APIBasePath             = "/api"
	APIPathInfo             = "/"
	APIPathScanAnalyze      = "/scan/analyze"
	APIPathScan             = "/scan"
	APIPathAttackSimulation = "/attack-simulation"
	APIPathSecureFix        = "/secure-fix"
	APIPathCompliance       = "/compliance"
	APIPathSampleCode       = "/demo/sample-code"
	APIPathLessons          = "/education/lessons"
)

// Error taxonomy of the analysis service. A 404 answer wraps both
// ErrNotFound and ErrServiceError.
var (
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	ErrServiceError       = errors.New("analysis service error")
	ErrNotFound           = errors.New("resource not found")
)

// maxErrorSnippet bounds the response body quoted in errors
const maxErrorSnippet = 100

// --- Client Configuration ---

// ClientOption represents a functional option for configuring the client
type ClientOption func(*ClientConfig) error

// ClientConfig represents the configuration for the client
type ClientConfig struct {
	BaseURL               string
	Timeout               time.Duration
	UserAgent             string
	HTTPClient            *http.Client
	Headers               map[string]string
	TLSInsecureSkipVerify bool
}

// DefaultClientConfig returns the default client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   "http://localhost:8001",
		Timeout:   time.Second * 60,
		UserAgent: "SecureReviewClient/1.0",
		Headers:   make(map[string]string),
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(config *ClientConfig) error {
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL: %q needs scheme and host", baseURL)
		}
		config.BaseURL = baseURL
		return nil
	}
}

// WithTimeout sets the timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(config *ClientConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		config.Timeout = timeout
		return nil
	}
}

// WithUserAgent sets the user agent
func WithUserAgent(userAgent string) ClientOption {
	return func(config *ClientConfig) error {
		if userAgent == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		config.UserAgent = userAgent
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(config *ClientConfig) error {
		if client == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		config.HTTPClient = client
		return nil
	}
}

// WithHeader adds an HTTP header
func WithHeader(key, value string) ClientOption {
	return func(config *ClientConfig) error {
		if key == "" {
			return fmt.Errorf("header key cannot be empty")
		}
		if config.Headers == nil {
			config.Headers = make(map[string]string)
		}
		config.Headers[key] = value
		return nil
	}
}

// WithTLSInsecureSkipVerify sets the TLS insecure skip verify option
func WithTLSInsecureSkipVerify(skip bool) ClientOption {
	return func(config *ClientConfig) error {
		config.TLSInsecureSkipVerify = skip
		return nil
	}
}

// Client defines the interface for the analysis service API
type Client interface {
	// Scans
	AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error)
	GetScan(ctx context.Context, scanID string) (*models.ScanResult, error)

	// Dependent views
	GetAttackSimulation(ctx context.Context, scanID string) (*models.AttackSimulation, error)
	GetSecureFix(ctx context.Context, vulnID string) (*models.SecureFix, error)
	GetCompliance(ctx context.Context, scanID string) (*models.ComplianceReport, error)

	// Catalog
	GetSampleCode(ctx context.Context) (models.SampleCode, error)
	GetLessons(ctx context.Context) ([]models.Lesson, error)
	Info(ctx context.Context) (*models.ServiceInfo, error)

	// Raw HTTP
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// APIClient implements the Client interface
type APIClient struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*APIClient, error) {
	config := DefaultClientConfig()

	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, fmt.Errorf("option application failed: %w", err)
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.TLSInsecureSkipVerify}
		httpClient = &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		}
	}

	return &APIClient{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// buildURL builds the full URL for a given path
func (c *APIClient) buildURL(path string) string {
	baseURL := strings.TrimSuffix(c.config.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s%s%s", baseURL, APIBasePath, path)
}

// entityPath joins a collection path and an escaped identifier
func entityPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// newRequest creates a new HTTP request
func (c *APIClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// errorMessage extracts a human readable message from an error body. It
// understands the standard error envelope and a bare {"detail": ...} body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "detail", "message"} {
			if msg := gjson.GetBytes(body, path); msg.Exists() && msg.String() != "" {
				return msg.String()
			}
		}
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet] + "..."
	}
	return snippet
}

// handleResponse classifies the status code and decodes the JSON body into out
func (c *APIClient) handleResponse(resp *http.Response, out interface{}) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrServiceError, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(body)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w: %s", ErrNotFound, ErrServiceError, msg)
		}
		return fmt.Errorf("%w: status %d: %s", ErrServiceError, resp.StatusCode, msg)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: malformed response body", ErrServiceError)
	}

	// Accept the standard success envelope as well as a bare payload
	payload := body
	if gjson.GetBytes(body, "success").Bool() {
		if data := gjson.GetBytes(body, "data"); data.Exists() {
			payload = []byte(data.Raw)
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: failed to decode response body: %w", ErrServiceError, err)
	}

	if v, ok := out.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrServiceError, err)
		}
	}

	return nil
}

// Do sends an HTTP request exactly once. Transport failures, including
// timeouts and cancellation, are reported as ErrServiceUnavailable.
func (c *APIClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Context() != ctx {
		req = req.WithContext(ctx)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return resp, nil
}

// doRequest is a helper function to make requests and handle responses
func (c *APIClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, out)
}

// Info fetches the service banner
func (c *APIClient) Info(ctx context.Context) (*models.ServiceInfo, error) {
	var info models.ServiceInfo
	if err := c.doRequest(ctx, http.MethodGet, APIPathInfo, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
