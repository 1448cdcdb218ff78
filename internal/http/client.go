// Package http provides the HTTP transport for Delta Sharing API requests.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/deltashare/internal/constants"
	"github.com/fivetwenty-io/deltashare/pkg/sharing"
)

// Client is the HTTP client for Delta Sharing API requests. It attaches the
// bearer token, sends the request, and maps the response status onto the
// client's error taxonomy.
type Client struct {
	baseURL       string
	tokenProvider sharing.TokenProvider
	httpClient    *http.Client
	userAgent     string
	logger        sharing.Logger
	debug         bool
}

type options struct {
	logger        sharing.Logger
	debug         bool
	userAgent     string
	timeout       time.Duration
	skipTLSVerify bool
	retryMax      int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(logger sharing.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPTimeout overrides the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithSkipTLSVerify disables TLS certificate verification.
func WithSkipTLSVerify(skip bool) Option {
	return func(o *options) {
		o.skipTLSVerify = skip
	}
}

// WithRetryConfig enables transport retries for 429 and 5xx responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(o *options) {
		o.retryMax = retryMax
		o.retryWaitMin = waitMin
		o.retryWaitMax = waitMax
	}
}

// NewClient creates a new HTTP client for the given base URL. A nil token
// provider sends unauthenticated requests.
func NewClient(baseURL string, tokenProvider sharing.TokenProvider, opts ...Option) *Client {
	opt := &options{
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultHTTPTimeout,
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}
	for _, apply := range opts {
		apply(opt)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opt.retryMax
	retryClient.RetryWaitMin = opt.retryWaitMin
	retryClient.RetryWaitMax = opt.retryWaitMax
	retryClient.Logger = nil
	// Exhausted retries hand back the final response, keeping its status
	// visible to classifyResponse.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient = &http.Client{Timeout: opt.timeout}

	if opt.skipTLSVerify {
		retryClient.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in via SkipTLSVerify
		}
	}

	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		tokenProvider: tokenProvider,
		httpClient:    retryClient.StandardClient(),
		userAgent:     opt.userAgent,
		logger:        opt.logger,
		debug:         opt.debug,
	}
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do executes a request. Error responses return both the raw response and
// the classified error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var payload []byte

	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, sharing.NewInternalError("failed to marshal request body").WithCause(err)
		}
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, sharing.NewInternalError("failed to create request").WithCause(err)
	}

	err = c.setHeaders(ctx, httpReq, req)
	if err != nil {
		return nil, err
	}

	c.logRequest(httpReq, payload)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, sharing.NewRequestError("request failed").WithCause(err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, sharing.NewRequestError("failed to read response body").WithCause(err)
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(response)

	err = classifyResponse(response)
	if err != nil {
		return response, err
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Decode unmarshals a successful response body into T.
func Decode[T any](resp *Response) (*T, error) {
	result := new(T)

	err := json.Unmarshal(resp.Body, result)
	if err != nil {
		return nil, sharing.NewParseResponseError("failed to parse response body").WithCause(err)
	}

	return result, nil
}

// BuildPath joins path segments into an absolute path, escaping each segment.
func BuildPath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return "/" + strings.Join(escaped, "/")
}

// buildURL combines the base URL, path, and query parameters.
func (c *Client) buildURL(req *Request) (string, error) {
	fullURL, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", sharing.NewInternalError("failed to build request URL").WithCause(err)
	}

	if len(req.Query) > 0 {
		fullURL.RawQuery = req.Query.Encode()
	}

	return fullURL.String(), nil
}

// setHeaders attaches auth and content headers. A token provider failure
// surfaces as a profile error before any network call.
func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, req *Request) error {
	if c.tokenProvider != nil {
		token, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return sharing.NewProfileError("failed to obtain bearer token").WithCause(err)
		}

		httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+token)
	}

	httpReq.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

// classifyResponse maps a response status onto the error taxonomy. Statuses
// outside the protocol's documented set are reported as-is without touching
// the body.
func classifyResponse(resp *Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		errResp, err := parseErrorResponse(resp.Body)
		if err != nil {
			return err
		}

		return sharing.NewClientError(resp.StatusCode, errResp.ErrorCode, errResp.Message)
	case http.StatusInternalServerError:
		errResp, err := parseErrorResponse(resp.Body)
		if err != nil {
			return err
		}

		return sharing.NewServerError(resp.StatusCode, errResp.ErrorCode, errResp.Message)
	default:
		return sharing.NewInternalError(fmt.Sprintf("unknown server response: status %d", resp.StatusCode))
	}
}

// parseErrorResponse decodes the protocol's error envelope.
func parseErrorResponse(body []byte) (*sharing.ErrorResponse, error) {
	errResp := &sharing.ErrorResponse{}

	err := json.Unmarshal(body, errResp)
	if err != nil {
		return nil, sharing.NewParseResponseError("failed to parse error response").WithCause(err)
	}

	return errResp, nil
}

// logRequest logs the outgoing request with credentials masked.
func (c *Client) logRequest(httpReq *http.Request, payload []byte) {
	if c.logger == nil || !c.debug {
		return
	}

	fields := map[string]interface{}{
		"method":  httpReq.Method,
		"url":     httpReq.URL.String(),
		"headers": sanitizeHeaders(httpReq.Header),
	}
	if len(payload) > 0 {
		fields["body"] = string(payload)
	}

	c.logger.Debug("HTTP Request", fields)
}

// logResponse logs the received response.
func (c *Client) logResponse(resp *Response) {
	if c.logger == nil || !c.debug {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"body":   string(resp.Body),
	})
}

// sanitizeHeaders masks the bearer token before it reaches a log line.
func sanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))

	for key := range headers {
		if strings.EqualFold(key, constants.HeaderAuthorization) {
			sanitized[key] = constants.BearerTokenPrefix + constants.MaskedSecret

			continue
		}

		sanitized[key] = headers.Get(key)
	}

	return sanitized
}
