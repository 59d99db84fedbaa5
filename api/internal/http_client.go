package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Log interface {
	Printf(format string, v ...interface{})
}

type HttpClient struct {
	client     *http.Client
	baseUrl    *url.URL
	logger     Log
	retries    uint
	retryDelay time.Duration
	limiter    *rate.Limiter
}

type HttpOption func(*HttpClient)

// WithRetries enables retrying requests that failed on the network or with a 409, 429 or 5xx status.
func WithRetries(retries uint) HttpOption {
	return func(c *HttpClient) {
		c.retries = retries
	}
}

// WithLimiter makes every attempt wait for the limiter before being sent.
func WithLimiter(limiter *rate.Limiter) HttpOption {
	return func(c *HttpClient) {
		c.limiter = limiter
	}
}

func WithLogger(logger Log) HttpOption {
	return func(c *HttpClient) {
		c.logger = logger
	}
}

func NewHttpClient(client *http.Client, baseUrl string, options ...HttpOption) (*HttpClient, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}
	c := &HttpClient{
		client:     client,
		baseUrl:    parsed,
		logger:     discardLogger{},
		retryDelay: 500 * time.Millisecond,
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

func (c *HttpClient) Get(ctx context.Context, name, path string, responseBody interface{}) error {
	return c.connection(ctx, http.MethodGet, name, path, nil, nil, responseBody)
}

func (c *HttpClient) GetWithQuery(ctx context.Context, name, path string, query url.Values, responseBody interface{}) error {
	return c.connection(ctx, http.MethodGet, name, path, query, nil, responseBody)
}

// Post sends a POST with no body.
func (c *HttpClient) Post(ctx context.Context, name, path string, responseBody interface{}) error {
	return c.connection(ctx, http.MethodPost, name, path, nil, nil, responseBody)
}

// PostForm sends a POST with form as an `application/x-www-form-urlencoded` body.
func (c *HttpClient) PostForm(ctx context.Context, name, path string, form url.Values, responseBody interface{}) error {
	if form == nil {
		form = url.Values{}
	}
	return c.connection(ctx, http.MethodPost, name, path, nil, form, responseBody)
}

func (c *HttpClient) connection(ctx context.Context, method, name, path string, query url.Values, form url.Values, responseBody interface{}) error {
	// path arrives already escaped, so both forms are joined to keep escaped separators intact.
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("failed to build request path for %s: %w", name, err)
	}

	parsed := new(url.URL)
	*parsed = *c.baseUrl

	parsed.RawPath = parsed.EscapedPath() + rel.EscapedPath()
	parsed.Path += rel.Path
	if query != nil {
		parsed.RawQuery = query.Encode()
	}

	r := &attempt{
		method: method,
		name:   name,
		url:    parsed.String(),
	}
	if form != nil {
		r.body = form.Encode()
		r.hasBody = true
	}
	if method == http.MethodPost {
		// Shared by every retry of this call so the API can recognise the repeats.
		r.idempotencyKey = uuid.NewString()
	}

	return retry.Do(func() error {
		return c.send(ctx, r, responseBody)
	},
		retry.Attempts(c.retries+1), retry.Delay(c.retryDelay), retry.MaxDelay(30*time.Second),
		retry.LastErrorOnly(true), retry.Context(ctx), retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			if n < c.retries {
				c.logger.Printf("Retrying %s (attempt %d of %d): %s", name, n+2, c.retries+1, err)
			}
		}))
}

type attempt struct {
	method         string
	name           string
	url            string
	body           string
	hasBody        bool
	idempotencyKey string
}

func (c *HttpClient) send(ctx context.Context, a *attempt, responseBody interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("failed to %s: %w", a.name, err)
		}
	}

	var body io.Reader
	if a.hasBody {
		body = strings.NewReader(a.body)
	}

	request, err := http.NewRequestWithContext(ctx, a.method, a.url, body)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", a.name, err)
	}
	if a.hasBody {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if a.idempotencyKey != "" {
		request.Header.Set("Idempotency-Key", a.idempotencyKey)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", a.name, err)
	}

	defer response.Body.Close()

	if response.StatusCode > 299 {
		body, _ := io.ReadAll(response.Body)
		httpErr := &HTTPError{
			Name:       a.name,
			StatusCode: response.StatusCode,
			Body:       body,
		}
		var parsed errorResponse
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
			httpErr.Err = parsed.Error
		}
		return httpErr
	}

	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		return fmt.Errorf("failed to decode response to %s: %w", a.name, err)
	}

	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusConflict ||
			httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode >= http.StatusInternalServerError
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// HTTPError is returned for any response with a status outside of the 2xx range. Err holds the structured
// error from the body when the API supplied one.
type HTTPError struct {
	Name       string
	StatusCode int
	Body       []byte
	Err        *Error
}

func (h *HTTPError) Error() string {
	if h.Err != nil {
		return fmt.Sprintf("failed to %s: %d - %s", h.Name, h.StatusCode, h.Err)
	}
	return fmt.Sprintf("failed to %s: %d - %s", h.Name, h.StatusCode, h.Body)
}

func (h *HTTPError) Unwrap() error {
	if h.Err == nil {
		return nil
	}
	return h.Err
}

var _ error = &HTTPError{}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}
