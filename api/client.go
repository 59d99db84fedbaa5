package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/paymentsio/terraform-provider-payments/api/internal"
	"github.com/paymentsio/terraform-provider-payments/api/service/payment_methods"
)

// HTTPError is returned by every operation when the API answers with a non-2xx status.
type HTTPError = internal.HTTPError

// Error is the structured error body carried by an HTTPError, reachable with errors.As.
type Error = internal.Error

type Client struct {
	PaymentMethod *payment_methods.API
}

func NewClient(configs ...Option) (*Client, error) {
	config := &Options{
		baseUrl:   DefaultBaseURL,
		userAgent: userAgent,
		secretKey: os.Getenv(SecretKeyEnvVar),
		logger:    &defaultLogger{},
		transport: http.DefaultTransport,
	}

	for _, option := range configs {
		option(config)
	}

	transport, err := config.instrument(config.transport)
	if err != nil {
		return nil, err
	}
	config.transport = transport

	httpClient := &http.Client{
		Transport: config.roundTripper(),
	}

	httpOptions := []internal.HttpOption{
		internal.WithLogger(config.logger),
		internal.WithRetries(config.maxRetries),
	}
	if config.limiter != nil {
		httpOptions = append(httpOptions, internal.WithLimiter(config.limiter))
	}

	client, err := internal.NewHttpClient(httpClient, config.baseUrl, httpOptions...)
	if err != nil {
		return nil, err
	}

	p := payment_methods.NewAPI(client, config.logger)

	return &Client{
		PaymentMethod: p,
	}, nil
}

type Options struct {
	baseUrl     string
	secretKey   string
	userAgent   string
	logger      Log
	transport   http.RoundTripper
	logRequests bool
	maxRetries  uint
	limiter     *rate.Limiter
	registerer  prometheus.Registerer
}

func (o Options) roundTripper() http.RoundTripper {
	return &credentialTripper{
		secretKey:   o.secretKey,
		wrapped:     o.transport,
		logRequests: o.logRequests,
		logger:      o.logger,
		userAgent:   o.userAgent,
	}
}

func (o Options) instrument(next http.RoundTripper) (http.RoundTripper, error) {
	if o.registerer == nil {
		return next, nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_api_requests_total",
		Help: "Requests sent to the payments API, partitioned by status code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payments_api_request_duration_seconds",
		Help:    "Latency of requests sent to the payments API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"code", "method"})

	for _, c := range []prometheus.Collector{requests, duration} {
		if err := o.registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return promhttp.InstrumentRoundTripperCounter(requests,
		promhttp.InstrumentRoundTripperDuration(duration, next)), nil
}

type Option func(*Options)

// Auth is used to set the secret key - will otherwise default to using the `PAYMENTS_SECRET_KEY` environment
// variable.
func Auth(secretKey string) Option {
	return func(options *Options) {
		options.secretKey = secretKey
	}
}

// BaseURL sets the URL to use for the API endpoint - will default to `https://api.payments.dev/v1`.
func BaseURL(url string) Option {
	return func(options *Options) {
		options.baseUrl = url
	}
}

// LogRequests allows the logging of HTTP request and responses - will default to false (disabled). Card numbers
// and security codes are redacted from logged request bodies.
func LogRequests(enable bool) Option {
	return func(options *Options) {
		options.logRequests = enable
	}
}

// Transporter allows the customisation of the RoundTripper used to communicate with the API - will default to the
// Go default.
func Transporter(transporter http.RoundTripper) Option {
	return func(options *Options) {
		options.transport = transporter
	}
}

// AdditionalUserAgent allows extra information to be appended to the user agent sent in all requests to the API.
func AdditionalUserAgent(additional string) Option {
	return func(options *Options) {
		options.userAgent += " " + additional
	}
}

// Logger allows for a custom implementation to handle the debug log messages - defaults to using the Go standard log
// package.
func Logger(log Log) Option {
	return func(options *Options) {
		options.logger = log
	}
}

// MaxNetworkRetries sets how many times a request that failed on the network, or with a 409, 429 or 5xx status,
// is sent again - will default to 0 (every failure is returned straight away). Retries of a POST reuse its
// `Idempotency-Key`.
func MaxNetworkRetries(retries uint) Option {
	return func(options *Options) {
		options.maxRetries = retries
	}
}

// RateLimit caps the rate of requests sent by this client - will default to no limit.
func RateLimit(requestsPerSecond float64, burst int) Option {
	return func(options *Options) {
		options.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// Metrics registers request counters and latency histograms with the given registerer.
func Metrics(registerer prometheus.Registerer) Option {
	return func(options *Options) {
		options.registerer = registerer
	}
}

type Log interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

type defaultLogger struct{}

func (d *defaultLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

func (d *defaultLogger) Println(v ...interface{}) {
	log.Println(v...)
}

type credentialTripper struct {
	secretKey   string
	wrapped     http.RoundTripper
	logRequests bool
	logger      Log
	userAgent   string
}

func (c *credentialTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", c.userAgent)

	if c.logRequests {
		data, _ := httputil.DumpRequestOut(request, true)
		if data != nil {
			c.logger.Printf(`DEBUG: Request %s:
---[ REQUEST ]---
%s`, request.URL.Path, prettyPrint(redactCardData(data)))
		}
	}

	// Credentials added _after_ the request was logged to avoid accidentally logging them
	request.Header.Set("Authorization", "Bearer "+c.secretKey)

	response, err := c.wrapped.RoundTrip(request)
	if err != nil {
		return response, err
	}

	if c.logRequests {
		data, _ := httputil.DumpResponse(response, true)
		if data != nil {
			c.logger.Printf(`DEBUG: Response %s:
---[ RESPONSE ]---
%s`, request.URL.Path, prettyPrint(data))
		}
	}
	return response, nil
}

var sensitiveFormKeys = map[string]bool{
	"number": true,
	"cvc":    true,
}

const redacted = "REDACTED"

// redactCardData replaces the values of card number and security code keys in a dumped form body.
func redactCardData(data []byte) []byte {
	sep := []byte("\r\n\r\n")
	i := bytes.Index(data, sep)
	if i < 0 {
		return data
	}
	head, body := data[:i+len(sep)], data[i+len(sep):]
	if len(body) == 0 {
		return data
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		// Not something we know how to inspect, so don't risk printing it.
		return append(append([]byte{}, head...), redacted...)
	}

	for key := range form {
		if sensitiveFormKeys[key] || sensitiveFormKeys[strings.TrimSuffix(strings.TrimPrefix(key, "card["), "]")] {
			for i := range form[key] {
				form[key][i] = redacted
			}
		}
	}

	return append(append([]byte{}, head...), form.Encode()...)
}

func prettyPrint(data []byte) string {
	lines := strings.Split(string(data), "\n")
	// A JSON body that wasn't indented would have ended up as a single line in the dumped information,
	// so try and find a line which is valid JSON and then indent it
	for i, line := range lines {
		asBytes := []byte(line)
		if json.Valid(asBytes) {
			var indented bytes.Buffer
			if err := json.Indent(&indented, asBytes, "", "  "); err == nil {
				lines[i] = indented.String()
			}
		}
	}
	return strings.Join(lines, "\n")
}

var _ http.RoundTripper = &credentialTripper{}
