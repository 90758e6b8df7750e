package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher defines how raw HTML is retrieved for analysis.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body io.ReadCloser, statusCode int, err error)
}

// decodedBody reads the charset-decoded, size-limited body but closes the
// original response body.
type decodedBody struct {
	io.Reader
	io.Closer
}

const (
	maxRedirects = 5

	// BotUserAgent identifies the fallback request of the fetch ladder.
	BotUserAgent = "PalettePagesBot/1.0"
	// BrowserUserAgent is sent first, since many sites only serve full
	// styling to desktop browsers.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 10 << 20
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// ClientOptions configures an HTTPClient. Zero values take defaults.
type ClientOptions struct {
	UserAgent            string
	Accept               string
	Timeout              time.Duration
	MaxBodyBytes         int64
	AllowPrivateNetworks bool
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.UserAgent == "" {
		o.UserAgent = BotUserAgent
	}
	if o.Accept == "" {
		o.Accept = "text/html"
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	return o
}

// HTTPClient implements Fetcher using a real HTTP client.
type HTTPClient struct {
	client       *http.Client
	userAgent    string
	accept       string
	maxBodyBytes int64
}

// NewHTTPClient returns a Fetcher whose transport refuses private and
// reserved addresses (unless opts allows them) and whose redirect policy
// stops scheme changes and long chains.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	opts = opts.withDefaults()
	return &HTTPClient{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext:         newDialer(opts.Timeout, opts.AllowPrivateNetworks).DialContext,
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: safeRedirectPolicy,
		},
		userAgent:    opts.UserAgent,
		accept:       opts.Accept,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// safeRedirectPolicy validates redirect targets and limits the redirect chain length.
func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch retrieves the page at the given URL. The body is decoded to UTF-8
// according to the response's Content-Type and <meta> charset.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", c.accept)

	resp, err := c.client.Do(req) //nolint:bodyclose // body is returned to caller via decodedBody
	if err != nil {
		return nil, 0, err
	}

	limit := c.maxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	utf8, err := charset.NewReader(io.LimitReader(resp.Body, limit), resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		// An empty body is a blank page, not a transport failure.
		return &decodedBody{Reader: strings.NewReader(""), Closer: resp.Body}, resp.StatusCode, nil
	}
	if err != nil {
		_ = resp.Body.Close()
		return nil, resp.StatusCode, fmt.Errorf("decoding body: %w", err)
	}

	return &decodedBody{Reader: utf8, Closer: resp.Body}, resp.StatusCode, nil
}
