package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL serves the pyvisgen layout catalog as raw text files.
	DefaultBaseURL = "https://raw.githubusercontent.com/radionets-project/pyvisgen/refs/heads/main/resources/layouts/"

	// DefaultIndexURL is the browsable catalog page ArrayNames scrapes.
	DefaultIndexURL = "https://github.com/radionets-project/pyvisgen/tree/main/resources/layouts"

	// DefaultTimeout for catalog HTTP requests.
	DefaultTimeout = 30 * time.Second

	// EnvBaseURL names the environment variable that overrides the
	// catalog base URL for mirrors and tests.
	EnvBaseURL = "RADIOTOOLS_LAYOUT_BASE"
)

// ErrUnknownArray reports a layout name the catalog does not carry.
var ErrUnknownArray = errors.New("unknown array layout")

// layoutFileRe matches layout file names on the catalog index page.
var layoutFileRe = regexp.MustCompile(`\b\w+\.txt\b`)

// Fetcher downloads array layouts from the pyvisgen catalog.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	indexURL string
	timeout  time.Duration
	limiter  *rate.Limiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL sets a custom base URL for layout files.
func WithBaseURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = url
	}
}

// WithIndexURL sets a custom catalog index page for ArrayNames.
func WithIndexURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.indexURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLimiter sets the request rate limiter.
func WithLimiter(l *rate.Limiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// NewFetcher creates a catalog fetcher. The base URL may be overridden
// through the RADIOTOOLS_LAYOUT_BASE environment variable; explicit
// options win over the environment.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:  DefaultBaseURL,
		indexURL: DefaultIndexURL,
		timeout:  DefaultTimeout,
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		f.baseURL = v
	}

	for _, opt := range opts {
		opt(f)
	}

	if !strings.HasSuffix(f.baseURL, "/") {
		f.baseURL += "/"
	}
	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}
	if f.limiter == nil {
		f.limiter = rate.NewLimiter(rate.Limit(2), 4)
	}

	return f
}

// Array fetches a named layout from the catalog, e.g. "vla" or "eht".
func (f *Fetcher) Array(ctx context.Context, name string) (*Layout, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".txt")
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownArray)
	}

	l, err := f.FromURL(ctx, f.baseURL+name+".txt")
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", name, err)
	}
	l.Name = name
	return l, nil
}

// FromURL fetches and parses a layout file from an arbitrary URL.
func (f *Fetcher) FromURL(ctx context.Context, url string) (*Layout, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	l, err := Read(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	l.Source = url
	return l, nil
}

// ArrayNames scrapes the catalog index page for available layout names,
// deduplicated and sorted. Names are returned without the .txt suffix.
func (f *Fetcher) ArrayNames(ctx context.Context) ([]string, error) {
	body, err := f.get(ctx, f.indexURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, m := range layoutFileRe.FindAllString(string(body), -1) {
		seen[strings.TrimSuffix(m, ".txt")] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "radiotools/1.0 (array layout tools)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch layout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownArray
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// BaseURL returns the configured catalog base URL.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}
