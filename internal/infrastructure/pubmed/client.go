// Package pubmed talks to the NCBI E-utilities API and decodes its records.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the E-utilities root.
	BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultMaxResults bounds the identifier search.
	DefaultMaxResults = 50

	// Requests per second allowed by NCBI without and with an API key.
	AnonymousRateLimit = 3.0
	KeyedRateLimit     = 10.0

	database  = "pubmed"
	userAgent = "LiteratureScanner/1.0"
)

// Client is a rate-limited E-utilities client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	tool       string
	email      string
	maxResults int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at another E-utilities root (tests, mirrors).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithAPIKey sets the NCBI API key and raises the rate limit accordingly.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		if key == "" {
			return
		}
		c.apiKey = key
		c.limiter.SetLimit(rate.Limit(KeyedRateLimit))
	}
}

// WithContact sets the tool and email parameters NCBI asks callers to send.
func WithContact(tool, email string) ClientOption {
	return func(c *Client) {
		c.tool = tool
		c.email = email
	}
}

// WithMaxResults overrides the identifier search bound.
func WithMaxResults(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithRateLimit overrides the requests-per-second budget.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter.SetLimit(rate.Limit(perSecond))
		}
	}
}

// NewClient builds an E-utilities client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(AnonymousRateLimit), 1),
		baseURL:    BaseURL,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Result *struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs esearch and returns up to maxResults identifiers, newest first.
// A response without an identifier list is an empty result, not an error.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(c.maxResults))
	params.Set("sort", "date")

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode esearch: %v", ErrInvalidResponse, err)
	}
	if resp.Result == nil {
		return []string{}, nil
	}

	ids := make([]string, 0, len(resp.Result.IDList))
	for _, id := range resp.Result.IDList {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Fetch retrieves the XML records for all ids in one efetch call.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]byte, error) {
	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	return c.get(ctx, "efetch.fcgi", params)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("db", database)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.tool != "" {
		params.Set("tool", c.tool)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return body, nil
}
