package pixabay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/storage"
)

const (
	defaultTimeout = 15 * time.Second
	defaultPerPage = 12
	firstPage      = 1
	// maxErrorBody bounds how much of an error response is kept for logging.
	maxErrorBody = 512
)

// Page is one page of search results.
type Page struct {
	TotalHits int              `json:"totalHits"`
	Total     int              `json:"total"`
	Hits      []*storage.Image `json:"hits"`
	// Number is the page that was requested, starting at 1.
	Number int `json:"-"`
}

// Client talks to the Pixabay search endpoint and owns the page cursor for
// the active query. It is safe for concurrent use.
type Client struct {
	baseURL     string
	key         string
	perPage     int
	imageType   string
	orientation string
	safeSearch  bool
	userAgent   string
	client      *http.Client

	mu    sync.Mutex
	query string
	page  int
	epoch uint64
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.API.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	perPage := cfg.API.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return &Client{
		baseURL:     cfg.API.BaseURL,
		key:         cfg.API.Key,
		perPage:     perPage,
		imageType:   cfg.API.ImageType,
		orientation: cfg.API.Orientation,
		safeSearch:  cfg.API.SafeSearch,
		userAgent:   cfg.API.UserAgent,
		client: &http.Client{
			Timeout: timeout,
		},
		page: firstPage,
	}
}

func (c *Client) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

func (c *Client) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// ResetPage moves the cursor back to the first page. Requests already in
// flight complete normally but no longer advance the cursor.
func (c *Client) ResetPage() {
	c.mu.Lock()
	c.page = firstPage
	c.epoch++
	c.mu.Unlock()
}

// Page is the page the next GetImages call will request.
func (c *Client) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// GetImages fetches the page under the cursor for the active query and
// advances the cursor when the page decodes. Every failure is a *FetchError.
func (c *Client) GetImages(ctx context.Context) (*Page, error) {
	c.mu.Lock()
	query, page, epoch := c.query, c.page, c.epoch
	c.mu.Unlock()

	reqURL, err := c.buildURL(query, page)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	log := debuglog.With("query", query, "page", page)
	log.Debugf("requesting image page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("image request failed: %v", err)
		return nil, &FetchError{Err: fmt.Errorf("fetching images: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		log.Warnf("image API returned %d: %s", resp.StatusCode, msg)
		var cause error
		if msg != "" {
			cause = errors.New(msg)
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: cause}
	}

	var result Page
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("decoding image page: %v", err)
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	result.Number = page

	c.mu.Lock()
	if c.epoch == epoch && c.page == page {
		c.page++
	}
	c.mu.Unlock()

	log.Debugf("received %d hits of %d", len(result.Hits), result.TotalHits)
	return &result, nil
}

func (c *Client) buildURL(query string, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	params := u.Query()
	params.Set("key", c.key)
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.perPage))
	if c.imageType != "" {
		params.Set("image_type", c.imageType)
	}
	if c.orientation != "" {
		params.Set("orientation", c.orientation)
	}
	params.Set("safesearch", strconv.FormatBool(c.safeSearch))
	u.RawQuery = params.Encode()

	return u.String(), nil
}
