// Package claude talks to the claude.ai web API using a browser session
// cookie. It covers organization lookup, conversation management and the
// streaming completion endpoint.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const defaultBaseURL = "https://claude.ai"

// DefaultUserAgent mimics a desktop browser, the endpoint rejects obviously
// non-browser clients.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds what a Client needs to authenticate and route requests.
type Config struct {
	// Cookie is the full claude.ai session cookie string
	Cookie string
	// ConversationID pins every message to one existing conversation, for
	// example a project conversation. Empty means conversations are created
	// on demand.
	ConversationID string
	UserAgent      string
	BaseURL        string
	// Timeout bounds each completion request. Tool heavy turns are slow, so
	// this should be generous.
	Timeout time.Duration
}

// Client is a claude.ai web API client bound to one organization. Safe for
// concurrent use.
type Client struct {
	cookie         string
	userAgent      string
	baseURL        string
	orgID          string
	pinned         string
	timeout        time.Duration
	client         *http.Client
	debug          bool
	mu             sync.Mutex
	conversationID string
}

// New constructs a Client and resolves the account's organization ID, which
// every other endpoint is scoped under.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Cookie == "" {
		return nil, fmt.Errorf("cookie is required")
	}
	c := &Client{
		cookie:    cfg.Cookie,
		userAgent: cfg.UserAgent,
		baseURL:   cfg.BaseURL,
		pinned:    cfg.ConversationID,
		timeout:   cfg.Timeout,
		client:    &http.Client{},
		debug:     misc.Truthy(os.Getenv("DEBUG")),
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.timeout == 0 {
		c.timeout = 300 * time.Second
	}
	orgID, err := c.lookupOrganization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup organization: %w", err)
	}
	c.orgID = orgID
	return c, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cookie", c.cookie)
}

// checkStatus converts non-success responses into the error taxonomy. The
// body is consumed on error.
func checkStatus(res *http.Response, accepted ...int) error {
	if res.StatusCode == http.StatusForbidden {
		return &AuthExpiredError{}
	}
	for _, code := range accepted {
		if res.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
	return &TransportError{StatusCode: res.StatusCode, Body: string(body)}
}

// lookupOrganization takes the first organization on the account, the web
// UI does the same.
func (c *Client) lookupOrganization(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/organizations", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if err := checkStatus(res, http.StatusOK); err != nil {
		return "", err
	}
	var orgs []struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&orgs); err != nil {
		return "", fmt.Errorf("failed to decode organizations: %w", err)
	}
	if len(orgs) == 0 {
		return "", fmt.Errorf("account has no organizations")
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("using organization: %v\n", orgs[0].UUID))
	}
	return orgs[0].UUID, nil
}

// OrganizationID returns the resolved organization.
func (c *Client) OrganizationID() string {
	return c.orgID
}
