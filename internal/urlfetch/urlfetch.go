// Package urlfetch fetches webpages and extracts their readable text, with a
// small metadata header so the consumer knows where the text came from. It is
// a collaborator of the tool layer, not a tool itself.
package urlfetch

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher gets URLs and boils them down to readable text.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New returns a Fetcher with the given request timeout. Zero means 30s.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
}

// Fetch validates rawURL, gets it and returns extracted text. The URL needs
// both a scheme and a host before any network access happens.
func (f *Fetcher) Fetch(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.New("invalid URL format")
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	res, err := f.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return "", errors.New("request timed out")
		}
		return "", fmt.Errorf("could not connect to URL: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP error: %v", res.StatusCode)
	}

	doc, err := html.Parse(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return extract(doc, u.String()), nil
}

// FetchResult is one entry of a FetchMultiple call.
type FetchResult struct {
	URL     string
	Content string
	Err     error
}

// FetchMultiple fetches each URL in order.
func (f *Fetcher) FetchMultiple(urls []string) []FetchResult {
	results := make([]FetchResult, 0, len(urls))
	for _, u := range urls {
		content, err := f.Fetch(u)
		results = append(results, FetchResult{URL: u, Content: content, Err: err})
	}
	return results
}

// Elements removed before text extraction
var strippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
}

// extract returns a metadata header followed by the cleaned page text,
// preferring an obvious main-content element over the whole body.
func extract(doc *html.Node, sourceURL string) string {
	title := findTitle(doc)
	strip(doc)

	root := findMainContent(doc)
	if root == nil {
		root = doc
	}
	var lines []string
	collectText(root, &lines)

	var parts []string
	if title != "" {
		parts = append(parts, "Title: "+title)
	}
	parts = append(parts, "URL: "+sourceURL, "", strings.Join(lines, "\n"))
	return strings.Join(parts, "\n")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// strip removes unwanted elements in place
func strip(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && strippedElements[c.Data] {
			n.RemoveChild(c)
			continue
		}
		strip(c)
	}
}

// contentLabels mark divs which typically hold the article body
var contentLabels = map[string]bool{
	"content": true,
	"main":    true,
	"article": true,
}

func findMainContent(doc *html.Node) *html.Node {
	if n := findElement(doc, func(n *html.Node) bool {
		return n.Data == "main" || n.Data == "article"
	}); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool {
		if n.Data != "div" {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key != "class" && attr.Key != "id" {
				continue
			}
			for _, label := range strings.Fields(attr.Val) {
				if contentLabels[strings.ToLower(label)] {
					return true
				}
			}
		}
		return false
	}); n != nil {
		return n
	}
	return findElement(doc, func(n *html.Node) bool {
		return n.Data == "body"
	})
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			*lines = append(*lines, trimmed)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
