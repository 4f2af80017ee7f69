package tools

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// fetchMaxLength caps how much extracted page text is handed to the model
const fetchMaxLength = 10000

const truncationNotice = "\n\n[Content truncated...]"

// FetchURLTool gets a webpage and boils it down to readable text.
type FetchURLTool struct {
	client    httpDoer
	userAgent string
}

// NewFetchURL builds the fetch-url tool from cfg.
func NewFetchURL(cfg Config) *FetchURLTool {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FetchURLTool{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

func (f *FetchURLTool) Specification() Specification {
	return Specification{
		Name:        "fetch-url",
		Description: "Fetch a webpage and return its readable text content, scripts and chrome stripped.",
		Required:    []string{"url"},
	}
}

func (f *FetchURLTool) Call(params Params) (string, error) {
	url := params["url"]
	if url == "" {
		return "", errors.New("No URL provided")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch URL: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch URL: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("Failed to fetch URL: bad status: %v", res.Status)
	}

	text, err := readableText(res.Body)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch URL: %v", err)
	}
	if len(text) > fetchMaxLength {
		// Back up to a rune boundary so truncation never emits invalid UTF-8
		cut := fetchMaxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + truncationNotice
	}
	return fmt.Sprintf("Content from %v:\n\n%v", url, text), nil
}

// Elements which never carry content the model should read
var strippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// readableText tokenizes HTML and keeps the text nodes outside of stripped
// elements, one trimmed line per text node.
func readableText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var text strings.Builder
	skipDepth := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return "", fmt.Errorf("tokenizer error: %w", tokenizer.Err())
		}
		switch tt {
		case html.StartTagToken:
			if strippedTags[strings.ToLower(tokenizer.Token().Data)] {
				skipDepth++
			}
		case html.EndTagToken:
			if strippedTags[strings.ToLower(tokenizer.Token().Data)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			trimmed := bytes.TrimSpace(tokenizer.Text())
			if len(trimmed) == 0 {
				continue
			}
			text.Write(trimmed)
			text.WriteRune('\n')
		}
	}
	return strings.TrimSpace(text.String()), nil
}
