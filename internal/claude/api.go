package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SEMalytics/claude-project-chat/internal/fileproc"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	defaultAPIBaseURL = "https://api.anthropic.com"
	anthropicVersion  = "2023-06-01"
	defaultModel      = "claude-sonnet-4-20250514"
	defaultMaxTokens  = 4096
)

// APIClient talks to the official Anthropic messages API with an API key.
// It is the buffered alternative to the cookie-authenticated web Client:
// no conversation state server side, files travel as base64 document
// blocks in the request itself.
type APIClient struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
	debug     bool
}

// APIConfig holds the knobs of the messages API transport.
type APIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
	Timeout   time.Duration
}

// APIMessage is one turn in an API conversation. Content is either a plain
// string or a slice of content blocks.
type APIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// TextContent is the text block of a content slice.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// DocumentContent carries one base64 encoded file.
type DocumentContent struct {
	Type   string         `json:"type"`
	Source documentSource `json:"source"`
}

type documentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiReq struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []APIMessage `json:"messages"`
	System    string       `json:"system,omitempty"`
}

type apiRes struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewAPIClient builds an APIClient, applying the model and token defaults.
func NewAPIClient(cfg APIConfig) (*APIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	c := &APIClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: cfg.Timeout},
		debug:     misc.Truthy(os.Getenv("DEBUG")),
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.maxTokens == 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.baseURL == "" {
		c.baseURL = defaultAPIBaseURL
	}
	return c, nil
}

// SendMessage posts one user turn, with any files as document blocks before
// the text block, and returns the first text block of the answer. history
// is passed through as preceding turns.
func (c *APIClient) SendMessage(ctx context.Context, message string, files []string, history []APIMessage, system string) (string, error) {
	var content []any
	for _, file := range files {
		block, ok := documentBlock(file)
		if !ok {
			continue
		}
		content = append(content, block)
	}
	content = append(content, TextContent{Type: "text", Text: message})

	messages := append(append([]APIMessage{}, history...), APIMessage{
		Role:    "user",
		Content: content,
	})
	reqData := apiReq{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  messages,
		System:    system,
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("messages API request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	res, err := c.client.Do(req)
	if err != nil {
		return "", wrapTimeout(fmt.Errorf("failed to execute request: %w", err))
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
		return "", &TransportError{StatusCode: res.StatusCode, Body: string(body)}
	}
	var answer apiRes
	if err := json.NewDecoder(res.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, block := range answer.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("response contained no text block")
}

// documentBlock reads and encodes one file. Missing files and files without
// a usable MIME type are skipped rather than failing the request.
func documentBlock(path string) (DocumentContent, bool) {
	mimeType := fileproc.MimeType(path)
	if mimeType == "application/octet-stream" {
		return DocumentContent{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DocumentContent{}, false
	}
	return DocumentContent{
		Type: "document",
		Source: documentSource{
			Type:      "base64",
			MediaType: mimeType,
			Data:      base64.StdEncoding.EncodeToString(data),
		},
	}, true
}
