package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SEMalytics/claude-project-chat/internal/stream"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
)

// Attachment is a document sent alongside a prompt. The endpoint only reads
// the extracted text, the raw bytes stay local.
type Attachment struct {
	FileName         string `json:"file_name"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	ExtractedContent string `json:"extracted_content"`
}

type completionReq struct {
	Prompt      string       `json:"prompt"`
	Timezone    string       `json:"timezone"`
	Attachments []Attachment `json:"attachments"`
	Files       []string     `json:"files"`
}

// Stream posts a prompt to the completion endpoint and returns the raw SSE
// body. The caller owns closing it. The conversation is resolved or created
// first, so a transport error can surface before any streaming starts.
func (c *Client) Stream(ctx context.Context, message string, attachments []Attachment) (io.ReadCloser, error) {
	conversationID, err := c.getOrCreateConversation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conversation: %w", err)
	}
	reqData := completionReq{
		Prompt:      message,
		Timezone:    "America/Los_Angeles",
		Attachments: attachments,
		Files:       []string{},
	}
	if reqData.Attachments == nil {
		reqData.Attachments = []Attachment{}
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("completion request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	url := fmt.Sprintf("%v/%v/completion", c.conversationsURL(), conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	// Per-request client copy so the completion timeout does not bleed into
	// the short management calls.
	streamClient := *c.client
	streamClient.Timeout = c.timeout
	res, err := streamClient.Do(req)
	if err != nil {
		return nil, wrapTimeout(fmt.Errorf("failed to execute request: %w", err))
	}
	if err := checkStatus(res, http.StatusOK); err != nil {
		res.Body.Close()
		return nil, err
	}
	return res.Body, nil
}

// Send posts a prompt and drains the whole streamed answer into one string.
// A stream that produced no text returns stream.ErrNoResponse.
func (c *Client) Send(ctx context.Context, message string, attachments []Attachment) (string, error) {
	body, err := c.Stream(ctx, message, attachments)
	if err != nil {
		return "", err
	}
	defer body.Close()
	text, err := stream.DecodeAll(ctx, body)
	if err != nil {
		return "", wrapTimeout(err)
	}
	return text, nil
}
