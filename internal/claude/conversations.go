package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Conversation is one claude.ai chat thread.
type Conversation struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Message is one turn in a conversation history.
type Message struct {
	UUID      string `json:"uuid"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// History is the full state of one conversation.
type History struct {
	Conversation
	ChatMessages []Message `json:"chat_messages"`
}

func (c *Client) conversationsURL() string {
	return fmt.Sprintf("%v/api/organizations/%v/chat_conversations", c.baseURL, c.orgID)
}

// ListConversations returns every conversation in the organization.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.conversationsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if err := checkStatus(res, http.StatusOK); err != nil {
		return nil, err
	}
	var convos []Conversation
	if err := json.NewDecoder(res.Body).Decode(&convos); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return convos, nil
}

// CreateConversation creates a new conversation, optionally inside a
// project, and makes it the client's current one. The UUID is generated
// client side, which is how the web UI does it.
func (c *Client) CreateConversation(ctx context.Context, projectUUID string) (string, error) {
	payload := map[string]string{
		"uuid": uuid.NewString(),
		"name": "",
	}
	if projectUUID != "" {
		payload["project_uuid"] = projectUUID
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conversationsURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if err := checkStatus(res, http.StatusOK, http.StatusCreated); err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	var created struct {
		UUID string `json:"uuid"`
	}
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode conversation: %w", err)
	}
	if created.UUID == "" {
		created.UUID = payload["uuid"]
	}
	c.mu.Lock()
	c.conversationID = created.UUID
	c.mu.Unlock()
	return created.UUID, nil
}

// DeleteConversation removes a conversation. An empty ID deletes the
// current one, if any.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	if conversationID == "" {
		c.mu.Lock()
		conversationID = c.conversationID
		c.mu.Unlock()
	}
	if conversationID == "" {
		return false, nil
	}
	url := fmt.Sprintf("%v/%v", c.conversationsURL(), conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusNoContent, nil
}

// ConversationHistory fetches the full history of a conversation. An empty
// ID uses the current or pinned one.
func (c *Client) ConversationHistory(ctx context.Context, conversationID string) (History, error) {
	var history History
	if conversationID == "" {
		c.mu.Lock()
		conversationID = c.conversationID
		if conversationID == "" {
			conversationID = c.pinned
		}
		c.mu.Unlock()
	}
	if conversationID == "" {
		return history, fmt.Errorf("no conversation selected")
	}
	url := fmt.Sprintf("%v/%v", c.conversationsURL(), conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return history, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	res, err := c.client.Do(req)
	if err != nil {
		return history, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if err := checkStatus(res, http.StatusOK); err != nil {
		return history, err
	}
	if err := json.NewDecoder(res.Body).Decode(&history); err != nil {
		return history, fmt.Errorf("failed to decode history: %w", err)
	}
	return history, nil
}

// LastAssistantMessage returns the newest assistant turn in the current
// conversation, or ok false when there is none.
func (c *Client) LastAssistantMessage(ctx context.Context) (string, bool) {
	history, err := c.ConversationHistory(ctx, "")
	if err != nil {
		return "", false
	}
	for i := len(history.ChatMessages) - 1; i >= 0; i-- {
		if history.ChatMessages[i].Sender == "assistant" {
			return history.ChatMessages[i].Text, true
		}
	}
	return "", false
}

// SetConversation switches the current conversation. An empty ID clears
// both the current and pinned conversation so the next message starts a
// fresh one.
func (c *Client) SetConversation(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversationID = conversationID
	if conversationID == "" {
		c.pinned = ""
	}
}

// getOrCreateConversation resolves which conversation the next message goes
// to: pinned first, then current, otherwise a new one.
func (c *Client) getOrCreateConversation(ctx context.Context) (string, error) {
	// SetConversation("") clears pinned too, so it lives under the same lock
	c.mu.Lock()
	pinned := c.pinned
	current := c.conversationID
	c.mu.Unlock()
	if pinned != "" {
		return pinned, nil
	}
	if current != "" {
		return current, nil
	}
	return c.CreateConversation(ctx, "")
}
