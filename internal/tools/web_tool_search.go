package tools

import (
	"errors"
	"fmt"
)

// WebSearchTool answers search requests. Without a configured provider it
// returns a successful fallback message steering the model towards
// fetch-url, which keeps the conversation moving instead of erroring out.
type WebSearchTool struct {
	apiKey string
}

// NewWebSearch builds the web-search tool from cfg.
func NewWebSearch(cfg Config) *WebSearchTool {
	return &WebSearchTool{apiKey: cfg.SearchAPIKey}
}

func (w *WebSearchTool) Specification() Specification {
	return Specification{
		Name:        "web-search",
		Description: "Search the web for information. Falls back to suggesting fetch-url when no search provider is configured.",
		Required:    []string{"query"},
	}
}

func (w *WebSearchTool) Call(params Params) (string, error) {
	query := params["query"]
	if query == "" {
		return "", errors.New("No search query provided")
	}
	if w.apiKey != "" {
		// A provider credential is set but no provider integration exists
		return "", errors.New("Web search API not implemented. Please configure a supported search provider.")
	}
	return fmt.Sprintf(
		"Web search for %q is not available in this environment. Please try using fetch-url with a specific URL instead.",
		query), nil
}
