// Package tools holds the registry of capabilities the model may invoke and
// the handler which executes parsed calls under an allow-list policy.
package tools

import (
	"net/http"
	"time"
)

// Params are the literal parameter values found between the parameter
// markers. No type coercion happens on the way in, a tool applies its own
// defaults if it wants any.
type Params map[string]string

// LLMTool is one capability exposed to the model.
type LLMTool interface {
	// Call the tool. A returned error becomes the error text of the
	// protocol error block, it never aborts the conversation loop.
	Call(Params) (string, error)

	// Specification describes the tool for registry listings and docs
	Specification() Specification
}

type Specification struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required,omitempty"`
}

// Config carries the knobs the builtin tools need.
type Config struct {
	// Timeout bounds each tool-issued network request
	Timeout time.Duration
	// UserAgent sent on outgoing web requests
	UserAgent string
	// SearchAPIKey for the web-search provider, empty means no provider
	SearchAPIKey string
	// Allowed tool names. Empty means all registered tools are permitted.
	Allowed []string
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}
