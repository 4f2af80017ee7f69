// Package toolcall parses and formats the XML-ish tool invocation markup
// which claude.ai embeds in its response text. A response may contain zero or
// more <function_calls> blocks, each holding one or more <invoke> elements
// with <parameter> children. Results travel back as <function_results>
// blocks in the next user turn.
package toolcall

// Call is one parsed tool invocation.
type Call struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters"`
	// RawXML holds the full block the call was found in, kept around for
	// debugging and error reporting
	RawXML string `json:"-"`
}

// Result is the outcome of running one tool.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Executed pairs a call with the result of running it. Order of a slice of
// Executed always matches the document order of the originating calls.
type Executed struct {
	Call   Call
	Result Result
}
