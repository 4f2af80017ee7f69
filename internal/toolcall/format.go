package toolcall

import (
	"fmt"
	"strings"
)

// Format serializes executed calls into the wire markup claude.ai expects as
// the follow-up user turn. One self-contained <function_results> block per
// call, in input order, joined by single newlines. Content goes in verbatim,
// the protocol does no escaping.
func Format(results []Executed) string {
	parts := make([]string, 0, len(results))
	for _, ex := range results {
		if ex.Result.Success {
			parts = append(parts, fmt.Sprintf(
				"<function_results>\n<result name=%q>\n%v\n</result>\n</function_results>",
				ex.Call.Name, ex.Result.Content))
		} else {
			parts = append(parts, fmt.Sprintf(
				"<function_results>\n<error name=%q>\n%v\n</error>\n</function_results>",
				ex.Call.Name, ex.Result.Error))
		}
	}
	return strings.Join(parts, "\n")
}
