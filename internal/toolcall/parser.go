package toolcall

import (
	"regexp"
	"strings"
)

const (
	blockOpen   = "<function_calls>"
	blockClose  = "</function_calls>"
	invokeOpen  = "<invoke name="
	invokeClose = "</invoke>"
)

var (
	blockPattern  = regexp.MustCompile(`(?s)<function_calls>(.*?)</function_calls>`)
	invokePattern = regexp.MustCompile(`(?s)<invoke\s+name=["']([^"']+)["']>(.*?)</invoke>`)
	// Parameter values are never nested markup, so matching stops at the
	// first '<' which keeps greedy params from eating sibling tags
	paramPattern   = regexp.MustCompile(`(?s)<parameter\s+name=["']([^"']+)["']>([^<]*)</parameter>`)
	resultsPattern = regexp.MustCompile(`(?s)<function_results>.*?</function_results>`)
	// Truncated markup runs to the end of the text
	openBlockTail  = regexp.MustCompile(`(?s)<function_calls>.*$`)
	openInvokeTail = regexp.MustCompile(`(?s)<invoke\s+name=.*$`)
	// Anything tag-shaped that survived the block removals, e.g. a stray
	// close marker without its opener
	strayMarker    = regexp.MustCompile(`</?(?:function_calls|function_results|invoke|parameter|result|error)\b[^>]*>`)
	squashNewlines = regexp.MustCompile(`\n{3,}`)
)

// HasToolCalls reports whether text contains tool markup, complete or not.
// Even a lone opening marker counts, so that callers can suppress raw markup
// from being shown to the user while a response is still streaming in.
func HasToolCalls(text string) bool {
	if blockPattern.MatchString(text) {
		return true
	}
	return strings.Contains(text, blockOpen)
}

// HasIncompleteToolCalls reports whether text holds an opened block or
// invocation with no matching close marker, which means the response was
// truncated or is still streaming.
func HasIncompleteToolCalls(text string) bool {
	if strings.Contains(text, blockOpen) && !strings.Contains(text, blockClose) {
		return true
	}
	if strings.Contains(text, invokeOpen) && !strings.Contains(text, invokeClose) {
		return true
	}
	return false
}

// Parse extracts every complete tool call from text, in document order.
// Fragments with unmatched nesting simply yield no call.
func Parse(text string) []Call {
	var calls []Call
	for _, block := range blockPattern.FindAllStringSubmatch(text, -1) {
		rawXML, blockContent := block[0], block[1]
		for _, inv := range invokePattern.FindAllStringSubmatch(blockContent, -1) {
			params := map[string]string{}
			for _, p := range paramPattern.FindAllStringSubmatch(inv[2], -1) {
				params[p[1]] = strings.TrimSpace(p[2])
			}
			calls = append(calls, Call{
				Name:       inv[1],
				Parameters: params,
				RawXML:     rawXML,
			})
		}
	}
	return calls
}

// Clean strips all tool markup from text: complete blocks, function_results
// echoes, still-open partial markup and stray markers. Cleaning is
// idempotent.
func Clean(text string) string {
	cleaned := blockPattern.ReplaceAllString(text, "")
	cleaned = resultsPattern.ReplaceAllString(cleaned, "")
	cleaned = openBlockTail.ReplaceAllString(cleaned, "")
	cleaned = openInvokeTail.ReplaceAllString(cleaned, "")
	cleaned = strayMarker.ReplaceAllString(cleaned, "")
	cleaned = squashNewlines.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// TextBefore returns the prose preceding the first tool call marker, or all
// of text when there is none.
func TextBefore(text string) string {
	if i := strings.Index(text, blockOpen); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return strings.TrimSpace(text)
}
