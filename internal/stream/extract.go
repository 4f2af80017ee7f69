package stream

import (
	"fmt"
	"strings"
)

// ExtractText returns the human readable text a frame contributes to the
// response, if any. Pure function over the classified variant.
func ExtractText(f Frame) (string, bool) {
	switch f.Kind {
	case FrameCompletion, FrameContent, FrameDelta, FrameText, FrameEventType:
		return f.Text, true
	case FrameContentBlocks:
		var sb strings.Builder
		for _, b := range f.Blocks {
			switch {
			case b.Type == "text":
				sb.WriteString(b.Text)
			case b.Type == "tool_use":
				// Surface tool calls as a readable marker rather than
				// structured data
				name := b.Name
				if name == "" {
					name = "unknown"
				}
				sb.WriteString(fmt.Sprintf("\n[Using tool: %v...]\n", name))
			case b.Type == "tool_result":
				sb.WriteString(b.Content)
			case b.HasText:
				sb.WriteString(b.Text)
			}
		}
		if sb.Len() == 0 {
			return "", false
		}
		return sb.String(), true
	case FrameMessage:
		if f.Inner == nil {
			return "", false
		}
		return ExtractText(*f.Inner)
	default:
		return "", false
	}
}
