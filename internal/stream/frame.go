// Package stream decodes the text/event-stream bodies returned by the
// claude.ai completion endpoint into plain text fragments. The endpoint has
// grown about a dozen event shapes over time, so classification works over a
// tagged Frame variant instead of probing fields ad hoc.
package stream

// FrameKind discriminates the recognized event shapes.
type FrameKind int

const (
	// FrameUnrecognized contributes no text, which is not an error
	FrameUnrecognized FrameKind = iota
	FrameCompletion
	FrameContent
	FrameContentBlocks
	FrameDelta
	FrameText
	FrameMessage
	FrameEventType
)

// Frame is one classified streaming event.
type Frame struct {
	Kind   FrameKind
	Text   string
	Blocks []Block
	// Inner is set for FrameMessage, holding the classified nested frame
	Inner *Frame
}

// Block is one entry of a content block list.
type Block struct {
	Type    string
	Text    string
	HasText bool
	Name    string
	Content string
}

// Classify buckets a decoded event payload into one of the recognized frame
// shapes. Priority matters: the first matching shape claims the frame. A
// delta field in no known sub-shape does not claim the frame, later shapes
// still get a go, which mirrors how the endpoint actually behaves.
func Classify(data map[string]any) Frame {
	if v, ok := data["completion"].(string); ok {
		return Frame{Kind: FrameCompletion, Text: v}
	}
	if c, ok := data["content"]; ok {
		switch cv := c.(type) {
		case string:
			return Frame{Kind: FrameContent, Text: cv}
		case []any:
			return Frame{Kind: FrameContentBlocks, Blocks: parseBlocks(cv)}
		}
	}
	if d, ok := data["delta"]; ok {
		if text, ok := deltaText(d); ok {
			return Frame{Kind: FrameDelta, Text: text}
		}
	}
	if v, ok := data["text"].(string); ok {
		return Frame{Kind: FrameText, Text: v}
	}
	if m, ok := data["message"].(map[string]any); ok {
		inner := Classify(m)
		return Frame{Kind: FrameMessage, Inner: &inner}
	}
	if t, ok := data["type"].(string); ok {
		if t == "content_block_delta" || t == "message_delta" {
			var text string
			if d, ok := data["delta"].(map[string]any); ok {
				text, _ = d["text"].(string)
			}
			return Frame{Kind: FrameEventType, Text: text}
		}
	}
	return Frame{Kind: FrameUnrecognized}
}

func parseBlocks(raw []any) []Block {
	blocks := make([]Block, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		b := Block{}
		b.Type, _ = m["type"].(string)
		b.Name, _ = m["name"].(string)
		b.Content, _ = m["content"].(string)
		b.Text, b.HasText = m["text"].(string)
		blocks = append(blocks, b)
	}
	return blocks
}

func deltaText(d any) (string, bool) {
	switch dv := d.(type) {
	case string:
		return dv, true
	case map[string]any:
		if text, ok := dv["text"].(string); ok {
			return text, true
		}
		if content, ok := dv["content"].(string); ok {
			return content, true
		}
		if t, ok := dv["type"].(string); ok && t == "text_delta" {
			text, _ := dv["text"].(string)
			return text, true
		}
	}
	return "", false
}
