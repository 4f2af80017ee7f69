package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// ErrNoResponse is returned when a nominally successful stream produced zero
// text. Callers must treat this explicitly rather than as an empty success.
var ErrNoResponse = errors.New("no response received")

// maxLineBytes bounds one SSE data line. Single events have been seen well
// past bufio's default, a too-small cap kills the whole stream.
const maxLineBytes = 10 * 1024 * 1024

// Decode lazily turns an SSE body into text fragments. The returned channel
// is closed when the stream ends, the [DONE] sentinel arrives or ctx is
// cancelled. Malformed frames are skipped, the endpoint emits some
// non-JSON keepalives which are fine to drop. Not restartable.
func Decode(ctx context.Context, body io.Reader) <-chan string {
	out, _ := decodeLines(ctx, body)
	return out
}

// decodeLines is Decode plus a read-error channel, buffered so the
// goroutine never blocks on callers that ignore it. The error channel gets
// at most one error and is closed when the fragment channel is.
func decodeLines(ctx context.Context, body io.Reader) (<-chan string, <-chan error) {
	debug := misc.Truthy(os.Getenv("DEBUG"))
	out := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			text, done := decodeLine(scanner.Text(), debug)
			if done {
				return
			}
			if text == "" {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- fmt.Errorf("failed to read stream: %w", err)
		}
	}()
	return out, errCh
}

// decodeLine handles one raw SSE line. Returns the extracted text, if any,
// and whether the sentinel terminator was hit.
func decodeLine(line string, debug bool) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return "", false
	}
	if payload == doneSentinel {
		return "", true
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		if debug {
			ancli.PrintWarn(fmt.Sprintf("failed to unmarshal frame: %v, err: %v\n", payload, err))
		}
		return "", false
	}
	text, ok := ExtractText(Classify(data))
	if !ok {
		return "", false
	}
	return text, false
}

// DecodeAll drains the stream and concatenates every fragment in arrival
// order. A read error after some text arrived yields the partial text, the
// remote turn did happen. A read error before any text is a failure in its
// own right, not ErrNoResponse. Zero fragments on a clean stream yields
// ErrNoResponse.
func DecodeAll(ctx context.Context, body io.Reader) (string, error) {
	var sb strings.Builder
	out, errCh := decodeLines(ctx, body)
	for fragment := range out {
		sb.WriteString(fragment)
	}
	if err := ctx.Err(); err != nil {
		return sb.String(), err
	}
	if err := <-errCh; err != nil && sb.Len() == 0 {
		return "", err
	}
	if sb.Len() == 0 {
		return "", ErrNoResponse
	}
	return sb.String(), nil
}

// FromBody decodes a fully buffered response body. It first scans for SSE
// data lines, then falls back to treating the body as one plain JSON event,
// then to the raw text itself.
func FromBody(body string) (string, error) {
	var sb strings.Builder
	for _, line := range strings.Split(body, "\n") {
		text, done := decodeLine(line, false)
		sb.WriteString(text)
		if done {
			break
		}
	}
	if sb.Len() > 0 {
		return sb.String(), nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		if text, ok := ExtractText(Classify(data)); ok && text != "" {
			return text, nil
		}
	}

	if body == "" {
		return "", ErrNoResponse
	}
	return body, nil
}
