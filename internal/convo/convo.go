// Package convo runs the send / execute tools / send results loop against a
// model whose tool use travels inline in the message text.
package convo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/SEMalytics/claude-project-chat/internal/stream"
	"github.com/SEMalytics/claude-project-chat/internal/toolcall"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// maxIterations caps send/execute rounds so a model stuck requesting tools
// cannot loop forever.
const maxIterations = 10

// noResponseMessage stands in for a stream that ended without any text.
const noResponseMessage = "No response received"

// Sender delivers one message and returns the model's full reply.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// Executor runs parsed tool calls and reports their outcomes.
type Executor interface {
	ExecuteAll(calls []toolcall.Call) []toolcall.Executed
}

// Loop drives a conversation until the model answers without requesting
// tools, feeding tool results back as follow-up messages.
type Loop struct {
	sender   Sender
	executor Executor
	// wait runs between an incomplete tool call block and the retry,
	// giving the stream time to settle. Injectable for tests.
	wait  func(ctx context.Context) error
	debug bool
}

// New creates a Loop with a 2 second settle delay between incomplete-block
// retries.
func New(sender Sender, executor Executor) *Loop {
	return &Loop{
		sender:   sender,
		executor: executor,
		wait: func(ctx context.Context) error {
			select {
			case <-time.After(2 * time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		debug: misc.Truthy(os.Getenv("DEBUG")),
	}
}

// Run sends message and keeps the loop going until a final answer arrives,
// the iteration cap is hit or ctx ends. The returned string accumulates the
// prose surrounding every tool call plus the cleaned final answer, joined
// with blank lines.
func (l *Loop) Run(ctx context.Context, message string) (string, error) {
	current := message
	var accumulated []string
	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return join(accumulated), err
		}
		response, err := l.sender.Send(ctx, current)
		if errors.Is(err, stream.ErrNoResponse) {
			accumulated = append(accumulated, noResponseMessage)
			break
		}
		if err != nil {
			return join(accumulated), fmt.Errorf("failed to send message: %w", err)
		}

		if toolcall.HasToolCalls(response) {
			if textBefore := toolcall.TextBefore(response); textBefore != "" {
				accumulated = append(accumulated, textBefore)
			}
			if toolcall.HasIncompleteToolCalls(response) {
				if l.debug {
					ancli.PrintWarn("tool call block truncated, waiting before retry\n")
				}
				if err := l.wait(ctx); err != nil {
					return join(accumulated), err
				}
				continue
			}
			calls := toolcall.Parse(response)
			if len(calls) > 0 {
				if l.debug {
					ancli.PrintOK(fmt.Sprintf("executing %v tool call(s)\n", len(calls)))
				}
				results := l.executor.ExecuteAll(calls)
				current = toolcall.Format(results)
				continue
			}
		}

		accumulated = append(accumulated, toolcall.Clean(response))
		break
	}
	return join(accumulated), nil
}

// join drops empty segments so a response with no surrounding prose does
// not produce stray blank lines.
func join(segments []string) string {
	kept := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}
