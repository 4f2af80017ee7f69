package convo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SEMalytics/claude-project-chat/internal/stream"
	"github.com/SEMalytics/claude-project-chat/internal/toolcall"
	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

type scriptedSender struct {
	responses []string
	errs      []error
	received  []string
}

func (s *scriptedSender) Send(ctx context.Context, message string) (string, error) {
	s.received = append(s.received, message)
	i := len(s.received) - 1
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if i >= len(s.responses) {
		return "", err
	}
	return s.responses[i], err
}

type recordingExecutor struct {
	calls [][]toolcall.Call
}

func (r *recordingExecutor) ExecuteAll(calls []toolcall.Call) []toolcall.Executed {
	r.calls = append(r.calls, calls)
	executed := make([]toolcall.Executed, 0, len(calls))
	for _, call := range calls {
		executed = append(executed, toolcall.Executed{
			Call:   call,
			Result: toolcall.Result{Success: true, Content: "result for " + call.Name},
		})
	}
	return executed
}

func newTestLoop(sender Sender, executor Executor) *Loop {
	l := New(sender, executor)
	l.wait = func(ctx context.Context) error { return ctx.Err() }
	return l
}

const toolResponse = `Let me check.<function_calls><invoke name="fetch-url"><parameter name="url">example.com</parameter></invoke></function_calls>`

func TestRunPlainResponse(t *testing.T) {
	sender := &scriptedSender{responses: []string{"Just an answer."}}
	executor := &recordingExecutor{}
	got, err := newTestLoop(sender, executor).Run(context.Background(), "question")
	if err != nil {
		t.Fatalf("failed to run loop: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "Just an answer.")
	testboil.FailTestIfDiff(t, sender.received[0], "question")
	if len(executor.calls) != 0 {
		t.Fatal("expected no tool executions")
	}
}

func TestRunExecutesToolsAndFeedsResultsBack(t *testing.T) {
	sender := &scriptedSender{responses: []string{
		toolResponse,
		"The site says hello.",
	}}
	executor := &recordingExecutor{}
	got, err := newTestLoop(sender, executor).Run(context.Background(), "fetch it")
	if err != nil {
		t.Fatalf("failed to run loop: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "Let me check.\n\nThe site says hello.")
	if len(executor.calls) != 1 || len(executor.calls[0]) != 1 {
		t.Fatalf("expected exactly one executed call, got: %+v", executor.calls)
	}
	testboil.FailTestIfDiff(t, executor.calls[0][0].Name, "fetch-url")
	// The second message carries the tool results
	testboil.AssertStringContains(t, sender.received[1], "<function_results>")
	testboil.AssertStringContains(t, sender.received[1], "result for fetch-url")
}

func TestRunNoResponse(t *testing.T) {
	sender := &scriptedSender{errs: []error{stream.ErrNoResponse}}
	got, err := newTestLoop(sender, &recordingExecutor{}).Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("failed to run loop: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "No response received")
}

func TestRunSendErrorAborts(t *testing.T) {
	boom := errors.New("connection reset")
	sender := &scriptedSender{
		responses: []string{toolResponse, ""},
		errs:      []error{nil, boom},
	}
	_, err := newTestLoop(sender, &recordingExecutor{}).Run(context.Background(), "hi")
	if !errors.Is(err, boom) {
		t.Fatalf("expected send error to propagate, got: %v", err)
	}
}

func TestRunIncompleteBlockWaitsAndRetries(t *testing.T) {
	waits := 0
	sender := &scriptedSender{responses: []string{
		`Hold on.<function_calls><invoke name="fetch-url">`,
		"Recovered answer.",
	}}
	l := New(sender, &recordingExecutor{})
	l.wait = func(ctx context.Context) error {
		waits++
		return nil
	}
	got, err := l.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("failed to run loop: %v", err)
	}
	if waits != 1 {
		t.Fatalf("expected 1 wait, got: %v", waits)
	}
	testboil.FailTestIfDiff(t, got, "Hold on.\n\nRecovered answer.")
	// The retry resends the same message rather than tool results
	testboil.FailTestIfDiff(t, sender.received[1], "hi")
}

func TestRunIterationCap(t *testing.T) {
	responses := make([]string, maxIterations+5)
	for i := range responses {
		responses[i] = toolResponse
	}
	sender := &scriptedSender{responses: responses}
	executor := &recordingExecutor{}
	got, err := newTestLoop(sender, executor).Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("failed to run loop: %v", err)
	}
	if len(sender.received) != maxIterations {
		t.Fatalf("expected %v sends, got: %v", maxIterations, len(sender.received))
	}
	testboil.FailTestIfDiff(t, got, strings.TrimSuffix(strings.Repeat("Let me check.\n\n", maxIterations), "\n\n"))
}

func TestRunContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := &scriptedSender{responses: []string{
		`<function_calls><invoke name="fetch-url">`,
	}}
	l := New(sender, &recordingExecutor{})
	l.wait = func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}
	_, err := l.Run(ctx, "hi")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got: %v", err)
	}
}
