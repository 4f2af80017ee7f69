package tools

import (
	"errors"
	"strings"
	"testing"

	"github.com/SEMalytics/claude-project-chat/internal/toolcall"
)

// spyTool counts invocations so tests can assert the policy gate fires
// before the handler does.
type spyTool struct {
	name    string
	calls   int
	out     string
	err     error
	panicky bool
}

func (s *spyTool) Specification() Specification {
	return Specification{Name: s.name, Description: "test spy"}
}

func (s *spyTool) Call(_ Params) (string, error) {
	s.calls++
	if s.panicky {
		panic("spy blew up")
	}
	return s.out, s.err
}

func TestExecuteAllowListBlocksBeforeInvocation(t *testing.T) {
	h := NewHandler(Config{Allowed: []string{"fetch-url"}})
	spy := &spyTool{name: "shell"}
	h.Register(spy)

	res := h.Execute(toolcall.Call{Name: "shell"})
	if res.Success {
		t.Fatal("expected failure for disallowed tool")
	}
	if res.Error != `Tool "shell" is not allowed` {
		t.Errorf("unexpected error message: %q", res.Error)
	}
	if spy.calls != 0 {
		t.Errorf("handler must never be invoked for a disallowed tool, got %v calls", spy.calls)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	h := NewHandler(Config{})
	res := h.Execute(toolcall.Call{Name: "does-not-exist"})
	if res.Success {
		t.Fatal("expected failure for unknown tool")
	}
	if res.Error != "Unknown tool: does-not-exist" {
		t.Errorf("unexpected error message: %q", res.Error)
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	h := NewHandler(Config{})
	h.Register(&spyTool{name: "boom", panicky: true})
	res := h.Execute(toolcall.Call{Name: "boom"})
	if res.Success {
		t.Fatal("expected failure from panicking tool")
	}
	if !strings.HasPrefix(res.Error, "Tool execution error: ") {
		t.Errorf("expected execution error wrap, got: %q", res.Error)
	}
}

func TestExecuteToolError(t *testing.T) {
	h := NewHandler(Config{})
	h.Register(&spyTool{name: "flaky", err: errors.New("No URL provided")})
	res := h.Execute(toolcall.Call{Name: "flaky"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "No URL provided" {
		t.Errorf("expected the tool's own error text, got: %q", res.Error)
	}
}

func TestExecuteSuccess(t *testing.T) {
	h := NewHandler(Config{})
	h.Register(&spyTool{name: "echoer", out: "all good"})
	res := h.Execute(toolcall.Call{Name: "echoer"})
	if !res.Success {
		t.Fatalf("expected success, got error: %v", res.Error)
	}
	if res.Content != "all good" {
		t.Errorf("expected content 'all good', got: %q", res.Content)
	}
}

func TestExecuteAllKeepsOrder(t *testing.T) {
	h := NewHandler(Config{})
	h.Register(&spyTool{name: "a", out: "first"})
	h.Register(&spyTool{name: "b", out: "second"})
	calls := []toolcall.Call{{Name: "b"}, {Name: "a"}, {Name: "nope"}}
	executed := h.ExecuteAll(calls)
	if len(executed) != 3 {
		t.Fatalf("expected 3 results, got %v", len(executed))
	}
	for i, ex := range executed {
		if ex.Call.Name != calls[i].Name {
			t.Errorf("result %v out of order: %v", i, ex.Call.Name)
		}
	}
	if executed[0].Result.Content != "second" || executed[1].Result.Content != "first" {
		t.Error("results paired with wrong calls")
	}
	if executed[2].Result.Success {
		t.Error("expected unknown tool to fail")
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	h := NewHandler(Config{})
	var names []string
	for _, spec := range h.Specifications() {
		names = append(names, spec.Name)
	}
	for _, want := range []string{"bash_tool", "create_file", "fetch-url", "str_replace", "view", "web-search"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected builtin %v to be registered, have: %v", want, names)
		}
	}
}
