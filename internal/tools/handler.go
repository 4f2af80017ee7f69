package tools

import (
	"fmt"
	"os"
	"slices"

	"github.com/SEMalytics/claude-project-chat/internal/toolcall"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Handler executes parsed tool calls against its registry, gated by the
// configured allow-list. Tool failures become Result data, they are never
// raised past the handler.
type Handler struct {
	registry *registry
	allowed  []string
	debug    bool
}

// NewHandler returns a Handler with every builtin tool registered. The
// name → tool mapping is fixed at construction, there is no dynamic lookup
// beyond this map.
func NewHandler(cfg Config) *Handler {
	r := newRegistry()
	for _, t := range []LLMTool{
		NewFetchURL(cfg),
		NewWebSearch(cfg),
		StrReplace,
		View,
		CreateFile,
		BashTool,
	} {
		r.Set(t.Specification().Name, t)
	}
	return &Handler{
		registry: r,
		allowed:  cfg.Allowed,
		debug:    misc.Truthy(os.Getenv("DEBUG")),
	}
}

// Register adds or replaces a tool. Exported so callers can wire their own
// capabilities next to the builtins.
func (h *Handler) Register(t LLMTool) {
	h.registry.Set(t.Specification().Name, t)
}

// Specifications of all registered tools, for listings.
func (h *Handler) Specifications() []Specification {
	all := h.registry.All()
	specs := make([]Specification, 0, len(all))
	for _, t := range all {
		specs = append(specs, t.Specification())
	}
	slices.SortFunc(specs, func(a, b Specification) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return specs
}

// Execute runs one call and converts whatever happens into a Result.
func (h *Handler) Execute(call toolcall.Call) (res toolcall.Result) {
	if len(h.allowed) > 0 && !slices.Contains(h.allowed, call.Name) {
		return toolcall.Result{Error: fmt.Sprintf("Tool %q is not allowed", call.Name)}
	}
	t, ok := h.registry.Get(call.Name)
	if !ok {
		return toolcall.Result{Error: "Unknown tool: " + call.Name}
	}
	// A misbehaving tool must never take down the conversation loop
	defer func() {
		if r := recover(); r != nil {
			ancli.PrintWarn(fmt.Sprintf("tool %v panicked: %v\n", call.Name, r))
			res = toolcall.Result{Error: fmt.Sprintf("Tool execution error: %v", r)}
		}
	}()
	if h.debug {
		ancli.Okf("executing tool: %v, params: %v\n", call.Name, call.Parameters)
	}
	out, err := t.Call(Params(call.Parameters))
	if err != nil {
		return toolcall.Result{Error: err.Error()}
	}
	return toolcall.Result{Success: true, Content: out}
}

// ExecuteAll runs every call in document order and pairs each with its
// result. Calls within one turn are independent by contract, but the
// protocol gains nothing from racing them, so execution stays sequential and
// ordered.
func (h *Handler) ExecuteAll(calls []toolcall.Call) []toolcall.Executed {
	executed := make([]toolcall.Executed, 0, len(calls))
	for _, call := range calls {
		executed = append(executed, toolcall.Executed{
			Call:   call,
			Result: h.Execute(call),
		})
	}
	return executed
}
