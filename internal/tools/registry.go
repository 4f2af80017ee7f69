package tools

import (
	"os"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// registry is a threadsafe storage for LLMTools.
type registry struct {
	mu    sync.RWMutex
	tools map[string]LLMTool
	debug bool
}

func newRegistry() *registry {
	return &registry{
		tools: make(map[string]LLMTool),
		debug: misc.Truthy(os.Getenv("DEBUG")),
	}
}

// Get returns the tool registered under name.
func (r *registry) Get(name string) (LLMTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Set registers tool under the provided name.
func (r *registry) Set(name string, t LLMTool) {
	r.mu.Lock()
	if r.debug {
		ancli.Okf("adding tool to registry, name: %v\n", name)
	}
	r.tools[name] = t
	r.mu.Unlock()
}

// All returns a copy of all registered tools keyed by name.
func (r *registry) All() map[string]LLMTool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]LLMTool, len(r.tools))
	for k, v := range r.tools {
		cp[k] = v
	}
	return cp
}
