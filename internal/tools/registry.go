// Package tools provides the registry of named side-effecting
// capabilities agents can invoke during execution.
package tools

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Func is the implementation of a tool. It returns the textual result
// and a confidence score in [0,1]; tools without a meaningful
// confidence return 1.
type Func func(ctx context.Context, params map[string]string) (output string, confidence float64, err error)

// Tool is a named capability with declared parameters.
type Tool struct {
	// Name is the unique tool name.
	Name string
	// Description explains what the tool does.
	Description string
	// Params lists required parameter names.
	Params []string
	// Fn is the tool implementation.
	Fn Func
}

// Result is the outcome of one tool execution.
type Result struct {
	// Success indicates the tool ran without error.
	Success bool `json:"success"`
	// Tool is the tool name.
	Tool string `json:"tool"`
	// Output is the textual result, empty on failure.
	Output string `json:"output,omitempty"`
	// Confidence is the tool's confidence in its output, in [0,1].
	Confidence float64 `json:"confidence"`
	// Err holds the error message on failure.
	Err string `json:"error,omitempty"`
	// Timestamp is when the execution finished.
	Timestamp time.Time `json:"timestamp"`
}

// Info describes a registered tool.
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

// Registry holds registered tools and per-tool usage counts.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	usage map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
		usage: make(map[string]int),
	}
}

// Register adds or replaces a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Exists reports whether a tool is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Execute runs a tool by name. Tool failures are captured in the
// Result, never propagated as errors to the caller.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]string) Result {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return Result{Tool: name, Err: fmt.Sprintf("tool %s not found", name), Timestamp: time.Now()}
	}

	for _, p := range tool.Params {
		if _, present := params[p]; !present {
			return Result{Tool: name, Err: fmt.Sprintf("missing required parameter %q", p), Timestamp: time.Now()}
		}
	}

	output, confidence, err := tool.Fn(ctx, params)
	if err != nil {
		log.Printf("[tools] %s failed: %v", name, err)
		return Result{Tool: name, Err: err.Error(), Timestamp: time.Now()}
	}

	r.mu.Lock()
	r.usage[name]++
	r.mu.Unlock()

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Success:    true,
		Tool:       name,
		Output:     output,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}

// Available returns descriptions of all registered tools, sorted by name.
func (r *Registry) Available() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, Info{Name: t.Name, Description: t.Description, Params: t.Params})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Usage returns a copy of the per-tool execution counts.
func (r *Registry) Usage() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int, len(r.usage))
	for name, n := range r.usage {
		counts[name] = n
	}
	return counts
}
