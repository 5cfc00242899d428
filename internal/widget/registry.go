// Package widget dispatches each resolved widget to its renderer by
// type tag, computes grid placement, and assembles the per-view
// render plan. Renderers own their fetch lifecycle; the dispatcher
// holds no fetch state and isolates every widget's failure from its
// siblings.
package widget

import (
	"context"
	"sort"

	"github.com/matthewbaird/dashkit/internal/fetch"
	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/jsonpath"
	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// RenderContext carries everything a renderer may consume: the
// widget's own config slice, the full current filter state, read
// access to the catalog, the pass-through processing hints, and the
// fetch client.
type RenderContext struct {
	Config        map[string]any
	Filters       filter.State
	Catalog       map[string]any
	FrontendHints map[string]any
	BackendHints  map[string]any
	Client        fetch.Client
}

// CatalogLookup resolves a dotted path against the catalog document.
// Returns nil when the path does not resolve.
func (rc RenderContext) CatalogLookup(path string) any {
	v, ok := jsonpath.GetDotted(rc.Catalog, path)
	if !ok {
		return nil
	}
	return v
}

// Renderer produces a widget body from its render context. Renderers
// must tolerate re-invocation with a new filter state at any time.
type Renderer func(ctx context.Context, rc RenderContext) (any, error)

// Registry maps widget type tags to renderers. The set is open:
// callers can register additional tags; unknown tags are a handled
// case at dispatch, never a crash.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register binds a type tag to a renderer, replacing any previous
// binding.
func (r *Registry) Register(typeTag string, fn Renderer) {
	r.renderers[typeTag] = fn
}

// Lookup returns the renderer for a tag, or nil.
func (r *Registry) Lookup(typeTag string) Renderer {
	return r.renderers[typeTag]
}

// Tags returns the registered type tags, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.renderers))
	for tag := range r.renderers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DefaultRegistry wires the six built-in renderers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ruleset.WidgetTextDisplay, renderTextDisplay)
	r.Register(ruleset.WidgetMetric, renderMetricDisplay)
	r.Register(ruleset.WidgetPlaceholder, renderPlaceholder)
	r.Register(ruleset.WidgetTable, renderTable)
	r.Register(ruleset.WidgetChart, renderChart)
	r.Register(ruleset.WidgetCardList, renderCardList)
	return r
}
