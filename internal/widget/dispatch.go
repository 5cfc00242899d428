package widget

import (
	"context"
	"fmt"
	"sync"

	"github.com/matthewbaird/dashkit/internal/fetch"
	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/resolve"
)

// Rendered is one widget's slot in the render plan. Exactly one of
// Body and Err is meaningful: a widget that failed renders its error
// inline without affecting its siblings. Widgets are keyed by their
// declared id, which stays stable across reorders.
type Rendered struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Placement Placement `json:"placement,omitzero"`
	Body      any       `json:"body,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// Dispatcher renders resolved views against a registry and a fetch
// client.
type Dispatcher struct {
	registry *Registry
	client   fetch.Client
}

// NewDispatcher creates a Dispatcher over the given registry and
// fetch client.
func NewDispatcher(registry *Registry, client fetch.Client) *Dispatcher {
	return &Dispatcher{registry: registry, client: client}
}

// Tags returns the widget type tags this dispatcher can render.
func (d *Dispatcher) Tags() []string {
	return d.registry.Tags()
}

// RenderView renders every widget of a resolved view. Widgets fetch
// concurrently — one in-flight fetch per widget — but the returned
// slice preserves the view's widget order. A single bad declaration
// degrades its own slot only. When ctx is cancelled (the hosting view
// changed), outstanding fetches are abandoned and their results
// discarded by the caller along with the whole plan.
func (d *Dispatcher) RenderView(
	ctx context.Context,
	view resolve.ResolvedView,
	filters filter.State,
	catalog map[string]any,
	frontendHints map[string]any,
	backendHints map[string]any,
) []Rendered {
	out := make([]Rendered, len(view.Widgets))

	var wg sync.WaitGroup
	for i, decl := range view.Widgets {
		out[i] = Rendered{
			ID:        decl.ID,
			Type:      decl.Type,
			Placement: ComputePlacement(view.Layout, decl.GridPosition),
		}

		renderer := d.registry.Lookup(decl.Type)
		if renderer == nil {
			out[i].Err = fmt.Sprintf("unknown widget type: %s", decl.Type)
			continue
		}

		rc := RenderContext{
			Config:        decl.Config,
			Filters:       filters.Clone(),
			Catalog:       catalog,
			FrontendHints: frontendHints,
			BackendHints:  backendHints,
			Client:        d.client,
		}

		wg.Add(1)
		go func(slot *Rendered) {
			defer wg.Done()
			body, err := renderer(ctx, rc)
			if err != nil {
				slot.Err = err.Error()
				return
			}
			slot.Body = body
		}(&out[i])
	}
	wg.Wait()

	if ctx.Err() != nil {
		// The view changed while fetches were in flight; the plan is
		// stale and must not be applied.
		return nil
	}
	return out
}
