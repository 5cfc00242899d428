package handler

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/resolve"
	"github.com/matthewbaird/dashkit/internal/ruleset"
	"github.com/matthewbaird/dashkit/internal/widget"
)

// ViewHandler resolves views and renders their widgets.
type ViewHandler struct {
	state      *appstate.State
	dispatcher *widget.Dispatcher
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(state *appstate.State, dispatcher *widget.Dispatcher) *ViewHandler {
	return &ViewHandler{state: state, dispatcher: dispatcher}
}

// viewSummary is one entry in the view listing.
type viewSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// filterMarker is the inline stand-in rendered for a filter-bar
// declaration whose type has no known control.
type filterMarker struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

func filterMarkers(fields []ruleset.FilterField) []filterMarker {
	markers := make([]filterMarker, 0, len(fields))
	for _, f := range fields {
		markers = append(markers, filterMarker{ID: f.ID, Type: f.Type, Label: f.Label})
	}
	return markers
}

// HandleListViews returns the declared views, sorted by ID.
// GET /v1/views
func (h *ViewHandler) HandleListViews(w http.ResponseWriter, r *http.Request) {
	rs := h.state.TypedRuleSet()
	views := make([]viewSummary, 0, len(rs.FrontendLogic.Views))
	for id, v := range rs.FrontendLogic.Views {
		views = append(views, viewSummary{ID: id, Title: v.Title})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })

	writeJSON(w, http.StatusOK, map[string]any{
		"views":         views,
		"defaultViewId": resolve.DefaultViewID,
		"globalTheme":   rs.FrontendLogic.GlobalTheme,
		"widgetTypes":   h.dispatcher.Tags(),
	})
}

// resolveView merges the declared view with the current preferences
// and fills in the global theme when no override applies.
func (h *ViewHandler) resolveView(viewID string) resolve.ResolvedView {
	rs := h.state.TypedRuleSet()
	prefs := resolve.PreferencesFromDocument(h.state.Preferences())
	resolved := resolve.Resolve(viewID, rs, prefs)
	if resolved.Theme == "" {
		resolved.Theme = rs.FrontendLogic.GlobalTheme
	}
	return resolved
}

// HandleGetView returns the resolved view plan. An unknown view ID
// resolves to a stub, never an error.
// GET /v1/views/{viewID}
func (h *ViewHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolveView(chi.URLParam(r, "viewID")))
}

// HandleRenderView resolves a view and renders every widget in it
// server-side, honoring filter overrides passed as query parameters.
// GET /v1/views/{viewID}/render?category=tech&showActive=false
func (h *ViewHandler) HandleRenderView(w http.ResponseWriter, r *http.Request) {
	rs := h.state.TypedRuleSet()

	agg := filter.New(rs.FrontendLogic.FilterBarConfig)
	if err := applyFilterOverrides(agg, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}
	filters := agg.Snapshot()

	resolved := h.resolveView(chi.URLParam(r, "viewID"))
	rendered := h.dispatcher.RenderView(
		r.Context(),
		resolved,
		filters,
		h.state.Catalog(),
		rs.FrontendLogic.FrontendProcessingHints,
		rs.BackendProcessingHints,
	)
	if rendered == nil {
		// Request cancelled mid-render; the plan was discarded.
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"view":               resolved,
		"filters":            filters,
		"unsupportedFilters": filterMarkers(agg.Unsupported()),
		"widgets":            rendered,
	})
}

// applyFilterOverrides maps query parameters onto the declared filter
// fields: toggles parse as booleans, multi-selects split on commas,
// range fields read their two bound keys, everything else is taken as
// a plain string. Parameters that name no declared field are ignored.
func applyFilterOverrides(agg *filter.Aggregator, q url.Values) error {
	for _, f := range agg.Fields() {
		switch f.Type {
		case ruleset.FilterToggle:
			if raw := q.Get(f.ID); raw != "" {
				b, err := strconv.ParseBool(raw)
				if err != nil {
					return err
				}
				if err := agg.SetField(f.ID, b); err != nil {
					return err
				}
			}
		case ruleset.FilterMultiSelect:
			if raw := q.Get(f.ID); raw != "" {
				if err := agg.SetField(f.ID, strings.Split(raw, ",")); err != nil {
					return err
				}
			}
		case ruleset.FilterDateRange:
			start, end := q.Get(f.StartKey()), q.Get(f.EndKey())
			if start != "" || end != "" {
				if err := agg.SetDateRange(f.StartKey(), f.EndKey(), start, end); err != nil {
					return err
				}
			}
		default:
			if raw := q.Get(f.ID); raw != "" {
				if err := agg.SetField(f.ID, raw); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
