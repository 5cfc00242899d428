// Package resolve merges a view declaration from the RuleSet with the
// user's Preferences into a render-ready ResolvedView. Resolution is
// pure: same inputs, same output, no mutation of either document.
package resolve

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// DefaultViewID is the view resolved when no identifier is given.
const DefaultViewID = "default"

// Preferences is the typed view of the preferences document that
// resolution consumes.
type Preferences struct {
	Global       GlobalPrefs          `json:"global"`
	ViewSpecific map[string]ViewPrefs `json:"viewSpecific"`
}

// GlobalPrefs are flat settings applied uniformly across views. The
// single config override defined today is the table page size; it
// applies to every table-typed widget.
type GlobalPrefs struct {
	ItemsPerPageInTables int  `json:"itemsPerPageInTables,omitempty"`
	ChartAnimation       bool `json:"chartAnimation,omitempty"`
}

// ViewPrefs are the per-view overrides.
type ViewPrefs struct {
	WidgetOrder   []string `json:"widgetOrder,omitempty"`
	HiddenWidgets []string `json:"hiddenWidgets,omitempty"`
	ThemeOverride string   `json:"themeOverride,omitempty"`
}

// PreferencesFromDocument decodes the raw preferences document. A
// document that does not decode yields empty preferences — overrides
// simply do not apply.
func PreferencesFromDocument(doc map[string]any) Preferences {
	var prefs Preferences
	raw, err := json.Marshal(doc)
	if err != nil {
		return Preferences{}
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return Preferences{}
	}
	return prefs
}

// ResolvedView is the merged, render-ready description of one view.
// It is derived state: created fresh per active view, never stored.
type ResolvedView struct {
	ViewID  string           `json:"viewId"`
	Title   string           `json:"title"`
	Layout  ruleset.Layout   `json:"layout"`
	Theme   string           `json:"theme,omitempty"`
	Widgets []ruleset.Widget `json:"widgets"`
}

// Resolve produces the ResolvedView for viewID. An empty viewID means
// DefaultViewID. A viewID absent from the RuleSet yields a stub view
// — a recoverable condition, not a failure.
func Resolve(viewID string, rs *ruleset.RuleSet, prefs Preferences) ResolvedView {
	if viewID == "" {
		viewID = DefaultViewID
	}

	decl, ok := rs.FrontendLogic.Views[viewID]
	if !ok {
		return ResolvedView{
			ViewID:  viewID,
			Title:   fmt.Sprintf("View: %s (Not Found)", viewID),
			Layout:  ruleset.Layout{Type: "default"},
			Widgets: []ruleset.Widget{},
		}
	}

	resolved := ResolvedView{
		ViewID:  viewID,
		Title:   decl.Title,
		Layout:  decl.Layout,
		Widgets: copyWidgets(decl.Widgets),
	}

	if vp, ok := prefs.ViewSpecific[viewID]; ok {
		if len(vp.WidgetOrder) > 0 {
			reorderWidgets(resolved.Widgets, vp.WidgetOrder)
		}
		if len(vp.HiddenWidgets) > 0 {
			resolved.Widgets = dropHidden(resolved.Widgets, vp.HiddenWidgets)
		}
		if vp.ThemeOverride != "" {
			resolved.Theme = vp.ThemeOverride
		}
	}

	if prefs.Global.ItemsPerPageInTables > 0 {
		applyTablePageSize(resolved.Widgets, prefs.Global.ItemsPerPageInTables)
	}

	return resolved
}

// copyWidgets deep-copies the widget list so resolution never touches
// the shared RuleSet.
func copyWidgets(widgets []ruleset.Widget) []ruleset.Widget {
	out := make([]ruleset.Widget, len(widgets))
	for i, w := range widgets {
		out[i] = w
		out[i].Config = cloneConfig(w.Config)
	}
	return out
}

func cloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = cloneConfigValue(v)
	}
	return out
}

func cloneConfigValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		return cloneConfig(node)
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = cloneConfigValue(child)
		}
		return out
	default:
		return v
	}
}

// reorderWidgets stable-sorts widgets by their position in order:
// listed widgets first, in list order; unlisted widgets after, in
// their original relative order.
func reorderWidgets(widgets []ruleset.Widget, order []string) {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(widgets, func(i, j int) bool {
		ri, iOK := rank[widgets[i].ID]
		rj, jOK := rank[widgets[j].ID]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return false
		}
	})
}

func dropHidden(widgets []ruleset.Widget, hidden []string) []ruleset.Widget {
	hide := make(map[string]bool, len(hidden))
	for _, id := range hidden {
		hide[id] = true
	}
	kept := widgets[:0]
	for _, w := range widgets {
		if !hide[w.ID] {
			kept = append(kept, w)
		}
	}
	return kept
}

// applyTablePageSize splices the global page size into each
// table-typed widget's config. A page size the widget declares itself
// is more specific and wins; the global value is a default of last
// resort.
func applyTablePageSize(widgets []ruleset.Widget, pageSize int) {
	for i := range widgets {
		if widgets[i].Type != ruleset.WidgetTable {
			continue
		}
		if widgets[i].Config == nil {
			widgets[i].Config = map[string]any{}
		}
		if _, set := widgets[i].Config["itemsPerPage"]; set {
			continue
		}
		widgets[i].Config["itemsPerPage"] = float64(pageSize)
	}
}
