package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/ruleset"
)

func testRuleSet(t *testing.T) *ruleset.RuleSet {
	t.Helper()
	rs, err := ruleset.FromDocument(document.DefaultRuleSet())
	require.NoError(t, err)
	return rs
}

func widgetIDs(v ResolvedView) []string {
	ids := make([]string, len(v.Widgets))
	for i, w := range v.Widgets {
		ids[i] = w.ID
	}
	return ids
}

func simpleRuleSet(widgets ...ruleset.Widget) *ruleset.RuleSet {
	return &ruleset.RuleSet{
		Version: "1.1",
		FrontendLogic: ruleset.FrontendLogic{
			Views: map[string]ruleset.View{
				"default": {
					Title:   "Test View",
					Layout:  ruleset.Layout{Type: "grid", Columns: 2},
					Widgets: widgets,
				},
			},
		},
	}
}

func TestResolve_UnknownViewYieldsStub(t *testing.T) {
	got := Resolve("ghost", testRuleSet(t), Preferences{})
	require.Equal(t, "View: ghost (Not Found)", got.Title)
	require.Empty(t, got.Widgets)
	require.Equal(t, ruleset.Layout{Type: "default"}, got.Layout)
}

func TestResolve_EmptyIDMeansDefault(t *testing.T) {
	got := Resolve("", testRuleSet(t), Preferences{})
	require.Equal(t, "default", got.ViewID)
	require.Equal(t, "Dynamic Dashboard (Default View)", got.Title)
}

func TestResolve_WidgetOrder(t *testing.T) {
	rs := simpleRuleSet(
		ruleset.Widget{ID: "a", Type: "TextDisplay"},
		ruleset.Widget{ID: "b", Type: "TextDisplay"},
		ruleset.Widget{ID: "c", Type: "TextDisplay"},
	)
	prefs := Preferences{ViewSpecific: map[string]ViewPrefs{
		"default": {WidgetOrder: []string{"b", "a"}},
	}}
	got := Resolve("default", rs, prefs)
	require.Equal(t, []string{"b", "a", "c"}, widgetIDs(got))
}

func TestResolve_UnlistedWidgetsKeepRelativeOrder(t *testing.T) {
	rs := simpleRuleSet(
		ruleset.Widget{ID: "w1", Type: "TextDisplay"},
		ruleset.Widget{ID: "w2", Type: "TextDisplay"},
		ruleset.Widget{ID: "w3", Type: "TextDisplay"},
		ruleset.Widget{ID: "w4", Type: "TextDisplay"},
	)
	prefs := Preferences{ViewSpecific: map[string]ViewPrefs{
		"default": {WidgetOrder: []string{"w4"}},
	}}
	got := Resolve("default", rs, prefs)
	require.Equal(t, []string{"w4", "w1", "w2", "w3"}, widgetIDs(got))
}

func TestResolve_HiddenWidgets(t *testing.T) {
	rs := simpleRuleSet(
		ruleset.Widget{ID: "welcome", Type: "TextDisplay"},
		ruleset.Widget{ID: "productTable", Type: "TableWidget"},
	)
	prefs := Preferences{ViewSpecific: map[string]ViewPrefs{
		"default": {HiddenWidgets: []string{"productTable"}},
	}}
	got := Resolve("default", rs, prefs)
	require.Equal(t, []string{"welcome"}, widgetIDs(got))
}

func TestResolve_NeverAddsWidgets(t *testing.T) {
	rs := testRuleSet(t)
	prefs := Preferences{ViewSpecific: map[string]ViewPrefs{
		"default": {WidgetOrder: []string{"phantom", "welcome", "another_phantom"}},
	}}
	got := Resolve("default", rs, prefs)

	declared := map[string]bool{}
	for _, w := range rs.FrontendLogic.Views["default"].Widgets {
		declared[w.ID] = true
	}
	for _, id := range widgetIDs(got) {
		require.True(t, declared[id], "resolved view invented widget %q", id)
	}
	require.Len(t, got.Widgets, len(declared))
}

func TestResolve_ThemeOverride(t *testing.T) {
	prefs := Preferences{ViewSpecific: map[string]ViewPrefs{
		"default": {ThemeOverride: "dark"},
	}}
	got := Resolve("default", testRuleSet(t), prefs)
	require.Equal(t, "dark", got.Theme)
}

func TestResolve_GlobalPageSizeAppliesToTables(t *testing.T) {
	prefs := Preferences{Global: GlobalPrefs{ItemsPerPageInTables: 25}}
	got := Resolve("default", testRuleSet(t), prefs)

	var tables int
	for _, w := range got.Widgets {
		switch w.Type {
		case ruleset.WidgetTable:
			tables++
			require.Equal(t, float64(25), w.Config["itemsPerPage"], "widget %s", w.ID)
		default:
			require.NotContains(t, w.Config, "itemsPerPage", "widget %s", w.ID)
		}
	}
	require.Equal(t, 2, tables)
}

func TestResolve_WidgetOwnPageSizeWins(t *testing.T) {
	rs := simpleRuleSet(ruleset.Widget{
		ID:     "t",
		Type:   ruleset.WidgetTable,
		Config: map[string]any{"itemsPerPage": float64(5)},
	})
	prefs := Preferences{Global: GlobalPrefs{ItemsPerPageInTables: 25}}
	got := Resolve("default", rs, prefs)
	require.Equal(t, float64(5), got.Widgets[0].Config["itemsPerPage"])
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	rs := testRuleSet(t)
	before, err := ruleset.FromDocument(document.DefaultRuleSet())
	require.NoError(t, err)

	prefs := Preferences{
		Global: GlobalPrefs{ItemsPerPageInTables: 99},
		ViewSpecific: map[string]ViewPrefs{
			"default": {WidgetOrder: []string{"pnlTable"}, HiddenWidgets: []string{"welcome"}},
		},
	}
	_ = Resolve("default", rs, prefs)

	if diff := cmp.Diff(before, rs); diff != "" {
		t.Errorf("Resolve mutated the RuleSet (-before +after):\n%s", diff)
	}
}

func TestResolve_Pure(t *testing.T) {
	rs := testRuleSet(t)
	prefs := PreferencesFromDocument(document.DefaultPreferences())
	first := Resolve("default", rs, prefs)
	second := Resolve("default", rs, prefs)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolution is not deterministic (-first +second):\n%s", diff)
	}
}

func TestPreferencesFromDocument(t *testing.T) {
	prefs := PreferencesFromDocument(document.DefaultPreferences())
	require.Equal(t, 10, prefs.Global.ItemsPerPageInTables)
	require.True(t, prefs.Global.ChartAnimation)
	require.Equal(t,
		[]string{"welcome", "productTable", "activeUsers", "salesTrendPlaceholder"},
		prefs.ViewSpecific["default"].WidgetOrder)
}

func TestPreferencesFromDocument_GarbageYieldsEmpty(t *testing.T) {
	prefs := PreferencesFromDocument(map[string]any{"global": "not an object"})
	require.Zero(t, prefs.Global.ItemsPerPageInTables)
	require.Empty(t, prefs.ViewSpecific)
}
