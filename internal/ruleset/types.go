// Package ruleset defines the typed view of the RuleSet document: the
// versioned declaration of views, widgets, and the filter bar that
// drives the dashboard. The raw document stays the source of truth in
// the store; this package decodes it for the resolver and dispatcher.
package ruleset

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Filter field type tags accepted by the filter-bar declaration.
const (
	FilterDateRange   = "dateRange"
	FilterDropdown    = "dropdown"
	FilterMultiSelect = "multiSelect"
	FilterTextInput   = "textInput"
	FilterToggle      = "toggle"
)

// Widget type tags with built-in renderers. The registry is open;
// these are the tags the engine ships renderers for.
const (
	WidgetTextDisplay = "TextDisplay"
	WidgetMetric      = "MetricDisplay"
	WidgetPlaceholder = "PlaceholderWidget"
	WidgetTable       = "TableWidget"
	WidgetChart       = "ChartWidget"
	WidgetCardList    = "CardListWidget"
)

// RuleSet is the versioned document declaring views, their widgets,
// and the filter-bar schema.
type RuleSet struct {
	Version                string         `json:"version"`
	FrontendLogic          FrontendLogic  `json:"frontendLogic"`
	BackendProcessingHints map[string]any `json:"backendProcessingHints,omitempty"`
}

// FrontendLogic holds everything the rendering engine interprets.
type FrontendLogic struct {
	GlobalTheme             string          `json:"globalTheme,omitempty"`
	FilterBarConfig         []FilterField   `json:"filterBarConfig"`
	Views                   map[string]View `json:"views"`
	FrontendProcessingHints map[string]any  `json:"frontendProcessingHints,omitempty"`
}

// FilterField declares one entry in the filter bar.
type FilterField struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Label        string `json:"label,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty"`
	OptionsKey   string `json:"optionsKey,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	ButtonLabel  string `json:"buttonLabel,omitempty"`
}

// StartKey and EndKey are the FilterState keys a dateRange field
// stores its two bounds under.
func (f FilterField) StartKey() string { return f.ID + "_start" }
func (f FilterField) EndKey() string   { return f.ID + "_end" }

// View declares one dashboard view.
type View struct {
	Title   string   `json:"title"`
	Layout  Layout   `json:"layout"`
	Widgets []Widget `json:"widgets"`
}

// Layout describes how a view places its widgets.
type Layout struct {
	Type    string `json:"type"`
	Columns int    `json:"columns,omitempty"`
}

// Widget is one widget declaration inside a view. Config is opaque to
// the engine; only the matched renderer imposes a shape on it.
type Widget struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	GridPosition GridPosition   `json:"gridPosition,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
}

// GridPosition is the declared grid placement of a widget. Spans
// default to 1 when zero.
type GridPosition struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	ColSpan int `json:"colSpan,omitempty"`
	RowSpan int `json:"rowSpan,omitempty"`
}

// FromDocument decodes a raw RuleSet document into its typed form.
// Unknown keys are ignored so the opaque hint sections survive
// whatever shape an operator gives them.
func FromDocument(doc map[string]any) (*RuleSet, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("ruleset: encoding document: %w", err)
	}
	var rs RuleSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("ruleset: decoding document: %w", err)
	}
	return &rs, nil
}

// CompareVersions compares two numeric version tokens. It returns a
// negative value when a < b, zero when equal, positive when a > b.
// A token that does not parse as a number sorts below everything,
// so a garbled version is always treated as stale.
func CompareVersions(a, b string) int {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
