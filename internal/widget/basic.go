package widget

import (
	"context"
)

// cfgString reads a string config key, empty when absent or not a
// string.
func cfgString(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}

func cfgMap(cfg map[string]any, key string) map[string]any {
	m, _ := cfg[key].(map[string]any)
	return m
}

func cfgList(cfg map[string]any, key string) []any {
	l, _ := cfg[key].([]any)
	return l
}

// TextBody is the rendered body of a TextDisplay widget.
type TextBody struct {
	Content string `json:"content"`
	Style   string `json:"style,omitempty"`
}

func renderTextDisplay(_ context.Context, rc RenderContext) (any, error) {
	return TextBody{
		Content: cfgString(rc.Config, "content"),
		Style:   cfgString(rc.Config, "style"),
	}, nil
}

// MetricBody is the rendered body of a MetricDisplay widget. Context
// carries the optional catalog value referenced by
// dataKeyFromHardcoded.
type MetricBody struct {
	Title   string `json:"title,omitempty"`
	Value   any    `json:"value"`
	Context any    `json:"context,omitempty"`
}

func renderMetricDisplay(_ context.Context, rc RenderContext) (any, error) {
	body := MetricBody{
		Title: cfgString(rc.Config, "title"),
		Value: rc.Config["value"],
	}
	if key := cfgString(rc.Config, "dataKeyFromHardcoded"); key != "" {
		body.Context = rc.CatalogLookup(key)
	}
	return body, nil
}

// PlaceholderBody echoes the widget's config so an operator can see
// what a future renderer would receive.
type PlaceholderBody struct {
	Title  string         `json:"title"`
	Config map[string]any `json:"config,omitempty"`
}

func renderPlaceholder(_ context.Context, rc RenderContext) (any, error) {
	title := cfgString(rc.Config, "title")
	if title == "" {
		title = "Placeholder"
	}
	return PlaceholderBody{Title: title, Config: rc.Config}, nil
}
