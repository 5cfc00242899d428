package widget

import (
	"context"
	"errors"

	"github.com/matthewbaird/dashkit/internal/jsonpath"
)

// ChartDataset is one named series.
type ChartDataset struct {
	Label string `json:"label,omitempty"`
	Data  []any  `json:"data"`
}

// ChartBody is the rendered body of a ChartWidget.
type ChartBody struct {
	Title     string         `json:"title"`
	ChartType string         `json:"chartType"`
	Labels    []any          `json:"labels"`
	Datasets  []ChartDataset `json:"datasets"`
}

func renderChart(ctx context.Context, rc RenderContext) (any, error) {
	endpoint := cfgString(rc.Config, "apiEndpoint")
	chartType := cfgString(rc.Config, "chartType")
	if endpoint == "" || chartType == "" {
		return nil, errors.New("missing apiEndpoint or chartType in widget config")
	}

	params := map[string]any{}
	for k, v := range cfgMap(rc.Config, "apiParams") {
		params[k] = v
	}
	for k, v := range rc.Filters {
		params[k] = v
	}

	raw, err := rc.Client.Fetch(ctx, endpoint, params, chartBackendHints(rc.BackendHints))
	if err != nil {
		return nil, err
	}
	series, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("chart data is not in the expected format")
	}
	labels, labelsOK := series["labels"].([]any)
	rawSets, setsOK := series["datasets"].([]any)
	if !labelsOK || !setsOK {
		return nil, errors.New("chart data is not in the expected format")
	}

	body := ChartBody{
		Title:     cfgString(rc.Config, "title"),
		ChartType: chartType,
		Labels:    labels,
	}
	for _, item := range rawSets {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		data, _ := m["data"].([]any)
		body.Datasets = append(body.Datasets, ChartDataset{
			Label: cfgString(m, "label"),
			Data:  data,
		})
	}
	return body, nil
}

func chartBackendHints(hints map[string]any) map[string]any {
	out := map[string]any{}
	if v, ok := jsonpath.GetDotted(hints, "dataGranularity"); ok {
		out["dataGranularity"] = v
	}
	return out
}
