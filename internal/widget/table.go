package widget

import (
	"context"
	"errors"
	"strings"

	"github.com/matthewbaird/dashkit/internal/jsonpath"
)

// TableColumn is one column declaration passed through to the client.
type TableColumn struct {
	Header   string `json:"header"`
	Key      string `json:"key"`
	Sortable bool   `json:"sortable"`
}

// TableHierarchy carries the frontend processing hints for
// hierarchical tables: which column carries the tree and how far each
// level indents.
type TableHierarchy struct {
	ColumnKey string  `json:"columnKey"`
	IndentPx  float64 `json:"indentPx"`
}

// TableBody is the rendered body of a TableWidget.
type TableBody struct {
	Title     string          `json:"title"`
	Columns   []TableColumn   `json:"columns"`
	Rows      []any           `json:"rows"`
	Hierarchy *TableHierarchy `json:"hierarchy,omitempty"`
}

func renderTable(ctx context.Context, rc RenderContext) (any, error) {
	endpoint := cfgString(rc.Config, "apiEndpoint")
	rawColumns := cfgList(rc.Config, "columns")
	if endpoint == "" || len(rawColumns) == 0 {
		return nil, errors.New("missing apiEndpoint or columns in widget config")
	}

	params := map[string]any{}
	for k, v := range cfgMap(rc.Config, "apiParams") {
		params[k] = v
	}
	for k, v := range rc.Filters {
		params[k] = v
	}
	// The resolved per-table page size overrides whatever limit the
	// declared apiParams carried.
	if n, ok := rc.Config["itemsPerPage"].(float64); ok && n > 0 {
		params["limit"] = n
	}

	raw, err := rc.Client.Fetch(ctx, endpoint, params, tableBackendHints(endpoint, rc.BackendHints))
	if err != nil {
		return nil, err
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, errors.New("table data is not a list of rows")
	}

	body := TableBody{
		Title:   cfgString(rc.Config, "title"),
		Columns: decodeColumns(rawColumns),
		Rows:    rows,
	}
	if h := tableHierarchy(rc.FrontendHints); h != nil {
		body.Hierarchy = h
	}
	return body, nil
}

// tableBackendHints selects the backend processing hints a table
// fetch forwards: netting always, the catalog default sort only for
// product endpoints.
func tableBackendHints(endpoint string, hints map[string]any) map[string]any {
	out := map[string]any{}
	if v, ok := hints["applyNetting"]; ok {
		out["applyNetting"] = v
	}
	if strings.Contains(endpoint, "products") {
		if v, ok := jsonpath.GetDotted(hints, "defaultSort.productCatalog"); ok {
			out["defaultSort"] = v
		}
	}
	return out
}

func decodeColumns(raw []any) []TableColumn {
	cols := make([]TableColumn, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sortable, _ := m["sortable"].(bool)
		cols = append(cols, TableColumn{
			Header:   cfgString(m, "header"),
			Key:      cfgString(m, "key"),
			Sortable: sortable,
		})
	}
	return cols
}

func tableHierarchy(frontendHints map[string]any) *TableHierarchy {
	hints, ok := jsonpath.GetDotted(frontendHints, "tableWidget")
	if !ok {
		return nil
	}
	m, ok := hints.(map[string]any)
	if !ok {
		return nil
	}
	key, _ := m["hierarchicalColumnKey"].(string)
	if key == "" {
		return nil
	}
	indent, _ := m["indentationUnitPx"].(float64)
	return &TableHierarchy{ColumnKey: key, IndentPx: indent}
}
