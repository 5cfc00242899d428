package document

// MinRuleSetVersion is the oldest RuleSet version the engine accepts.
// A stored RuleSet below this (or with a garbled version token) is
// replaced by DefaultRuleSet at load time.
const MinRuleSetVersion = "1.1"

// Numeric literals below are float64 so the in-memory defaults are
// structurally identical to the same document after a JSON round trip
// through a store.

// DefaultCatalog returns the built-in static reference data: profile
// info, drawer layout, and the option lists the filter bar resolves
// by dotted path.
func DefaultCatalog() map[string]any {
	return map[string]any{
		"appName": "My Configurable App",
		"userProfile": map[string]any{
			"name":      "Demo User",
			"email":     "demo@example.com",
			"avatarUrl": "https://placehold.co/50x50/007bff/ffffff?text=DU",
		},
		"profileDrawerConfig": []any{
			map[string]any{"type": "userInfo", "dataKey": "userProfile"},
			map[string]any{"type": "divider"},
			map[string]any{"type": "linksGroup", "title": "Navigation", "links": []any{
				map[string]any{"label": "Dashboard", "path": "/"},
				map[string]any{"label": "Settings", "path": "/settings"},
				map[string]any{"label": "My Activity", "path": "/activity"},
			}},
			map[string]any{"type": "divider"},
			map[string]any{"type": "actionButton", "label": "Logout", "action": "logout"},
		},
		"filterOptions": map[string]any{
			"categories": []any{
				map[string]any{"value": "tech", "label": "Technology"},
				map[string]any{"value": "health", "label": "Healthcare"},
				map[string]any{"value": "finance", "label": "Finance"},
			},
			"status": []any{
				map[string]any{"value": "active", "label": "Active"},
				map[string]any{"value": "inactive", "label": "Inactive"},
				map[string]any{"value": "pending", "label": "Pending"},
			},
		},
	}
}

// DefaultPreferences returns the built-in per-user override document.
func DefaultPreferences() map[string]any {
	return map[string]any{
		"global": map[string]any{
			"itemsPerPageInTables": float64(10),
			"chartAnimation":       true,
		},
		"viewSpecific": map[string]any{
			"default": map[string]any{
				"widgetOrder":   []any{"welcome", "productTable", "activeUsers", "salesTrendPlaceholder"},
				"hiddenWidgets": []any{},
			},
			"sales_dashboard":      map[string]any{},
			"operations_dashboard": map[string]any{},
		},
	}
}

// DefaultRuleSet returns the built-in RuleSet: three views, five
// filter fields, and the pass-through processing hints.
func DefaultRuleSet() map[string]any {
	return map[string]any{
		"version": "1.1",
		"frontendLogic": map[string]any{
			"globalTheme": "light",
			"filterBarConfig": []any{
				map[string]any{"id": "dateRange", "type": "dateRange", "label": "Period"},
				map[string]any{"id": "category", "type": "dropdown", "label": "Category", "optionsKey": "filterOptions.categories"},
				map[string]any{"id": "status", "type": "multiSelect", "label": "Status", "optionsKey": "filterOptions.status"},
				map[string]any{"id": "searchTerm", "type": "textInput", "label": "Search", "placeholder": "Enter search term..."},
				map[string]any{"id": "showActive", "type": "toggle", "label": "Active Only", "defaultValue": true},
			},
			"views": map[string]any{
				"default": map[string]any{
					"title":  "Dynamic Dashboard (Default View)",
					"layout": map[string]any{"type": "grid", "columns": float64(2)},
					"widgets": []any{
						map[string]any{
							"id":           "welcome",
							"type":         "TextDisplay",
							"gridPosition": map[string]any{"row": float64(1), "col": float64(1), "colSpan": float64(2)},
							"config":       map[string]any{"content": "Welcome to your customizable dashboard!", "style": "h3"},
						},
						map[string]any{
							"id":           "activeUsers",
							"type":         "MetricDisplay",
							"gridPosition": map[string]any{"row": float64(2), "col": float64(1)},
							"config":       map[string]any{"title": "Active Users", "value": float64(1250), "dataKeyFromHardcoded": "appName"},
						},
						map[string]any{
							"id":           "salesTrendPlaceholder",
							"type":         "PlaceholderWidget",
							"gridPosition": map[string]any{"row": float64(2), "col": float64(2)},
							"config":       map[string]any{"title": "Sales Trend (Placeholder)"},
						},
						map[string]any{
							"id":           "productTable",
							"type":         "TableWidget",
							"gridPosition": map[string]any{"row": float64(3), "col": float64(1), "colSpan": float64(2)},
							"config": map[string]any{
								"title":       "Product List",
								"apiEndpoint": "/api/products",
								"apiParams":   map[string]any{"limit": float64(10)},
								"columns": []any{
									map[string]any{"header": "Name", "key": "name", "sortable": true},
									map[string]any{"header": "Price", "key": "price", "sortable": true},
									map[string]any{"header": "Stock", "key": "stock", "sortable": true},
								},
							},
						},
						map[string]any{
							"id":           "pnlTable",
							"type":         "TableWidget",
							"gridPosition": map[string]any{"row": float64(4), "col": float64(1), "colSpan": float64(2)},
							"config": map[string]any{
								"title":       "P&L Summary (Hierarchical)",
								"apiEndpoint": "/api/pnl_data",
								"columns": []any{
									map[string]any{"header": "Name", "key": "name", "sortable": true},
									map[string]any{"header": "Budget", "key": "budget", "sortable": true},
									map[string]any{"header": "Actual", "key": "actual", "sortable": true},
									map[string]any{"header": "Variance", "key": "variance", "sortable": true},
								},
							},
						},
					},
				},
				"sales_dashboard": map[string]any{
					"title":  "Sales Dashboard",
					"layout": map[string]any{"type": "grid", "columns": float64(3)},
					"widgets": []any{
						map[string]any{
							"id":           "salesSummaryChart",
							"type":         "ChartWidget",
							"gridPosition": map[string]any{"row": float64(1), "col": float64(1), "colSpan": float64(2)},
							"config": map[string]any{
								"title":       "Monthly Sales Summary",
								"chartType":   "BarChart",
								"apiEndpoint": "/api/sales_summary",
							},
						},
						map[string]any{
							"id":           "featuredItems",
							"type":         "CardListWidget",
							"gridPosition": map[string]any{"row": float64(2), "col": float64(1), "colSpan": float64(3)},
							"config": map[string]any{
								"title":       "Featured Items",
								"apiEndpoint": "/api/featured_items",
								"cardConfig":  map[string]any{"titleKey": "name", "imageKey": "imageUrl", "descriptionKey": "shortDesc"},
								"layout":      "grid",
							},
						},
					},
				},
				"operations_dashboard": map[string]any{
					"title":  "Operations Dashboard",
					"layout": map[string]any{"type": "grid", "columns": float64(2)},
					"widgets": []any{
						map[string]any{
							"id":           "op_status_table",
							"type":         "TableWidget",
							"gridPosition": map[string]any{"row": float64(1), "col": float64(1)},
							"config": map[string]any{
								"title":       "System Status",
								"apiEndpoint": "/api/system_status",
								"columns": []any{
									map[string]any{"header": "System", "key": "systemName", "sortable": true},
									map[string]any{"header": "Status", "key": "status", "sortable": false},
								},
							},
						},
						map[string]any{
							"id":           "op_error_rate_chart",
							"type":         "ChartWidget",
							"gridPosition": map[string]any{"row": float64(1), "col": float64(2)},
							"config": map[string]any{
								"title":       "Error Rates (Last 24h)",
								"chartType":   "LineChart",
								"apiEndpoint": "/api/error_rates",
							},
						},
					},
				},
			},
			"frontendProcessingHints": map[string]any{
				"tableWidget": map[string]any{
					"hierarchicalColumnKey": "name",
					"indentationUnitPx":     float64(22),
				},
			},
		},
		"backendProcessingHints": map[string]any{
			"applyNetting": false,
			"defaultSort": map[string]any{
				"customerLists":  "last_active_date",
				"productCatalog": "popularity",
			},
			"advancedCalculations": map[string]any{
				"financialReports":     true,
				"inventoryProjections": false,
			},
		},
	}
}

// Default returns the built-in document for name, or nil for an
// unknown name.
func Default(name string) map[string]any {
	switch name {
	case NameCatalog:
		return DefaultCatalog()
	case NameRuleSet:
		return DefaultRuleSet()
	case NamePreferences:
		return DefaultPreferences()
	}
	return nil
}
