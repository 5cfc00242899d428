// Package live serves the WebSocket endpoint that keeps a connected
// dashboard in sync: view switching, filter updates, and pushed
// re-renders when a configuration document changes underneath the
// session.
package live

import (
	"encoding/json"

	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/resolve"
	"github.com/matthewbaird/dashkit/internal/widget"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "switch_view", "set_filter", "toggle_filter", "set_range", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// SwitchViewData is the payload for "switch_view" messages.
type SwitchViewData struct {
	ViewID string `json:"view_id"`
}

// SetFilterData is the payload for "set_filter" and "toggle_filter"
// messages. Value is ignored for toggles.
type SetFilterData struct {
	Field string `json:"field"`
	Value any    `json:"value,omitempty"`
}

// SetRangeData is the payload for "set_range" messages. Both bounds
// are applied in one step.
type SetRangeData struct {
	Field string `json:"field"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "view", "widgets", "filters", "document_changed", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once after the connection is accepted.
type SessionData struct {
	SessionID string `json:"session_id"`
	ViewID    string `json:"view_id"`
}

// ViewData announces the resolved plan of the session's active view,
// together with markers for any filter-bar declarations whose type
// has no known control.
type ViewData struct {
	View               resolve.ResolvedView `json:"view"`
	UnsupportedFilters []FilterMarker       `json:"unsupported_filters,omitempty"`
}

// FilterMarker is the inline stand-in for an unsupported filter-bar
// declaration.
type FilterMarker struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// WidgetsData carries a completed render of the active view.
type WidgetsData struct {
	ViewID  string            `json:"view_id"`
	Widgets []widget.Rendered `json:"widgets"`
}

// FiltersData carries the complete filter state after an update.
type FiltersData struct {
	Filters filter.State `json:"filters"`
}

// DocumentChangedData announces an out-of-band configuration change.
type DocumentChangedData struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
