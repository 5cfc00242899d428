package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/event"
	"github.com/matthewbaird/dashkit/internal/eventbus"
	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/resolve"
	"github.com/matthewbaird/dashkit/internal/ruleset"
	"github.com/matthewbaird/dashkit/internal/widget"
)

// Handler manages WebSocket connections for live dashboard sessions.
type Handler struct {
	state      *appstate.State
	dispatcher *widget.Dispatcher
	bus        *eventbus.Bus
	sessions   *Manager
}

// NewHandler creates a WebSocket handler with all dependencies. The
// bus may be nil, in which case sessions see no out-of-band document
// changes.
func NewHandler(state *appstate.State, dispatcher *widget.Dispatcher, bus *eventbus.Bus, sessions *Manager) *Handler {
	return &Handler{
		state:      state,
		dispatcher: dispatcher,
		bus:        bus,
		sessions:   sessions,
	}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("live: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	rs := h.state.TypedRuleSet()

	sess := h.sessions.Create(rs.FrontendLogic.FilterBarConfig)
	defer h.sessions.Remove(sess.ID)
	h.watchFilters(ctx, conn, sess)

	if h.bus != nil {
		sub := "live-" + sess.ID
		h.bus.Subscribe(sub, eventbus.HandlerFunc(func(_ context.Context, evt event.DocumentChanged) error {
			h.documentChanged(ctx, conn, sess, evt)
			return nil
		}))
		defer h.bus.Unsubscribe(sub)
	}

	h.send(ctx, conn, ServerMessage{
		Type: "session",
		Data: SessionData{SessionID: sess.ID, ViewID: sess.ViewID()},
	})
	h.sendView(ctx, conn, sess, "")
	h.startRender(ctx, conn, sess, "")

	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("live: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}
		sess.Touch()

		switch msg.Type {
		case "switch_view":
			h.handleSwitchView(ctx, conn, sess, msg)
		case "set_filter":
			h.handleSetFilter(ctx, conn, sess, msg)
		case "toggle_filter":
			h.handleToggleFilter(ctx, conn, sess, msg)
		case "set_range":
			h.handleSetRange(ctx, conn, sess, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleSwitchView(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	var data SwitchViewData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid switch_view data")
		return
	}
	if data.ViewID == "" {
		data.ViewID = resolve.DefaultViewID
	}

	rs := h.state.TypedRuleSet()
	sess.SwitchView(data.ViewID, rs.FrontendLogic.FilterBarConfig)
	h.watchFilters(ctx, conn, sess)

	h.sendView(ctx, conn, sess, msg.ID)
	h.startRender(ctx, conn, sess, msg.ID)
}

func (h *Handler) handleSetFilter(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	var data SetFilterData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid set_filter data")
		return
	}
	if err := sess.Filters().SetField(data.Field, coerceFilterValue(data.Value)); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_filter", err.Error())
		return
	}
	h.startRender(ctx, conn, sess, msg.ID)
}

func (h *Handler) handleToggleFilter(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	var data SetFilterData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid toggle_filter data")
		return
	}
	if err := sess.Filters().Toggle(data.Field); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_filter", err.Error())
		return
	}
	h.startRender(ctx, conn, sess, msg.ID)
}

func (h *Handler) handleSetRange(ctx context.Context, conn *websocket.Conn, sess *Session, msg ClientMessage) {
	var data SetRangeData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid set_range data")
		return
	}
	field := ruleset.FilterField{ID: data.Field}
	if err := sess.Filters().SetDateRange(field.StartKey(), field.EndKey(), data.Start, data.End); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_filter", err.Error())
		return
	}
	h.startRender(ctx, conn, sess, msg.ID)
}

// documentChanged runs on the bus consumer goroutine. Every change is
// announced; a RuleSet change additionally resets the session to the
// new filter-bar schema, since the old aggregator may describe fields
// that no longer exist.
func (h *Handler) documentChanged(ctx context.Context, conn *websocket.Conn, sess *Session, evt event.DocumentChanged) {
	h.send(ctx, conn, ServerMessage{
		Type: "document_changed",
		Data: DocumentChangedData{Name: evt.Name, Source: evt.Source},
	})

	if evt.Name == document.NameRuleSet {
		rs := h.state.TypedRuleSet()
		sess.SwitchView(sess.ViewID(), rs.FrontendLogic.FilterBarConfig)
		h.watchFilters(ctx, conn, sess)
	}

	h.sendView(ctx, conn, sess, "")
	h.startRender(ctx, conn, sess, "")
}

// watchFilters registers the session's single filter observer: every
// state swap pushes the complete new filter state to the client.
// Must be called again after SwitchView replaces the aggregator.
func (h *Handler) watchFilters(ctx context.Context, conn *websocket.Conn, sess *Session) {
	sess.Filters().OnChange(func(st filter.State) {
		h.send(ctx, conn, ServerMessage{Type: "filters", Data: FiltersData{Filters: st}})
	})
}

// resolveView merges the session's active view with the current
// preferences, falling back to the global theme.
func (h *Handler) resolveView(sess *Session) resolve.ResolvedView {
	rs := h.state.TypedRuleSet()
	prefs := resolve.PreferencesFromDocument(h.state.Preferences())
	resolved := resolve.Resolve(sess.ViewID(), rs, prefs)
	if resolved.Theme == "" {
		resolved.Theme = rs.FrontendLogic.GlobalTheme
	}
	return resolved
}

func (h *Handler) sendView(ctx context.Context, conn *websocket.Conn, sess *Session, requestID string) {
	var markers []FilterMarker
	for _, f := range sess.Filters().Unsupported() {
		markers = append(markers, FilterMarker{ID: f.ID, Type: f.Type, Label: f.Label})
	}
	h.send(ctx, conn, ServerMessage{
		Type:      "view",
		RequestID: requestID,
		Data:      ViewData{View: h.resolveView(sess), UnsupportedFilters: markers},
	})
}

// startRender kicks off an asynchronous render of the session's
// active view. Any in-flight render is cancelled first. A result that
// arrives after its generation has been superseded is discarded —
// the client only ever sees renders of the state it is looking at.
func (h *Handler) startRender(ctx context.Context, conn *websocket.Conn, sess *Session, requestID string) {
	renderCtx, gen := sess.BeginRender(ctx)
	resolved := h.resolveView(sess)
	filters := sess.Filters().Snapshot()
	rs := h.state.TypedRuleSet()
	catalog := h.state.Catalog()

	go func() {
		widgets := h.dispatcher.RenderView(
			renderCtx,
			resolved,
			filters,
			catalog,
			rs.FrontendLogic.FrontendProcessingHints,
			rs.BackendProcessingHints,
		)
		if widgets == nil || !sess.Current(gen) {
			return
		}
		h.send(ctx, conn, ServerMessage{
			Type:      "widgets",
			RequestID: requestID,
			Data:      WidgetsData{ViewID: resolved.ViewID, Widgets: widgets},
		})
	}()
}

// coerceFilterValue maps a decoded JSON value onto the shapes the
// aggregator stores: JSON arrays become string slices, everything
// else passes through.
func coerceFilterValue(v any) any {
	if list, ok := v.([]any); ok {
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return v
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("live: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
