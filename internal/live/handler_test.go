package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/fetch"
	"github.com/matthewbaird/dashkit/internal/widget"
)

// received mirrors ServerMessage with an undecoded payload.
type received struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func dialTestHandler(t *testing.T) (context.Context, *websocket.Conn) {
	return dialTestHandlerWithStore(t, document.NewMemoryStore())
}

func dialTestHandlerWithStore(t *testing.T, store document.Store) (context.Context, *websocket.Conn) {
	t.Helper()
	state, err := appstate.New(context.Background(), store, nil)
	require.NoError(t, err)
	dispatcher := widget.NewDispatcher(widget.DefaultRegistry(), fetch.NewMockClient())
	h := NewHandler(state, dispatcher, nil, NewManager())

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return ctx, conn
}

// readUntil drains messages until one of the wanted type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string) received {
	t.Helper()
	for {
		var msg received
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func sendMsg(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType, id string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: msgType, ID: id, Data: raw}))
}

func TestConnectionHandshake(t *testing.T) {
	ctx, conn := dialTestHandler(t)

	msg := readUntil(t, ctx, conn, "session")
	var sess SessionData
	require.NoError(t, json.Unmarshal(msg.Data, &sess))
	require.NotEmpty(t, sess.SessionID)
	require.Equal(t, "default", sess.ViewID)

	view := readUntil(t, ctx, conn, "view")
	var vd struct {
		View struct {
			ViewID string `json:"viewId"`
			Title  string `json:"title"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(view.Data, &vd))
	require.Equal(t, "default", vd.View.ViewID)

	widgets := readUntil(t, ctx, conn, "widgets")
	var wd struct {
		ViewID  string `json:"view_id"`
		Widgets []struct {
			ID  string `json:"id"`
			Err string `json:"error"`
		} `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal(widgets.Data, &wd))
	require.Equal(t, "default", wd.ViewID)
	require.NotEmpty(t, wd.Widgets)
	for _, w := range wd.Widgets {
		require.Empty(t, w.Err)
	}
}

func TestSwitchView(t *testing.T) {
	ctx, conn := dialTestHandler(t)
	readUntil(t, ctx, conn, "widgets")

	sendMsg(t, ctx, conn, "switch_view", "r1", SwitchViewData{ViewID: "sales_dashboard"})

	var wd struct {
		ViewID string `json:"view_id"`
	}
	// Drain until the render for the new view arrives; renders of the
	// superseded view may still be in flight.
	for {
		msg := readUntil(t, ctx, conn, "widgets")
		require.NoError(t, json.Unmarshal(msg.Data, &wd))
		if wd.ViewID == "sales_dashboard" {
			return
		}
	}
}

func TestFilterMessages(t *testing.T) {
	ctx, conn := dialTestHandler(t)
	readUntil(t, ctx, conn, "widgets")

	sendMsg(t, ctx, conn, "toggle_filter", "r1", SetFilterData{Field: "showActive"})
	msg := readUntil(t, ctx, conn, "filters")
	var fd struct {
		Filters map[string]any `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &fd))
	require.Equal(t, false, fd.Filters["showActive"])

	sendMsg(t, ctx, conn, "set_filter", "r2", SetFilterData{Field: "status", Value: []string{"pending"}})
	msg = readUntil(t, ctx, conn, "filters")
	require.NoError(t, json.Unmarshal(msg.Data, &fd))
	require.Equal(t, []any{"pending"}, fd.Filters["status"])

	sendMsg(t, ctx, conn, "set_range", "r3", SetRangeData{Field: "dateRange", Start: "2026-01-01", End: "2026-01-31"})
	msg = readUntil(t, ctx, conn, "filters")
	require.NoError(t, json.Unmarshal(msg.Data, &fd))
	require.Equal(t, "2026-01-01", fd.Filters["dateRange_start"])
	require.Equal(t, "2026-01-31", fd.Filters["dateRange_end"])
}

func TestUnknownField(t *testing.T) {
	ctx, conn := dialTestHandler(t)
	readUntil(t, ctx, conn, "session")

	sendMsg(t, ctx, conn, "set_filter", "r1", SetFilterData{Field: "nope", Value: "x"})
	msg := readUntil(t, ctx, conn, "error")
	require.Equal(t, "r1", msg.RequestID)

	var ed ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &ed))
	require.Equal(t, "invalid_filter", ed.Code)
}

func TestUnknownMessageType(t *testing.T) {
	ctx, conn := dialTestHandler(t)
	readUntil(t, ctx, conn, "session")

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "teleport", ID: "r9"}))
	msg := readUntil(t, ctx, conn, "error")
	var ed ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &ed))
	require.Equal(t, "unknown_type", ed.Code)
}

func TestPing(t *testing.T) {
	ctx, conn := dialTestHandler(t)
	readUntil(t, ctx, conn, "session")

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "ping", ID: "p1"}))
	msg := readUntil(t, ctx, conn, "pong")
	require.Equal(t, "p1", msg.RequestID)
}

func TestUnsupportedFilterMarkers(t *testing.T) {
	store := document.NewMemoryStore()
	doc := document.DefaultRuleSet()
	fl := doc["frontendLogic"].(map[string]any)
	fl["filterBarConfig"] = append(fl["filterBarConfig"].([]any),
		map[string]any{"id": "magic", "type": "slider", "label": "Magic Level"})
	require.NoError(t, store.Save(context.Background(), document.NameRuleSet, doc))

	ctx, conn := dialTestHandlerWithStore(t, store)

	msg := readUntil(t, ctx, conn, "view")
	var vd struct {
		UnsupportedFilters []FilterMarker `json:"unsupported_filters"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &vd))
	require.Equal(t, []FilterMarker{{ID: "magic", Type: "slider", Label: "Magic Level"}}, vd.UnsupportedFilters)

	// The marker field took no slot in the filter state.
	sendMsg(t, ctx, conn, "set_filter", "r1", SetFilterData{Field: "magic", Value: "11"})
	errMsg := readUntil(t, ctx, conn, "error")
	var ed ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &ed))
	require.Equal(t, "invalid_filter", ed.Code)
}
