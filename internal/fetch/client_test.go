package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeQuery(t *testing.T) {
	cases := []struct {
		name   string
		params map[string]any
		hints  map[string]any
		want   string
	}{
		{"empty", nil, nil, ""},
		{
			"params only",
			map[string]any{"limit": float64(10), "q": "usb hub"},
			nil,
			"limit=10&q=usb+hub",
		},
		{
			"hints win on collision",
			map[string]any{"defaultSort": "name"},
			map[string]any{"defaultSort": "popularity", "applyNetting": false},
			"applyNetting=false&defaultSort=popularity",
		},
		{
			"list value",
			map[string]any{"status": []string{"active", "pending"}},
			nil,
			"status=active%2Cpending",
		},
		{
			"fractional number",
			map[string]any{"threshold": 1.5},
			nil,
			"threshold=1.5",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeQuery(tc.params, tc.hints); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHTTPClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("limit = %q, want 3", r.URL.Query().Get("limit"))
		}
		if r.URL.Query().Get("applyNetting") != "false" {
			t.Errorf("applyNetting = %q, want false", r.URL.Query().Get("applyNetting"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1"}]`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	got, err := client.Fetch(context.Background(),
		"/api/products",
		map[string]any{"limit": float64(3)},
		map[string]any{"applyNetting": false})
	if err != nil {
		t.Fatal(err)
	}
	rows, ok := got.([]any)
	if !ok || len(rows) != 1 {
		t.Errorf("got %v, want one row", got)
	}
}

func TestHTTPClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Fetch(context.Background(), "/api/anything", nil, nil)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *fetch.Error", err)
	}
	if fe.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", fe.Status)
	}
}

func TestMockClient_ProductsLimit(t *testing.T) {
	client := NewMockClient()
	got, err := client.Fetch(context.Background(), "/api/products", map[string]any{"limit": float64(4)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rows := got.([]any); len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}
}

func TestMockClient_UnknownEndpoint(t *testing.T) {
	_, err := NewMockClient().Fetch(context.Background(), "/api/unknown", nil, nil)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *fetch.Error", err)
	}
	if fe.Status != 404 {
		t.Errorf("status = %d, want 404", fe.Status)
	}
}

func TestMockClient_ChartEndpoints(t *testing.T) {
	client := NewMockClient()
	for _, endpoint := range []string{"/api/sales_summary", "/api/error_rates"} {
		got, err := client.Fetch(context.Background(), endpoint, nil, nil)
		if err != nil {
			t.Fatalf("%s: %v", endpoint, err)
		}
		series := got.(map[string]any)
		if _, ok := series["labels"]; !ok {
			t.Errorf("%s: missing labels", endpoint)
		}
		if _, ok := series["datasets"]; !ok {
			t.Errorf("%s: missing datasets", endpoint)
		}
	}
}
