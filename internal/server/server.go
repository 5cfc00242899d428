// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/eventbus"
	"github.com/matthewbaird/dashkit/internal/handler"
	"github.com/matthewbaird/dashkit/internal/live"
	"github.com/matthewbaird/dashkit/internal/widget"
)

// Config holds server configuration.
type Config struct {
	Port       int
	State      *appstate.State
	Dispatcher *widget.Dispatcher
	Bus        *eventbus.Bus
}

// Router builds the full route table.
func Router(cfg Config) http.Handler {
	r := chi.NewRouter()

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Documents ---
	dh := handler.NewDocumentHandler(cfg.State)
	r.Get("/v1/documents", dh.HandleListDocuments)
	r.Get("/v1/documents/{name}", dh.HandleGetDocument)
	r.Put("/v1/documents/{name}", dh.HandlePutDocument)
	r.Post("/v1/documents/{name}/edit", dh.HandleEditDocument)
	r.Get("/v1/documents/{name}/node", dh.HandleGetNode)

	// --- Views ---
	vh := handler.NewViewHandler(cfg.State, cfg.Dispatcher)
	r.Get("/v1/views", vh.HandleListViews)
	r.Get("/v1/views/{viewID}", vh.HandleGetView)
	r.Get("/v1/views/{viewID}/render", vh.HandleRenderView)

	// --- Live sessions ---
	lh := live.NewHandler(cfg.State, cfg.Dispatcher, cfg.Bus, live.NewManager())
	r.Get("/v1/live", lh.ServeHTTP)

	return handler.Recovery(handler.Logging(r))
}

// Run starts the HTTP server with all routes registered and shuts it
// down when the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	server := &http.Server{
		Addr:    addr,
		Handler: Router(cfg),
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	return server.ListenAndServe()
}
