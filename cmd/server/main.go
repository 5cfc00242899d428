package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/matthewbaird/dashkit/internal/appstate"
	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/eventbus"
	"github.com/matthewbaird/dashkit/internal/fetch"
	"github.com/matthewbaird/dashkit/internal/server"
	"github.com/matthewbaird/dashkit/internal/widget"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(64)
	bus.Start(ctx)

	store, fileStore := openStore(ctx)

	state, err := appstate.New(ctx, store, bus)
	if err != nil {
		log.Fatalf("loading documents: %v", err)
	}

	// Out-of-band edits to the document files flow back into the
	// running engine through the watcher.
	if fileStore != nil {
		watcher, err := document.NewWatcher(fileStore, func(name string) {
			if err := state.Reload(context.Background(), name); err != nil {
				log.Printf("reloading %s: %v", name, err)
			}
		})
		if err != nil {
			log.Fatalf("starting file watcher: %v", err)
		}
		go watcher.Run(ctx)
	}

	var client fetch.Client = fetch.NewMockClient()
	if base := os.Getenv("API_BASE"); base != "" {
		client = fetch.NewHTTPClient(base)
	}
	dispatcher := widget.NewDispatcher(widget.DefaultRegistry(), client)

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	err = server.Run(ctx, server.Config{
		Port:       port,
		State:      state,
		Dispatcher: dispatcher,
		Bus:        bus,
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	bus.Wait()
}

// openStore picks the document store from the STORE environment
// variable: "file" (default), "sqlite", or "memory". The second
// return is non-nil only for the file store, which supports watching.
func openStore(ctx context.Context) (document.Store, *document.FileStore) {
	switch os.Getenv("STORE") {
	case "sqlite":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			dsn = "file:dashkit.db"
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		db.SetMaxOpenConns(1)
		store := document.NewSQLiteStore(db)
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("running schema migration: %v", err)
		}
		return store, nil
	case "memory":
		return document.NewMemoryStore(), nil
	default:
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		store, err := document.NewFileStore(dir)
		if err != nil {
			log.Fatalf("opening document directory: %v", err)
		}
		return store, store
	}
}
