package document

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/docs.db")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	sqliteStore := NewSQLiteStore(db)
	if err := sqliteStore.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			want := DefaultPreferences()
			if err := store.Save(ctx, NamePreferences, want); err != nil {
				t.Fatal(err)
			}
			got, err := store.Load(ctx, NamePreferences)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			if _, err := store.Load(ctx, NameCatalog); !errors.Is(err, ErrNotFound) {
				t.Errorf("got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_RejectsUnknownName(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			if err := store.Save(ctx, "secrets", map[string]any{}); err == nil {
				t.Error("Save accepted unknown document name")
			}
			if _, err := store.Load(ctx, "secrets"); err == nil || errors.Is(err, ErrNotFound) {
				t.Errorf("Load(%q) = %v, want name error", "secrets", err)
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for label, store := range testStores(t) {
		t.Run(label, func(t *testing.T) {
			if err := store.Save(ctx, NameCatalog, map[string]any{"a": float64(1)}); err != nil {
				t.Fatal(err)
			}
			if err := store.Save(ctx, NameCatalog, map[string]any{"b": float64(2)}); err != nil {
				t.Fatal(err)
			}
			got, err := store.Load(ctx, NameCatalog)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(map[string]any{"b": float64(2)}, got); diff != "" {
				t.Errorf("overwrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	doc := map[string]any{"nested": map[string]any{"k": "v"}}
	if err := store.Save(ctx, NameCatalog, doc); err != nil {
		t.Fatal(err)
	}
	doc["nested"].(map[string]any)["k"] = "mutated"

	got, err := store.Load(ctx, NameCatalog)
	if err != nil {
		t.Fatal(err)
	}
	if got["nested"].(map[string]any)["k"] != "v" {
		t.Error("store shared state with caller")
	}

	got["nested"].(map[string]any)["k"] = "mutated again"
	again, _ := store.Load(ctx, NameCatalog)
	if again["nested"].(map[string]any)["k"] != "v" {
		t.Error("loaded copies share state")
	}
}
