// Package appstate owns the process-wide current configuration: the
// catalog, ruleset, and preferences documents loaded at startup and
// replaced only through explicit set operations. There are no hidden
// statics — the shell constructs one State and injects it wherever
// the current documents are needed.
package appstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/matthewbaird/dashkit/internal/document"
	"github.com/matthewbaird/dashkit/internal/event"
	"github.com/matthewbaird/dashkit/internal/eventbus"
	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// State holds the live documents. All access is through methods;
// getters hand out deep copies so callers can never mutate shared
// state in place.
type State struct {
	store document.Store
	bus   *eventbus.Bus // optional; nil means no change notifications

	mu   sync.RWMutex
	docs map[string]map[string]any
}

// New loads (or initializes) all documents from the store. A stale or
// malformed stored RuleSet is substituted with the built-in default
// and the substitution is persisted before New returns.
func New(ctx context.Context, store document.Store, bus *eventbus.Bus) (*State, error) {
	docs, err := document.LoadOrInit(ctx, store)
	if err != nil {
		return nil, err
	}
	return &State{store: store, bus: bus, docs: docs}, nil
}

// Document returns a copy of the named document.
func (s *State) Document(name string) (map[string]any, error) {
	if !document.ValidName(name) {
		return nil, fmt.Errorf("unknown document %q", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return document.Clone(s.docs[name]), nil
}

// Catalog returns a copy of the catalog document.
func (s *State) Catalog() map[string]any {
	doc, _ := s.Document(document.NameCatalog)
	return doc
}

// RuleSet returns a copy of the raw ruleset document.
func (s *State) RuleSet() map[string]any {
	doc, _ := s.Document(document.NameRuleSet)
	return doc
}

// Preferences returns a copy of the preferences document.
func (s *State) Preferences() map[string]any {
	doc, _ := s.Document(document.NamePreferences)
	return doc
}

// TypedRuleSet decodes the current ruleset document. Decode failures
// fall back to the built-in default so a degraded document never
// takes the dashboard down.
func (s *State) TypedRuleSet() *ruleset.RuleSet {
	rs, err := ruleset.FromDocument(s.RuleSet())
	if err != nil {
		rs, _ = ruleset.FromDocument(document.DefaultRuleSet())
	}
	return rs
}

// Set replaces the named document in memory and persists it. The
// in-memory replacement always sticks — when Save fails the caller is
// told persistence did not complete, but the new document remains
// current so the edit is not lost. Last writer wins; there is no
// merge.
func (s *State) Set(ctx context.Context, name string, doc map[string]any) error {
	if !document.ValidName(name) {
		return fmt.Errorf("unknown document %q", name)
	}
	s.mu.Lock()
	s.docs[name] = document.Clone(doc)
	s.mu.Unlock()

	s.publish(ctx, name, event.SourceAPI)

	if err := s.store.Save(ctx, name, doc); err != nil {
		return fmt.Errorf("persisting %s: %w", name, err)
	}
	return nil
}

// Reload re-reads the named document from the store, for changes made
// out-of-band (the file watcher path). The RuleSet acceptance check
// applies just as at startup.
func (s *State) Reload(ctx context.Context, name string) error {
	if !document.ValidName(name) {
		return fmt.Errorf("unknown document %q", name)
	}
	doc, err := s.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", name, err)
	}
	if name == document.NameRuleSet {
		if ok, reason := document.AcceptRuleSet(doc, document.MinRuleSetVersion); !ok {
			return fmt.Errorf("reloading %s: rejected (%s)", name, reason)
		}
	}
	s.mu.Lock()
	s.docs[name] = doc
	s.mu.Unlock()

	s.publish(ctx, name, event.SourceWatcher)
	return nil
}

func (s *State) publish(ctx context.Context, name, source string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event.New(name, source))
}
