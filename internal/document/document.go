// Package document holds the three named configuration documents the
// engine runs on — catalog, ruleset, preferences — together with the
// store adapters that load and persist them and the built-in defaults
// substituted when a stored document is missing or unacceptable.
package document

import (
	"context"
	"errors"
	"fmt"
)

// Names of the documents the engine knows about.
const (
	NameCatalog     = "catalog"
	NameRuleSet     = "ruleset"
	NamePreferences = "preferences"
)

// ErrNotFound is returned by Store.Load when the named document has
// never been saved.
var ErrNotFound = errors.New("document not found")

// Store is the adapter boundary to wherever documents live. The
// engine only needs load and save; local files, SQLite, and an
// in-memory map all satisfy it interchangeably.
type Store interface {
	Load(ctx context.Context, name string) (map[string]any, error)
	Save(ctx context.Context, name string, doc map[string]any) error
}

// Names returns the known document names in a fixed order.
func Names() []string {
	return []string{NameCatalog, NameRuleSet, NamePreferences}
}

// ValidName reports whether name is one of the known documents.
func ValidName(name string) bool {
	switch name {
	case NameCatalog, NameRuleSet, NamePreferences:
		return true
	}
	return false
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("unknown document %q", name)
	}
	return nil
}

// Clone deep-copies a JSON document tree. Scalars are shared (they
// are immutable), containers are rebuilt.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return cloneValue(doc).(map[string]any)
}

func cloneValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}
