package document

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/matthewbaird/dashkit/internal/jsonpath"
	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// AcceptRuleSet reports whether a loaded RuleSet document is usable:
// it must carry a version token at or above minVersion and have the
// expected top-level shape (frontendLogic.views present as a map).
// Rejection is a recoverable condition — the caller substitutes the
// built-in default — so the reason comes back as a string, not an
// error.
func AcceptRuleSet(doc map[string]any, minVersion string) (ok bool, reason string) {
	if doc == nil {
		return false, "document is empty"
	}
	version, _ := doc["version"].(string)
	if ruleset.CompareVersions(version, minVersion) < 0 {
		return false, fmt.Sprintf("version %q is below minimum %q", version, minVersion)
	}
	views, found := jsonpath.GetDotted(doc, "frontendLogic.views")
	if !found {
		return false, "frontendLogic.views is missing"
	}
	if _, isMap := views.(map[string]any); !isMap {
		return false, "frontendLogic.views is not a mapping"
	}
	return true, ""
}

// LoadOrInit loads every named document from the store, substituting
// and persisting the built-in default for any document that is
// missing, and for a RuleSet that fails AcceptRuleSet. The returned
// map always has an entry for each of Names(). Substitution persists
// the default before returning it so the in-memory and stored copies
// never diverge.
func LoadOrInit(ctx context.Context, store Store) (map[string]map[string]any, error) {
	docs := make(map[string]map[string]any, len(Names()))
	for _, name := range Names() {
		doc, err := store.Load(ctx, name)
		switch {
		case err == nil:
			// loaded, validated below
		case errors.Is(err, ErrNotFound):
			log.Printf("document: %s not found in store, initializing default", name)
			doc = nil
		default:
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}

		if name == NameRuleSet && doc != nil {
			if ok, reason := AcceptRuleSet(doc, MinRuleSetVersion); !ok {
				log.Printf("document: stored ruleset rejected (%s), reverting to default", reason)
				doc = nil
			}
		}

		if doc == nil {
			doc = Default(name)
			if err := store.Save(ctx, name, doc); err != nil {
				return nil, fmt.Errorf("persisting default %s: %w", name, err)
			}
		}
		docs[name] = doc
	}
	return docs, nil
}
