package document

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAcceptRuleSet(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want bool
	}{
		{"nil document", nil, false},
		{"default is acceptable", DefaultRuleSet(), true},
		{
			"stale version",
			map[string]any{"version": "1.0", "frontendLogic": map[string]any{"views": map[string]any{}}},
			false,
		},
		{
			"newer version",
			map[string]any{"version": "2.3", "frontendLogic": map[string]any{"views": map[string]any{}}},
			true,
		},
		{
			"garbled version",
			map[string]any{"version": "not-a-number", "frontendLogic": map[string]any{"views": map[string]any{}}},
			false,
		},
		{
			"missing views",
			map[string]any{"version": "1.1", "frontendLogic": map[string]any{}},
			false,
		},
		{
			"views wrong shape",
			map[string]any{"version": "1.1", "frontendLogic": map[string]any{"views": []any{}}},
			false,
		},
		{
			"missing frontendLogic",
			map[string]any{"version": "1.1"},
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := AcceptRuleSet(tc.doc, MinRuleSetVersion)
			if got != tc.want {
				t.Errorf("AcceptRuleSet = %v (%s), want %v", got, reason, tc.want)
			}
		})
	}
}

func TestLoadOrInit_EmptyStoreSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	docs, err := LoadOrInit(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range Names() {
		if docs[name] == nil {
			t.Errorf("no document returned for %s", name)
		}
		persisted, err := store.Load(ctx, name)
		if err != nil {
			t.Errorf("default %s was not persisted: %v", name, err)
			continue
		}
		if diff := cmp.Diff(docs[name], persisted); diff != "" {
			t.Errorf("%s in-memory and persisted copies diverge (-mem +stored):\n%s", name, diff)
		}
	}
}

func TestLoadOrInit_StaleRuleSetSubstituted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stale := map[string]any{
		"version":       "0.9",
		"frontendLogic": map[string]any{"views": map[string]any{}},
	}
	if err := store.Save(ctx, NameRuleSet, stale); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadOrInit(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultRuleSet(), docs[NameRuleSet]); diff != "" {
		t.Errorf("in-memory ruleset is not the default (-want +got):\n%s", diff)
	}
	persisted, err := store.Load(ctx, NameRuleSet)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultRuleSet(), persisted); diff != "" {
		t.Errorf("persisted ruleset is not the default (-want +got):\n%s", diff)
	}
}

func TestLoadOrInit_AcceptableRuleSetKept(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	custom := DefaultRuleSet()
	custom["version"] = "1.5"
	if err := store.Save(ctx, NameRuleSet, custom); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadOrInit(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if docs[NameRuleSet]["version"] != "1.5" {
		t.Errorf("acceptable ruleset was replaced, version = %v", docs[NameRuleSet]["version"])
	}
}
