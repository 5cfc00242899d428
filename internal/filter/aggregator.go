// Package filter builds and maintains the shared FilterState: one
// value per declared filter-bar field, republished in full to the
// hosting view on every change. Widgets consume the state without
// knowing about each other.
package filter

import (
	"fmt"
	"sync"

	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// State maps filter-field ids (and the generated _start/_end keys of
// range fields) to their current values: string, bool, or []string.
type State map[string]any

// Clone copies the state. Values are scalars or string slices, so a
// shallow copy plus slice copy is a full copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		if list, ok := v.([]string); ok {
			copied := make([]string, len(list))
			copy(copied, list)
			out[k] = copied
			continue
		}
		out[k] = v
	}
	return out
}

// Aggregator owns the FilterState for one active view. Updates swap
// in a fresh state map and synchronously hand the complete snapshot
// to the single registered observer — never a partial diff. Safe for
// concurrent use; the observer runs under the aggregator's lock and
// must not call back into it.
type Aggregator struct {
	fields      []ruleset.FilterField
	unsupported []ruleset.FilterField

	mu       sync.Mutex
	state    State
	observer func(State)
}

// New initializes an Aggregator from the filter-bar declaration.
// Every supported field gets an entry immediately, before any user
// interaction. Fields with an unknown type are excluded from the
// state and reported by Unsupported so the view can render an inline
// marker for them.
func New(fields []ruleset.FilterField) *Aggregator {
	a := &Aggregator{state: make(State)}
	for _, f := range fields {
		switch f.Type {
		case ruleset.FilterMultiSelect:
			a.state[f.ID] = defaultStringList(f.DefaultValue)
		case ruleset.FilterDateRange:
			start, end := defaultRange(f.DefaultValue)
			a.state[f.StartKey()] = start
			a.state[f.EndKey()] = end
		case ruleset.FilterToggle:
			a.state[f.ID] = defaultBool(f.DefaultValue)
		case ruleset.FilterDropdown, ruleset.FilterTextInput:
			a.state[f.ID] = defaultString(f.DefaultValue)
		default:
			a.unsupported = append(a.unsupported, f)
			continue
		}
		a.fields = append(a.fields, f)
	}
	return a
}

// Fields returns the supported field declarations in bar order.
func (a *Aggregator) Fields() []ruleset.FilterField { return a.fields }

// Unsupported returns the declarations whose type has no known
// control. They carry no state; the view renders them as markers.
func (a *Aggregator) Unsupported() []ruleset.FilterField { return a.unsupported }

// Snapshot returns a copy of the full current state.
func (a *Aggregator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// OnChange registers the single observer notified after every update
// with the complete new state.
func (a *Aggregator) OnChange(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = fn
}

// SetField replaces one field's value.
func (a *Aggregator) SetField(id string, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.state[id]; !ok {
		return fmt.Errorf("filter: unknown field %q", id)
	}
	next := a.state.Clone()
	next[id] = value
	a.swap(next)
	return nil
}

// SetDateRange replaces both bounds of a range field atomically — the
// observer sees either the old pair or the new pair, never a mix.
func (a *Aggregator) SetDateRange(startKey, endKey, start, end string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.state[startKey]; !ok {
		return fmt.Errorf("filter: unknown field %q", startKey)
	}
	if _, ok := a.state[endKey]; !ok {
		return fmt.Errorf("filter: unknown field %q", endKey)
	}
	next := a.state.Clone()
	next[startKey] = start
	next[endKey] = end
	a.swap(next)
	return nil
}

// Toggle flips a boolean field.
func (a *Aggregator) Toggle(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	current, ok := a.state[id]
	if !ok {
		return fmt.Errorf("filter: unknown field %q", id)
	}
	flag, ok := current.(bool)
	if !ok {
		return fmt.Errorf("filter: field %q is not a toggle", id)
	}
	next := a.state.Clone()
	next[id] = !flag
	a.swap(next)
	return nil
}

// swap is called with the lock held.
func (a *Aggregator) swap(next State) {
	a.state = next
	if a.observer != nil {
		a.observer(next.Clone())
	}
}

func defaultString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func defaultBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func defaultStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// defaultRange reads a {start, end} default for a range field.
func defaultRange(v any) (string, string) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", ""
	}
	return defaultString(m["start"]), defaultString(m["end"])
}
