// Package jsontree provides a drill-down navigator and in-place
// editor over an arbitrary JSON document. The navigator tracks a
// cursor (a key path from the root) and per-path expansion state;
// edits parse a raw literal and rewrite the document through
// copy-on-write path replacement, so the pre-edit document is never
// mutated.
package jsontree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/matthewbaird/dashkit/internal/jsonpath"
)

// ErrInvalidPath reports a navigation target that does not resolve in
// the current document.
type ErrInvalidPath struct {
	Path string
}

func (e *ErrInvalidPath) Error() string {
	return fmt.Sprintf("invalid path %q", e.Path)
}

// Node is the rendered form of the value at a path. Composite values
// list their entries with child summaries; leaves carry their literal
// JSON representation.
type Node struct {
	Path     string  `json:"path"`
	Kind     string  `json:"kind"` // "object", "array", or "leaf"
	Key      string  `json:"key,omitempty"`
	Value    string  `json:"value,omitempty"` // literal JSON, leaves only
	Entries  []Entry `json:"entries,omitempty"`
	Editing  bool    `json:"editing,omitempty"`
	Expanded bool    `json:"expanded,omitempty"`
}

// Entry is one child of a composite node: either a leaf with its
// literal value or a collapsed summary of a nested composite.
type Entry struct {
	Key      string `json:"key"`
	Leaf     bool   `json:"leaf"`
	Value    string `json:"value,omitempty"`   // literal JSON, leaves only
	Summary  string `json:"summary,omitempty"` // "{ Object }" or "[ Array (n) ]"
	Path     string `json:"path"`
	Expanded bool   `json:"expanded,omitempty"`
	Editing  bool   `json:"editing,omitempty"`
}

// Breadcrumb is one segment of the path back to the root.
type Breadcrumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigator walks and edits one document. Not safe for concurrent
// use; the engine runs navigation and edits on a single event at a
// time.
type Navigator struct {
	doc      map[string]any
	cursor   []string
	expanded map[string]bool
	editing  map[string]bool
}

// New creates a Navigator positioned at the document root.
func New(doc map[string]any) *Navigator {
	return &Navigator{
		doc:      doc,
		expanded: make(map[string]bool),
		editing:  make(map[string]bool),
	}
}

// Document returns the current document. After a successful Edit this
// is the new document; callers adopt it explicitly.
func (n *Navigator) Document() map[string]any { return n.doc }

// Cursor returns the current navigation path.
func (n *Navigator) Cursor() []string {
	out := make([]string, len(n.cursor))
	copy(out, n.cursor)
	return out
}

// Navigate moves the cursor to path. A path that does not resolve is
// an ErrInvalidPath and leaves the cursor on its last valid position.
func (n *Navigator) Navigate(path []string) error {
	if _, ok := jsonpath.Get(n.doc, path); !ok {
		return &ErrInvalidPath{Path: jsonpath.Join(path)}
	}
	n.cursor = append([]string(nil), path...)
	return nil
}

// NavigateDotted is Navigate with a dotted path string.
func (n *Navigator) NavigateDotted(dotted string) error {
	return n.Navigate(jsonpath.Parse(dotted))
}

// Breadcrumbs returns the trail from the root to the cursor.
func (n *Navigator) Breadcrumbs() []Breadcrumb {
	crumbs := []Breadcrumb{{Label: "Root", Path: ""}}
	for i, seg := range n.cursor {
		crumbs = append(crumbs, Breadcrumb{
			Label: seg,
			Path:  jsonpath.Join(n.cursor[:i+1]),
		})
	}
	return crumbs
}

// ToggleExpand flips the expansion flag for a path, independent of
// the cursor.
func (n *Navigator) ToggleExpand(dotted string) {
	n.expanded[dotted] = !n.expanded[dotted]
}

// StartEdit marks a path as being edited. Only meaningful for leaves.
func (n *Navigator) StartEdit(dotted string) { n.editing[dotted] = true }

// CancelEdit clears a path's editing flag without touching the
// document.
func (n *Navigator) CancelEdit(dotted string) { delete(n.editing, dotted) }

// Render describes the value at the cursor.
func (n *Navigator) Render() Node {
	dotted := jsonpath.Join(n.cursor)
	value, ok := jsonpath.Get(n.doc, n.cursor)
	if !ok {
		// The document changed underneath the cursor; report rather
		// than crash, per the navigation error contract.
		return Node{Path: dotted, Kind: "leaf", Value: "null"}
	}

	key := "Root Value"
	if len(n.cursor) > 0 {
		key = n.cursor[len(n.cursor)-1]
	}

	switch v := value.(type) {
	case map[string]any:
		return Node{
			Path:     dotted,
			Kind:     "object",
			Key:      key,
			Entries:  n.objectEntries(dotted, v),
			Expanded: n.expanded[dotted],
		}
	case []any:
		return Node{
			Path:     dotted,
			Kind:     "array",
			Key:      key,
			Entries:  n.arrayEntries(dotted, v),
			Expanded: n.expanded[dotted],
		}
	default:
		return Node{
			Path:    dotted,
			Kind:    "leaf",
			Key:     key,
			Value:   literal(v),
			Editing: n.editing[dotted],
		}
	}
}

// Edit parses rawText as a single JSON value and replaces the value
// at path, producing a new document whose ancestors along the path
// are copies and whose unrelated subtrees are shared with the old
// one. On parse failure the document is untouched and the original
// value is preserved. The editing flag for the path is cleared either
// way.
func (n *Navigator) Edit(dotted string, rawText string) error {
	defer n.CancelEdit(dotted)

	var value any
	if err := json.Unmarshal([]byte(rawText), &value); err != nil {
		return fmt.Errorf("jsontree: unparsable literal: %w", err)
	}

	updated, err := jsonpath.SetDotted(n.doc, dotted, value)
	if err != nil {
		return fmt.Errorf("jsontree: %w", err)
	}
	n.doc = updated.(map[string]any)
	return nil
}

func (n *Navigator) objectEntries(base string, obj map[string]any) []Entry {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, n.entry(childPath(base, k), k, obj[k]))
	}
	return entries
}

func (n *Navigator) arrayEntries(base string, arr []any) []Entry {
	entries := make([]Entry, 0, len(arr))
	for i, v := range arr {
		k := strconv.Itoa(i)
		entries = append(entries, n.entry(childPath(base, k), k, v))
	}
	return entries
}

func (n *Navigator) entry(path, key string, value any) Entry {
	switch v := value.(type) {
	case map[string]any:
		return Entry{Key: key, Path: path, Summary: "{ Object }", Expanded: n.expanded[path]}
	case []any:
		return Entry{Key: key, Path: path, Summary: fmt.Sprintf("[ Array (%d) ]", len(v)), Expanded: n.expanded[path]}
	default:
		return Entry{Key: key, Path: path, Leaf: true, Value: literal(v), Editing: n.editing[path]}
	}
}

func childPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// literal renders a scalar as its JSON representation.
func literal(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
