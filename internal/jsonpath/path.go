// Package jsonpath provides get/set-by-path operations over generic
// JSON documents (map[string]any / []any trees as produced by
// encoding/json). Set is copy-on-write: ancestors along the edited
// path are copied, siblings are shared with the original document.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse splits a dotted path string into segments. An empty string
// yields a nil path, which addresses the document root.
func Parse(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// Join renders a path as its dotted string form.
func Join(path []string) string {
	return strings.Join(path, ".")
}

// Get traverses the document along path. Map segments are looked up
// by key; sequence segments must parse as non-negative integers.
// The second return is false when any segment fails to resolve.
func Get(doc any, path []string) (any, bool) {
	current := doc
	for _, seg := range path {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// GetDotted is Get with a dotted path string.
func GetDotted(doc any, dotted string) (any, bool) {
	return Get(doc, Parse(dotted))
}

// Set returns a new document equal to doc except that the value at
// path is replaced by value. Every container on the path from the
// root to the target is shallow-copied; subtrees off the path are
// shared with the original, which is never mutated.
func Set(doc any, path []string, value any) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("jsonpath: empty path")
	}
	return set(doc, path, value)
}

// SetDotted is Set with a dotted path string.
func SetDotted(doc any, dotted string, value any) (any, error) {
	return Set(doc, Parse(dotted), value)
}

func set(doc any, path []string, value any) (any, error) {
	seg := path[0]
	switch node := doc.(type) {
	case map[string]any:
		child, ok := node[seg]
		if !ok && len(path) > 1 {
			return nil, fmt.Errorf("jsonpath: key %q not found", seg)
		}
		next := value
		if len(path) > 1 {
			replaced, err := set(child, path[1:], value)
			if err != nil {
				return nil, err
			}
			next = replaced
		}
		copied := make(map[string]any, len(node))
		for k, v := range node {
			copied[k] = v
		}
		copied[seg] = next
		return copied, nil
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, fmt.Errorf("jsonpath: index %q out of range", seg)
		}
		next := value
		if len(path) > 1 {
			replaced, err := set(node[idx], path[1:], value)
			if err != nil {
				return nil, err
			}
			next = replaced
		}
		copied := make([]any, len(node))
		copy(copied, node)
		copied[idx] = next
		return copied, nil
	default:
		return nil, fmt.Errorf("jsonpath: segment %q addresses a non-container value", seg)
	}
}
