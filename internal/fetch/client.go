// Package fetch is the data-fetch boundary widgets pull their rows
// and series through. The engine passes widget params merged with the
// RuleSet's backend processing hints; the client encodes them as a
// query string. An HTTP client and a canned mock client both satisfy
// the interface.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// Client fetches JSON from an endpoint. params and hints are merged
// into the query string, hints winning on key collisions.
type Client interface {
	Fetch(ctx context.Context, endpoint string, params, hints map[string]any) (any, error)
}

// Error is a typed fetch failure carrying the upstream status.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch failed (status %d): %s", e.Status, e.Reason)
}

// EncodeQuery merges params and hints and renders them as
// URL-encoded key=value pairs joined by &, in sorted key order so the
// output is deterministic.
func EncodeQuery(params, hints map[string]any) string {
	merged := make(map[string]any, len(params)+len(hints))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range hints {
		merged[k] = v
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf []byte
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, url.QueryEscape(k)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(stringify(merged[k]))...)
	}
	return string(buf)
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Whole numbers render without a trailing ".0" so limits and
		// page sizes look like integers on the wire.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []string:
		out := ""
		for i, s := range val {
			if i > 0 {
				out += ","
			}
			out += s
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}
