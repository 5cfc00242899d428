// Package event defines the in-process events the engine emits when a
// configuration document changes, so live views can re-resolve
// without polling the store.
package event

import "time"

// Sources a document change can come from.
const (
	SourceAPI     = "api"     // a PUT or path-edit through the HTTP API
	SourceWatcher = "watcher" // file changed out-of-band on disk
)

// DocumentChanged announces that a named document has been replaced.
type DocumentChanged struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds a DocumentChanged stamped with the current time.
func New(name, source string) DocumentChanged {
	return DocumentChanged{Name: name, Source: source, OccurredAt: time.Now()}
}
