// Package eventbus provides an in-process pub/sub bus for document
// change events. Mutation paths publish after the state swap;
// subscribers (the live-view sessions) process asynchronously.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/matthewbaird/dashkit/internal/event"
)

// Handler processes a document change. Implementations must be safe
// for concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.DocumentChanged) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.DocumentChanged) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.DocumentChanged) error {
	return f(ctx, evt)
}

// Bus is a simple in-process event bus. Events are published to a
// buffered channel and dispatched to all subscribers from a single
// consumer goroutine, which serialises re-resolution work.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.DocumentChanged
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 64
	}
	return &Bus{
		events: make(chan event.DocumentChanged, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Unsubscribe removes a previously registered handler by name.
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subscribers[:0]
	for _, s := range b.subscribers {
		if s.name != name {
			kept = append(kept, s)
		}
	}
	b.subscribers = kept
}

// Publish sends an event to the bus. Non-blocking — if the buffer is
// full the event is dropped and a warning is logged.
func (b *Bus) Publish(_ context.Context, evt event.DocumentChanged) {
	select {
	case b.events <- evt:
	default:
		log.Printf("eventbus: buffer full, dropping change for %s", evt.Name)
	}
}

// Start begins the consumer goroutine. It processes events until the
// context is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				// Drain remaining events before exiting.
				for {
					select {
					case evt := <-b.events:
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.DocumentChanged) {
	b.mu.RLock()
	subs := make([]namedHandler, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			log.Printf("eventbus: %s handler error for %s: %v", s.name, evt.Name, err)
		}
	}
}
