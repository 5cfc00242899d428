package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matthewbaird/dashkit/internal/event"
)

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := New(8)

	var mu sync.Mutex
	got := map[string][]string{}
	record := func(sub string) HandlerFunc {
		return func(_ context.Context, evt event.DocumentChanged) error {
			mu.Lock()
			got[sub] = append(got[sub], evt.Name)
			mu.Unlock()
			return nil
		}
	}
	bus.Subscribe("a", record("a"))
	bus.Subscribe("b", record("b"))
	bus.Start(ctx)

	bus.Publish(ctx, event.New("ruleset", event.SourceAPI))
	bus.Publish(ctx, event.New("preferences", event.SourceAPI))

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		done := len(got["a"]) == 2 && len(got["b"]) == 2
		mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for delivery, got %v", got)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	for _, sub := range []string{"a", "b"} {
		if got[sub][0] != "ruleset" || got[sub][1] != "preferences" {
			t.Errorf("subscriber %s saw %v, want [ruleset preferences]", sub, got[sub])
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := New(8)

	delivered := make(chan string, 8)
	bus.Subscribe("gone", HandlerFunc(func(_ context.Context, evt event.DocumentChanged) error {
		delivered <- "gone:" + evt.Name
		return nil
	}))
	bus.Subscribe("kept", HandlerFunc(func(_ context.Context, evt event.DocumentChanged) error {
		delivered <- "kept:" + evt.Name
		return nil
	}))
	bus.Unsubscribe("gone")
	bus.Start(ctx)

	bus.Publish(ctx, event.New("catalog", event.SourceWatcher))

	select {
	case msg := <-delivered:
		if msg != "kept:catalog" {
			t.Errorf("got %q, want kept:catalog", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	select {
	case msg := <-delivered:
		t.Errorf("unexpected extra delivery %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
