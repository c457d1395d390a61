package model

import (
	"context"
	"testing"
	"time"
)

// streamingEngine emits count events, or stops early when the consumer
// reports an error. done closes when the producer call returns.
type streamingEngine struct {
	*fakeEngine
	count int
	done  chan struct{}
}

func (s *streamingEngine) StreamQuery(ctx context.Context, userID, sessionID, message string, fn StreamFunc) error {
	defer close(s.done)
	for i := 0; i < s.count; i++ {
		event := Event{Content: Content{
			Role:  "model",
			Parts: []Part{{Text: "chunk"}},
		}}
		if err := fn(event); err != nil {
			return err
		}
	}
	return nil
}

func TestSendMessageStreamsToCompletion(t *testing.T) {
	fake := &streamingEngine{fakeEngine: newFakeEngine(), count: 3, done: make(chan struct{})}
	m := NewModel(nil, fake, nil, "u1", "", "")

	events := 0
	msg := m.SendMessage("s1", "hi")()
	for {
		switch msg.(type) {
		case StreamEventMsg:
			events++
		case StreamDoneMsg:
			if events != 3 {
				t.Fatalf("got %d events, want 3", events)
			}
			return
		default:
			t.Fatalf("unexpected message %T", msg)
		}
		msg = m.AwaitStream()()
	}
}

// Swapping the engine mid-stream must release the producer goroutine even
// though nothing drains the channel anymore.
func TestSwapEngineReleasesStream(t *testing.T) {
	fake := &streamingEngine{fakeEngine: newFakeEngine(), count: 100, done: make(chan struct{})}
	m := NewModel(nil, fake, nil, "u1", "", "")

	cmd := m.SendMessage("s1", "hi")
	if _, ok := cmd().(StreamEventMsg); !ok {
		t.Fatal("expected the first streamed event")
	}

	m.SwapEngine(newFakeEngine())

	select {
	case <-fake.done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream producer still running after engine swap")
	}
}
