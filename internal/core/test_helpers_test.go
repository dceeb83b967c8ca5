package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestLobby() *Lobby {
	logger := zerolog.Nop()
	return NewLobby(nil, HandoffInfo{
		BridgeIdentity: "exec-test",
		Endpoints:      []string{"ws://127.0.0.1:9090"},
	}, &logger)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}
