package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPublishEncodesEvent(t *testing.T) {
	h := NewHub(nil)
	h.Publish(Event{Action: "sale_created", ProductCodes: []string{"GT-1"}, Message: "sold"})

	select {
	case msg := <-h.Broadcast:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev.Type != TypeStockUpdate {
			t.Fatalf("type = %q, want %q", ev.Type, TypeStockUpdate)
		}
		if ev.Action != "sale_created" || len(ev.ProductCodes) != 1 || ev.ProductCodes[0] != "GT-1" {
			t.Fatalf("unexpected event %+v", ev)
		}
		if ev.At.IsZero() {
			t.Fatal("timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("event was not broadcast")
	}
}

func TestPublishOnNilHub(t *testing.T) {
	var h *Hub
	h.Publish(Event{Action: "noop"})
}

func TestClientCountStartsEmpty(t *testing.T) {
	if got := NewHub(nil).ClientCount(); got != 0 {
		t.Fatalf("ClientCount() = %d, want 0", got)
	}
}
