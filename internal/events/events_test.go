package events

import (
	"encoding/json"
	"testing"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.Publish(New("req-1", TypeJobCreated, map[string]string{"job_uid": "lever_1"}))

	for _, ch := range []chan Event{a, b} {
		select {
		case e := <-ch:
			if e.Type != TypeJobCreated || e.RequestID != "req-1" || e.Version != 1 {
				t.Fatalf("event = %+v", e)
			}
			var data map[string]string
			if err := json.Unmarshal(e.Data, &data); err != nil {
				t.Fatal(err)
			}
			if data["job_uid"] != "lever_1" {
				t.Fatalf("data = %v", data)
			}
		default:
			t.Fatal("subscriber missed the event")
		}
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(New("", TypeJobClosed, nil))
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("buffered = %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestEventJSONEnvelope(t *testing.T) {
	e := New("", TypeFetchStarted, map[string]int{"total": 3})
	var got Event
	if err := json.Unmarshal(e.JSON(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeFetchStarted || got.Version != 1 || got.At.IsZero() {
		t.Fatalf("round trip = %+v", got)
	}
}
