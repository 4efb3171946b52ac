package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish("hello")

	select {
	case msg := <-ch:
		assert.Equal(t, "hello", msg)
	default:
		t.Fatal("expected buffered message")
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < 50; i++ {
		h.Publish("evt")
	}
	// buffer is bounded; publish never blocked to get here
	assert.LessOrEqual(t, len(ch), cap(ch))
}

func TestMakeEvent_Envelope(t *testing.T) {
	s := MakeEvent(TypeRunCompleted, map[string]any{"new": 3})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(s), &e))
	assert.Equal(t, TypeRunCompleted, e.Type)
	assert.Equal(t, 1, e.Version)
	assert.False(t, e.At.IsZero())
	assert.JSONEq(t, `{"new":3}`, string(e.Data))
}
