package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s *Stream) []Event {
	t.Helper()
	var out []Event
	for ev := range s.Events() {
		out = append(out, ev)
	}
	return out
}

func TestStream_EmitChunkedPreservesContent(t *testing.T) {
	s := NewStream(16)
	ctx := context.Background()

	go func() {
		require.NoError(t, s.EmitChunked(ctx, "researcher", "this is a longer message body"))
		s.Close()
	}()

	events := drain(t, s)
	require.NotEmpty(t, events)

	var rebuilt string
	var full string
	for _, ev := range events {
		switch ev.Tag {
		case TagMessage:
			var d MessageData
			require.NoError(t, json.Unmarshal(ev.Data, &d))
			rebuilt += d.Delta.Content
		case TagFullMessage:
			var d MessageData
			require.NoError(t, json.Unmarshal(ev.Data, &d))
			full = d.Delta.Content
		}
	}
	assert.Equal(t, "this is a longer message body", rebuilt)
	assert.Equal(t, "this is a longer message body", full)
	assert.Equal(t, events[len(events)-1].Tag, TagFullMessage)
}

func TestStream_EmitBlocksUntilCanceled(t *testing.T) {
	s := NewStream(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Emit(ctx, StartOfWorkflow("wf-1", nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSuppressesMessages(t *testing.T) {
	assert.True(t, SuppressesMessages("handoff_to_planner"))
	assert.True(t, SuppressesMessages("  handoff_to_planner"))
	assert.False(t, SuppressesMessages("here is my answer"))
}
