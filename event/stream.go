package event

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// chunkRunes is the fixed chunk size used when a node's final message
// arrives as a single string instead of an LM token stream.
const chunkRunes = 10

// Stream is a single-producer, single-consumer channel of Events. The
// producer blocks at Emit when the consumer is slow; there is no
// internal buffering beyond the channel's own capacity, so node-internal
// LM streaming can never grow unboundedly ahead of a slow reader.
type Stream struct {
	ch chan Event
}

// NewStream creates a Stream with the given channel capacity. A capacity
// of 0 yields an unbuffered channel, the strictest form of back-pressure.
func NewStream(capacity int) *Stream {
	return &Stream{ch: make(chan Event, capacity)}
}

// Emit sends ev to the consumer, blocking until there's room or ctx is
// canceled. A canceled context while emitting is how a dropped consumer
// propagates back into the run as a cancellation.
func (s *Stream) Emit(ctx context.Context, ev Event) error {
	select {
	case s.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events returns the read side of the stream for the consumer.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Close signals no further events will be emitted.
func (s *Stream) Close() {
	close(s.ch)
}

// EmitChunked splits content into fixed-size rune chunks, emitting a
// message event per chunk, then a single full_message event carrying the
// untouched concatenation. It is used when a node produced its reply as
// one string (no native LM token stream to piggyback on), so the caller
// still sees incremental progress.
func (s *Stream) EmitChunked(ctx context.Context, agentName, content string) error {
	messageID := uuid.NewString()
	runes := []rune(content)

	for i := 0; i < len(runes); i += chunkRunes {
		end := i + chunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		if err := s.Emit(ctx, Message(agentName, messageID, Delta{Content: string(runes[i:end])})); err != nil {
			return err
		}
	}

	return s.Emit(ctx, FullMessage(agentName, messageID, content))
}

// SuppressesMessages reports whether a node's reply must hide its
// message/full_message events, keeping only start_of_agent/end_of_agent
// visible. The coordinator's handoff reply is the only case today: a
// handoff is routing metadata, not a user-facing answer.
func SuppressesMessages(reply string) bool {
	return strings.HasPrefix(strings.TrimSpace(reply), "handoff")
}
