package httpapi

import (
	"bufio"
	"encoding/json"
	"net/http"

	"github.com/coragent/coor-agent/event"
)

// writeNDJSON drains stream and writes one JSON object per line,
// flushing after every event so a client sees each one as it arrives
// rather than buffered until the response closes.
func writeNDJSON(w http.ResponseWriter, stream *event.Stream) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for ev := range stream.Events() {
		eventsEmittedTotal.WithLabelValues(string(ev.Tag)).Inc()
		if err := enc.Encode(ev); err != nil {
			return
		}
		if err := bw.Flush(); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
