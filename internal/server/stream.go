package server

import (
	"fmt"
	"net/http"
	"time"
)

// streamInterval paces the preview stream at roughly 15 frames per second.
const streamInterval = 66 * time.Millisecond

// PreviewSource supplies encoded preview frames. ok is false when nothing
// newer than after is available.
type PreviewSource interface {
	Preview(after uint64) (data []byte, seq uint64, ok bool)
}

// StreamHandler serves the camera preview as MJPEG.
type StreamHandler struct {
	source PreviewSource
}

// NewStreamHandler creates a new StreamHandler reading from source.
func NewStreamHandler(source PreviewSource) *StreamHandler {
	return &StreamHandler{source: source}
}

// ServeHTTP streams MJPEG frames until the client disconnects. Frames are
// written only when the pipeline has produced a new one.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq, ok := h.source.Preview(last)
		if !ok {
			continue
		}
		last = seq

		if err := writePart(w, data); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
