package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/session"
)

var testSize = canvas.Size{Width: 200, Height: 150}

func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	a := app.New(app.Config{
		Session:  session.New(testSize),
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
	})
	t.Cleanup(a.Close)
	s := New(Config{App: a})
	t.Cleanup(s.Close)
	return s, a
}

func frame(t *testing.T, x, y float64, pinching bool) []byte {
	t.Helper()
	msg, err := detector.EncodeFrame([]detector.HandLandmarks{detector.HandPose(x, y, pinching)})
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}
	return msg
}

func TestServer_Canvas(t *testing.T) {
	s, a := newTestServer(t)
	a.Submit([]detector.HandLandmarks{detector.HandPose(0.1, 0.5, true)})
	a.Submit([]detector.HandLandmarks{detector.HandPose(0.9, 0.5, true)})

	req := httptest.NewRequest(http.MethodGet, "/api/canvas", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	// The live canvas is not mirrored: the stroke sits where it was drawn.
	if _, _, _, alpha := img.At(100, 75).RGBA(); alpha == 0 {
		t.Error("stroke should be visible in the live canvas")
	}
}

func TestLandmarksHandler_Drawing(t *testing.T) {
	s, a := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/landmarks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// no hand, pinch, pinch, release, malformed, pinch
	msgs := [][]byte{
		[]byte(`{"hands":[]}`),
		frame(t, 0.05, 0.1, true),
		frame(t, 0.10, 0.1, true),
		frame(t, 0.20, 0.2, false),
		[]byte(`not json`),
		frame(t, 0.30, 0.3, true),
	}

	var got []effectsMessage
	for _, m := range msgs {
		if err := conn.WriteMessage(websocket.TextMessage, m); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, reply, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var fx effectsMessage
		if err := json.Unmarshal(reply, &fx); err != nil {
			t.Fatalf("reply %s: %v", reply, err)
		}
		got = append(got, fx)
	}

	wantIntent := []gesture.Intent{gesture.NoIntent, gesture.Pinching, gesture.Pinching, gesture.NotPinching, gesture.NoIntent, gesture.Pinching}
	for i, fx := range got {
		if fx.Intent != wantIntent[i] {
			t.Errorf("frame %d intent = %s, want %s", i, fx.Intent, wantIntent[i])
		}
		if (fx.Segment != nil) != (i == 2) {
			t.Errorf("frame %d segment = %v, want one only on frame 2", i, fx.Segment)
		}
	}
	if seg := got[2].Segment; seg != nil && (math.Abs(seg.From.X-10) > 1e-9 || math.Abs(seg.To.X-20) > 1e-9) {
		t.Errorf("segment = %+v, want x 10 -> 20", *seg)
	}
	if got[4].State != gesture.PenUp || got[4].Indicator.Visible {
		t.Errorf("malformed frame = %+v, want pen up without indicator", got[4].Effects)
	}

	if frames := a.Session().State().Frames; frames != uint64(len(msgs)) {
		t.Errorf("session frames = %d, want %d", frames, len(msgs))
	}
}

func TestLandmarksHandler_Broadcast(t *testing.T) {
	s, a := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/landmarks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.landmarks.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// Frames from the camera pipeline reach WebSocket clients too.
	a.Submit([]detector.HandLandmarks{detector.OpenHandLandmarks()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var fx effectsMessage
	if err := json.Unmarshal(reply, &fx); err != nil {
		t.Fatal(err)
	}
	if fx.Intent != gesture.NotPinching || !fx.Indicator.Visible || fx.Timestamp == 0 {
		t.Errorf("broadcast = %s, want hover with indicator", reply)
	}
}

type fakePreview struct {
	mu     sync.Mutex
	frames [][]byte
	seq    uint64
}

func (f *fakePreview) Preview(after uint64) ([]byte, uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(f.seq) >= len(f.frames) || f.seq < after {
		return nil, f.seq, false
	}
	data := f.frames[f.seq]
	f.seq++
	return data, f.seq, true
}

func TestStreamHandler(t *testing.T) {
	src := &fakePreview{frames: [][]byte{[]byte("jpeg-1"), []byte("jpeg-2")}}
	h := NewStreamHandler(src)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %s", ct)
	}
	body := rec.Body.String()
	if n := strings.Count(body, "--frame\r\n"); n != 2 {
		t.Errorf("wrote %d parts, want 2:\n%s", n, body)
	}
	if !strings.Contains(body, "Content-Length: 6\r\n\r\njpeg-1\r\n") {
		t.Errorf("first part malformed:\n%s", body)
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(&fakePreview{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
