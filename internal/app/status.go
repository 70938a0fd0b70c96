package app

import "sync"

// CameraState is the user-visible capture state.
type CameraState string

const (
	CameraActive      CameraState = "active"
	CameraStopped     CameraState = "stopped"
	CameraUnavailable CameraState = "unavailable"
)

// Status describes the camera for the UI.
type Status struct {
	Camera CameraState `json:"camera"`
	Error  string      `json:"error,omitempty"`
	FPS    int         `json:"fps,omitempty"`
}

// previewBuffer holds the most recent preview frame.
type previewBuffer struct {
	mu   sync.RWMutex
	data []byte
	seq  uint64
}

func (p *previewBuffer) set(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
	p.seq++
}

func (p *previewBuffer) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = nil
}

func (p *previewBuffer) next(after uint64) ([]byte, uint64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.data == nil || p.seq <= after {
		return nil, p.seq, false
	}
	return p.data, p.seq, true
}
