package detector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrServiceNotFound is returned when the MediaPipe service script cannot be
// located.
var ErrServiceNotFound = errors.New("mediapipe service script not found")

const (
	// serviceScript is the landmark service shipped next to the binary.
	serviceScript = "mediapipe_service.py"

	// idleShutdown is how long the service may sit unused before it is
	// stopped. The next Detect starts it again.
	idleShutdown = 30 * time.Second

	// requestQuality is the JPEG quality of frames sent to the service.
	requestQuality = 90
)

// MediaPipeDetector runs hand tracking in a Python MediaPipe subprocess.
// Each request is a 4-byte big-endian length followed by a JPEG frame; each
// reply is one wire frame (see DecodeFrame) terminated by a newline.
type MediaPipeDetector struct {
	config Config
	script string
	python string

	mu   sync.Mutex
	proc *serviceProc
	idle *time.Timer
}

type serviceProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	// logged is closed once stderr reaches EOF; Wait must not run earlier.
	logged chan struct{}
}

// NewMediaPipeDetector resolves the service script and interpreter. The
// subprocess itself is started on the first Detect.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := config.ScriptPath
	if script == "" {
		script = locate(scriptCandidates())
	}
	if script == "" {
		return nil, ErrServiceNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
	}

	python := config.PythonPath
	if python == "" {
		python = locate(venvCandidates())
	}
	if python == "" {
		python = "python3"
	}

	return &MediaPipeDetector{config: config, script: script, python: python}, nil
}

// Detect sends one frame to the service and returns the hands it reports.
// A failed exchange stops the service so that the next call starts afresh.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{int(gocv.IMWriteJpegQuality), requestQuality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.startLocked(); err != nil {
		return nil, err
	}

	hands, err := d.proc.exchange(buf.GetBytes())
	if err != nil {
		d.proc.cmd.Process.Kill()
		if stopErr := d.stopLocked(); stopErr != nil {
			slog.Debug("mediapipe service exit", "error", stopErr)
		}
		return nil, err
	}

	if limit := d.config.MaxHands; limit > 0 && len(hands) > limit {
		hands = hands[:limit]
	}
	d.touchLocked()
	return hands, nil
}

// Close stops the service.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *MediaPipeDetector) startLocked() error {
	if d.proc != nil {
		return nil
	}

	cmd := exec.Command(d.python, d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		logLines(stderr)
	}()

	d.proc = &serviceProc{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout), logged: logged}
	slog.Info("mediapipe service started", "python", d.python, "script", d.script)
	return nil
}

func (d *MediaPipeDetector) stopLocked() error {
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}
	if d.proc == nil {
		return nil
	}

	p := d.proc
	d.proc = nil
	p.stdin.Close()
	<-p.logged
	return p.cmd.Wait()
}

// touchLocked restarts the idle countdown.
func (d *MediaPipeDetector) touchLocked() {
	if d.idle != nil {
		d.idle.Stop()
	}
	d.idle = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.stopLocked(); err != nil {
			slog.Warn("mediapipe service exited with error", "error", err)
		}
	})
}

func (p *serviceProc) exchange(jpeg []byte) ([]HandLandmarks, error) {
	if err := writeRequest(p.stdin, jpeg); err != nil {
		return nil, err
	}
	line, err := p.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return DecodeFrame(line)
}

// writeRequest frames payload with its length.
func writeRequest(w io.Writer, payload []byte) error {
	msg := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(msg, uint32(len(payload)))
	copy(msg[4:], payload)
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

func logLines(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		slog.Debug("mediapipe", "line", sc.Text())
	}
}

func scriptCandidates() []string {
	paths := []string{
		filepath.Join("scripts", serviceScript),
		filepath.Join("..", "scripts", serviceScript),
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "scripts", serviceScript))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".airsketch", "scripts", serviceScript))
	}
	return paths
}

func venvCandidates() []string {
	paths := []string{
		filepath.Join("venv", "bin", "python"),
		filepath.Join("..", "venv", "bin", "python"),
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "venv", "bin", "python"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".airsketch", "venv", "bin", "python"))
	}
	return paths
}

// locate returns the absolute form of the first existing path.
func locate(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}
