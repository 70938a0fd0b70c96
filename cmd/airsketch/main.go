package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/logging"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tray"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "airsketch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml (default: <data dir>/config.toml)")
	noTray := flag.Bool("no-tray", false, "run without the system tray menu")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *noTray {
		cfg.Tray = false
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	cleanup, err := logging.Setup(logging.Options{
		Level:      level,
		File:       cfg.LogFile(),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sess := session.New(cfg.CanvasSize(), session.WithPreferences(cfg.Preferences()))
	a := app.New(app.Config{
		Session:      sess,
		Store:        st,
		CameraID:     cfg.Camera.Device,
		MediaPipe:    cfg.MediaPipe(),
		MotionThresh: cfg.Camera.MotionThreshold,
	})
	defer a.Close()

	if err := a.LoadPreferences(); err != nil {
		slog.Warn("ignoring saved preferences", "error", err)
	}

	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		slog.Info("serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "session", sess.ID())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cfg.Camera.AutoStart {
		if err := a.StartCamera(); err != nil {
			slog.Warn("camera not started", "error", err)
		}
	}

	if cfg.Tray {
		runTray(ctx, stop, a, cfg)
	} else {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		}
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server shutdown", "error", err)
	}
	return <-serveErr
}

// runTray blocks on the tray menu until Quit is chosen or ctx is done.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, cfg config.Config) {
	t := tray.New()
	url := boardURL(cfg.Addr)

	t.OnToggleCamera(a.ToggleCamera)
	t.OnClear(a.Session().Clear)
	t.OnSave(func() (string, error) {
		return saveDrawing(a, cfg.ExportDir())
	})
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			slog.Warn("failed to open browser", "url", url, "error", err)
		}
	})
	t.OnQuit(stop)

	// Camera changes made over HTTP must show up in the menu too.
	a.OnStatus(func(st app.Status) { trayStatus(t, st) })
	trayStatus(t, a.Status())

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
}

func trayStatus(t *tray.Tray, st app.Status) {
	t.SetCameraOn(st.Camera == app.CameraActive)
	if st.Camera == app.CameraUnavailable {
		t.SetStatus("Camera unavailable")
	}
}

// saveDrawing exports the drawing into dir and returns the file name.
func saveDrawing(a *app.App, dir string) (string, error) {
	res, err := a.Export()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, res.Filename), res.Data, 0o644); err != nil {
		return "", fmt.Errorf("write drawing: %w", err)
	}
	return res.Filename, nil
}

func boardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
