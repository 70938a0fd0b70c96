package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/canvas"
)

// Command names accepted by POST /api/commands.
const (
	CmdClear           = "clear"
	CmdToggleCamera    = "toggle_camera"
	CmdSelectTool      = "select_tool"
	CmdSetColor        = "set_color"
	CmdSetWidth        = "set_width"
	CmdShowHelp        = "show_help"
	CmdHideHelp        = "hide_help"
	CmdOpenTemplates   = "open_templates"
	CmdCloseTemplates  = "close_templates"
	CmdSelectTemplate  = "select_template"
	CmdIncludeTemplate = "include_template"
	CmdResize          = "resize"
	CmdViewport        = "viewport"
)

var errMissingField = errors.New("missing field")

// CommandHandler applies UI commands to the session.
type CommandHandler struct {
	ctrl Controller
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(c Controller) *CommandHandler {
	return &CommandHandler{ctrl: c}
}

type commandRequest struct {
	Command  string   `json:"command"`
	Tool     string   `json:"tool,omitempty"`
	Color    string   `json:"color,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Template string   `json:"template,omitempty"`
	Enabled  *bool    `json:"enabled,omitempty"`
}

type commandResponse struct {
	Command string `json:"command"`
	// Applied is false when the command was valid but changed nothing, such
	// as selecting a template that does not exist.
	Applied bool `json:"applied"`
	statusResponse
}

// ServeHTTP handles POST /api/commands.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	applied, err := h.apply(req)
	switch {
	case errors.Is(err, app.ErrCaptureUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{
		Command:        req.Command,
		Applied:        applied,
		statusResponse: newStatusResponse(h.ctrl),
	})
}

// apply runs one command. Commands that change tool settings also persist
// them; a failed save is logged and does not fail the command.
func (h *CommandHandler) apply(req commandRequest) (bool, error) {
	s := h.ctrl.Session()

	switch req.Command {
	case CmdClear:
		s.Clear()
	case CmdToggleCamera:
		if _, err := h.ctrl.ToggleCamera(); err != nil {
			return false, err
		}
	case CmdSelectTool:
		t, err := canvas.ParseTool(req.Tool)
		if err != nil {
			return false, err
		}
		if err := s.SelectTool(t); err != nil {
			return false, err
		}
		h.savePreferences()
	case CmdSetColor:
		if req.Color == "" {
			return false, fmt.Errorf("%w: color", errMissingField)
		}
		if err := s.SetColor(req.Color); err != nil {
			return false, err
		}
		h.savePreferences()
	case CmdSetWidth:
		if req.Width == nil {
			return false, fmt.Errorf("%w: width", errMissingField)
		}
		if err := s.SetWidth(*req.Width); err != nil {
			return false, err
		}
		h.savePreferences()
	case CmdShowHelp, CmdHideHelp:
		s.SetHelpVisible(req.Command == CmdShowHelp)
	case CmdOpenTemplates, CmdCloseTemplates:
		s.SetTemplatesOpen(req.Command == CmdOpenTemplates)
	case CmdSelectTemplate:
		return s.LoadTemplate(req.Template), nil
	case CmdIncludeTemplate:
		if req.Enabled == nil {
			return false, fmt.Errorf("%w: enabled", errMissingField)
		}
		s.SetIncludeTemplate(*req.Enabled)
		h.savePreferences()
	case CmdResize, CmdViewport:
		w, hgt, err := req.dimensions()
		if err != nil {
			return false, err
		}
		// viewport carries the host window size; the canvas is fitted into it.
		size := canvas.Size{Width: w, Height: hgt}
		if req.Command == CmdViewport {
			size = canvas.FitViewport(w, hgt)
		}
		if !size.Valid() {
			return false, fmt.Errorf("%w: %s", canvas.ErrInvalidSize, size)
		}
		if err := h.ctrl.Resize(size); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %q", req.Command)
	}
	return true, nil
}

// dimensions returns width and height as whole pixels. Values beyond what a
// canvas can hold are rejected before conversion.
func (r commandRequest) dimensions() (int, int, error) {
	if r.Width == nil || r.Height == nil {
		return 0, 0, fmt.Errorf("%w: width and height", errMissingField)
	}
	limit := float64(canvas.MaxDimension * 4)
	for _, v := range []float64{*r.Width, *r.Height} {
		if math.IsNaN(v) || v < 1 || v > limit {
			return 0, 0, fmt.Errorf("%w: %vx%v", canvas.ErrInvalidSize, *r.Width, *r.Height)
		}
	}
	return int(*r.Width), int(*r.Height), nil
}

func (h *CommandHandler) savePreferences() {
	if err := h.ctrl.SavePreferences(); err != nil {
		slog.Warn("failed to save preferences", "error", err)
	}
}
