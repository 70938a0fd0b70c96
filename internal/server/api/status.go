package api

import "net/http"

// StatusHandler reports camera, canvas and tool state.
type StatusHandler struct {
	ctrl Controller
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(c Controller) *StatusHandler {
	return &StatusHandler{ctrl: c}
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(h.ctrl))
}
