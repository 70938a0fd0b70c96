// Package api provides the HTTP handlers for drawing commands, status and
// exports.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/sketch"
)

// Controller is the part of the application the handlers drive.
type Controller interface {
	Session() *session.Session
	Status() app.Status
	ToggleCamera() (bool, error)
	Resize(size canvas.Size) error
	SavePreferences() error
	Export() (*export.Result, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Camera       app.Status    `json:"camera"`
	Session      session.State `json:"session"`
	Templates    []sketch.Name `json:"templates"`
	WidthPresets []float64     `json:"width_presets"`
}

func newStatusResponse(c Controller) statusResponse {
	return statusResponse{
		Camera:       c.Status(),
		Session:      c.Session().State(),
		Templates:    sketch.Catalogue,
		WidthPresets: canvas.WidthPresets,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
