package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/store"
)

// DownloadHandler serves the flattened drawing as a PNG attachment.
type DownloadHandler struct {
	ctrl Controller
}

// NewDownloadHandler creates a DownloadHandler.
func NewDownloadHandler(c Controller) *DownloadHandler {
	return &DownloadHandler{ctrl: c}
}

// ServeHTTP handles GET /api/export.
func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	res, err := h.ctrl.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export drawing")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// ExportLogHandler handles HTTP requests for the export log.
type ExportLogHandler struct {
	store *store.Store
}

// NewExportLogHandler creates an ExportLogHandler with the given store.
func NewExportLogHandler(s *store.Store) *ExportLogHandler {
	return &ExportLogHandler{store: s}
}

type listExportsResponse struct {
	Exports []*store.ExportRecord `json:"exports"`
}

// ServeHTTP routes /api/exports and /api/exports/{id}.
func (h *ExportLogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/exports")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.list(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// list handles GET /api/exports?limit=N.
func (h *ExportLogHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	records, err := h.store.Exports().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}
	if records == nil {
		records = []*store.ExportRecord{}
	}
	writeJSON(w, http.StatusOK, listExportsResponse{Exports: records})
}

func (h *ExportLogHandler) get(w http.ResponseWriter, id string) {
	rec, err := h.store.Exports().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Export not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get export")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *ExportLogHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Exports().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Export not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete export")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
