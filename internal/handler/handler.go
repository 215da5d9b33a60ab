package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"fibremap/internal/codec"
	"fibremap/internal/service"
)

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ViewHandler handles view session API requests
type ViewHandler struct {
	svc *service.ViewService
}

// NewViewHandler creates a new view handler
func NewViewHandler(svc *service.ViewService) *ViewHandler {
	return &ViewHandler{svc: svc}
}

// Register adds the view routes to mux
func (h *ViewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/graph", h.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
	mux.HandleFunc("POST /api/sessions/{id}/click", h.Click)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.CloseSession)
	mux.HandleFunc("GET /api/sessions/{id}/export/{format}", h.Export)
	mux.HandleFunc("GET /api/topology", h.GetTopology)
	mux.HandleFunc("GET /health", h.Health)
}

// OpenSession opens a view for the page the browser loaded. The optional
// page parameter carries the full page URL; otherwise the request's own
// query (including from_device) stands in for it.
func (h *ViewHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	req := OpenRequest{Page: r.URL.Query().Get("page")}
	if err := validateRequest(&req); err != nil {
		writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	page := req.Page
	if page == "" {
		page = "/"
		if r.URL.RawQuery != "" {
			page += "?" + r.URL.RawQuery
		}
	}

	v, err := h.svc.OpenSession(page)
	if err != nil {
		writeError(w, "Invalid page URL", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, v, http.StatusCreated)
}

// GetSession returns the current view of a session
func (h *ViewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Snapshot(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "Failed to get session", err)
		return
	}

	writeJSON(w, v, http.StatusOK)
}

// Click applies a node click to a session
func (h *ViewHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Click(r.PathValue("id"), req.NodeID)
	if err != nil {
		writeServiceError(w, "Failed to apply click", err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// CloseSession closes a session
func (h *ViewHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(r.PathValue("id")); err != nil {
		writeServiceError(w, "Failed to close session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export downloads the rendered graph of a session
func (h *ViewHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := r.PathValue("format")

	// Render into a buffer so failures can still produce an error response
	var buf bytes.Buffer
	if err := h.svc.Export(id, format, &buf); err != nil {
		writeServiceError(w, "Failed to export graph", err)
		return
	}

	// Export succeeded, so the format is known
	exporter := codec.ForFormat(format)
	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=fibremap-%s.%s", id, exporter.Format()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}

// GetTopology returns record counts of the loaded topology
func (h *ViewHandler) GetTopology(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Stats(), http.StatusOK)
}

// Health reports liveness
func (h *ViewHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Helper functions

func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownFormat):
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: %v", msg, err)
		writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
