package handler

import (
	"formdocs/internal/export"
	"formdocs/internal/service"

	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// DocumentHandler handles document-generation session endpoints
type DocumentHandler struct {
	documentSvc *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentSvc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// CreateSessionRequest is the request body for opening a session
type CreateSessionRequest struct {
	TemplateID string `json:"templateId"`
	ResponseID string `json:"responseId,omitempty"`
}

// SetValueRequest is the request body for one overlay edit
type SetValueRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SaveRawTextRequest is the request body for saving free-edited text
type SaveRawTextRequest struct {
	Text string `json:"text"`
}

// CreateSession handles POST /v1/documents/sessions
func (h *DocumentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "templateId is required")
		return
	}

	session, err := h.documentSvc.CreateSession(r.Context(), req.TemplateID, req.ResponseID)
	if err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Segments handles GET /v1/documents/sessions/{sessionId}/segments?editing=true
func (h *DocumentHandler) Segments(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	editing := r.URL.Query().Get("editing") == "true"

	segments, err := h.documentSvc.Segments(r.Context(), sessionID, editing)
	if err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"segments": segments})
}

// Export handles GET /v1/documents/sessions/{sessionId}/export?format=text
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	exporter, err := export.For(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.documentSvc.ExportText(r.Context(), sessionID)
	if err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	data, err := exporter.Render("document", text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=document.%s", exporter.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SetValue handles PUT /v1/documents/sessions/{sessionId}/values
func (h *DocumentHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SetValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.documentSvc.SetValue(r.Context(), sessionID, req.Key, req.Value); err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reset handles DELETE /v1/documents/sessions/{sessionId}/values
func (h *DocumentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.documentSvc.Reset(r.Context(), sessionID); err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Save handles POST /v1/documents/sessions/{sessionId}/save
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.documentSvc.Save(r.Context(), sessionID); err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// SaveRawText handles POST /v1/documents/sessions/{sessionId}/raw-text
func (h *DocumentHandler) SaveRawText(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SaveRawTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.documentSvc.SaveRawText(r.Context(), sessionID, req.Text); err != nil {
		writeError(w, documentErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// CloseSession handles DELETE /v1/documents/sessions/{sessionId}
func (h *DocumentHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	h.documentSvc.CloseSession(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func documentErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrResponseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
