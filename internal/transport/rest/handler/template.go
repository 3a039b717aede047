package handler

import (
	"formdocs/internal/model"
	"formdocs/internal/service"
	"formdocs/internal/transport/rest/middleware"

	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// TemplateHandler handles document template endpoints
type TemplateHandler struct {
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// SaveTemplateRequest is the request body for creating or updating a template
type SaveTemplateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl := &model.Template{
		OwnerID: userID,
		Title:   req.Title,
		Content: req.Content,
	}

	id, err := h.templateSvc.Create(r.Context(), tpl)
	if err != nil {
		writeError(w, templateErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"templateId": id})
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	templates, err := h.templateSvc.GetByOwnerID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// Get handles GET /v1/templates/{templateId}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.templateSvc.GetByID(r.Context(), templateID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Placeholders handles GET /v1/templates/{templateId}/placeholders
func (h *TemplateHandler) Placeholders(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	names, err := h.templateSvc.Placeholders(r.Context(), templateID)
	if err != nil {
		writeError(w, templateErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"placeholders": names})
}

// Update handles PUT /v1/templates/{templateId}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl := &model.Template{
		ID:      templateID,
		OwnerID: userID,
		Title:   req.Title,
		Content: req.Content,
	}

	if err := h.templateSvc.Update(r.Context(), userID, tpl); err != nil {
		writeError(w, templateErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Delete handles DELETE /v1/templates/{templateId}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.templateSvc.Delete(r.Context(), userID, templateID); err != nil {
		writeError(w, templateErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func templateErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrMalformedTemplate),
		errors.Is(err, service.ErrUntitledTemplate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
