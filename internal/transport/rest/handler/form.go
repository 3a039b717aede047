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

// FormHandler handles form endpoints
type FormHandler struct {
	formSvc     *service.FormService
	responseSvc *service.ResponseService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, responseSvc *service.ResponseService) *FormHandler {
	return &FormHandler{
		formSvc:     formSvc,
		responseSvc: responseSvc,
	}
}

// SaveFormRequest is the request body for creating or updating a form
type SaveFormRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Fields      []model.FieldDescriptor `json:"fields"`
}

// MoveFieldRequest is the request body for reordering a field
type MoveFieldRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Fields:      req.Fields,
	}

	id, err := h.formSvc.Create(r.Context(), form)
	if err != nil {
		writeError(w, formErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"formId": id})
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forms, err := h.formSvc.GetByOwnerID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := h.formSvc.CountByOwnerID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms, "count": count})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	form, err := h.formSvc.GetByID(r.Context(), formID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if form == nil {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		ID:          formID,
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Fields:      req.Fields,
	}

	if err := h.formSvc.Update(r.Context(), userID, form); err != nil {
		writeError(w, formErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// MoveField handles POST /v1/forms/{formId}/fields/reorder
func (h *FormHandler) MoveField(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req MoveFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.MoveField(r.Context(), userID, formID, req.From, req.To)
	if err != nil {
		writeError(w, formErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.formSvc.Delete(r.Context(), userID, formID); err != nil {
		writeError(w, formErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SubmitResponse handles POST /v1/forms/{formId}/responses (public)
func (h *FormHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	var req struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := &model.Response{
		FormID: formID,
		Data:   req.Data,
	}

	id, err := h.responseSvc.Submit(r.Context(), resp)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrFormNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrMissingRequired):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"responseId": id})
}

func formErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUntitledForm),
		errors.Is(err, service.ErrUnlabeledField),
		errors.Is(err, service.ErrDuplicateField),
		errors.Is(err, service.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
