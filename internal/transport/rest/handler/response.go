package handler

import (
	"formdocs/internal/service"

	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// ResponseHandler handles response retrieval endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// ListByForm handles GET /v1/forms/{formId}/responses
func (h *ResponseHandler) ListByForm(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	responses, err := h.responseSvc.GetByFormID(r.Context(), formID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := h.responseSvc.CountByFormID(r.Context(), formID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses, "count": count})
}

// Get handles GET /v1/responses/{responseId}
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]

	resp, err := h.responseSvc.GetByID(r.Context(), responseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp == nil {
		writeError(w, http.StatusNotFound, "response not found")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /v1/responses/{responseId}
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]

	if err := h.responseSvc.Delete(r.Context(), responseID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrResponseNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
