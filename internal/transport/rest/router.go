package rest

import (
	"formdocs/internal/service"
	"formdocs/internal/transport/rest/handler"
	"formdocs/internal/transport/rest/middleware"
	"formdocs/internal/transport/ws"

	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	FormService     *service.FormService
	TemplateService *service.TemplateService
	ResponseService *service.ResponseService
	DocumentService *service.DocumentService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService, c.ResponseService)
	templateHandler := handler.NewTemplateHandler(c.TemplateService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	documentHandler := handler.NewDocumentHandler(c.DocumentService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/responses", formHandler.SubmitResponse).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/subscribe", wsHandler.Subscribe).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authRoutes := v1.NewRoute().Subrouter()
	authRoutes.Use(authMW.RequireUser)

	authRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	authRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	authRoutes.HandleFunc("/forms/{formId}/fields/reorder", formHandler.MoveField).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/forms/{formId}/responses", responseHandler.ListByForm).Methods("GET", "OPTIONS")

	authRoutes.HandleFunc("/templates", templateHandler.Create).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/templates", templateHandler.List).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/templates/{templateId}", templateHandler.Update).Methods("PUT", "OPTIONS")
	authRoutes.HandleFunc("/templates/{templateId}", templateHandler.Delete).Methods("DELETE", "OPTIONS")
	authRoutes.HandleFunc("/templates/{templateId}/placeholders", templateHandler.Placeholders).Methods("GET", "OPTIONS")

	authRoutes.HandleFunc("/responses/{responseId}", responseHandler.Get).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/responses/{responseId}", responseHandler.Delete).Methods("DELETE", "OPTIONS")

	authRoutes.HandleFunc("/documents/sessions", documentHandler.CreateSession).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}", documentHandler.CloseSession).Methods("DELETE", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/segments", documentHandler.Segments).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/export", documentHandler.Export).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/values", documentHandler.SetValue).Methods("PUT", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/values", documentHandler.Reset).Methods("DELETE", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/save", documentHandler.Save).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/documents/sessions/{sessionId}/raw-text", documentHandler.SaveRawText).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
