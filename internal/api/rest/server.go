package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/troyes-analytics/effectif/internal/metrics"
)

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler) *Server {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check and Prometheus metrics
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/login", handler.Login).Methods("POST")

	// Everything below requires a session token
	protected := api.NewRoute().Subrouter()
	protected.Use(handler.AuthMiddleware)
	protected.HandleFunc("/squad", handler.GetSquad).Methods("GET")
	protected.HandleFunc("/squad/stats", handler.GetSquadStats).Methods("GET")
	protected.HandleFunc("/squad/export.csv", handler.ExportCSV).Methods("GET")
	protected.HandleFunc("/squad/export.xlsx", handler.ExportXLSX).Methods("GET")
	protected.HandleFunc("/squad/refresh", handler.TriggerRefresh).Methods("POST")
	protected.HandleFunc("/squad/refresh/status", handler.RefreshStatus).Methods("GET")
	protected.HandleFunc("/logout", handler.Logout).Methods("POST")

	// Preflight requests need a matching route so the CORS middleware runs;
	// it answers them before this handler is reached.
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return &Server{
		port: port,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
