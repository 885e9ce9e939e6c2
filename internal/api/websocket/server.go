package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/troyes-analytics/effectif/internal/acquire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server represents the WebSocket server
type Server struct {
	port    string
	server  *http.Server
	hub     *Hub
	hubCtx  context.Context
	stopHub context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		hub:     NewHub(),
		hubCtx:  ctx,
		stopHub: cancel,
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run(s.hubCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/squad", s.handleSquad)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleSquad handles WebSocket connections for squad refresh events
func (s *Server) handleSquad(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := newClient(s.hub, conn)
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastRefresh notifies every connected client that a dataset refresh
// completed. Events queued before Start are delivered once the hub runs.
func (s *Server) BroadcastRefresh(result *acquire.Result) {
	event := map[string]interface{}{
		"type":         "squad_refresh",
		"source":       result.Source,
		"player_count": result.Dataset.Len(),
		"acquired_at":  result.AcquiredAt.Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] ⚠️  marshal refresh event failed: %v", err)
		return
	}
	s.hub.Broadcast(payload)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopHub()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
