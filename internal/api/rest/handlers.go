package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/troyes-analytics/effectif/internal/appstate"
	"github.com/troyes-analytics/effectif/internal/export"
	"github.com/troyes-analytics/effectif/internal/scheduler"
	"github.com/troyes-analytics/effectif/internal/service"
	"github.com/troyes-analytics/effectif/internal/session"
)

// LiveDataThreshold separates a real scrape from the built-in fallback
// roster, which always carries fewer records than a full squad page.
const LiveDataThreshold = 20

// Credentials is the single login pair accepted by the API.
type Credentials struct {
	Username string
	Password string
}

// Configured reports whether both halves of the pair are set.
func (c Credentials) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	squads    *service.SquadService
	refresher *scheduler.Refresher
	sessions  *session.Store
	state     *appstate.State
	creds     Credentials
}

// NewHandler creates a new handler
func NewHandler(squads *service.SquadService, refresher *scheduler.Refresher, sessions *session.Store, state *appstate.State, creds Credentials) *Handler {
	return &Handler{
		squads:    squads,
		refresher: refresher,
		sessions:  sessions,
		state:     state,
		creds:     creds,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "effectif",
		"version": "1.0.0",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the configured credentials and issues a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.creds.Configured() {
		respondError(w, http.StatusServiceUnavailable, "Login credentials not configured", nil)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid login payload", err)
		return
	}

	if req.Username != h.creds.Username || req.Password != h.creds.Password {
		respondError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}

	token := h.sessions.Issue()
	h.state.MarkAuthenticated()

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout revokes the caller's session token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Revoke(token)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// AuthMiddleware rejects requests without a valid bearer token
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" || !h.sessions.Valid(token) {
			respondError(w, http.StatusUnauthorized, "Missing or invalid session token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

// GetSquad returns the current roster, optionally filtered
func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	result := h.squads.Result()
	players := h.squads.Players(filterFromQuery(r))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"meta": map[string]interface{}{
			"count":       len(players),
			"total_count": result.Dataset.Len(),
			"source":      result.Source,
			"live_data":   result.Dataset.Len() > LiveDataThreshold,
			"acquired_at": result.AcquiredAt.Format(time.RFC3339),
			"attempts":    result.Attempts,
		},
	})
}

// GetSquadStats returns aggregates over the filtered roster view
func (h *Handler) GetSquadStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.squads.Stats(filterFromQuery(r)))
}

// ExportCSV streams the filtered roster as a CSV download
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	players := h.squads.Players(filterFromQuery(r))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename("csv")))

	if err := export.WriteCSV(w, players); err != nil {
		log.Printf("[rest] ⚠️  csv export failed: %v", err)
	}
}

// ExportXLSX returns the filtered roster as an Excel download
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	players := h.squads.Players(filterFromQuery(r))

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, players); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename("xlsx")))
	w.Write(buf.Bytes())
}

// TriggerRefresh starts a background dataset refresh
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.refresher.TriggerRefresh() {
		respondError(w, http.StatusConflict, "A refresh is already running", nil)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"message": "Refresh started"})
}

// RefreshStatus reports the state of the most recent refresh job
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.refresher.RefreshStatus())
}

// filterFromQuery builds a squad filter from query parameters
func filterFromQuery(r *http.Request) service.Filter {
	q := r.URL.Query()
	filter := service.Filter{Position: q.Get("position")}

	if v, err := strconv.Atoi(q.Get("min_age")); err == nil && v > 0 {
		filter.MinAge = v
	}
	if v, err := strconv.Atoi(q.Get("max_age")); err == nil && v > 0 {
		filter.MaxAge = v
	}
	if v, err := strconv.ParseFloat(q.Get("min_value"), 64); err == nil && v > 0 {
		filter.MinValue = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_value"), 64); err == nil && v > 0 {
		filter.MaxValue = v
	}
	return filter
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
