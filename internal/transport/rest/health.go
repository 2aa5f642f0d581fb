package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const (
	dbConnected    = "Connected"
	dbDisconnected = "Disconnected"
)

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

type HealthHandler struct {
	db          *sql.DB
	environment string
}

func NewHealthHandler(db *sql.DB, environment string) *HealthHandler {
	return &HealthHandler{db: db, environment: environment}
}

// healthCheckHandler reports liveness plus database reachability. The
// endpoint always answers 200; a broken database only flips the field.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := dbConnected
	if err := h.db.PingContext(ctx); err != nil {
		database = dbDisconnected
	}

	resp := HealthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC(),
		Environment: h.environment,
		Database:    database,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
