package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// Pinger reports database reachability. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthCheck probes one dependency. issue is reported when it fails.
type healthCheck struct {
	name  string
	issue string
	probe func(ctx context.Context) error
}

// HealthHandler reports whether the database and the vector index are usable.
// The generator is not probed: a failed generation already degrades to the
// retry answer.
type HealthHandler struct {
	checks  []healthCheck
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler that pings db and requires
// collectionName to exist in vectorStore.
func NewHealthHandler(vectorStore vectorstore.VectorStore, db Pinger, collectionName string) *HealthHandler {
	return &HealthHandler{
		checks: []healthCheck{
			{name: "database", issue: "database_unavailable", probe: func(ctx context.Context) error {
				return db.PingContext(ctx)
			}},
			{name: "vector_store", issue: "vector_store_unavailable", probe: func(ctx context.Context) error {
				exists, err := vectorStore.CollectionExists(ctx, collectionName)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("collection %q does not exist", collectionName)
				}
				return nil
			}},
		},
		timeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the database and the vector index.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for _, c := range h.checks {
		if err := c.probe(checkCtx); err != nil {
			logger.WarnContext(ctx, "health check failed", "check", c.name, "error", err)
			response.Checks[c.name] = "error"
			response.Issues = append(response.Issues, c.issue)
			continue
		}
		response.Checks[c.name] = "ok"
	}

	httpStatus := http.StatusOK
	if len(response.Issues) > 0 {
		response.Status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(ctx, w, httpStatus, response)
}
