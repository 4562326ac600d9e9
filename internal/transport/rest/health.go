package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finledger/ledger-engine/internal"
)

type componentState string

const (
	componentUp   componentState = "up"
	componentDown componentState = "down"
)

type componentCheck struct {
	State     componentState `json:"state"`
	Detail    string         `json:"detail,omitempty"`
	LatencyMs int64          `json:"latency_ms"`
}

type healthReport struct {
	Status     componentState            `json:"status"`
	CheckedAt  time.Time                 `json:"checked_at"`
	Components map[string]componentCheck `json:"components"`
}

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// pingHandler answers liveness: the process is up and serving requests.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// healthCheckHandler answers readiness: the ledger database is reachable
// and carries a migrated schema. Any component down means 503.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]componentCheck{
		"database":   h.checkDatabase(ctx),
		"migrations": h.checkMigrations(ctx),
	}

	status := componentUp
	statusCode := http.StatusOK
	for _, c := range components {
		if c.State == componentDown {
			status = componentDown
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(healthReport{
		Status:     status,
		CheckedAt:  time.Now(),
		Components: components,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) componentCheck {
	start := time.Now()
	err := h.db.PingContext(ctx)

	check := componentCheck{State: componentUp, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.State = componentDown
		check.Detail = err.Error()
	}
	return check
}

// checkMigrations reads the goose version table; a missing table means the
// schema was never migrated and the service cannot serve ledger traffic.
func (h *HealthHandler) checkMigrations(ctx context.Context) componentCheck {
	start := time.Now()

	var version int64
	err := h.db.QueryRowContext(ctx,
		"SELECT version_id FROM goose_db_version ORDER BY id DESC LIMIT 1").Scan(&version)

	check := componentCheck{State: componentUp, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.State = componentDown
		check.Detail = err.Error()
		return check
	}
	check.Detail = fmt.Sprintf("schema version %d", version)
	return check
}
